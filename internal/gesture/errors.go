package gesture

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/internal/session"
)

// ErrInvalidGesture is used for malformed requests and unsupported
// target/phase combinations.
var ErrInvalidGesture = errors.New("invalid gesture")

// ToStatusError maps editor and session errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, session.ErrSessionExists):
		return status.Error(codes.AlreadyExists, err.Error())

	case errors.Is(err, ErrInvalidGesture),
		errors.Is(err, session.ErrInvalidShape):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, editor.ErrIndexOutOfRange):
		return status.Error(codes.OutOfRange, err.Error())

	case errors.Is(err, editor.ErrClosed):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
