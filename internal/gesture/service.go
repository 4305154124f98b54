// Package gesture exposes edit sessions over gRPC so a remote host can
// forward its map gesture callbacks and read back the resulting scene.
package gesture

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/internal/session"
	"github.com/signalsfoundry/mapdraw/internal/surface"
)

// Service implements GestureServiceServer on top of a session store.
type Service struct {
	store *session.Store
	log   logging.Logger
}

var _ GestureServiceServer = (*Service)(nil)

// NewService wires a Service to the shared store and optional logger.
func NewService(store *session.Store, log logging.Logger) *Service {
	if log == nil {
		log = logging.Noop()
	}
	return &Service{store: store, log: log}
}

// OpenSession creates a session and returns its first scene.
func (s *Service) OpenSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := openFromStruct(in)
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := StartChildSpan(ctx, "gesture.OpenSession", "session", req.ID,
		attribute.String("shape", req.Shape),
		attribute.Int("vertices", len(req.Coordinates)),
	)
	defer span.End()

	sess, err := s.store.Open(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, ToStatusError(err)
	}
	return s.scene(sess, nil)
}

// Dispatch applies one gesture and returns the updated scene.
func (s *Service) Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	g, err := gestureFromStruct(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	sess, err := s.store.Get(g.SessionID)
	if err != nil {
		return nil, ToStatusError(err)
	}
	ctx = logging.ContextWithSessionID(ctx, g.SessionID)
	log := logging.FromContext(ctx, s.log)

	ctx, span := StartChildSpan(ctx, "gesture.Dispatch", "session", g.SessionID,
		attribute.String("target", string(g.Target)),
		attribute.String("phase", string(g.Phase)),
		attribute.Int("index", g.Index),
	)
	defer span.End()

	out, err := s.scene(sess, func(ed *editor.Editor) error { return apply(ed, g) })
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug(ctx, "gesture rejected",
			logging.String("target", string(g.Target)),
			logging.String("phase", string(g.Phase)),
			logging.Int("index", g.Index),
			logging.Err(err),
		)
		return nil, err
	}
	return out, nil
}

// ApplyOverrides pushes partial styles to the session's live handles.
func (s *Service) ApplyOverrides(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, overrides, err := overridesFromStruct(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, ToStatusError(err)
	}
	_, span := StartChildSpan(ctx, "gesture.ApplyOverrides", "session", id,
		attribute.Bool("shape", overrides.Shape != nil),
		attribute.Bool("vertex", overrides.Vertex != nil),
		attribute.Bool("midpoint", overrides.Midpoint != nil),
	)
	defer span.End()

	return s.scene(sess, func(ed *editor.Editor) error { return ed.ApplyOverrides(overrides) })
}

// GetScene returns the current scene without changing anything.
func (s *Service) GetScene(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionIDFromStruct(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return s.scene(sess, nil)
}

// CloseSession removes a session.
func (s *Service) CloseSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionIDFromStruct(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if err := s.store.Close(ctx, id); err != nil {
		return nil, ToStatusError(err)
	}
	return &structpb.Struct{}, nil
}

// scene runs fn, if any, against the session and snapshots the result in
// the same critical section.
func (s *Service) scene(sess *session.Session, fn func(*editor.Editor) error) (*structpb.Struct, error) {
	var sc Scene
	err := sess.Do(func(ed *editor.Editor, surf *surface.Memory) error {
		if fn != nil {
			if err := fn(ed); err != nil {
				return err
			}
		}
		data, err := surf.GeoJSON()
		if err != nil {
			return fmt.Errorf("render scene: %w", err)
		}
		sc = Scene{
			SessionID:   sess.ID(),
			Shape:       ed.Topology().Name(),
			Revision:    ed.Revision(),
			Coordinates: ed.Coordinates(),
			Midpoints:   ed.Midpoints(),
			GeoJSON:     string(data),
		}
		if c, ok := ed.Center(); ok {
			sc.Center = &c
		}
		return nil
	})
	if err != nil {
		return nil, ToStatusError(err)
	}
	out, err := sceneToStruct(sc)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

// apply routes a gesture to the matching editor operation.
func apply(ed *editor.Editor, g Gesture) error {
	switch g.Target {
	case TargetVertex:
		switch g.Phase {
		case PhaseStart:
			return ed.BeginVertexDrag(g.Index, g.Coordinate)
		case PhaseMove:
			return ed.DragVertex(g.Index, g.Coordinate)
		case PhaseEnd:
			return ed.EndVertexDrag(g.Index, g.Coordinate)
		case PhasePress:
			return ed.DeleteVertex(g.Index)
		}
	case TargetMidpoint:
		switch g.Phase {
		case PhaseStart:
			// Nothing to prepare; the outline preview starts on the first move.
			return nil
		case PhaseMove:
			return ed.DragMidpoint(g.Index, g.Coordinate)
		case PhaseEnd:
			return ed.EndMidpointDrag(g.Index, g.Coordinate)
		}
	case TargetShape:
		switch g.Phase {
		case PhaseStart:
			return ed.BeginShapeDrag(g.Coordinate)
		case PhaseMove:
			return ed.DragShape(g.Coordinate)
		case PhaseEnd:
			return ed.EndShapeDrag(g.Coordinate)
		}
	}
	return fmt.Errorf("%w: %s %s is not supported", ErrInvalidGesture, g.Phase, g.Target)
}
