package gesture

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/internal/observability"
)

const tracerName = "github.com/signalsfoundry/mapdraw/internal/gesture"

// TracingUnaryServerInterceptor enriches RPC spans with standard attributes and
// ensures a server span exists when the otelgrpc stats handler is not configured.
func TracingUnaryServerInterceptor() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		service, method := observability.SplitMethod(info.FullMethod)
		span := trace.SpanFromContext(ctx)
		created := false
		if !span.SpanContext().IsValid() {
			spanName := fmt.Sprintf("Gesture/%s/%s", service, method)
			ctx, span = tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer))
			created = true
		} else {
			span.SetName(fmt.Sprintf("Gesture/%s/%s", service, method))
		}

		attrs := []attribute.KeyValue{
			attribute.String("rpc.system", "grpc"),
			attribute.String("rpc.service", service),
			attribute.String("rpc.method", method),
			attribute.String("rpc.full_method", strings.TrimPrefix(info.FullMethod, "/")),
		}
		if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
			attrs = append(attrs, attribute.String("request_id", reqID))
		}
		if sessionID := logging.SessionIDFromContext(ctx); sessionID != "" {
			attrs = append(attrs, attribute.String("session_id", sessionID))
		}
		if st, ok := req.(*structpb.Struct); ok {
			attrs = append(attrs, gestureAttributes(st)...)
		}
		span.SetAttributes(attrs...)

		resp, err := handler(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("rpc.grpc.status", status.Code(err).String()))
		}
		if st, ok := resp.(*structpb.Struct); ok {
			if rev, ok := st.GetFields()["revision"]; ok {
				span.SetAttributes(attribute.Int64("scene.revision", int64(rev.GetNumberValue())))
			}
		}

		if created {
			span.End()
		}
		return resp, err
	}
}

// StartChildSpan starts a child span for internal operations within handlers.
// entityType and entityID are optional attributes to aid trace navigation.
func StartChildSpan(ctx context.Context, name, entityType, entityID string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	attrs := make([]attribute.KeyValue, 0, len(extra)+2)
	if entityType != "" {
		attrs = append(attrs, attribute.String("entity_type", entityType))
	}
	if entityID != "" {
		attrs = append(attrs, attribute.String("entity_id", entityID))
	}
	attrs = append(attrs, extra...)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// gestureAttributes describes the gesture or the shape being opened. Fields
// absent from the request are skipped.
func gestureAttributes(st *structpb.Struct) []attribute.KeyValue {
	f := st.GetFields()
	var attrs []attribute.KeyValue
	if v, ok := f["target"]; ok {
		attrs = append(attrs, attribute.String("gesture.target", strings.ToLower(v.GetStringValue())))
	}
	if v, ok := f["phase"]; ok {
		attrs = append(attrs, attribute.String("gesture.phase", strings.ToLower(v.GetStringValue())))
	}
	if v, ok := f["index"]; ok {
		attrs = append(attrs, attribute.Int64("gesture.index", int64(v.GetNumberValue())))
	}
	if v, ok := f["shape"]; ok && v.GetStringValue() != "" {
		attrs = append(attrs, attribute.String("shape", strings.ToLower(v.GetStringValue())))
	}
	if v, ok := f["coordinates"]; ok {
		attrs = append(attrs, attribute.Int("vertices", len(v.GetListValue().GetValues())))
	}
	return attrs
}
