package editor

import (
	"github.com/signalsfoundry/mapdraw/core"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/model"
)

// Option customises Editor construction.
type Option func(*settings)

type settings struct {
	id          string
	coordinates []model.Coordinate
	draggable   bool
	zIndex      int
	shapeStyle  model.ShapeStyle

	anchor        model.Anchor
	vertexSize    model.Size
	midpointSize  model.Size
	vertexStyle   *model.HandleStyle
	midpointStyle *model.HandleStyle

	vertexRenderer   Renderer
	midpointRenderer Renderer

	metric      core.Metric
	centroid    core.Centroid
	clearOnHide bool

	callbacks Callbacks
	log       logging.Logger
	metrics   MetricsRecorder
}

func defaultSettings() settings {
	return settings{
		draggable:  true,
		zIndex:     1,
		shapeStyle: model.DefaultShapeStyle(),
		anchor:     model.CenterAnchor,
		vertexSize: model.Size{Width: 30, Height: 30},
		metric:     core.Spherical{},
		centroid:   core.BoundsCenter{},
		log:        logging.Noop(),
	}
}

// WithID names the editor; the ID prefixes every marker key.
func WithID(id string) Option {
	return func(s *settings) { s.id = id }
}

// WithCoordinates seeds the vertex list. The slice is copied.
func WithCoordinates(coords []model.Coordinate) Option {
	return func(s *settings) { s.coordinates = model.CloneCoordinates(coords) }
}

// WithDraggable enables or disables whole-shape dragging and the center
// handle. Polylines ignore it.
func WithDraggable(draggable bool) Option {
	return func(s *settings) { s.draggable = draggable }
}

// WithZIndex sets the outline z-index; handles sit one above it.
func WithZIndex(z int) Option {
	return func(s *settings) { s.zIndex = z }
}

// WithShapeStyle merges style onto the default outline style.
func WithShapeStyle(style model.ShapeStyle) Option {
	return func(s *settings) { s.shapeStyle = s.shapeStyle.Merge(style) }
}

// WithAnchor sets the fractional anchor shared by all handles.
func WithAnchor(anchor model.Anchor) Option {
	return func(s *settings) { s.anchor = anchor }
}

// WithVertexSize sets the vertex handle size. Unless WithMidpointSize is
// given, midpoint handles are half of it.
func WithVertexSize(size model.Size) Option {
	return func(s *settings) { s.vertexSize = size }
}

// WithMidpointSize sets the midpoint handle size explicitly.
func WithMidpointSize(size model.Size) Option {
	return func(s *settings) { s.midpointSize = size }
}

// WithVertexStyle merges style onto the default vertex dot.
func WithVertexStyle(style model.HandleStyle) Option {
	return func(s *settings) { s.vertexStyle = &style }
}

// WithMidpointStyle merges style onto the default midpoint dot.
func WithMidpointStyle(style model.HandleStyle) Option {
	return func(s *settings) { s.midpointStyle = &style }
}

// WithVertexRenderer replaces the default vertex dot with custom content.
func WithVertexRenderer(r Renderer) Option {
	return func(s *settings) { s.vertexRenderer = r }
}

// WithMidpointRenderer replaces the default midpoint dot with custom content.
func WithMidpointRenderer(r Renderer) Option {
	return func(s *settings) { s.midpointRenderer = r }
}

// WithMetric selects how midpoints are computed. It should match how the
// host draws edges.
func WithMetric(m core.Metric) Option {
	return func(s *settings) {
		if m != nil {
			s.metric = m
		}
	}
}

// WithCentroid selects how the center handle is placed.
func WithCentroid(c core.Centroid) Option {
	return func(s *settings) {
		if c != nil {
			s.centroid = c
		}
	}
}

// WithClearOnHide makes hidden markers drop their coordinate as well as
// their opacity. Set it for map backends that animate hidden markers.
func WithClearOnHide(clear bool) Option {
	return func(s *settings) { s.clearOnHide = clear }
}

// WithCallbacks attaches edit callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(s *settings) { s.callbacks = cb }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetricsRecorder attaches an optional recorder for edit counts.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *settings) { s.metrics = m }
}

func (s settings) midpointHandleSize() model.Size {
	if !s.midpointSize.IsZero() {
		return s.midpointSize
	}
	return s.vertexSize.Scale(0.5)
}

func (s settings) midpointOffset() model.Offset {
	if !s.midpointSize.IsZero() {
		return core.AnchorOffset(s.anchor, s.midpointSize, 1)
	}
	return core.AnchorOffset(s.anchor, s.vertexSize, 0.5)
}

func (s settings) resolvedVertexStyle() model.HandleStyle {
	style := model.DefaultVertexStyle(s.vertexSize)
	if s.vertexStyle != nil {
		style = style.Merge(*s.vertexStyle)
	}
	return style
}

func (s settings) resolvedMidpointStyle() model.HandleStyle {
	style := model.DefaultMidpointStyle(s.midpointHandleSize())
	if s.midpointStyle != nil {
		style = style.Merge(*s.midpointStyle)
	}
	return style
}
