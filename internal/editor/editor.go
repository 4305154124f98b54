// Package editor keeps the vertex handles, midpoint handles and outline of
// an editable polygon or polyline consistent while the user drags, inserts
// and deletes points.
//
// An Editor is driven by the host's gesture callbacks and is not safe for
// concurrent use. Every method runs to completion before returning.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/signalsfoundry/mapdraw/core"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/model"
)

var (
	// ErrIndexOutOfRange indicates a vertex or edge index outside the shape.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrClosed indicates the editor has been closed.
	ErrClosed = errors.New("editor closed")
)

// Editor owns the canonical vertex list of one shape and the markers that
// mirror it on a Surface.
type Editor struct {
	id      string
	topo    Topology
	surface Surface
	cfg     settings

	// vertices is the source of truth. Callers only ever see copies.
	vertices []model.Coordinate

	outline         Outline
	vertexHandles   handleSet
	midpointHandles handleSet
	center          *handle

	// Live presentation, including overrides, reused on every rebuild.
	shapeStyle    model.ShapeStyle
	vertexStyle   model.HandleStyle
	midpointStyle model.HandleStyle

	// revision increases on every structural change. Live drag ticks leave
	// it alone.
	revision uint64

	shapeDragging bool
	closed        bool

	log logging.Logger
}

// NewPolygon builds an editor for a closed ring of vertices.
func NewPolygon(surface Surface, opts ...Option) *Editor {
	return New(Ring, surface, opts...)
}

// NewPolyline builds an editor for an open chain of vertices.
func NewPolyline(surface Surface, opts ...Option) *Editor {
	return New(Chain, surface, opts...)
}

// New builds an editor for the given topology and renders it on surface.
func New(topo Topology, surface Surface, opts ...Option) *Editor {
	cfg := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.id == "" {
		cfg.id = logging.NewID()
	}

	e := &Editor{
		id:            cfg.id,
		topo:          topo,
		surface:       surface,
		cfg:           cfg,
		vertices:      model.CloneCoordinates(cfg.coordinates),
		shapeStyle:    cfg.shapeStyle,
		vertexStyle:   cfg.resolvedVertexStyle(),
		midpointStyle: cfg.resolvedMidpointStyle(),
		log: cfg.log.With(
			logging.String("shape", topo.Name()),
			logging.String("shape_id", cfg.id),
		),
	}
	e.outline = surface.AddOutline(OutlineSpec{
		Key:         fmt.Sprintf("%s-editable-%s", e.id, topo.Name()),
		Kind:        topo.Outline(),
		Coordinates: model.CloneCoordinates(e.vertices),
		Style:       e.shapeStyle,
		ZIndex:      cfg.zIndex,
	})
	e.rebuild()
	return e
}

// ID returns the editor's identifier.
func (e *Editor) ID() string { return e.id }

// Topology returns the editor's topology.
func (e *Editor) Topology() Topology { return e.topo }

// Revision returns the structural revision counter.
func (e *Editor) Revision() uint64 { return e.revision }

// Len returns the number of vertices.
func (e *Editor) Len() int { return len(e.vertices) }

// ShapeDragging reports whether a whole-shape drag is in progress.
func (e *Editor) ShapeDragging() bool { return e.shapeDragging }

// Closed reports whether Close has been called.
func (e *Editor) Closed() bool { return e.closed }

// Coordinates returns a copy of the vertex list.
func (e *Editor) Coordinates() []model.Coordinate {
	return model.CloneCoordinates(e.vertices)
}

// Midpoints returns the midpoint of every edge, derived from the current
// vertices.
func (e *Editor) Midpoints() []model.Coordinate {
	n := len(e.vertices)
	out := make([]model.Coordinate, e.topo.EdgeCount(n))
	for i := range out {
		out[i] = e.edgeMidpoint(i)
	}
	return out
}

// Center returns the whole-shape drag anchor. ok is false when the shape
// has no center handle.
func (e *Editor) Center() (c model.Coordinate, ok bool) {
	if !e.hasCenter() || len(e.vertices) == 0 {
		return model.Coordinate{}, false
	}
	return e.cfg.centroid.Center(e.vertices), true
}

// BeginVertexDrag hides the two midpoint handles next to vertex i so they
// do not trail behind the dragged vertex.
func (e *Editor) BeginVertexDrag(i int, c model.Coordinate) error {
	if err := e.checkVertex(i); err != nil {
		return err
	}
	lower, upper := e.topo.FlankingEdges(i, len(e.vertices))
	for _, edge := range []int{lower, upper} {
		if h := e.midpointHandles.at(edge); h != nil {
			h.hide(e.cfg.clearOnHide)
		}
	}
	e.emit(e.cfg.callbacks.OnEditStart, KindVertexMoved, i)
	return nil
}

// DragVertex moves vertex i to c and redraws the outline. It is called on
// every drag tick and never rebuilds handles.
func (e *Editor) DragVertex(i int, c model.Coordinate) error {
	if err := e.checkVertex(i); err != nil {
		return err
	}
	e.vertices[i] = c
	e.vertexHandles[i].moveTo(c)
	e.outline.SetCoordinates(model.CloneCoordinates(e.vertices))
	e.emit(e.cfg.callbacks.OnEdit, KindVertexMoved, i)
	return nil
}

// EndVertexDrag commits vertex i at c, re-centers and shows its flanking
// midpoint handles and moves the center handle.
func (e *Editor) EndVertexDrag(i int, c model.Coordinate) error {
	if err := e.checkVertex(i); err != nil {
		return err
	}
	e.vertices[i] = c
	e.vertexHandles[i].moveTo(c)
	e.outline.SetCoordinates(model.CloneCoordinates(e.vertices))

	lower, upper := e.topo.FlankingEdges(i, len(e.vertices))
	for _, edge := range []int{lower, upper} {
		if h := e.midpointHandles.at(edge); h != nil {
			h.show(e.edgeMidpoint(edge))
		}
	}
	e.updateCenter()

	e.record(KindVertexMoved)
	e.log.Debug(context.Background(), "vertex moved",
		logging.Int("index", i),
		logging.Float64("lat", c.Latitude),
		logging.Float64("lng", c.Longitude),
	)
	e.emit(e.cfg.callbacks.OnEditEnd, KindVertexMoved, i)
	return nil
}

// DeleteVertex removes vertex i. Shapes already at their minimum vertex
// count are left untouched and no callback fires.
func (e *Editor) DeleteVertex(i int) error {
	if err := e.checkVertex(i); err != nil {
		return err
	}
	if len(e.vertices) <= e.topo.MinVertices() {
		if e.cfg.metrics != nil {
			e.cfg.metrics.RecordNoopDelete(e.topo.Name())
		}
		e.log.Debug(context.Background(), "delete ignored at minimum vertex count",
			logging.Int("index", i),
			logging.Int("vertices", len(e.vertices)),
		)
		return nil
	}

	e.vertices = append(e.vertices[:i], e.vertices[i+1:]...)
	e.rebuild()

	e.record(KindVertexDeleted)
	e.log.Debug(context.Background(), "vertex deleted",
		logging.Int("index", i),
		logging.Int("vertices", len(e.vertices)),
	)
	e.emit(e.cfg.callbacks.OnEditEnd, KindVertexDeleted, i)
	return nil
}

// DragMidpoint previews promoting midpoint i to a vertex at c. Only the
// outline changes; nothing is committed.
func (e *Editor) DragMidpoint(i int, c model.Coordinate) error {
	if err := e.checkEdge(i); err != nil {
		return err
	}
	e.midpointHandles[i].moveTo(c)
	e.outline.SetCoordinates(insertAt(e.vertices, i+1, c))
	return nil
}

// EndMidpointDrag inserts c as a new vertex right after vertex i. The
// handle arena is rebuilt, producing two new midpoints on either side.
func (e *Editor) EndMidpointDrag(i int, c model.Coordinate) error {
	if err := e.checkEdge(i); err != nil {
		return err
	}
	e.vertices = insertAt(e.vertices, i+1, c)
	e.rebuild()

	e.record(KindVertexInserted)
	e.log.Debug(context.Background(), "vertex inserted",
		logging.Int("index", i+1),
		logging.Int("vertices", len(e.vertices)),
	)
	e.emit(e.cfg.callbacks.OnEditEnd, KindVertexInserted, i+1)
	return nil
}

// BeginShapeDrag hides every vertex and midpoint handle; while the whole
// shape moves only the outline and the center handle are shown. It is a
// no-op for shapes that cannot be translated.
func (e *Editor) BeginShapeDrag(c model.Coordinate) error {
	if e.closed {
		return ErrClosed
	}
	if !e.hasCenter() {
		return nil
	}
	e.shapeDragging = true
	e.vertexHandles.hideAll(e.cfg.clearOnHide)
	e.midpointHandles.hideAll(e.cfg.clearOnHide)
	e.emit(e.cfg.callbacks.OnEditStart, KindShapeTranslated, NoIndex)
	return nil
}

// DragShape translates every vertex so the shape's centroid lands on c.
func (e *Editor) DragShape(c model.Coordinate) error {
	if e.closed {
		return ErrClosed
	}
	if !e.hasCenter() || len(e.vertices) == 0 {
		return nil
	}
	e.translateTo(c)
	e.emit(e.cfg.callbacks.OnEdit, KindShapeTranslated, NoIndex)
	return nil
}

// EndShapeDrag commits the translation and rebuilds all handles at their
// new positions.
func (e *Editor) EndShapeDrag(c model.Coordinate) error {
	if e.closed {
		return ErrClosed
	}
	if !e.hasCenter() || len(e.vertices) == 0 {
		return nil
	}
	e.translateTo(c)
	e.shapeDragging = false
	e.rebuild()

	e.record(KindShapeTranslated)
	e.log.Debug(context.Background(), "shape translated",
		logging.Float64("lat", c.Latitude),
		logging.Float64("lng", c.Longitude),
	)
	e.emit(e.cfg.callbacks.OnEditEnd, KindShapeTranslated, NoIndex)
	return nil
}

// ApplyOverrides pushes presentation changes straight to the live outline
// and handles. Geometry and revision are not touched. The overrides are
// kept so handles created by later rebuilds look the same.
func (e *Editor) ApplyOverrides(o model.Overrides) error {
	if e.closed {
		return ErrClosed
	}
	if o.Shape != nil {
		e.shapeStyle = e.shapeStyle.Merge(*o.Shape)
		e.outline.ApplyStyle(*o.Shape)
	}
	if o.Vertex != nil {
		e.vertexStyle = e.vertexStyle.Merge(*o.Vertex)
		e.vertexHandles.applyStyle(*o.Vertex)
	}
	if o.Midpoint != nil {
		e.midpointStyle = e.midpointStyle.Merge(*o.Midpoint)
		e.midpointHandles.applyStyle(*o.Midpoint)
	}
	return nil
}

// SetCoordinates replaces the whole vertex list and rebuilds every handle.
// No callback fires.
func (e *Editor) SetCoordinates(coords []model.Coordinate) error {
	if e.closed {
		return ErrClosed
	}
	e.vertices = model.CloneCoordinates(coords)
	e.shapeDragging = false
	e.rebuild()
	return nil
}

// Close removes the outline and all handles from the surface. Later calls
// return ErrClosed.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.removeHandles()
	e.outline.Remove()
	e.closed = true
}

// rebuild discards every handle and creates a fresh set bound to the
// current vertex positions.
func (e *Editor) rebuild() {
	e.removeHandles()
	e.outline.SetCoordinates(model.CloneCoordinates(e.vertices))

	n := len(e.vertices)
	z := e.cfg.zIndex + 1
	vertexOffset := core.AnchorOffset(e.cfg.anchor, e.cfg.vertexSize, 1)

	e.vertexHandles = make(handleSet, n)
	for i, c := range e.vertices {
		spec := MarkerSpec{
			Key:        fmt.Sprintf("%s-vertex-%d", e.id, i),
			Role:       RoleVertex,
			Index:      i,
			Coordinate: c,
			Anchor:     e.cfg.anchor,
			Offset:     vertexOffset,
			Size:       e.cfg.vertexSize,
			Style:      e.vertexStyle,
			ZIndex:     z,
			Draggable:  true,
		}
		if e.cfg.vertexRenderer != nil {
			spec.Content = e.cfg.vertexRenderer(RoleVertex, i)
		}
		e.vertexHandles[i] = &handle{marker: e.surface.AddMarker(spec), coord: c, visible: true}
	}

	edges := e.topo.EdgeCount(n)
	e.midpointHandles = make(handleSet, edges)
	for i := 0; i < edges; i++ {
		c := e.edgeMidpoint(i)
		spec := MarkerSpec{
			Key:        fmt.Sprintf("%s-midpoint-vertex-%d", e.id, i),
			Role:       RoleMidpoint,
			Index:      i,
			Coordinate: c,
			Anchor:     e.cfg.anchor,
			Offset:     e.cfg.midpointOffset(),
			Size:       e.cfg.midpointHandleSize(),
			Style:      e.midpointStyle,
			ZIndex:     z,
			Draggable:  true,
		}
		if e.cfg.midpointRenderer != nil {
			spec.Content = e.cfg.midpointRenderer(RoleMidpoint, i)
		}
		e.midpointHandles[i] = &handle{marker: e.surface.AddMarker(spec), coord: c, visible: true}
	}

	if e.hasCenter() && n > 0 {
		c := e.cfg.centroid.Center(e.vertices)
		e.center = &handle{
			marker: e.surface.AddMarker(MarkerSpec{
				Key:        fmt.Sprintf("%s-center", e.id),
				Role:       RoleCenter,
				Index:      NoIndex,
				Coordinate: c,
				Anchor:     model.CenterAnchor,
				ZIndex:     z,
				Draggable:  true,
			}),
			coord:   c,
			visible: true,
		}
	}

	e.revision++
	if e.cfg.metrics != nil {
		e.cfg.metrics.RecordRebuild(e.topo.Name(), len(e.vertexHandles)+len(e.midpointHandles))
	}
}

func (e *Editor) removeHandles() {
	e.vertexHandles.removeAll()
	e.midpointHandles.removeAll()
	e.vertexHandles, e.midpointHandles = nil, nil
	if e.center != nil {
		e.center.marker.Remove()
		e.center = nil
	}
}

func (e *Editor) translateTo(c model.Coordinate) {
	e.vertices = core.Translate(e.vertices, c, e.cfg.centroid)
	e.outline.SetCoordinates(model.CloneCoordinates(e.vertices))
	if e.center != nil {
		e.center.moveTo(c)
	}
}

func (e *Editor) updateCenter() {
	if e.center == nil || len(e.vertices) == 0 {
		return
	}
	e.center.moveTo(e.cfg.centroid.Center(e.vertices))
}

func (e *Editor) hasCenter() bool {
	return e.cfg.draggable && e.topo.Translatable()
}

func (e *Editor) edgeMidpoint(edge int) model.Coordinate {
	a, b := e.topo.EdgeEnds(edge, len(e.vertices))
	return e.cfg.metric.Midpoint(e.vertices[a], e.vertices[b])
}

func (e *Editor) checkVertex(i int) error {
	if e.closed {
		return ErrClosed
	}
	if i < 0 || i >= len(e.vertices) {
		return fmt.Errorf("%w: vertex %d of %d", ErrIndexOutOfRange, i, len(e.vertices))
	}
	return nil
}

func (e *Editor) checkEdge(i int) error {
	if e.closed {
		return ErrClosed
	}
	if n := e.topo.EdgeCount(len(e.vertices)); i < 0 || i >= n {
		return fmt.Errorf("%w: midpoint %d of %d", ErrIndexOutOfRange, i, n)
	}
	return nil
}

func (e *Editor) record(kind EditKind) {
	if e.cfg.metrics != nil {
		e.cfg.metrics.RecordEdit(e.topo.Name(), kind.String())
	}
}

func (e *Editor) emit(fn func(EditEvent), kind EditKind, index int) {
	if fn == nil {
		return
	}
	fn(EditEvent{
		ShapeID:     e.id,
		Kind:        kind,
		Index:       index,
		Coordinates: model.CloneCoordinates(e.vertices),
	})
}

// insertAt returns a new slice with c inserted at position i.
func insertAt(coords []model.Coordinate, i int, c model.Coordinate) []model.Coordinate {
	out := make([]model.Coordinate, 0, len(coords)+1)
	out = append(out, coords[:i]...)
	out = append(out, c)
	return append(out, coords[i:]...)
}
