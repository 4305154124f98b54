package editor

import "github.com/signalsfoundry/mapdraw/model"

// EditKind says what an edit did to the vertex list.
type EditKind int

const (
	// KindVertexMoved: one vertex dragged to a new position.
	KindVertexMoved EditKind = iota
	// KindVertexInserted: a midpoint handle was promoted to a vertex.
	KindVertexInserted
	// KindVertexDeleted: a vertex was removed.
	KindVertexDeleted
	// KindShapeTranslated: every vertex moved by the same vector.
	KindShapeTranslated
)

func (k EditKind) String() string {
	switch k {
	case KindVertexMoved:
		return "vertex_moved"
	case KindVertexInserted:
		return "vertex_inserted"
	case KindVertexDeleted:
		return "vertex_deleted"
	case KindShapeTranslated:
		return "shape_translated"
	default:
		return "unknown"
	}
}

// EditEvent is delivered to callbacks. Coordinates is a private copy of the
// vertex list that the receiver may keep or modify.
type EditEvent struct {
	ShapeID     string
	Kind        EditKind
	Index       int // NoIndex when the edit is not about one vertex
	Coordinates []model.Coordinate
}

// Callbacks are optional hooks fired as the user edits.
type Callbacks struct {
	OnEditStart func(EditEvent)
	OnEdit      func(EditEvent) // every live drag tick
	OnEditEnd   func(EditEvent)
}

// MetricsRecorder receives counts of editing activity.
type MetricsRecorder interface {
	RecordEdit(shape, kind string)
	RecordNoopDelete(shape string)
	RecordRebuild(shape string, handles int)
}
