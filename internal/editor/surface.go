package editor

import "github.com/signalsfoundry/mapdraw/model"

// Surface is the host map view. The editor never draws anything itself; it
// asks the surface for an outline and a set of markers and keeps them in
// step with the vertex list.
type Surface interface {
	AddOutline(spec OutlineSpec) Outline
	AddMarker(spec MarkerSpec) Marker
}

// Outline is a rendered polygon or polyline.
type Outline interface {
	// SetCoordinates replaces the drawn geometry. It is called on every drag
	// tick and must take effect immediately.
	SetCoordinates(coords []model.Coordinate)
	// ApplyStyle merges a partial style onto the live outline without a
	// re-render.
	ApplyStyle(style model.ShapeStyle)
	Remove()
}

// Marker is a rendered, draggable handle.
type Marker interface {
	SetCoordinate(c model.Coordinate)
	// Hide makes the marker transparent. When clear is set the marker also
	// drops its coordinate, which some map backends need to avoid animating
	// the hidden marker across the screen.
	Hide(clear bool)
	// Show makes the marker opaque again at c.
	Show(c model.Coordinate)
	// ApplyStyle merges a partial style onto the live marker without a
	// re-render.
	ApplyStyle(style model.HandleStyle)
	Remove()
}

// OutlineKind selects how the host closes the outline.
type OutlineKind int

const (
	OutlinePolygon OutlineKind = iota
	OutlinePolyline
)

func (k OutlineKind) String() string {
	if k == OutlinePolyline {
		return "polyline"
	}
	return "polygon"
}

// OutlineSpec describes an outline to create.
type OutlineSpec struct {
	Key         string
	Kind        OutlineKind
	Coordinates []model.Coordinate
	Style       model.ShapeStyle
	ZIndex      int
}

// MarkerRole identifies what a marker stands for.
type MarkerRole int

const (
	RoleVertex MarkerRole = iota
	RoleMidpoint
	RoleCenter
)

func (r MarkerRole) String() string {
	switch r {
	case RoleVertex:
		return "vertex"
	case RoleMidpoint:
		return "midpoint"
	case RoleCenter:
		return "center"
	default:
		return "unknown"
	}
}

// MarkerSpec describes a marker to create.
type MarkerSpec struct {
	Key        string
	Role       MarkerRole
	Index      int
	Coordinate model.Coordinate
	Anchor     model.Anchor
	Offset     model.Offset
	Size       model.Size
	Style      model.HandleStyle
	ZIndex     int
	Draggable  bool
	// Content is whatever a caller-supplied Renderer produced for this
	// marker, or nil for the default dot.
	Content any
}

// Renderer produces custom marker content in place of the default dot. The
// value is passed through to the surface untouched.
type Renderer func(role MarkerRole, index int) any
