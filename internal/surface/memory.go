// Package surface provides an in-memory editor.Surface. It records what a
// real map view would be showing, which makes it the host for the gesture
// server and the fake used in tests.
package surface

import (
	"sort"

	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/model"
)

// Memory is an editor.Surface that keeps every outline and marker in
// memory. It is not safe for concurrent use.
type Memory struct {
	outlines []*OutlineRecord
	markers  []*MarkerRecord

	// Counters for everything ever added or removed.
	MarkersAdded   int
	MarkersRemoved int
}

// NewMemory returns an empty surface.
func NewMemory() *Memory {
	return &Memory{}
}

// OutlineRecord is the live state of one outline.
type OutlineRecord struct {
	Spec        editor.OutlineSpec
	Coordinates []model.Coordinate
	Style       model.ShapeStyle
	Updates     int
	Removed     bool
}

// SetCoordinates implements editor.Outline.
func (o *OutlineRecord) SetCoordinates(coords []model.Coordinate) {
	o.Coordinates = model.CloneCoordinates(coords)
	o.Updates++
}

// ApplyStyle implements editor.Outline.
func (o *OutlineRecord) ApplyStyle(style model.ShapeStyle) {
	o.Style = o.Style.Merge(style)
}

// Remove implements editor.Outline.
func (o *OutlineRecord) Remove() { o.Removed = true }

// MarkerRecord is the live state of one marker.
type MarkerRecord struct {
	Spec       editor.MarkerSpec
	Coordinate model.Coordinate
	// Placed is false after a Hide that cleared the coordinate.
	Placed  bool
	Opacity float64
	Style   model.HandleStyle
	Moves   int
	Removed bool

	surface *Memory
}

// Visible reports whether the marker is drawn.
func (m *MarkerRecord) Visible() bool {
	return !m.Removed && m.Placed && m.Opacity > 0
}

// SetCoordinate implements editor.Marker.
func (m *MarkerRecord) SetCoordinate(c model.Coordinate) {
	m.Coordinate = c
	m.Placed = true
	m.Moves++
}

// Hide implements editor.Marker.
func (m *MarkerRecord) Hide(clear bool) {
	m.Opacity = 0
	if clear {
		m.Placed = false
	}
}

// Show implements editor.Marker.
func (m *MarkerRecord) Show(c model.Coordinate) {
	m.Coordinate = c
	m.Placed = true
	m.Opacity = 1
}

// ApplyStyle implements editor.Marker.
func (m *MarkerRecord) ApplyStyle(style model.HandleStyle) {
	m.Style = m.Style.Merge(style)
}

// Remove implements editor.Marker.
func (m *MarkerRecord) Remove() {
	if m.Removed {
		return
	}
	m.Removed = true
	if m.surface != nil {
		m.surface.MarkersRemoved++
	}
}

// AddOutline implements editor.Surface.
func (s *Memory) AddOutline(spec editor.OutlineSpec) editor.Outline {
	o := &OutlineRecord{
		Spec:        spec,
		Coordinates: model.CloneCoordinates(spec.Coordinates),
		Style:       spec.Style,
	}
	s.outlines = append(s.outlines, o)
	return o
}

// AddMarker implements editor.Surface.
func (s *Memory) AddMarker(spec editor.MarkerSpec) editor.Marker {
	m := &MarkerRecord{
		Spec:       spec,
		Coordinate: spec.Coordinate,
		Placed:     true,
		Opacity:    1,
		Style:      spec.Style,
		surface:    s,
	}
	s.markers = append(s.markers, m)
	s.MarkersAdded++
	return m
}

// Outlines returns the outlines that have not been removed.
func (s *Memory) Outlines() []*OutlineRecord {
	var out []*OutlineRecord
	for _, o := range s.outlines {
		if !o.Removed {
			out = append(out, o)
		}
	}
	return out
}

// Outline returns the live outline with the given key, or nil.
func (s *Memory) Outline(key string) *OutlineRecord {
	for _, o := range s.outlines {
		if !o.Removed && o.Spec.Key == key {
			return o
		}
	}
	return nil
}

// Markers returns the live markers with the given role ordered by index.
func (s *Memory) Markers(role editor.MarkerRole) []*MarkerRecord {
	var out []*MarkerRecord
	for _, m := range s.markers {
		if !m.Removed && m.Spec.Role == role {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Spec.Index < out[j].Spec.Index })
	return out
}

// Marker returns the live marker with the given key, or nil.
func (s *Memory) Marker(key string) *MarkerRecord {
	for _, m := range s.markers {
		if !m.Removed && m.Spec.Key == key {
			return m
		}
	}
	return nil
}

// Compact drops removed outlines and markers from memory. Counters are kept.
func (s *Memory) Compact() {
	outlines := s.outlines[:0]
	for _, o := range s.outlines {
		if !o.Removed {
			outlines = append(outlines, o)
		}
	}
	s.outlines = outlines

	markers := s.markers[:0]
	for _, m := range s.markers {
		if !m.Removed {
			markers = append(markers, m)
		}
	}
	s.markers = markers
}
