package surface

import (
	"github.com/paulmach/orb/geojson"

	"github.com/signalsfoundry/mapdraw/core"
	"github.com/signalsfoundry/mapdraw/internal/editor"
)

// FeatureCollection renders everything currently visible on the surface as
// GeoJSON: outlines first, then placed markers. Hidden markers are
// included with opacity 0 unless their coordinate was cleared.
func (s *Memory) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, o := range s.Outlines() {
		var f *geojson.Feature
		if o.Spec.Kind == editor.OutlinePolyline {
			f = core.LineStringFeature(o.Coordinates)
		} else {
			f = core.PolygonFeature(o.Coordinates)
		}
		f.ID = o.Spec.Key
		f.Properties["role"] = "outline"
		f.Properties["kind"] = o.Spec.Kind.String()
		f.Properties["zIndex"] = o.Spec.ZIndex
		if o.Style.StrokeColor != nil {
			f.Properties["stroke"] = *o.Style.StrokeColor
		}
		if o.Style.StrokeWidth != nil {
			f.Properties["stroke-width"] = *o.Style.StrokeWidth
		}
		if o.Style.FillColor != nil {
			f.Properties["fill"] = *o.Style.FillColor
		}
		fc.Append(f)
	}

	for _, m := range s.markers {
		if m.Removed || !m.Placed {
			continue
		}
		f := core.PointFeature(m.Coordinate)
		f.ID = m.Spec.Key
		f.Properties["role"] = m.Spec.Role.String()
		f.Properties["index"] = m.Spec.Index
		f.Properties["opacity"] = m.Opacity
		f.Properties["zIndex"] = m.Spec.ZIndex
		if m.Style.BackgroundColor != nil {
			f.Properties["marker-color"] = *m.Style.BackgroundColor
		}
		fc.Append(f)
	}
	return fc
}

// GeoJSON marshals FeatureCollection.
func (s *Memory) GeoJSON() ([]byte, error) {
	return s.FeatureCollection().MarshalJSON()
}
