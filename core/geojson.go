package core

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/signalsfoundry/mapdraw/model"
)

// ToOrbRing converts a vertex ring to a closed orb.Ring. The closing point
// is always appended, even when the last vertex sits on the first.
func ToOrbRing(coords []model.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, toOrbPoint(c))
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// ToOrbLineString converts an open vertex chain to an orb.LineString.
func ToOrbLineString(coords []model.Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = toOrbPoint(c)
	}
	return ls
}

// FromOrbPoints converts orb points back into coordinates.
func FromOrbPoints(points []orb.Point) []model.Coordinate {
	out := make([]model.Coordinate, len(points))
	for i, p := range points {
		out[i] = fromOrbPoint(p)
	}
	return out
}

// PolygonFeature wraps a vertex ring as a GeoJSON Polygon feature.
func PolygonFeature(coords []model.Coordinate) *geojson.Feature {
	return geojson.NewFeature(orb.Polygon{ToOrbRing(coords)})
}

// LineStringFeature wraps a vertex chain as a GeoJSON LineString feature.
func LineStringFeature(coords []model.Coordinate) *geojson.Feature {
	return geojson.NewFeature(ToOrbLineString(coords))
}

// PointFeature wraps a single coordinate as a GeoJSON Point feature.
func PointFeature(c model.Coordinate) *geojson.Feature {
	return geojson.NewFeature(toOrbPoint(c))
}

// ErrUnsupportedGeometry is returned by ShapeFromGeometry for anything other
// than a Polygon or LineString.
var ErrUnsupportedGeometry = errors.New("unsupported geometry")

// ShapeFromGeometry extracts editable vertices from a GeoJSON geometry. A
// Polygon yields its outer ring without the closing point and closed=true;
// a LineString yields its points and closed=false. Holes are dropped.
func ShapeFromGeometry(g orb.Geometry) (coords []model.Coordinate, closed bool, err error) {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) == 0 {
			return nil, true, nil
		}
		ring := geom[0]
		if len(ring) > 1 && ring.Closed() {
			ring = ring[:len(ring)-1]
		}
		return FromOrbPoints(ring), true, nil
	case orb.Ring:
		if len(geom) > 1 && geom.Closed() {
			geom = geom[:len(geom)-1]
		}
		return FromOrbPoints(geom), true, nil
	case orb.LineString:
		return FromOrbPoints(geom), false, nil
	default:
		return nil, false, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}
