// Package core holds the geometry used by the shape editors: midpoints,
// centroids, rigid translation and marker anchor offsets.
package core

import (
	"github.com/golang/geo/s2"

	"github.com/signalsfoundry/mapdraw/model"
)

// Metric computes the point halfway along the straight edge between two
// coordinates. It must agree with how the host draws edges, otherwise
// midpoint handles drift off long edges.
type Metric interface {
	Midpoint(a, b model.Coordinate) model.Coordinate
	Name() string
}

// Spherical draws edges as great-circle arcs.
type Spherical struct{}

// Midpoint returns the great-circle midpoint of a and b.
func (Spherical) Midpoint(a, b model.Coordinate) model.Coordinate {
	if a == b {
		return a
	}
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Latitude, a.Longitude))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Latitude, b.Longitude))
	ll := s2.LatLngFromPoint(s2.Interpolate(0.5, pa, pb))
	return model.Coordinate{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()}
}

// Name implements Metric.
func (Spherical) Name() string { return "spherical" }

// Planar draws edges as straight lines in latitude/longitude space.
type Planar struct{}

// Midpoint returns the arithmetic mean of a and b.
func (Planar) Midpoint(a, b model.Coordinate) model.Coordinate {
	return model.Coordinate{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// Name implements Metric.
func (Planar) Name() string { return "planar" }

// MetricByName resolves a configured metric name. Unknown names fall back
// to Spherical.
func MetricByName(name string) Metric {
	switch name {
	case "planar":
		return Planar{}
	default:
		return Spherical{}
	}
}

// Add returns origin shifted by delta, treating lat/lng as flat Cartesian.
func Add(origin, delta model.Coordinate) model.Coordinate {
	return model.Coordinate{
		Latitude:  origin.Latitude + delta.Latitude,
		Longitude: origin.Longitude + delta.Longitude,
	}
}

// Diff returns the vector from origin to update.
func Diff(origin, update model.Coordinate) model.Coordinate {
	return model.Coordinate{
		Latitude:  update.Latitude - origin.Latitude,
		Longitude: update.Longitude - origin.Longitude,
	}
}

// Translate shifts every point by the vector from the centroid of points to
// anchor. The result is a new slice; points is not modified. Only valid at
// viewport scale, it is not geodesically correct.
func Translate(points []model.Coordinate, anchor model.Coordinate, centroid Centroid) []model.Coordinate {
	out := model.CloneCoordinates(points)
	if len(points) == 0 {
		return out
	}
	if centroid == nil {
		centroid = BoundsCenter{}
	}
	delta := Diff(centroid.Center(points), anchor)
	for i := range out {
		out[i] = Add(out[i], delta)
	}
	return out
}
