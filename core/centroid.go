package core

import (
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/mapdraw/model"
)

// Centroid locates the center of an unordered point set. It only positions
// the whole-shape drag handle, so approximations are acceptable.
type Centroid interface {
	Center(points []model.Coordinate) model.Coordinate
	Name() string
}

// BoundsCenter is the center of the bounding box of the points.
type BoundsCenter struct{}

// Center implements Centroid.
func (BoundsCenter) Center(points []model.Coordinate) model.Coordinate {
	if len(points) == 0 {
		return model.Coordinate{}
	}
	c := toMultiPoint(points).Bound().Center()
	return fromOrbPoint(c)
}

// Name implements Centroid.
func (BoundsCenter) Name() string { return "bounds" }

// MeanCenter is the arithmetic mean of the points.
type MeanCenter struct{}

// Center implements Centroid.
func (MeanCenter) Center(points []model.Coordinate) model.Coordinate {
	if len(points) == 0 {
		return model.Coordinate{}
	}
	lats := make([]float64, len(points))
	lngs := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Latitude
		lngs[i] = p.Longitude
	}
	return model.Coordinate{
		Latitude:  stat.Mean(lats, nil),
		Longitude: stat.Mean(lngs, nil),
	}
}

// Name implements Centroid.
func (MeanCenter) Name() string { return "mean" }

// CentroidByName resolves a configured centroid strategy, defaulting to
// BoundsCenter.
func CentroidByName(name string) Centroid {
	switch name {
	case "mean":
		return MeanCenter{}
	default:
		return BoundsCenter{}
	}
}

func toMultiPoint(points []model.Coordinate) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = toOrbPoint(p)
	}
	return mp
}

func toOrbPoint(c model.Coordinate) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

func fromOrbPoint(p orb.Point) model.Coordinate {
	return model.Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
}
