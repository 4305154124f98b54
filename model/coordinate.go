package model

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" toml:"latitude"`
	Longitude float64 `json:"longitude" toml:"longitude"`
}

// LatLng builds a Coordinate from latitude and longitude.
func LatLng(lat, lng float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lng}
}

// CloneCoordinates returns an independent copy of coords. A nil input yields
// an empty, non-nil slice so callers can always range and append safely.
func CloneCoordinates(coords []Coordinate) []Coordinate {
	out := make([]Coordinate, len(coords))
	copy(out, coords)
	return out
}

// Anchor is a fractional position inside an icon: (0,0) is the top-left
// corner and (1,1) the bottom-right.
type Anchor struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// CenterAnchor is the default anchor used by vertex handles.
var CenterAnchor = Anchor{X: 0.5, Y: 0.5}

// Size is an icon size in screen points.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Scale returns the size multiplied by factor.
func (s Size) Scale(factor float64) Size {
	return Size{Width: s.Width * factor, Height: s.Height * factor}
}

// IsZero reports whether the size is unset.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Offset is a pixel offset applied to a marker icon.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
