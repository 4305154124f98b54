package model

// ShapeStyle describes how the host draws a polygon or polyline outline.
// Nil fields are unset; Merge only copies fields that are set, which lets
// the same type carry both full styles and partial overrides.
type ShapeStyle struct {
	StrokeColor *string  `json:"strokeColor,omitempty" toml:"stroke_color"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty" toml:"stroke_width"`
	FillColor   *string  `json:"fillColor,omitempty" toml:"fill_color"`
}

// Merge returns s with every set field of override applied on top.
func (s ShapeStyle) Merge(override ShapeStyle) ShapeStyle {
	if override.StrokeColor != nil {
		s.StrokeColor = String(*override.StrokeColor)
	}
	if override.StrokeWidth != nil {
		s.StrokeWidth = Float(*override.StrokeWidth)
	}
	if override.FillColor != nil {
		s.FillColor = String(*override.FillColor)
	}
	return s
}

// DefaultShapeStyle is a white three point stroke with a transparent fill.
func DefaultShapeStyle() ShapeStyle {
	return ShapeStyle{
		StrokeColor: String("white"),
		StrokeWidth: Float(3),
		FillColor:   String("rgba(0, 0, 0, 0)"),
	}
}

// HandleStyle describes the default dot drawn for a vertex or midpoint
// handle. Like ShapeStyle, nil fields are unset.
type HandleStyle struct {
	BackgroundColor *string  `json:"backgroundColor,omitempty" toml:"background_color"`
	BorderColor     *string  `json:"borderColor,omitempty" toml:"border_color"`
	BorderWidth     *float64 `json:"borderWidth,omitempty" toml:"border_width"`
	BorderRadius    *float64 `json:"borderRadius,omitempty" toml:"border_radius"`
}

// Merge returns h with every set field of override applied on top.
func (h HandleStyle) Merge(override HandleStyle) HandleStyle {
	if override.BackgroundColor != nil {
		h.BackgroundColor = String(*override.BackgroundColor)
	}
	if override.BorderColor != nil {
		h.BorderColor = String(*override.BorderColor)
	}
	if override.BorderWidth != nil {
		h.BorderWidth = Float(*override.BorderWidth)
	}
	if override.BorderRadius != nil {
		h.BorderRadius = Float(*override.BorderRadius)
	}
	return h
}

// DefaultVertexStyle is a black dot with a white border, rounded to the
// handle width.
func DefaultVertexStyle(size Size) HandleStyle {
	return HandleStyle{
		BackgroundColor: String("black"),
		BorderColor:     String("white"),
		BorderWidth:     Float(3),
		BorderRadius:    Float(size.Width),
	}
}

// DefaultMidpointStyle is a grey dot with a black border.
func DefaultMidpointStyle(size Size) HandleStyle {
	return HandleStyle{
		BackgroundColor: String("grey"),
		BorderColor:     String("black"),
		BorderWidth:     Float(3),
		BorderRadius:    Float(size.Width),
	}
}

// Overrides is a partial presentation update pushed straight to live
// handles. Any of the three parts may be nil.
type Overrides struct {
	Shape    *ShapeStyle  `json:"shape,omitempty"`
	Vertex   *HandleStyle `json:"vertex,omitempty"`
	Midpoint *HandleStyle `json:"midpointVertex,omitempty"`
}

// IsEmpty reports whether o carries no update at all.
func (o Overrides) IsEmpty() bool {
	return o.Shape == nil && o.Vertex == nil && o.Midpoint == nil
}

// String returns a pointer to v.
func String(v string) *string { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
