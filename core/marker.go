package core

import "github.com/signalsfoundry/mapdraw/model"

// AnchorOffset returns the pixel offset that re-centers an icon of the given
// size on a fractional anchor. scale shrinks the icon first, which is how
// the half-size midpoint handles reuse the vertex anchor.
func AnchorOffset(anchor model.Anchor, size model.Size, scale float64) model.Offset {
	w := size.Width * scale
	h := size.Height * scale
	return model.Offset{
		X: w*0.5 - w*anchor.X,
		Y: h*0.5 - h*anchor.Y,
	}
}
