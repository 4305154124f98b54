package editor

import "github.com/signalsfoundry/mapdraw/model"

// handle is one live marker plus the coordinate it was last placed at. The
// coordinate is a render cache only; vertices are the source of truth.
type handle struct {
	marker  Marker
	coord   model.Coordinate
	visible bool
}

func (h *handle) moveTo(c model.Coordinate) {
	h.coord = c
	h.marker.SetCoordinate(c)
}

func (h *handle) hide(clear bool) {
	h.visible = false
	h.marker.Hide(clear)
}

func (h *handle) show(c model.Coordinate) {
	h.coord = c
	h.visible = true
	h.marker.Show(c)
}

// handleSet is an arena of handles addressed by position. Positions are
// only meaningful within one revision: any structural edit discards the
// whole set and builds a new one.
type handleSet []*handle

func (hs handleSet) at(i int) *handle {
	if i < 0 || i >= len(hs) {
		return nil
	}
	return hs[i]
}

func (hs handleSet) removeAll() {
	for _, h := range hs {
		h.marker.Remove()
	}
}

func (hs handleSet) applyStyle(style model.HandleStyle) {
	for _, h := range hs {
		h.marker.ApplyStyle(style)
	}
}

func (hs handleSet) hideAll(clear bool) {
	for _, h := range hs {
		h.hide(clear)
	}
}
