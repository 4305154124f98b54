package editor_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/signalsfoundry/mapdraw/core"
	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/internal/surface"
	"github.com/signalsfoundry/mapdraw/model"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// square is (lon,lat) (0,0),(0,2),(2,2),(2,0).
func square() []model.Coordinate {
	return []model.Coordinate{
		model.LatLng(0, 0),
		model.LatLng(2, 0),
		model.LatLng(2, 2),
		model.LatLng(0, 2),
	}
}

func newPolygon(t *testing.T, coords []model.Coordinate, opts ...editor.Option) (*editor.Editor, *surface.Memory) {
	t.Helper()
	surf := surface.NewMemory()
	base := []editor.Option{
		editor.WithID("p"),
		editor.WithCoordinates(coords),
		editor.WithMetric(core.Planar{}),
	}
	return editor.NewPolygon(surf, append(base, opts...)...), surf
}

func newPolyline(t *testing.T, coords []model.Coordinate, opts ...editor.Option) (*editor.Editor, *surface.Memory) {
	t.Helper()
	surf := surface.NewMemory()
	base := []editor.Option{
		editor.WithID("l"),
		editor.WithCoordinates(coords),
		editor.WithMetric(core.Planar{}),
	}
	return editor.NewPolyline(surf, append(base, opts...)...), surf
}

// checkHandles asserts the handle arena mirrors the vertex list: one vertex
// marker per vertex, one midpoint marker per edge at the derived midpoint.
func checkHandles(t *testing.T, ed *editor.Editor, surf *surface.Memory) {
	t.Helper()

	coords := ed.Coordinates()
	n := len(coords)

	vertices := surf.Markers(editor.RoleVertex)
	if len(vertices) != n {
		t.Fatalf("vertex markers = %d, want %d", len(vertices), n)
	}
	for i, m := range vertices {
		if m.Spec.Index != i || m.Coordinate != coords[i] {
			t.Fatalf("vertex marker %d = index %d at %+v, want %+v", i, m.Spec.Index, m.Coordinate, coords[i])
		}
	}

	wantEdges := ed.Topology().EdgeCount(n)
	mids := surf.Markers(editor.RoleMidpoint)
	if len(mids) != wantEdges {
		t.Fatalf("midpoint markers = %d, want %d", len(mids), wantEdges)
	}
	metric := core.Planar{}
	for i, m := range mids {
		a, b := ed.Topology().EdgeEnds(i, n)
		want := metric.Midpoint(coords[a], coords[b])
		if diff := cmp.Diff(want, m.Coordinate, approx); diff != "" {
			t.Fatalf("midpoint marker %d mismatch (-want +got):\n%s", i, diff)
		}
		if !m.Visible() {
			t.Fatalf("midpoint marker %d hidden after commit", i)
		}
	}

	outlines := surf.Outlines()
	if len(outlines) != 1 {
		t.Fatalf("outlines = %d, want 1", len(outlines))
	}
	if diff := cmp.Diff(coords, outlines[0].Coordinates); diff != "" {
		t.Fatalf("outline out of sync (-want +got):\n%s", diff)
	}
}

func TestPolygonSquareMidpointsAndDelete(t *testing.T) {
	ed, surf := newPolygon(t, square())

	wantMids := []model.Coordinate{
		model.LatLng(1, 0),
		model.LatLng(2, 1),
		model.LatLng(1, 2),
		model.LatLng(0, 1),
	}
	if diff := cmp.Diff(wantMids, ed.Midpoints(), approx); diff != "" {
		t.Fatalf("Midpoints() mismatch (-want +got):\n%s", diff)
	}
	checkHandles(t, ed, surf)

	if err := ed.DeleteVertex(0); err != nil {
		t.Fatalf("DeleteVertex(0) error = %v", err)
	}

	wantCoords := []model.Coordinate{
		model.LatLng(2, 0),
		model.LatLng(2, 2),
		model.LatLng(0, 2),
	}
	if diff := cmp.Diff(wantCoords, ed.Coordinates()); diff != "" {
		t.Fatalf("Coordinates() after delete mismatch (-want +got):\n%s", diff)
	}
	wantMids = []model.Coordinate{
		model.LatLng(2, 1),
		model.LatLng(1, 2),
		model.LatLng(1, 1),
	}
	if diff := cmp.Diff(wantMids, ed.Midpoints(), approx); diff != "" {
		t.Fatalf("Midpoints() after delete mismatch (-want +got):\n%s", diff)
	}
	checkHandles(t, ed, surf)
}

func TestPolygonHandlesStayConsistentAcrossEdits(t *testing.T) {
	ed, surf := newPolygon(t, square())

	steps := []struct {
		name string
		do   func() error
	}{
		{"insert after 1", func() error { return ed.EndMidpointDrag(1, model.LatLng(1.5, 3)) }},
		{"move 0", func() error { return ed.EndVertexDrag(0, model.LatLng(-1, -1)) }},
		{"insert after last", func() error { return ed.EndMidpointDrag(ed.Len()-1, model.LatLng(-0.5, 1)) }},
		{"delete 3", func() error { return ed.DeleteVertex(3) }},
		{"move last", func() error { return ed.EndVertexDrag(ed.Len()-1, model.LatLng(0.25, 0.75)) }},
		{"delete 0", func() error { return ed.DeleteVertex(0) }},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		checkHandles(t, ed, surf)
	}
}

func TestPolylineMidpointsDoNotWrap(t *testing.T) {
	ed, surf := newPolyline(t, []model.Coordinate{
		model.LatLng(0, 0),
		model.LatLng(0, 2),
		model.LatLng(2, 2),
	})

	want := []model.Coordinate{model.LatLng(0, 1), model.LatLng(1, 2)}
	if diff := cmp.Diff(want, ed.Midpoints(), approx); diff != "" {
		t.Fatalf("Midpoints() mismatch (-want +got):\n%s", diff)
	}
	checkHandles(t, ed, surf)

	if err := ed.EndMidpointDrag(1, model.LatLng(3, 3)); err != nil {
		t.Fatalf("EndMidpointDrag error = %v", err)
	}
	if got := len(ed.Midpoints()); got != 3 {
		t.Fatalf("midpoints after insert = %d, want 3", got)
	}
	checkHandles(t, ed, surf)

	if err := ed.EndMidpointDrag(3, model.LatLng(0, 0)); !errors.Is(err, editor.ErrIndexOutOfRange) {
		t.Fatalf("EndMidpointDrag(3) error = %v, want ErrIndexOutOfRange (no wrap edge)", err)
	}
}

func TestDeleteAtMinimumIsNoop(t *testing.T) {
	tests := []struct {
		name   string
		build  func(t *testing.T, coords []model.Coordinate, opts ...editor.Option) (*editor.Editor, *surface.Memory)
		coords []model.Coordinate
	}{
		{"polygon of three", newPolygon, square()[:3]},
		{"polyline of two", newPolyline, square()[:2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := 0
			cb := editor.Callbacks{OnEditEnd: func(editor.EditEvent) { fired++ }}
			ed, surf := tt.build(t, tt.coords, editor.WithCallbacks(cb))
			rev := ed.Revision()
			added := surf.MarkersAdded

			for i := range tt.coords {
				if err := ed.DeleteVertex(i); err != nil {
					t.Fatalf("DeleteVertex(%d) error = %v, want nil", i, err)
				}
			}

			if diff := cmp.Diff(tt.coords, ed.Coordinates()); diff != "" {
				t.Fatalf("vertices changed (-want +got):\n%s", diff)
			}
			if fired != 0 {
				t.Fatalf("OnEditEnd fired %d times, want 0", fired)
			}
			if ed.Revision() != rev || surf.MarkersAdded != added {
				t.Fatalf("no-op delete rebuilt handles: revision %d -> %d", rev, ed.Revision())
			}
		})
	}
}

func TestEndMidpointDragInsertsVertex(t *testing.T) {
	var ends []editor.EditEvent
	ed, surf := newPolygon(t, square(), editor.WithCallbacks(editor.Callbacks{
		OnEditEnd: func(ev editor.EditEvent) { ends = append(ends, ev) },
	}))
	rev := ed.Revision()

	inserted := model.LatLng(3, 1)
	if err := ed.EndMidpointDrag(1, inserted); err != nil {
		t.Fatalf("EndMidpointDrag error = %v", err)
	}

	coords := ed.Coordinates()
	if len(coords) != 5 {
		t.Fatalf("len(vertices) = %d, want 5", len(coords))
	}
	if coords[2] != inserted {
		t.Fatalf("vertex 2 = %+v, want inserted %+v", coords[2], inserted)
	}
	if ed.Revision() != rev+1 {
		t.Fatalf("Revision() = %d, want %d", ed.Revision(), rev+1)
	}

	mids := ed.Midpoints()
	planar := core.Planar{}
	if mids[1] != planar.Midpoint(coords[1], inserted) || mids[2] != planar.Midpoint(inserted, coords[3]) {
		t.Fatalf("flanking midpoints = %+v, %+v not derived from new neighbours", mids[1], mids[2])
	}
	checkHandles(t, ed, surf)

	if len(ends) != 1 {
		t.Fatalf("OnEditEnd calls = %d, want 1", len(ends))
	}
	if ends[0].Kind != editor.KindVertexInserted || ends[0].Index != 2 {
		t.Fatalf("OnEditEnd event = %+v, want inserted at 2", ends[0])
	}
}

func TestCallbackCoordinatesAreCopies(t *testing.T) {
	var received [][]model.Coordinate
	keep := func(ev editor.EditEvent) {
		received = append(received, ev.Coordinates)
		// Scribble on the copy; the editor must not notice.
		for i := range ev.Coordinates {
			ev.Coordinates[i] = model.LatLng(99, 99)
		}
	}
	ed, surf := newPolygon(t, square(), editor.WithCallbacks(editor.Callbacks{
		OnEditStart: keep,
		OnEdit:      keep,
		OnEditEnd:   keep,
	}))

	if err := ed.BeginVertexDrag(1, model.LatLng(2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := ed.DragVertex(1, model.LatLng(2.5, 0)); err != nil {
		t.Fatal(err)
	}
	if err := ed.EndVertexDrag(1, model.LatLng(3, 0)); err != nil {
		t.Fatal(err)
	}
	if len(received) != 3 {
		t.Fatalf("callbacks fired %d times, want 3", len(received))
	}

	want := square()
	want[1] = model.LatLng(3, 0)
	if diff := cmp.Diff(want, ed.Coordinates()); diff != "" {
		t.Fatalf("caller mutation leaked into editor (-want +got):\n%s", diff)
	}
	checkHandles(t, ed, surf)

	snap := ed.Coordinates()
	if err := ed.EndVertexDrag(0, model.LatLng(-5, -5)); err != nil {
		t.Fatal(err)
	}
	if snap[0] != model.LatLng(0, 0) {
		t.Fatalf("earlier snapshot changed to %+v after a later edit", snap[0])
	}
}

func TestBeginVertexDragHidesFlankingMidpoints(t *testing.T) {
	tests := []struct {
		name       string
		polyline   bool
		vertex     int
		wantHidden []int
	}{
		{"polygon first vertex wraps", false, 0, []int{0, 3}},
		{"polygon interior vertex", false, 2, []int{1, 2}},
		{"polygon last vertex", false, 3, []int{2, 3}},
		{"polyline first vertex", true, 0, []int{0}},
		{"polyline interior vertex", true, 1, []int{0, 1}},
		{"polyline last vertex", true, 3, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ed *editor.Editor
			var surf *surface.Memory
			if tt.polyline {
				ed, surf = newPolyline(t, square())
			} else {
				ed, surf = newPolygon(t, square())
			}

			if err := ed.BeginVertexDrag(tt.vertex, ed.Coordinates()[tt.vertex]); err != nil {
				t.Fatalf("BeginVertexDrag error = %v", err)
			}

			var hidden []int
			for _, m := range surf.Markers(editor.RoleMidpoint) {
				if !m.Visible() {
					hidden = append(hidden, m.Spec.Index)
				}
			}
			if diff := cmp.Diff(tt.wantHidden, hidden); diff != "" {
				t.Fatalf("hidden midpoints mismatch (-want +got):\n%s", diff)
			}
			if len(ed.Coordinates()) != 4 {
				t.Fatalf("BeginVertexDrag changed the vertex list")
			}
		})
	}
}

func TestHideClearsCoordinateWhenConfigured(t *testing.T) {
	for _, clearing := range []bool{false, true} {
		ed, surf := newPolygon(t, square(), editor.WithClearOnHide(clearing))
		if err := ed.BeginVertexDrag(1, model.LatLng(2, 0)); err != nil {
			t.Fatal(err)
		}
		m := surf.Marker("p-midpoint-vertex-0")
		if m.Opacity != 0 {
			t.Fatalf("clear=%v: opacity = %v, want 0", clearing, m.Opacity)
		}
		if m.Placed == clearing {
			t.Fatalf("clear=%v: Placed = %v", clearing, m.Placed)
		}
	}
}

func TestVertexDragLifecycle(t *testing.T) {
	var edits []editor.EditEvent
	ed, surf := newPolygon(t, square(), editor.WithCallbacks(editor.Callbacks{
		OnEdit: func(ev editor.EditEvent) { edits = append(edits, ev) },
	}))
	rev := ed.Revision()
	added := surf.MarkersAdded
	outline := surf.Outlines()[0]

	if err := ed.BeginVertexDrag(2, model.LatLng(2, 2)); err != nil {
		t.Fatal(err)
	}
	for _, c := range []model.Coordinate{model.LatLng(2.5, 2.5), model.LatLng(3, 3), model.LatLng(3.5, 3.5)} {
		if err := ed.DragVertex(2, c); err != nil {
			t.Fatal(err)
		}
		if outline.Coordinates[2] != c {
			t.Fatalf("outline vertex 2 = %+v, want %+v during drag", outline.Coordinates[2], c)
		}
	}
	if ed.Revision() != rev || surf.MarkersAdded != added {
		t.Fatalf("drag ticks rebuilt handles")
	}
	if len(edits) != 3 || edits[2].Index != 2 || edits[2].Coordinates[2] != model.LatLng(3.5, 3.5) {
		t.Fatalf("OnEdit events = %+v", edits)
	}

	if err := ed.EndVertexDrag(2, model.LatLng(4, 4)); err != nil {
		t.Fatal(err)
	}
	if ed.Len() != 4 {
		t.Fatalf("EndVertexDrag changed vertex count to %d, want 4 (overwrite)", ed.Len())
	}
	if ed.Revision() != rev {
		t.Fatalf("EndVertexDrag bumped revision")
	}
	checkHandles(t, ed, surf)

	center, ok := ed.Center()
	if !ok || center != model.LatLng(2, 2) {
		t.Fatalf("Center() = %+v, %v, want (2,2)", center, ok)
	}
	if m := surf.Marker("p-center"); m == nil || m.Coordinate != center {
		t.Fatalf("center marker not moved to %+v: %+v", center, m)
	}
}

func TestDragMidpointOnlyPreviews(t *testing.T) {
	ed, surf := newPolygon(t, square())
	rev := ed.Revision()

	preview := model.LatLng(2.5, 1)
	if err := ed.DragMidpoint(0, preview); err != nil {
		t.Fatal(err)
	}

	outline := surf.Outlines()[0]
	if len(outline.Coordinates) != 5 || outline.Coordinates[1] != preview {
		t.Fatalf("outline preview = %+v, want 5 points with %+v at 1", outline.Coordinates, preview)
	}
	if diff := cmp.Diff(square(), ed.Coordinates()); diff != "" {
		t.Fatalf("DragMidpoint committed state (-want +got):\n%s", diff)
	}
	if ed.Revision() != rev {
		t.Fatalf("DragMidpoint bumped revision")
	}
}

func TestShapeDragTranslatesRigidly(t *testing.T) {
	var ends []editor.EditEvent
	ed, surf := newPolygon(t, square(), editor.WithCallbacks(editor.Callbacks{
		OnEditEnd: func(ev editor.EditEvent) { ends = append(ends, ev) },
	}))
	before := ed.Coordinates()
	rev := ed.Revision()

	center, ok := ed.Center()
	if !ok || center != model.LatLng(1, 1) {
		t.Fatalf("Center() = %+v, %v, want (1,1)", center, ok)
	}

	if err := ed.BeginShapeDrag(center); err != nil {
		t.Fatal(err)
	}
	if !ed.ShapeDragging() {
		t.Fatalf("ShapeDragging() = false after BeginShapeDrag")
	}
	for _, role := range []editor.MarkerRole{editor.RoleVertex, editor.RoleMidpoint} {
		for _, m := range surf.Markers(role) {
			if m.Visible() {
				t.Fatalf("%s marker %d still visible during shape drag", role, m.Spec.Index)
			}
		}
	}

	if err := ed.DragShape(model.LatLng(3.5, 6)); err != nil {
		t.Fatal(err)
	}
	if err := ed.DragShape(model.LatLng(6, 11)); err != nil {
		t.Fatal(err)
	}
	if ed.Revision() != rev {
		t.Fatalf("DragShape bumped revision")
	}
	if err := ed.EndShapeDrag(model.LatLng(6, 11)); err != nil {
		t.Fatal(err)
	}

	after := ed.Coordinates()
	delta := model.LatLng(5, 10)
	for i := range before {
		if diff := cmp.Diff(core.Add(before[i], delta), after[i], approx); diff != "" {
			t.Fatalf("vertex %d not moved by delta (-want +got):\n%s", i, diff)
		}
		j := (i + 1) % len(before)
		if d0, d1 := dist(before[i], before[j]), dist(after[i], after[j]); math.Abs(d0-d1) > 1e-9 {
			t.Fatalf("edge %d length %v -> %v", i, d0, d1)
		}
	}
	if ed.Revision() != rev+1 {
		t.Fatalf("Revision() = %d, want %d after EndShapeDrag", ed.Revision(), rev+1)
	}
	checkHandles(t, ed, surf)
	if len(ends) != 1 || ends[0].Kind != editor.KindShapeTranslated || ends[0].Index != editor.NoIndex {
		t.Fatalf("OnEditEnd events = %+v", ends)
	}
}

func TestShapeDragUnsupported(t *testing.T) {
	line, lineSurf := newPolyline(t, square())
	fixed, fixedSurf := newPolygon(t, square(), editor.WithDraggable(false))

	for name, c := range map[string]struct {
		ed   *editor.Editor
		surf *surface.Memory
	}{
		"polyline":            {line, lineSurf},
		"polygon undraggable": {fixed, fixedSurf},
	} {
		if _, ok := c.ed.Center(); ok {
			t.Fatalf("%s: Center() ok = true", name)
		}
		if c.surf.Marker(c.ed.ID()+"-center") != nil {
			t.Fatalf("%s: center marker rendered", name)
		}
		rev := c.ed.Revision()
		if err := c.ed.BeginShapeDrag(model.LatLng(1, 1)); err != nil {
			t.Fatal(err)
		}
		if err := c.ed.DragShape(model.LatLng(9, 9)); err != nil {
			t.Fatal(err)
		}
		if err := c.ed.EndShapeDrag(model.LatLng(9, 9)); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(square(), c.ed.Coordinates()); diff != "" {
			t.Fatalf("%s: shape moved (-want +got):\n%s", name, diff)
		}
		if c.ed.Revision() != rev {
			t.Fatalf("%s: revision bumped", name)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	ed, surf := newPolygon(t, square())
	rev := ed.Revision()
	added := surf.MarkersAdded

	err := ed.ApplyOverrides(model.Overrides{
		Shape:    &model.ShapeStyle{StrokeColor: model.String("red")},
		Vertex:   &model.HandleStyle{BackgroundColor: model.String("red"), BorderRadius: model.Float(30)},
		Midpoint: &model.HandleStyle{BackgroundColor: model.String("pink")},
	})
	if err != nil {
		t.Fatal(err)
	}

	outline := surf.Outlines()[0]
	if *outline.Style.StrokeColor != "red" || *outline.Style.StrokeWidth != 3 {
		t.Fatalf("outline style = stroke %s width %v, want red/3", *outline.Style.StrokeColor, *outline.Style.StrokeWidth)
	}
	for _, m := range surf.Markers(editor.RoleVertex) {
		if *m.Style.BackgroundColor != "red" || *m.Style.BorderColor != "white" {
			t.Fatalf("vertex %d style not merged: %+v", m.Spec.Index, m.Style)
		}
	}
	for _, m := range surf.Markers(editor.RoleMidpoint) {
		if *m.Style.BackgroundColor != "pink" {
			t.Fatalf("midpoint %d background = %s, want pink", m.Spec.Index, *m.Style.BackgroundColor)
		}
	}
	if ed.Revision() != rev || surf.MarkersAdded != added {
		t.Fatalf("ApplyOverrides rebuilt handles")
	}

	// Handles created by a later rebuild keep the override.
	if err := ed.EndMidpointDrag(0, model.LatLng(1, -1)); err != nil {
		t.Fatal(err)
	}
	for _, m := range surf.Markers(editor.RoleVertex) {
		if *m.Style.BackgroundColor != "red" {
			t.Fatalf("rebuilt vertex %d lost override", m.Spec.Index)
		}
	}
}

func TestMarkerLayout(t *testing.T) {
	ed, surf := newPolygon(t, square(),
		editor.WithZIndex(3),
		editor.WithAnchor(model.Anchor{}),
		editor.WithVertexSize(model.Size{Width: 60, Height: 60}),
		editor.WithVertexRenderer(func(role editor.MarkerRole, i int) any { return i * 10 }),
	)
	defer ed.Close()

	if z := surf.Outlines()[0].Spec.ZIndex; z != 3 {
		t.Fatalf("outline z = %d, want 3", z)
	}
	v := surf.Markers(editor.RoleVertex)[2]
	if v.Spec.ZIndex != 4 || v.Spec.Offset != (model.Offset{X: 30, Y: 30}) || v.Spec.Content != 20 {
		t.Fatalf("vertex spec = %+v", v.Spec)
	}
	m := surf.Markers(editor.RoleMidpoint)[0]
	if m.Spec.Size != (model.Size{Width: 30, Height: 30}) || m.Spec.Offset != (model.Offset{X: 15, Y: 15}) {
		t.Fatalf("midpoint spec size %+v offset %+v, want half-size", m.Spec.Size, m.Spec.Offset)
	}
	if m.Spec.Content != nil {
		t.Fatalf("midpoint content = %v, want default dot", m.Spec.Content)
	}
}

func TestIndexValidationAndClose(t *testing.T) {
	ed, surf := newPolygon(t, square())

	for name, err := range map[string]error{
		"BeginVertexDrag": ed.BeginVertexDrag(4, model.Coordinate{}),
		"DragVertex":      ed.DragVertex(-1, model.Coordinate{}),
		"EndVertexDrag":   ed.EndVertexDrag(7, model.Coordinate{}),
		"DeleteVertex":    ed.DeleteVertex(4),
		"DragMidpoint":    ed.DragMidpoint(4, model.Coordinate{}),
	} {
		if !errors.Is(err, editor.ErrIndexOutOfRange) {
			t.Fatalf("%s error = %v, want ErrIndexOutOfRange", name, err)
		}
	}

	ed.Close()
	if len(surf.Outlines()) != 0 || len(surf.Markers(editor.RoleVertex)) != 0 || surf.Marker("p-center") != nil {
		t.Fatalf("Close left items on the surface")
	}
	if err := ed.DeleteVertex(0); !errors.Is(err, editor.ErrClosed) {
		t.Fatalf("DeleteVertex after Close error = %v, want ErrClosed", err)
	}
	if err := ed.ApplyOverrides(model.Overrides{}); !errors.Is(err, editor.ErrClosed) {
		t.Fatalf("ApplyOverrides after Close error = %v, want ErrClosed", err)
	}
	ed.Close()
}

func TestSetCoordinatesRebuilds(t *testing.T) {
	ed, surf := newPolyline(t, square()[:2])
	rev := ed.Revision()

	if err := ed.SetCoordinates(square()); err != nil {
		t.Fatal(err)
	}
	if ed.Revision() != rev+1 {
		t.Fatalf("Revision() = %d, want %d", ed.Revision(), rev+1)
	}
	checkHandles(t, ed, surf)
}

func TestSphericalMidpointsByDefault(t *testing.T) {
	surf := surface.NewMemory()
	ed := editor.NewPolyline(surf, editor.WithCoordinates([]model.Coordinate{
		model.LatLng(40, -10),
		model.LatLng(40, 10),
	}))
	mid := ed.Midpoints()[0]
	if mid.Latitude <= 40 {
		t.Fatalf("default midpoint latitude = %v, want great-circle bulge above 40", mid.Latitude)
	}
	if ed.ID() == "" {
		t.Fatalf("editor without WithID has empty ID")
	}
}

type fakeRecorder struct {
	edits    map[string]int
	noops    int
	rebuilds int
	handles  int
}

func (f *fakeRecorder) RecordEdit(shape, kind string) {
	if f.edits == nil {
		f.edits = map[string]int{}
	}
	f.edits[shape+"/"+kind]++
}

func (f *fakeRecorder) RecordNoopDelete(string) { f.noops++ }

func (f *fakeRecorder) RecordRebuild(_ string, handles int) {
	f.rebuilds++
	f.handles = handles
}

func TestMetricsRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	ed, _ := newPolygon(t, square(), editor.WithMetricsRecorder(rec))

	_ = ed.EndVertexDrag(0, model.LatLng(-1, 0))
	_ = ed.DeleteVertex(0)
	_ = ed.DeleteVertex(0)

	if rec.edits["polygon/vertex_moved"] != 1 || rec.edits["polygon/vertex_deleted"] != 1 {
		t.Fatalf("edits = %v", rec.edits)
	}
	if rec.noops != 1 {
		t.Fatalf("noop deletes = %d, want 1", rec.noops)
	}
	if rec.rebuilds != 2 || rec.handles != 6 {
		t.Fatalf("rebuilds = %d handles = %d, want 2 and 6", rec.rebuilds, rec.handles)
	}
}

func dist(a, b model.Coordinate) float64 {
	d := core.Diff(a, b)
	return math.Hypot(d.Latitude, d.Longitude)
}
