package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/signalsfoundry/mapdraw/model"
)

func runDemo(t *testing.T, args ...string) *geojson.FeatureCollection {
	t.Helper()
	var out bytes.Buffer
	if err := run(args, &out); err != nil {
		t.Fatalf("run(%q): %v", args, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(out.Bytes())
	if err != nil {
		t.Fatalf("output is not a feature collection: %v\n%s", err, out.String())
	}
	return fc
}

func TestDemoDeleteThenInsert(t *testing.T) {
	fc := runDemo(t, "-script", "delete:0, insert:0:2.5:1")

	outline, ok := fc.Features[0].Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("first feature = %T, want the polygon outline", fc.Features[0].Geometry)
	}
	want := orb.Ring{{0, 2}, {1, 2.5}, {2, 2}, {2, 0}, {0, 2}}
	if diff := cmp.Diff(want, outline[0]); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}

	var vertices, midpoints int
	for _, f := range fc.Features[1:] {
		switch f.Properties.MustString("role", "") {
		case "vertex":
			vertices++
		case "midpoint":
			midpoints++
		}
	}
	if vertices != 4 || midpoints != 4 {
		t.Fatalf("vertex/midpoint markers = %d/%d, want 4/4", vertices, midpoints)
	}
}

func TestDemoDragsLineInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "route.geojson")
	route := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
		"geometry":{"type":"LineString","coordinates":[[0,0],[1,1],[2,0]]}}]}`
	if err := os.WriteFile(path, []byte(route), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fc := runDemo(t, "-input", path, "-script", "drag:1:3:1")
	line, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("first feature = %T, want the polyline outline", fc.Features[0].Geometry)
	}
	want := orb.LineString{{0, 0}, {1, 3}, {2, 0}}
	if diff := cmp.Diff(want, line); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	if err := run([]string{"-input", path, "-script", "translate:1:1"}, &out); err == nil {
		t.Fatalf("translating a polyline succeeded, want error")
	}
}

func TestDemoTranslateSquare(t *testing.T) {
	fc := runDemo(t, "-script", "translate:1:1")
	outline := fc.Features[0].Geometry.(orb.Polygon)
	want := orb.Ring{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}}
	if diff := cmp.Diff(want, outline[0], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScript(t *testing.T) {
	steps, err := parseScript("delete:2,drag:1:3:4,insert:0:1.5:-2,translate:0.5:0.25,")
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	want := []step{
		{op: "delete", index: 2},
		{op: "drag", index: 1, at: model.LatLng(3, 4)},
		{op: "insert", index: 0, at: model.LatLng(1.5, -2)},
		{op: "translate", at: model.LatLng(0.5, 0.25)},
	}
	if diff := cmp.Diff(want, steps, cmp.AllowUnexported(step{})); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"delete", "delete:x", "drag:1:2", "insert:0:a:1", "translate:1", "rotate:1"} {
		if _, err := parseScript(bad); err == nil {
			t.Fatalf("parseScript(%q) succeeded, want error", bad)
		}
	}
}

func TestShapeFromGeoJSON(t *testing.T) {
	feature := `{"type":"Feature","properties":{},
		"geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,0]]]}}`
	coords, closed, err := shapeFromGeoJSON([]byte(feature))
	if err != nil || !closed {
		t.Fatalf("feature: closed = %v, err = %v", closed, err)
	}
	want := []model.Coordinate{model.LatLng(0, 0), model.LatLng(0, 2), model.LatLng(2, 2)}
	if diff := cmp.Diff(want, coords); diff != "" {
		t.Fatalf("feature vertices mismatch (-want +got):\n%s", diff)
	}

	coords, closed, err = shapeFromGeoJSON([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]}}]}`))
	if err != nil || closed || len(coords) != 2 || coords[1] != model.LatLng(4, 3) {
		t.Fatalf("collection: %+v closed = %v err = %v", coords, closed, err)
	}

	if _, _, err := shapeFromGeoJSON([]byte(`{"type":"FeatureCollection","features":[]}`)); err == nil {
		t.Fatalf("empty collection succeeded, want error")
	}
}
