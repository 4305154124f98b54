// Command mapdraw-demo replays a scripted list of edits against an editor
// rendered on the in-memory surface and prints the resulting scene as
// GeoJSON.
//
//	mapdraw-demo -script 'delete:0,insert:0:2.5:1,translate:5:5'
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/signalsfoundry/mapdraw/core"
	"github.com/signalsfoundry/mapdraw/internal/config"
	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/internal/surface"
	"github.com/signalsfoundry/mapdraw/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "mapdraw-demo:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mapdraw-demo", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a TOML config file with [editor] defaults")
	inputPath := fs.String("input", "", "GeoJSON Feature or FeatureCollection holding the shape to edit (default: a 2x2 degree square)")
	script := fs.String("script", "", "Comma-separated edits: delete:i, drag:i:lat:lng, insert:i:lat:lng, translate:lat:lng")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log)

	coords, closed, err := loadShape(*inputPath)
	if err != nil {
		return err
	}
	steps, err := parseScript(*script)
	if err != nil {
		return err
	}

	topo := editor.Chain
	if closed {
		topo = editor.Ring
	}
	surf := surface.NewMemory()
	opts := append(cfg.Editor.Options(),
		editor.WithID("demo"),
		editor.WithCoordinates(coords),
		editor.WithLogger(log),
		editor.WithCallbacks(editor.Callbacks{
			OnEditEnd: func(ev editor.EditEvent) {
				log.Info(context.Background(), "edit",
					logging.String("kind", ev.Kind.String()),
					logging.Int("index", ev.Index),
					logging.Int("vertices", len(ev.Coordinates)),
				)
			},
		}),
	)
	ed := editor.New(topo, surf, opts...)
	defer ed.Close()

	for _, st := range steps {
		if err := st.apply(ed); err != nil {
			return fmt.Errorf("%s: %w", st, err)
		}
	}
	surf.Compact()

	data, err := surf.GeoJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(stdout)
	return err
}

func loadShape(path string) ([]model.Coordinate, bool, error) {
	if path == "" {
		return []model.Coordinate{
			model.LatLng(0, 0),
			model.LatLng(2, 0),
			model.LatLng(2, 2),
			model.LatLng(0, 2),
		}, true, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return shapeFromGeoJSON(data)
}

func shapeFromGeoJSON(data []byte) ([]model.Coordinate, bool, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		if len(fc.Features) == 0 {
			return nil, false, errors.New("feature collection is empty")
		}
		return core.ShapeFromGeometry(fc.Features[0].Geometry)
	}
	f, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return nil, false, fmt.Errorf("parse geojson: %w", err)
	}
	return core.ShapeFromGeometry(f.Geometry)
}

type step struct {
	op    string
	index int
	at    model.Coordinate
}

func (s step) String() string {
	switch s.op {
	case "delete":
		return fmt.Sprintf("delete:%d", s.index)
	case "translate":
		return fmt.Sprintf("translate:%g:%g", s.at.Latitude, s.at.Longitude)
	default:
		return fmt.Sprintf("%s:%d:%g:%g", s.op, s.index, s.at.Latitude, s.at.Longitude)
	}
}

func (s step) apply(ed *editor.Editor) error {
	switch s.op {
	case "delete":
		return ed.DeleteVertex(s.index)
	case "drag":
		if err := ed.BeginVertexDrag(s.index, s.at); err != nil {
			return err
		}
		if err := ed.DragVertex(s.index, s.at); err != nil {
			return err
		}
		return ed.EndVertexDrag(s.index, s.at)
	case "insert":
		if err := ed.DragMidpoint(s.index, s.at); err != nil {
			return err
		}
		return ed.EndMidpointDrag(s.index, s.at)
	case "translate":
		center, ok := ed.Center()
		if !ok {
			return errors.New("shape cannot be translated")
		}
		target := core.Add(center, s.at)
		if err := ed.BeginShapeDrag(center); err != nil {
			return err
		}
		if err := ed.DragShape(target); err != nil {
			return err
		}
		return ed.EndShapeDrag(target)
	}
	return fmt.Errorf("unknown op %q", s.op)
}

// parseScript reads the -script flag. translate takes a lat/lng delta.
func parseScript(script string) ([]step, error) {
	var steps []step
	for _, raw := range strings.Split(script, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		st := step{op: strings.ToLower(parts[0])}
		var nums []string
		switch st.op {
		case "delete":
			if len(parts) != 2 {
				return nil, fmt.Errorf("%q: want delete:index", raw)
			}
		case "drag", "insert":
			if len(parts) != 4 {
				return nil, fmt.Errorf("%q: want %s:index:lat:lng", raw, st.op)
			}
			nums = parts[2:]
		case "translate":
			if len(parts) != 3 {
				return nil, fmt.Errorf("%q: want translate:dlat:dlng", raw)
			}
			nums = parts[1:]
		default:
			return nil, fmt.Errorf("%q: unknown op", raw)
		}
		if st.op != "translate" {
			i, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("%q: bad index: %w", raw, err)
			}
			st.index = i
		}
		if nums != nil {
			lat, err := strconv.ParseFloat(nums[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%q: bad latitude: %w", raw, err)
			}
			lng, err := strconv.ParseFloat(nums[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%q: bad longitude: %w", raw, err)
			}
			st.at = model.LatLng(lat, lng)
		}
		steps = append(steps, st)
	}
	return steps, nil
}
