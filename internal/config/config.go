// Package config loads the gesture server configuration from a TOML file,
// overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/signalsfoundry/mapdraw/core"
	"github.com/signalsfoundry/mapdraw/internal/editor"
	"github.com/signalsfoundry/mapdraw/internal/logging"
	"github.com/signalsfoundry/mapdraw/internal/observability"
	"github.com/signalsfoundry/mapdraw/model"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete server configuration.
type Config struct {
	Server  Server                      `toml:"server"`
	Log     logging.Config              `toml:"log"`
	Tracing observability.TracingConfig `toml:"tracing"`
	Editor  Editor                      `toml:"editor"`
}

// Server holds listen addresses.
type Server struct {
	GRPCAddr    string `toml:"grpc_addr"`
	MetricsAddr string `toml:"metrics_addr"` // empty disables /metrics
}

// Editor holds the defaults applied to every session the server opens.
type Editor struct {
	Draggable    bool         `toml:"draggable"`
	ZIndex       int          `toml:"z_index"`
	Metric       string       `toml:"metric"`   // spherical | planar
	Centroid     string       `toml:"centroid"` // bounds | mean
	ClearOnHide  bool         `toml:"clear_on_hide"`
	Anchor       model.Anchor `toml:"anchor"`
	VertexSize   model.Size   `toml:"vertex_size"`
	MidpointSize model.Size   `toml:"midpoint_size"` // zero means half the vertex size

	Shape    model.ShapeStyle  `toml:"shape"`
	Vertex   model.HandleStyle `toml:"vertex"`
	Midpoint model.HandleStyle `toml:"midpoint"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			GRPCAddr:    ":50061",
			MetricsAddr: ":9091",
		},
		Log:     logging.Config{Level: "info", Format: "text"},
		Tracing: observability.DefaultTracingConfig(),
		Editor: Editor{
			Draggable:  true,
			ZIndex:     1,
			Metric:     core.Spherical{}.Name(),
			Centroid:   core.BoundsCenter{}.Name(),
			Anchor:     model.CenterAnchor,
			VertexSize: model.Size{Width: 30, Height: 30},
		},
	}
}

// Load decodes TOML from r on top of Default. Unknown keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadFile reads path, applies the environment and validates the result. An
// empty path starts from Default.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if cfg, err = Load(f); err != nil {
			return Config{}, err
		}
	}
	cfg = cfg.WithEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithEnv overlays MAPDRAW_*, LOG_* and MAPDRAW_TRACING_* variables.
func (c Config) WithEnv() Config {
	if v := os.Getenv("MAPDRAW_GRPC_ADDR"); v != "" {
		c.Server.GRPCAddr = v
	}
	if v, ok := os.LookupEnv("MAPDRAW_METRICS_ADDR"); ok {
		c.Server.MetricsAddr = v
	}
	if v := os.Getenv("MAPDRAW_METRIC"); v != "" {
		c.Editor.Metric = strings.ToLower(v)
	}
	if v := os.Getenv("MAPDRAW_CENTROID"); v != "" {
		c.Editor.Centroid = strings.ToLower(v)
	}
	c.Log = logging.ConfigFromEnv(c.Log)
	c.Tracing = observability.TracingConfigFromEnvWithBase(c.Tracing)
	return c
}

// Validate checks enumerations and sizes.
func (c Config) Validate() error {
	switch c.Editor.Metric {
	case "spherical", "planar":
	default:
		return fmt.Errorf("%w: editor.metric %q (want spherical or planar)", ErrInvalid, c.Editor.Metric)
	}
	switch c.Editor.Centroid {
	case "bounds", "mean":
	default:
		return fmt.Errorf("%w: editor.centroid %q (want bounds or mean)", ErrInvalid, c.Editor.Centroid)
	}
	if c.Editor.VertexSize.Width <= 0 || c.Editor.VertexSize.Height <= 0 {
		return fmt.Errorf("%w: editor.vertex_size must be positive", ErrInvalid)
	}
	if c.Server.GRPCAddr == "" {
		return fmt.Errorf("%w: server.grpc_addr is required", ErrInvalid)
	}
	return nil
}

// Options turns the editor defaults into editor options.
func (e Editor) Options() []editor.Option {
	opts := []editor.Option{
		editor.WithDraggable(e.Draggable),
		editor.WithZIndex(e.ZIndex),
		editor.WithMetric(core.MetricByName(e.Metric)),
		editor.WithCentroid(core.CentroidByName(e.Centroid)),
		editor.WithClearOnHide(e.ClearOnHide),
		editor.WithAnchor(e.Anchor),
		editor.WithVertexSize(e.VertexSize),
		editor.WithShapeStyle(e.Shape),
		editor.WithVertexStyle(e.Vertex),
		editor.WithMidpointStyle(e.Midpoint),
	}
	if !e.MidpointSize.IsZero() {
		opts = append(opts, editor.WithMidpointSize(e.MidpointSize))
	}
	return opts
}
