package gesture

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/mapdraw/internal/session"
	"github.com/signalsfoundry/mapdraw/model"
)

// Target is the handle a gesture acts on.
type Target string

const (
	TargetVertex   Target = "vertex"
	TargetMidpoint Target = "midpoint"
	TargetShape    Target = "shape"
)

// Phase is the step of a gesture.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseMove  Phase = "move"
	PhaseEnd   Phase = "end"
	// PhasePress is a tap on a vertex, which deletes it.
	PhasePress Phase = "press"
)

// Gesture is one host callback forwarded to a session.
type Gesture struct {
	SessionID  string
	Target     Target
	Phase      Phase
	Index      int
	Coordinate model.Coordinate
}

// Scene is the state of a session after a call.
type Scene struct {
	SessionID   string
	Shape       string
	Revision    uint64
	Coordinates []model.Coordinate
	Midpoints   []model.Coordinate
	Center      *model.Coordinate
	GeoJSON     string
}

// OpenSessionRequest encodes an OpenSession call.
func OpenSessionRequest(req session.OpenRequest) (*structpb.Struct, error) {
	fields := map[string]any{
		"shape":       req.Shape,
		"coordinates": coordinatesToList(req.Coordinates),
	}
	if req.ID != "" {
		fields["id"] = req.ID
	}
	if req.Draggable != nil {
		fields["draggable"] = *req.Draggable
	}
	return structpb.NewStruct(fields)
}

// DispatchRequest encodes a Dispatch call.
func DispatchRequest(g Gesture) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"session_id": g.SessionID,
		"target":     string(g.Target),
		"phase":      string(g.Phase),
		"index":      g.Index,
		"latitude":   g.Coordinate.Latitude,
		"longitude":  g.Coordinate.Longitude,
	})
}

// OverridesRequest encodes an ApplyOverrides call.
func OverridesRequest(sessionID string, o model.Overrides) (*structpb.Struct, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["session_id"] = sessionID
	return structpb.NewStruct(fields)
}

// SessionRequest encodes a call that only names a session.
func SessionRequest(sessionID string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"session_id": structpb.NewStringValue(sessionID),
	}}
}

func openFromStruct(in *structpb.Struct) (session.OpenRequest, error) {
	if in == nil {
		return session.OpenRequest{}, fmt.Errorf("%w: request is required", ErrInvalidGesture)
	}
	req := session.OpenRequest{
		ID:    in.GetFields()["id"].GetStringValue(),
		Shape: strings.ToLower(in.GetFields()["shape"].GetStringValue()),
	}
	coords, err := coordinatesFromValue(in.GetFields()["coordinates"])
	if err != nil {
		return session.OpenRequest{}, err
	}
	req.Coordinates = coords
	if v, ok := in.GetFields()["draggable"]; ok {
		b, isBool := v.GetKind().(*structpb.Value_BoolValue)
		if !isBool {
			return session.OpenRequest{}, fmt.Errorf("%w: draggable must be a bool", ErrInvalidGesture)
		}
		req.Draggable = &b.BoolValue
	}
	return req, nil
}

func gestureFromStruct(in *structpb.Struct) (Gesture, error) {
	id, err := sessionIDFromStruct(in)
	if err != nil {
		return Gesture{}, err
	}
	f := in.GetFields()
	g := Gesture{
		SessionID: id,
		Target:    Target(strings.ToLower(f["target"].GetStringValue())),
		Phase:     Phase(strings.ToLower(f["phase"].GetStringValue())),
	}
	switch g.Target {
	case TargetVertex, TargetMidpoint, TargetShape:
	default:
		return Gesture{}, fmt.Errorf("%w: unknown target %q", ErrInvalidGesture, g.Target)
	}
	switch g.Phase {
	case PhaseStart, PhaseMove, PhaseEnd, PhasePress:
	default:
		return Gesture{}, fmt.Errorf("%w: unknown phase %q", ErrInvalidGesture, g.Phase)
	}

	if g.Target != TargetShape {
		idx, err := intField(f, "index")
		if err != nil {
			return Gesture{}, err
		}
		g.Index = idx
	}
	if g.Phase != PhasePress {
		c, err := coordinateFromFields(f)
		if err != nil {
			return Gesture{}, err
		}
		g.Coordinate = c
	}
	return g, nil
}

func overridesFromStruct(in *structpb.Struct) (string, model.Overrides, error) {
	id, err := sessionIDFromStruct(in)
	if err != nil {
		return "", model.Overrides{}, err
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return "", model.Overrides{}, fmt.Errorf("%w: %v", ErrInvalidGesture, err)
	}
	var o model.Overrides
	if err := json.Unmarshal(raw, &o); err != nil {
		return "", model.Overrides{}, fmt.Errorf("%w: overrides: %v", ErrInvalidGesture, err)
	}
	return id, o, nil
}

func sessionIDFromStruct(in *structpb.Struct) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: request is required", ErrInvalidGesture)
	}
	id := in.GetFields()["session_id"].GetStringValue()
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: session_id is required", ErrInvalidGesture)
	}
	return id, nil
}

func sceneToStruct(sc Scene) (*structpb.Struct, error) {
	fields := map[string]any{
		"session_id":  sc.SessionID,
		"shape":       sc.Shape,
		"revision":    sc.Revision,
		"coordinates": coordinatesToList(sc.Coordinates),
		"midpoints":   coordinatesToList(sc.Midpoints),
		"geojson":     sc.GeoJSON,
	}
	if sc.Center != nil {
		fields["center"] = coordinateToMap(*sc.Center)
	}
	return structpb.NewStruct(fields)
}

// SceneFromStruct decodes a scene returned by the service.
func SceneFromStruct(in *structpb.Struct) (Scene, error) {
	if in == nil {
		return Scene{}, fmt.Errorf("%w: empty scene", ErrInvalidGesture)
	}
	f := in.GetFields()
	sc := Scene{
		SessionID: f["session_id"].GetStringValue(),
		Shape:     f["shape"].GetStringValue(),
		Revision:  uint64(f["revision"].GetNumberValue()),
		GeoJSON:   f["geojson"].GetStringValue(),
	}
	var err error
	if sc.Coordinates, err = coordinatesFromValue(f["coordinates"]); err != nil {
		return Scene{}, err
	}
	if sc.Midpoints, err = coordinatesFromValue(f["midpoints"]); err != nil {
		return Scene{}, err
	}
	if v, ok := f["center"]; ok {
		c, err := coordinateFromFields(v.GetStructValue().GetFields())
		if err != nil {
			return Scene{}, err
		}
		sc.Center = &c
	}
	return sc, nil
}

func coordinatesToList(coords []model.Coordinate) []any {
	out := make([]any, len(coords))
	for i, c := range coords {
		out[i] = coordinateToMap(c)
	}
	return out
}

func coordinateToMap(c model.Coordinate) map[string]any {
	return map[string]any{"latitude": c.Latitude, "longitude": c.Longitude}
}

func coordinatesFromValue(v *structpb.Value) ([]model.Coordinate, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%w: coordinates must be a list", ErrInvalidGesture)
	}
	out := make([]model.Coordinate, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		st := item.GetStructValue()
		if st == nil {
			return nil, fmt.Errorf("%w: coordinate %d must be an object", ErrInvalidGesture, i)
		}
		c, err := coordinateFromFields(st.GetFields())
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func coordinateFromFields(f map[string]*structpb.Value) (model.Coordinate, error) {
	lat, err := numberField(f, "latitude")
	if err != nil {
		return model.Coordinate{}, err
	}
	lng, err := numberField(f, "longitude")
	if err != nil {
		return model.Coordinate{}, err
	}
	if lat < -90 || lat > 90 {
		return model.Coordinate{}, fmt.Errorf("%w: latitude %v out of range", ErrInvalidGesture, lat)
	}
	if lng < -180 || lng > 180 {
		return model.Coordinate{}, fmt.Errorf("%w: longitude %v out of range", ErrInvalidGesture, lng)
	}
	return model.LatLng(lat, lng), nil
}

func numberField(f map[string]*structpb.Value, key string) (float64, error) {
	v, ok := f[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidGesture, key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", ErrInvalidGesture, key)
	}
	return n.NumberValue, nil
}

func intField(f map[string]*structpb.Value, key string) (int, error) {
	n, err := numberField(f, key)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidGesture, key)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %v out of range", ErrInvalidGesture, key, n)
	}
	return int(n), nil
}
