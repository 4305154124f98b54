package editor

// NoIndex marks an absent position: a missing flanking edge at the end of a
// chain, or an event that is not tied to one vertex.
const NoIndex = -1

// Topology is the part of shape editing that differs between polygons and
// polylines: how vertices connect into edges.
type Topology interface {
	// Name is "polygon" or "polyline"; it labels logs and metrics.
	Name() string
	// MinVertices is the floor below which deletes are ignored.
	MinVertices() int
	// EdgeCount is the number of edges, and so of midpoint handles, for n
	// vertices.
	EdgeCount(n int) int
	// EdgeEnds returns the vertex indices joined by edge.
	EdgeEnds(edge, n int) (int, int)
	// FlankingEdges returns the edges touching vertex. Either may be NoIndex.
	FlankingEdges(vertex, n int) (lower, upper int)
	// Outline is the outline kind the host should draw.
	Outline() OutlineKind
	// Translatable reports whether the whole shape can be dragged.
	Translatable() bool
}

// Ring is the closed topology used by polygons: the last vertex connects
// back to the first.
var Ring Topology = ring{}

// Chain is the open topology used by polylines.
var Chain Topology = chain{}

type ring struct{}

func (ring) Name() string         { return "polygon" }
func (ring) MinVertices() int     { return 3 }
func (ring) Outline() OutlineKind { return OutlinePolygon }
func (ring) Translatable() bool   { return true }

func (ring) EdgeCount(n int) int {
	if n < 2 {
		return 0
	}
	return n
}

func (ring) EdgeEnds(edge, n int) (int, int) {
	return edge, (edge + 1) % n
}

func (ring) FlankingEdges(vertex, n int) (int, int) {
	if n < 2 {
		return NoIndex, NoIndex
	}
	// Vertex 0 wraps to the closing edge N-1.
	return (vertex - 1 + n) % n, vertex
}

type chain struct{}

func (chain) Name() string         { return "polyline" }
func (chain) MinVertices() int     { return 2 }
func (chain) Outline() OutlineKind { return OutlinePolyline }
func (chain) Translatable() bool   { return false }

func (chain) EdgeCount(n int) int {
	if n < 2 {
		return 0
	}
	return n - 1
}

func (chain) EdgeEnds(edge, _ int) (int, int) {
	return edge, edge + 1
}

func (chain) FlankingEdges(vertex, n int) (int, int) {
	lower, upper := vertex-1, vertex
	if vertex == 0 {
		lower = NoIndex
	}
	if vertex >= n-1 {
		upper = NoIndex
	}
	return lower, upper
}
