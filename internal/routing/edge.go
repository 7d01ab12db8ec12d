package routing

// Vertex is a node of the transportation graph. The graph itself is owned
// by the caller; the search core only follows outgoing edges and keeps
// vertex references inside states.
type Vertex interface {
	Label() string
	Outgoing() []Edge
}

// EdgeKind tags an edge with its traversal class. The search and the
// optimizer branch on the kind instead of inspecting concrete edge types.
type EdgeKind int

const (
	EdgeKindOther EdgeKind = iota
	// EdgeKindStreet marks edges traversable by non-transit modes.
	EdgeKindStreet
	// EdgeKindBoard marks edges that board a scheduled vehicle.
	EdgeKindBoard
	// EdgeKindAlight marks edges that leave a scheduled vehicle.
	EdgeKindAlight
	// EdgeKindHop marks on-board edges between consecutive stops.
	EdgeKindHop
	// EdgeKindDwell marks on-board edges that wait at a stop.
	EdgeKindDwell
)

// OnBoard reports whether a state whose back edge has this kind is aboard
// a transit vehicle.
func (k EdgeKind) OnBoard() bool {
	return k == EdgeKindHop || k == EdgeKindDwell
}

// Edge is the single capability the search core requires from graph edges.
// Traverse produces the child state that results from crossing the edge
// from s, or nil when the edge is not feasible from s (wrong mode, no
// remaining scheduled run, and so on).
type Edge interface {
	Kind() EdgeKind
	Traverse(s *State) *State
}

// BoardingEdge is implemented by scheduled-boarding edges. TraverseWithHint
// traverses like Traverse but seeds the initial wait from hintTime instead
// of from the traversed state's own time; the optimizer uses it on the
// first boarding of a trip so the wait is accounted at the true origin.
type BoardingEdge interface {
	Edge
	TraverseWithHint(s *State, hintTime int64) *State
}

// MultiResultEdge is implemented by edges whose traversal can yield several
// child states. TraverseMulti returns an owned slice; callers may retain or
// discard it freely, and the returned states carry no linkage to each other.
type MultiResultEdge interface {
	Edge
	TraverseMulti(s *State) []*State
}

// EdgeNarrative describes an edge for path reconstruction: its endpoints
// and the mode used to cross it. Edges usually act as their own narrative;
// traversals that need to substitute endpoints use a mutable narrative.
type EdgeNarrative interface {
	FromVertex() Vertex
	ToVertex() Vertex
	Mode() TraverseMode
}

// MutableEdgeNarrative is a narrative whose endpoints may be filled in
// after construction, used when a reversal produces a narrative with
// endpoints not yet known.
type MutableEdgeNarrative interface {
	EdgeNarrative
	SetFromVertex(v Vertex)
	SetToVertex(v Vertex)
}
