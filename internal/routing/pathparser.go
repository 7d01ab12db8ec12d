package routing

// Automaton positions used by path-acceptance filters.
const (
	// AutomatonStart is the position every filter starts in.
	AutomatonStart = 0
	// AutomatonReject marks a position from which no itinerary can be
	// accepted; a traversal that reaches it is discarded.
	AutomatonReject = -1
)

// PathParser is a path-acceptance filter: an automaton over edge sequences
// that rejects structurally invalid itineraries. One position per filter is
// tracked on every state; the state editor advances positions as edges are
// traversed.
type PathParser interface {
	// Accepts reports whether an itinerary may end at the given position.
	Accepts(position int) bool
	// Transition returns the position reached by traversing e from the
	// given position, or AutomatonReject.
	Transition(position int, e Edge) int
}
