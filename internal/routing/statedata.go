package routing

import (
	"github.com/OneBusAway/go-gtfs"

	"pathfinder.onebusaway.org/internal/timetable"
)

// StateData is the slower-changing payload of a state. It is shared
// structurally between a state and its children until a traversal needs to
// change a field, at which point the editor forks a private copy. A
// StateData shared by two or more states is never mutated in place.
type StateData struct {
	startTime int64

	tripID string
	route  *gtfs.Route
	zone   string

	numBoardings  int
	everBoarded   bool
	alightedLocal bool

	usingRentedBike   bool
	bikeRentalNetwork string

	noThruTrafficState NoThruTrafficState

	lastAlightedTime int64
	previousStop     Vertex
	lastTransitWalk  float64

	initialWaitTime      int64
	lastNextArrivalDelta int

	// routeSequence holds one entry per boarding, identity-compared in
	// dominance checks. Route pointers come from the parsed schedule, one
	// per route, so identity comparison is exact.
	routeSequence []*gtfs.Route

	lastPattern *timetable.TripPattern
	lastRun     int

	extensions map[string]any

	opt *Request
}

// clone returns a shallow copy. Sequence and map fields keep structural
// sharing; editor write paths that touch them copy them first.
func (d *StateData) clone() *StateData {
	c := *d
	return &c
}
