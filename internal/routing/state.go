// Package routing implements the immutable path-search state used by
// label-setting and label-correcting searches over a transportation graph,
// together with the editor that derives child states and the reverse/
// optimize pass that turns a finished search path into a minimal-waiting
// itinerary.
package routing

import (
	"slices"

	"github.com/OneBusAway/go-gtfs"

	"pathfinder.onebusaway.org/internal/timetable"
)

// State is one node of the search tree: the scalar search criteria (time,
// weight, position) plus a shared copy-on-write StateData payload. States
// are immutable once returned from an editor; all derivation goes through
// Edit. Many states share ancestor chains and payloads, which is what makes
// a label-correcting search over a large graph affordable.
type State struct {
	// time at this state, in seconds since the Unix epoch
	time int64

	// accumulated generalized cost up to this state
	weight float64

	vertex Vertex

	// back-chain for path reconstruction
	backState         *State
	backEdge          Edge
	backEdgeNarrative EdgeNarrative

	// how many edges away from the initial state
	hops int

	walkDistance float64

	// one automaton position per active path-acceptance filter
	pathParserStates []int

	stateData *StateData
}

// NewState creates an initial, parent-less state at the start of a search.
// Every other state is created through Edit on an existing state.
func NewState(v Vertex, opt *Request) *State {
	return NewStateAt(v, opt.StartTime, opt)
}

// NewStateAt creates an initial state with an explicit time, useful when
// reusing a request for several searches and in tests.
func NewStateAt(v Vertex, time int64, opt *Request) *State {
	s := &State{
		time:   time,
		vertex: v,
		stateData: &StateData{
			opt:           opt,
			startTime:     time,
			routeSequence: []*gtfs.Route{},
		},
	}
	if opt.Ctx != nil {
		s.pathParserStates = make([]int, len(opt.Ctx.PathParsers))
		for i := range s.pathParserStates {
			s.pathParserStates[i] = AutomatonStart
		}
	}
	return s
}

// Edit creates a state editor to produce a child of this state resulting
// from traversing the given edge. If the edge describes itself (implements
// EdgeNarrative) that narrative is used.
func (s *State) Edit(e Edge) *StateEditor {
	en, _ := e.(EdgeNarrative)
	return newStateEditor(s, e, en)
}

// EditWithNarrative is Edit with an explicit narrative, used when the
// traversal substitutes a narrative for the edge's own.
func (s *State) EditWithNarrative(e Edge, en EdgeNarrative) *StateEditor {
	return newStateEditor(s, e, en)
}

/* accessors; states are immutable, the set methods live on StateEditor */

// Time returns the time at this state in seconds since the Unix epoch.
func (s *State) Time() int64 {
	return s.time
}

// ElapsedTime returns the length of the trip in seconds up to this state.
func (s *State) ElapsedTime() int64 {
	return abs64(s.time - s.stateData.startTime)
}

// ActiveTime returns the elapsed time minus the initial wait, subject to
// the request's clamp. Used in lieu of reverse optimization by callers that
// only need durations.
func (s *State) ActiveTime() int64 {
	clampInitialWait := s.stateData.opt.ClampInitialWait
	initialWait := s.stateData.initialWaitTime

	// only subtract up to the clamp value
	if clampInitialWait > 0 && initialWait > clampInitialWait {
		initialWait = clampInitialWait
	}

	activeTime := s.ElapsedTime() - initialWait
	if activeTime < 0 {
		activeTime = s.ElapsedTime()
	}
	return activeTime
}

func (s *State) Weight() float64 {
	return s.weight
}

func (s *State) Vertex() Vertex {
	return s.vertex
}

func (s *State) WalkDistance() float64 {
	return s.walkDistance
}

func (s *State) TripID() string {
	return s.stateData.tripID
}

func (s *State) Route() *gtfs.Route {
	return s.stateData.route
}

func (s *State) Zone() string {
	return s.stateData.zone
}

func (s *State) NumBoardings() int {
	return s.stateData.numBoardings
}

// IsEverBoarded reports whether this path has previously boarded (or, in a
// reverse search, alighted from) a transit vehicle.
func (s *State) IsEverBoarded() bool {
	return s.stateData.everBoarded
}

func (s *State) IsAlightedLocal() bool {
	return s.stateData.alightedLocal
}

func (s *State) IsBikeRenting() bool {
	return s.stateData.usingRentedBike
}

// IsFinal reports whether the state can be the end of a path. A path cannot
// end holding a rented bike.
func (s *State) IsFinal() bool {
	return !s.IsBikeRenting()
}

func (s *State) BikeRentalNetwork() string {
	return s.stateData.bikeRentalNetwork
}

func (s *State) NoThruTrafficState() NoThruTrafficState {
	return s.stateData.noThruTrafficState
}

func (s *State) PreviousStop() Vertex {
	return s.stateData.previousStop
}

func (s *State) LastAlightedTime() int64 {
	return s.stateData.lastAlightedTime
}

func (s *State) LastNextArrivalDelta() int {
	return s.stateData.lastNextArrivalDelta
}

func (s *State) InitialWaitTime() int64 {
	return s.stateData.initialWaitTime
}

func (s *State) StartTime() int64 {
	return s.stateData.startTime
}

// LastPattern returns the timetable of the last boarded run, along with the
// run index within it.
func (s *State) LastPattern() (*timetable.TripPattern, int) {
	return s.stateData.lastPattern, s.stateData.lastRun
}

// Extension returns the extension value stored under key, or nil.
func (s *State) Extension(key string) any {
	if s.stateData.extensions == nil {
		return nil
	}
	return s.stateData.extensions[key]
}

func (s *State) Options() *Request {
	return s.stateData.opt
}

func (s *State) Context() *Context {
	return s.stateData.opt.Ctx
}

func (s *State) BackState() *State {
	return s.backState
}

func (s *State) BackEdge() Edge {
	return s.backEdge
}

func (s *State) BackEdgeNarrative() EdgeNarrative {
	return s.backEdgeNarrative
}

// IsOnboard reports whether the state is aboard a transit vehicle.
func (s *State) IsOnboard() bool {
	return s.backEdge != nil && s.backEdge.Kind().OnBoard()
}

// WalkSinceLastTransit returns the walk distance accumulated since the last
// transit leg.
func (s *State) WalkSinceLastTransit() float64 {
	return s.walkDistance - s.stateData.lastTransitWalk
}

func (s *State) WalkAtLastTransit() float64 {
	return s.stateData.lastTransitWalk
}

/* deltas relative to the parent state */

func (s *State) TimeDeltaSeconds() int64 {
	return s.time - s.backState.time
}

func (s *State) AbsTimeDeltaSeconds() int64 {
	return abs64(s.time - s.backState.time)
}

func (s *State) WeightDelta() float64 {
	return s.weight - s.backState.weight
}

func (s *State) WalkDistanceDelta() float64 {
	if s.backState == nil {
		return 0
	}
	d := s.walkDistance - s.backState.walkDistance
	if d < 0 {
		return -d
	}
	return d
}

/* comparison operators consumed by the search driver */

// Dominates reports whether this state is at least as good as other for
// pruning purposes. The relation is deliberately tolerant: states on
// different route sequences dominate only within narrow weight and time
// bands, keeping near-optimal alternate routes alive for itinerary
// diversity. A zero weight on other is treated as "nothing to compare
// against", never as a real zero-cost state. States that disagree on bike
// rental are never comparable.
func (s *State) Dominates(other *State) bool {
	if other.weight == 0 {
		return false
	}
	if s.IsBikeRenting() != other.IsBikeRenting() {
		return false
	}

	if s.SimilarRouteSequence(other) {
		return s.weight <= other.weight
	}

	weightRatio := s.weight / other.weight
	return weightRatio < 1.02 && s.weight-other.weight < 30 &&
		abs64(s.ElapsedTime()-other.ElapsedTime()) <= 30
}

// BetterThan reports whether this state's weight is strictly lower than the
// other's. Considers only weight, used where a single best label is needed
// rather than a Pareto set.
func (s *State) BetterThan(other *State) bool {
	return s.weight < other.weight
}

// SimilarRouteSequence reports whether one state's route sequence is a
// prefix of the other's (or they are equal).
func (s *State) SimilarRouteSequence(other *State) bool {
	rs0 := s.stateData.routeSequence
	rs1 := other.stateData.routeSequence
	n := len(rs0)
	if len(rs1) < n {
		n = len(rs1)
	}
	for i := 0; i < n; i++ {
		if rs0[i] != rs1[i] {
			return false
		}
	}
	return true
}

func (s *State) ExceedsHopLimit(maxHops int) bool {
	return s.hops > maxHops
}

func (s *State) ExceedsWeightLimit(maxWeight float64) bool {
	return s.weight > maxWeight
}

// NonTransitMode returns the mode in use when not on transit: CAR if
// requested, otherwise WALK unless riding an owned or rented bicycle.
func (s *State) NonTransitMode(options *Request) TraverseMode {
	modes := options.Modes
	if modes.Car {
		return ModeCar
	}
	if modes.Walk && !s.IsBikeRenting() {
		return ModeWalk
	}
	if modes.Bicycle {
		return ModeBicycle
	}
	if modes.Walk {
		return ModeWalk
	}
	return ModeNone
}

// MultipleOptionsBefore reports whether the decision point behind this
// state had a genuine alternative: another street edge out of the parent
// vertex, traversable in the requested non-transit mode, from which a
// continuing edge exists. The extra hop absorbs the case where an
// alternative only becomes usable after walking the bike one edge further.
func (s *State) MultipleOptionsBefore() bool {
	foundAlternatePaths := false
	requestedMode := s.NonTransitMode(s.Options())
	for _, out := range s.backState.vertex.Outgoing() {
		if out == s.backEdge {
			continue
		}
		if out.Kind() != EdgeKindStreet {
			continue
		}
		outState := out.Traverse(s.backState)
		if outState == nil {
			continue
		}
		if outState.BackEdgeNarrative().Mode() != requestedMode {
			// walking a bike, so not really an exit
			continue
		}

		// from here, try a continuing path
		found := false
		for _, out2 := range outState.Vertex().Outgoing() {
			outState2 := out2.Traverse(outState)
			if outState2 != nil && outState2.BackEdgeNarrative().Mode() != requestedMode {
				continue
			}
			found = true
			break
		}
		if !found {
			continue
		}

		// there were paths we didn't take
		foundAlternatePaths = true
		break
	}
	return foundAlternatePaths
}

// AllPathParsersAccept reports whether every active filter accepts ending
// an itinerary at this state.
func (s *State) AllPathParsersAccept() bool {
	if s.stateData.opt.Ctx == nil {
		return true
	}
	parsers := s.stateData.opt.Ctx.PathParsers
	for i, p := range parsers {
		if i >= len(s.pathParserStates) {
			break
		}
		if !p.Accepts(s.pathParserStates[i]) {
			return false
		}
	}
	return true
}

// ReversedClone produces a fresh initial state at the same vertex and time
// with the time direction flipped, carrying over the last boarded run and
// the initial wait. The automaton position vector is copied by value and
// never aliased with the source.
func (s *State) ReversedClone() *State {
	clone := NewStateAt(s.vertex, s.time, s.stateData.opt.ReversedClone())
	clone.stateData.lastPattern = s.stateData.lastPattern
	clone.stateData.lastRun = s.stateData.lastRun
	// make sure this is propagated forward
	clone.stateData.initialWaitTime = s.stateData.initialWaitTime
	clone.pathParserStates = slices.Clone(s.pathParserStates)
	return clone
}

// initializeFieldsFrom copies over the StateData fields that a
// reverse-optimize pass does not naturally recompute.
func (s *State) initializeFieldsFrom(o *State) {
	current := s.stateData
	s.stateData = o.stateData.clone()
	s.stateData.initialWaitTime = current.initialWaitTime
	// re-set on the next alight (or board, in a reverse search)
	s.stateData.lastNextArrivalDelta = -1
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
