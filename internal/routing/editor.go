package routing

import (
	"fmt"

	"github.com/OneBusAway/go-gtfs"

	"pathfinder.onebusaway.org/internal/timetable"
)

// NegativeWeightError signals that a traversal produced a child state whose
// weight is lower than its parent's. The cost model is inconsistent and the
// traversal that produced the state must not continue; the editor panics
// with this error from MakeState.
type NegativeWeightError struct {
	Delta float64
	Edge  Edge
}

func (e *NegativeWeightError) Error() string {
	return fmt.Sprintf("routing: negative weight delta %v on edge %v", e.Delta, e.Edge)
}

// StateEditor is the only way to derive a child state from a parent plus an
// edge traversal. It owns copy-on-write of the shared StateData payload: a
// child that changes no payload field shares its parent's StateData, and
// the first payload write forks a private copy exactly once. An editor
// produces exactly one state.
type StateEditor struct {
	child          *State
	spawnedOwnData bool
	defective      bool
	done           bool
}

func newStateEditor(parent *State, e Edge, en EdgeNarrative) *StateEditor {
	child := &State{
		time:              parent.time,
		weight:            parent.weight,
		vertex:            parent.vertex,
		backState:         parent,
		backEdge:          e,
		backEdgeNarrative: en,
		hops:              parent.hops + 1,
		walkDistance:      parent.walkDistance,
		stateData:         parent.stateData,
	}
	if en != nil {
		if parent.Options().Arriving {
			child.vertex = en.FromVertex()
		} else {
			child.vertex = en.ToVertex()
		}
	}
	ed := &StateEditor{child: child}
	ed.advancePathParsers(parent, e)
	return ed
}

func (ed *StateEditor) advancePathParsers(parent *State, e Edge) {
	opt := parent.Options()
	if opt.Ctx == nil || len(opt.Ctx.PathParsers) == 0 {
		// positions are immutable, sharing the parent's vector is safe
		ed.child.pathParserStates = parent.pathParserStates
		return
	}
	parsers := opt.Ctx.PathParsers
	positions := make([]int, len(parent.pathParserStates))
	copy(positions, parent.pathParserStates)
	for i, p := range parsers {
		if i >= len(positions) {
			break
		}
		next := p.Transition(positions[i], e)
		if next == AutomatonReject {
			ed.defective = true
		}
		positions[i] = next
	}
	ed.child.pathParserStates = positions
}

// MakeState commits the edits and returns the child state, or nil when the
// traversal was marked defective (a path filter rejected it). A weight
// lower than the parent's signals an inconsistent cost model and panics
// with *NegativeWeightError.
func (ed *StateEditor) MakeState() *State {
	if ed.done {
		panic("routing: state editor already produced its state")
	}
	ed.done = true

	if ed.defective {
		return nil
	}
	if dw := ed.child.weight - ed.child.backState.weight; dw < 0 {
		panic(&NegativeWeightError{Delta: dw, Edge: ed.child.backEdge})
	}
	return ed.child
}

// cloneStateDataAsNeeded forks the shared payload before the first write.
func (ed *StateEditor) cloneStateDataAsNeeded() {
	if !ed.spawnedOwnData {
		ed.child.stateData = ed.child.stateData.clone()
		ed.spawnedOwnData = true
	}
}

// SetVertex overrides the vertex derived from the narrative.
func (ed *StateEditor) SetVertex(v Vertex) {
	ed.child.vertex = v
}

// IncrementTimeInSeconds moves the child's time by the given number of
// seconds, in whichever direction the request travels.
func (ed *StateEditor) IncrementTimeInSeconds(seconds int64) {
	if ed.child.Options().Arriving {
		ed.child.time -= seconds
	} else {
		ed.child.time += seconds
	}
}

// SetTimeSeconds pins the child's time, used by schedule-dependent edges
// that jump to a departure or arrival time.
func (ed *StateEditor) SetTimeSeconds(t int64) {
	ed.child.time = t
}

func (ed *StateEditor) IncrementWeight(delta float64) {
	ed.child.weight += delta
}

func (ed *StateEditor) IncrementWalkDistance(delta float64) {
	ed.child.walkDistance += delta
}

func (ed *StateEditor) SetWalkDistance(d float64) {
	ed.child.walkDistance = d
}

/* payload writes; each forks the shared StateData once */

func (ed *StateEditor) SetTripID(tripID string) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.tripID = tripID
}

// SetRoute records the boarded route and appends it to the route sequence
// used by dominance checks. The sequence is copied, never extended in
// place, so ancestors sharing the old backing array are unaffected.
func (ed *StateEditor) SetRoute(route *gtfs.Route) {
	ed.cloneStateDataAsNeeded()
	d := ed.child.stateData
	d.route = route
	seq := make([]*gtfs.Route, len(d.routeSequence), len(d.routeSequence)+1)
	copy(seq, d.routeSequence)
	d.routeSequence = append(seq, route)
}

func (ed *StateEditor) SetZone(zone string) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.zone = zone
}

func (ed *StateEditor) IncrementNumBoardings() {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.numBoardings++
}

func (ed *StateEditor) SetEverBoarded(everBoarded bool) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.everBoarded = everBoarded
}

func (ed *StateEditor) SetAlightedLocal(alightedLocal bool) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.alightedLocal = alightedLocal
}

func (ed *StateEditor) SetLastAlightedTime(t int64) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.lastAlightedTime = t
}

func (ed *StateEditor) SetPreviousStop(stop Vertex) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.previousStop = stop
}

func (ed *StateEditor) SetBikeRenting(renting bool) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.usingRentedBike = renting
}

func (ed *StateEditor) SetBikeRentalNetwork(network string) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.bikeRentalNetwork = network
}

func (ed *StateEditor) SetNoThruTrafficState(state NoThruTrafficState) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.noThruTrafficState = state
}

// SetLastPattern records the timetable and run boarded by this traversal.
func (ed *StateEditor) SetLastPattern(p *timetable.TripPattern, run int) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.lastPattern = p
	ed.child.stateData.lastRun = run
}

func (ed *StateEditor) SetInitialWaitTime(wait int64) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.initialWaitTime = wait
}

func (ed *StateEditor) SetLastNextArrivalDelta(delta int) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.lastNextArrivalDelta = delta
}

// SetWalkAtLastTransit records the accumulated walk distance at the moment
// of boarding, the baseline for WalkSinceLastTransit.
func (ed *StateEditor) SetWalkAtLastTransit(d float64) {
	ed.cloneStateDataAsNeeded()
	ed.child.stateData.lastTransitWalk = d
}

// SetExtension stores a value in the open-ended extension map. The map is
// copied on write so states sharing the parent's payload never observe the
// change.
func (ed *StateEditor) SetExtension(key string, value any) {
	ed.cloneStateDataAsNeeded()
	d := ed.child.stateData
	ext := make(map[string]any, len(d.extensions)+1)
	for k, v := range d.extensions {
		ext[k] = v
	}
	ext[key] = value
	d.extensions = ext
}

// SetFromState copies path attribution (trip, route, zone) from a state on
// the original chain onto a reversed child, which a bare reversal would
// otherwise leave unset.
func (ed *StateEditor) SetFromState(orig *State) {
	ed.cloneStateDataAsNeeded()
	d := ed.child.stateData
	d.tripID = orig.stateData.tripID
	d.route = orig.stateData.route
	d.zone = orig.stateData.zone
}
