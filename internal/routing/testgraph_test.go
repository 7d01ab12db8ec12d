package routing

// Fake graph elements shared by the tests in this package. Edges follow the
// same conventions real edge implementations do: they are their own
// narrative, they branch on the request's Arriving flag for time direction,
// and schedule-dependent edges consult a TripPattern.

import (
	"testing"

	"github.com/OneBusAway/go-gtfs"
	"github.com/stretchr/testify/require"

	"pathfinder.onebusaway.org/internal/timetable"
)

type testVertex struct {
	label    string
	lat, lon float64
	outgoing []Edge
}

func (v *testVertex) Label() string    { return v.label }
func (v *testVertex) Outgoing() []Edge { return v.outgoing }
func (v *testVertex) Coordinates() (float64, float64) {
	return v.lat, v.lon
}

func newTestRequest(startTime int64) *Request {
	return &Request{
		StartTime: startTime,
		Modes:     TraverseModeSet{Walk: true, Transit: true},
		Ctx:       &Context{},
	}
}

// streetEdge is a fixed-cost edge traversable in both time directions.
type streetEdge struct {
	from, to *testVertex
	seconds  int64
	cost     float64
	meters   float64
	mode     TraverseMode
}

func walkEdge(from, to *testVertex, seconds int64) *streetEdge {
	return &streetEdge{from: from, to: to, seconds: seconds, cost: float64(seconds), meters: float64(seconds), mode: ModeWalk}
}

func (e *streetEdge) Kind() EdgeKind      { return EdgeKindStreet }
func (e *streetEdge) FromVertex() Vertex  { return e.from }
func (e *streetEdge) ToVertex() Vertex    { return e.to }
func (e *streetEdge) Mode() TraverseMode  { return e.mode }
func (e *streetEdge) Traverse(s *State) *State {
	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(e.seconds)
	ed.IncrementWeight(e.cost)
	ed.IncrementWalkDistance(e.meters)
	return ed.MakeState()
}

// boardEdge boards the next feasible run of a pattern going forward; going
// backward in time it simply steps off the vehicle onto the stop.
type boardEdge struct {
	stop, onboard *testVertex
	pattern       *timetable.TripPattern
	stopIndex     int
	route         *gtfs.Route
	tripID        string
}

func (e *boardEdge) Kind() EdgeKind     { return EdgeKindBoard }
func (e *boardEdge) FromVertex() Vertex { return e.stop }
func (e *boardEdge) ToVertex() Vertex   { return e.onboard }
func (e *boardEdge) Mode() TraverseMode { return ModeTransit }

func (e *boardEdge) Traverse(s *State) *State {
	if s.Options().Arriving {
		ed := s.Edit(e)
		return ed.MakeState()
	}

	run := e.pattern.NextPattern(e.stopIndex, int(s.Time()), s.Options().WheelchairAccessible)
	if run == timetable.RunNotFound {
		return nil
	}
	departure := int64(e.pattern.DepartureTime(e.stopIndex, run))
	wait := departure - s.Time()

	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(wait)
	ed.IncrementWeight(float64(wait))
	ed.IncrementNumBoardings()
	ed.SetTripID(e.tripID)
	ed.SetRoute(e.route)
	ed.SetLastPattern(e.pattern, run)
	ed.SetWalkAtLastTransit(s.WalkDistance())
	if !s.IsEverBoarded() {
		ed.SetInitialWaitTime(wait)
	}
	ed.SetEverBoarded(true)
	return ed.MakeState()
}

// TraverseWithHint moves the boarding wait to the hint time, used by the
// optimizer on the first boarding of a forward pass.
func (e *boardEdge) TraverseWithHint(s *State, hintTime int64) *State {
	wait := s.Time() - hintTime
	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(wait)
	ed.IncrementWeight(float64(wait))
	ed.SetInitialWaitTime(wait)
	return ed.MakeState()
}

// alightEdge steps off the vehicle going forward; going backward in time it
// boards the latest run arriving at or before the current time, which is
// where a reverse-optimize pass eliminates waiting.
type alightEdge struct {
	onboard, stop *testVertex
	pattern       *timetable.TripPattern
	stopIndex     int
}

func (e *alightEdge) Kind() EdgeKind     { return EdgeKindAlight }
func (e *alightEdge) FromVertex() Vertex { return e.onboard }
func (e *alightEdge) ToVertex() Vertex   { return e.stop }
func (e *alightEdge) Mode() TraverseMode { return ModeTransit }

func (e *alightEdge) Traverse(s *State) *State {
	if !s.Options().Arriving {
		ed := s.Edit(e)
		ed.SetLastAlightedTime(s.Time())
		ed.SetPreviousStop(e.stop)
		return ed.MakeState()
	}

	run := e.pattern.PreviousPattern(e.stopIndex, int(s.Time()), s.Options().WheelchairAccessible)
	if run == timetable.RunNotFound {
		return nil
	}
	arrival := int64(e.pattern.ArrivalTime(e.stopIndex, run))
	wait := s.Time() - arrival

	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(wait)
	ed.IncrementWeight(float64(wait))
	ed.SetLastPattern(e.pattern, run)
	return ed.MakeState()
}

// hopEdge rides the vehicle between two consecutive stops.
type hopEdge struct {
	from, to *testVertex
	seconds  int64
}

func (e *hopEdge) Kind() EdgeKind     { return EdgeKindHop }
func (e *hopEdge) FromVertex() Vertex { return e.from }
func (e *hopEdge) ToVertex() Vertex   { return e.to }
func (e *hopEdge) Mode() TraverseMode { return ModeTransit }

func (e *hopEdge) Traverse(s *State) *State {
	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(e.seconds)
	ed.IncrementWeight(float64(e.seconds))
	return ed.MakeState()
}

// interlineDwellEdge cannot be traversed backward in time, which is how it
// behaves in real graphs and what makes optimization passes abort.
type interlineDwellEdge struct {
	from, to *testVertex
	seconds  int64
}

func (e *interlineDwellEdge) Kind() EdgeKind     { return EdgeKindDwell }
func (e *interlineDwellEdge) FromVertex() Vertex { return e.from }
func (e *interlineDwellEdge) ToVertex() Vertex   { return e.to }
func (e *interlineDwellEdge) Mode() TraverseMode { return ModeTransit }

func (e *interlineDwellEdge) Traverse(s *State) *State {
	if s.Options().Arriving {
		return nil
	}
	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(e.seconds)
	ed.IncrementWeight(float64(e.seconds))
	return ed.MakeState()
}

// traverseChain applies the edges in order, requiring every traversal to be
// feasible, and returns the terminal state.
func traverseChain(t *testing.T, start *State, edges ...Edge) *State {
	t.Helper()
	s := start
	for i, e := range edges {
		s = e.Traverse(s)
		require.NotNilf(t, s, "edge %d was not traversable", i)
	}
	return s
}

// chainEdges collects the back-chain's edges front to back.
func chainEdges(s *State) []Edge {
	var edges []Edge
	for cur := s; cur != nil; cur = cur.BackState() {
		if cur.BackEdge() != nil {
			edges = append(edges, cur.BackEdge())
		}
	}
	reverseSlice(edges)
	return edges
}

// twoRunPattern builds a single-hop pattern with two runs.
func buildPattern(t *testing.T, runs ...[2]int) *timetable.TripPattern {
	t.Helper()
	p := timetable.NewTripPattern(&gtfs.ScheduledTrip{ID: "exemplar"}, 2)
	for i, r := range runs {
		_, err := p.AddHop(0, i, r[0], r[1]-r[0], r[1], 0, true)
		require.NoError(t, err)
	}
	return p
}
