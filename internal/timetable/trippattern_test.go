package timetable

import (
	"testing"

	"github.com/OneBusAway/go-gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoRunPattern builds a two-stop pattern with departures 28800 and 29200 at
// hop 0, arrivals 29100 and 29500, both runs accessible at the boarding stop.
func twoRunPattern(t *testing.T) *TripPattern {
	t.Helper()
	p := NewTripPattern(&gtfs.ScheduledTrip{ID: "trip-1"}, 2)

	_, err := p.AddHop(0, 0, 28800, 300, 29100, 0, true)
	require.NoError(t, err)
	_, err = p.AddHop(0, 1, 29200, 300, 29500, 0, true)
	require.NoError(t, err)
	return p
}

func TestAddHopKeepsDepartureOrder(t *testing.T) {
	p := twoRunPattern(t)

	insertion, err := p.AddHop(0, 1, 29000, 300, 29300, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, insertion)

	assert.Equal(t, 28800, p.DepartureTime(0, 0))
	assert.Equal(t, 29000, p.DepartureTime(0, 1))
	assert.Equal(t, 29200, p.DepartureTime(0, 2))

	// one run = one coherent element across all sequences
	assert.Equal(t, 3, p.Runs(0))
	assert.Equal(t, 29300, p.ArrivalTime(0, 1))
	assert.Equal(t, 300, p.RunningTime(0, 1))
	assert.Equal(t, 0, p.DwellTime(0, 1))
	assert.True(t, p.WheelchairAccessible(0, 1))
}

func TestAddHopRejectsOvertaking(t *testing.T) {
	tests := []struct {
		name           string
		insertionPoint int
		departureTime  int
	}{
		{"departs after the run it would precede", 0, 29100},
		{"departs before the run it would follow", 2, 28900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := twoRunPattern(t)

			_, err := p.AddHop(0, tt.insertionPoint, tt.departureTime, 300, tt.departureTime+300, 0, true)
			assert.ErrorIs(t, err, ErrTripOvertaking)

			// nothing was mutated
			assert.Equal(t, 2, p.Runs(0))
			assert.Equal(t, 28800, p.DepartureTime(0, 0))
			assert.Equal(t, 29200, p.DepartureTime(0, 1))
		})
	}
}

func TestNextPattern(t *testing.T) {
	p := twoRunPattern(t)

	assert.Equal(t, 1, p.NextPattern(0, 28900, false))
	assert.Equal(t, RunNotFound, p.NextPattern(0, 29300, false))

	// exact matches are accepted as-is
	assert.Equal(t, 0, p.NextPattern(0, 28800, false))
}

func TestNextPatternWheelchair(t *testing.T) {
	p := NewTripPattern(nil, 2)
	_, err := p.AddHop(0, 0, 28800, 300, 29100, 0, false)
	require.NoError(t, err)
	_, err = p.AddHop(0, 1, 29200, 300, 29500, 0, true)
	require.NoError(t, err)

	// skips forward past the inaccessible first run
	assert.Equal(t, 1, p.NextPattern(0, 28700, true))

	p.RemoveHop(0, 1)
	assert.Equal(t, RunNotFound, p.NextPattern(0, 28700, true))
}

func TestPreviousPattern(t *testing.T) {
	p := twoRunPattern(t)

	assert.Equal(t, 0, p.PreviousPattern(0, 29200, false))
	assert.Equal(t, 1, p.PreviousPattern(0, 30000, false))
	assert.Equal(t, RunNotFound, p.PreviousPattern(0, 28900, false))

	// an exact arrival match is accepted as-is
	assert.Equal(t, 0, p.PreviousPattern(0, 29100, false))
}

func TestPreviousPatternWheelchairChecksAlightingStop(t *testing.T) {
	p := twoRunPattern(t)

	// accessibility at the alighting stop (stop 1), per run
	p.SetWheelchairAccessible(1, 0, true)
	p.SetWheelchairAccessible(1, 1, false)

	// run 1 arrives in time but is inaccessible at the alighting stop
	assert.Equal(t, 0, p.PreviousPattern(0, 30000, true))

	p2 := twoRunPattern(t)
	p2.SetWheelchairAccessible(1, 0, false)
	p2.SetWheelchairAccessible(1, 1, false)
	assert.Equal(t, RunNotFound, p2.PreviousPattern(0, 30000, true))
}

func TestDepartureTimeInsertionPoint(t *testing.T) {
	p := twoRunPattern(t)

	assert.Equal(t, 0, p.DepartureTimeInsertionPoint(28700))
	assert.Equal(t, 1, p.DepartureTimeInsertionPoint(29000))
	assert.Equal(t, 2, p.DepartureTimeInsertionPoint(29300))

	// exact match returns the not-found formula; replicated, flagged suspect
	assert.Equal(t, -1, p.DepartureTimeInsertionPoint(28800))
	assert.Equal(t, -2, p.DepartureTimeInsertionPoint(29200))
}

func TestSetWheelchairAccessibleAlwaysInserts(t *testing.T) {
	p := twoRunPattern(t)

	// appending at the end of the alighting stop's sequence
	p.SetWheelchairAccessible(1, 0, true)
	p.SetWheelchairAccessible(1, 1, false)
	assert.True(t, p.WheelchairAccessible(1, 0))
	assert.False(t, p.WheelchairAccessible(1, 1))

	// an existing slot is not overwritten: the value is inserted and the
	// rest of the sequence shifts
	p.SetWheelchairAccessible(1, 0, false)
	assert.False(t, p.WheelchairAccessible(1, 0))
	assert.True(t, p.WheelchairAccessible(1, 1))
	assert.False(t, p.WheelchairAccessible(1, 2))

	assert.Panics(t, func() {
		p.SetWheelchairAccessible(1, 10, true)
	})
}

func TestRemoveHopShiftsLaterRuns(t *testing.T) {
	p := twoRunPattern(t)

	p.RemoveHop(0, 0)

	// index 0 now reads the second run's data, never the removed run's
	assert.Equal(t, 1, p.Runs(0))
	assert.Equal(t, 29200, p.DepartureTime(0, 0))
	assert.Equal(t, 29500, p.ArrivalTime(0, 0))

	assert.Panics(t, func() {
		p.DepartureTime(0, 1)
	})
}

func TestAddHopSequenceKeepsInvariants(t *testing.T) {
	p := NewTripPattern(nil, 3)

	departures := []int{30000, 28800, 29400, 28200, 31200}
	for _, dep := range departures {
		// insertion point is probed once per trip, before any hop mutates
		insertion := p.DepartureTimeInsertionPoint(dep)
		require.GreaterOrEqual(t, insertion, 0)
		for hop := 0; hop < p.Hops(); hop++ {
			_, err := p.AddHop(hop, insertion, dep+hop*600, 300, dep+hop*600+300, 60, true)
			require.NoError(t, err)
		}
	}

	for hop := 0; hop < p.Hops(); hop++ {
		require.Equal(t, len(departures), p.Runs(hop))
		for run := 1; run < p.Runs(hop); run++ {
			assert.LessOrEqual(t, p.DepartureTime(hop, run-1), p.DepartureTime(hop, run))
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := twoRunPattern(t)
	c := p.Clone()

	c.SetDwellTime(0, 0, 120)
	assert.Equal(t, 0, p.DwellTime(0, 0))
	assert.Equal(t, 120, c.DwellTime(0, 0))
	assert.Same(t, p.Exemplar, c.Exemplar)
}
