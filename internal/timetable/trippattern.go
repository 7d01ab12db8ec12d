// Package timetable holds the per-line schedule structure consulted by the
// search when boarding or alighting a scheduled vehicle.
package timetable

import (
	"fmt"
	"slices"
	"sort"

	"github.com/OneBusAway/go-gtfs"
)

// RunNotFound is returned by NextPattern and PreviousPattern when no run
// satisfies the query.
const RunNotFound = -1

// TripPattern represents a class of trips distinguished by service id, list
// of stops, dwell time at stops, and running time between stops.
//
// For each hop (the segment between two consecutive stops) it keeps four
// parallel sequences indexed by run, one element per scheduled trip instance
// using the pattern. Departure times within a hop are kept non-decreasing;
// AddHop enforces this on insertion. Wheelchair accessibility is tracked per
// stop (hops+1 sequences), since boarding and alighting accessibility are
// checked at different stops.
type TripPattern struct {
	// Exemplar is a representative trip used for display and identification
	// only. It takes no part in any lookup.
	Exemplar *gtfs.ScheduledTrip

	departureTimes [][]int
	runningTimes   [][]int
	arrivalTimes   [][]int
	dwellTimes     [][]int

	wheelchairAccessible [][]bool
}

// NewTripPattern creates an empty pattern over a stop sequence of numStops
// stops (numStops-1 hops). Runs are added afterwards with AddHop.
func NewTripPattern(exemplar *gtfs.ScheduledTrip, numStops int) *TripPattern {
	hops := numStops - 1
	p := &TripPattern{
		Exemplar:             exemplar,
		departureTimes:       make([][]int, hops),
		runningTimes:         make([][]int, hops),
		arrivalTimes:         make([][]int, hops),
		dwellTimes:           make([][]int, hops),
		wheelchairAccessible: make([][]bool, hops+1),
	}
	for i := 0; i < hops; i++ {
		p.departureTimes[i] = []int{}
		p.runningTimes[i] = []int{}
		p.arrivalTimes[i] = []int{}
		p.dwellTimes[i] = []int{}
		p.wheelchairAccessible[i] = []bool{}
	}
	p.wheelchairAccessible[hops] = []bool{}
	return p
}

// Hops returns the number of hops in the pattern's stop sequence.
func (p *TripPattern) Hops() int {
	return len(p.departureTimes)
}

// Runs returns the number of runs currently present at the given hop.
func (p *TripPattern) Runs(stopIndex int) int {
	return len(p.departureTimes[stopIndex])
}

// AddHop inserts a new run at insertionPoint within hop stopIndex's
// sequences. A departure time that would break the non-decreasing order of
// the hop's departure sequence indicates a trip that overtakes another;
// the insertion is rejected with ErrTripOvertaking and nothing is mutated.
func (p *TripPattern) AddHop(stopIndex, insertionPoint, departureTime, runningTime, arrivalTime, dwellTime int, wheelchairAccessible bool) (int, error) {
	departures := p.departureTimes[stopIndex]

	if insertionPoint > 0 && departures[insertionPoint-1] > departureTime {
		return 0, ErrTripOvertaking
	}
	if insertionPoint < len(departures) && departures[insertionPoint] < departureTime {
		return 0, ErrTripOvertaking
	}

	p.departureTimes[stopIndex] = slices.Insert(departures, insertionPoint, departureTime)
	p.runningTimes[stopIndex] = slices.Insert(p.runningTimes[stopIndex], insertionPoint, runningTime)
	p.arrivalTimes[stopIndex] = slices.Insert(p.arrivalTimes[stopIndex], insertionPoint, arrivalTime)
	p.dwellTimes[stopIndex] = slices.Insert(p.dwellTimes[stopIndex], insertionPoint, dwellTime)
	p.wheelchairAccessible[stopIndex] = slices.Insert(p.wheelchairAccessible[stopIndex], insertionPoint, wheelchairAccessible)
	return insertionPoint, nil
}

// RemoveHop removes the run at the given index from all of the hop's
// sequences. When removing a whole trip the caller removes the run from
// every hop to keep the hops structurally consistent with each other.
func (p *TripPattern) RemoveHop(stopIndex, run int) {
	p.departureTimes[stopIndex] = slices.Delete(p.departureTimes[stopIndex], run, run+1)
	p.runningTimes[stopIndex] = slices.Delete(p.runningTimes[stopIndex], run, run+1)
	p.arrivalTimes[stopIndex] = slices.Delete(p.arrivalTimes[stopIndex], run, run+1)
	p.dwellTimes[stopIndex] = slices.Delete(p.dwellTimes[stopIndex], run, run+1)
	p.wheelchairAccessible[stopIndex] = slices.Delete(p.wheelchairAccessible[stopIndex], run, run+1)
}

// NextPattern returns the smallest run index at hop stopIndex departing at
// or after afterTime, or RunNotFound if every run has already left. When
// wheelchairAccessible is set, the result is advanced forward until an
// accessible run is found, or RunNotFound if none remains.
func (p *TripPattern) NextPattern(stopIndex, afterTime int, wheelchairAccessible bool) int {
	departures := p.departureTimes[stopIndex]
	index := sort.SearchInts(departures, afterTime)
	if index == len(departures) {
		return RunNotFound
	}

	if wheelchairAccessible {
		accessible := p.wheelchairAccessible[stopIndex]
		for !accessible[index] {
			index++
			if index == len(accessible) {
				return RunNotFound
			}
		}
	}
	return index
}

// PreviousPattern returns the largest run index at hop stopIndex arriving
// before beforeTime (an exact arrival match is accepted as-is), or
// RunNotFound if beforeTime precedes every arrival. When
// wheelchairAccessible is set, the result is stepped backward until an
// accessible run is found; accessibility is checked at the alighting stop,
// stopIndex+1.
func (p *TripPattern) PreviousPattern(stopIndex, beforeTime int, wheelchairAccessible bool) int {
	arrivals := p.arrivalTimes[stopIndex]
	index := sort.SearchInts(arrivals, beforeTime)
	if index == len(arrivals) || arrivals[index] != beforeTime {
		index--
	}
	if index < 0 {
		return RunNotFound
	}

	if wheelchairAccessible {
		accessible := p.wheelchairAccessible[stopIndex+1]
		for !accessible[index] {
			index--
			if index < 0 {
				return RunNotFound
			}
		}
	}
	return index
}

// DepartureTimeInsertionPoint returns the index at which departureTime
// would be inserted into hop 0's departure sequence to keep it sorted.
// When departureTime exactly matches an existing entry the result is
// -(index)-1, the not-found formula applied to the found case. Suspect,
// but replicated: callers that insert whole trips never probe with a
// departure time already present at hop 0.
func (p *TripPattern) DepartureTimeInsertionPoint(departureTime int) int {
	departures := p.departureTimes[0]
	index := sort.SearchInts(departures, departureTime)
	if index < len(departures) && departures[index] == departureTime {
		return -index - 1
	}
	return index
}

// RunningTime returns the running time of the given run over the given hop.
func (p *TripPattern) RunningTime(stopIndex, run int) int {
	return p.runningTimes[stopIndex][run]
}

// DepartureTime returns the departure time of the given run at the given hop.
func (p *TripPattern) DepartureTime(stopIndex, run int) int {
	return p.departureTimes[stopIndex][run]
}

// ArrivalTime returns the arrival time of the given run at the given hop.
func (p *TripPattern) ArrivalTime(stopIndex, run int) int {
	return p.arrivalTimes[stopIndex][run]
}

// DwellTime returns the dwell time of the given run at the given hop.
func (p *TripPattern) DwellTime(stopIndex, run int) int {
	return p.dwellTimes[stopIndex][run]
}

// SetDwellTime overwrites the dwell time of the given run at the given hop.
func (p *TripPattern) SetDwellTime(stopIndex, run, dwellTime int) {
	p.dwellTimes[stopIndex][run] = dwellTime
}

// WheelchairAccessible reports whether the given run is accessible at the
// given stop.
func (p *TripPattern) WheelchairAccessible(stopIndex, run int) bool {
	return p.wheelchairAccessible[stopIndex][run]
}

// SetWheelchairAccessible records accessibility of the given run at the
// given stop. A run index past the end of the sequence is a programming
// error and panics. The operation always inserts at the run index, even
// when the index addresses an existing slot; likely unintended upstream,
// but pattern construction depends on the insert behavior, so it is
// preserved.
func (p *TripPattern) SetWheelchairAccessible(stopIndex, run int, wheelchairAccessible bool) {
	accessible := p.wheelchairAccessible[stopIndex]
	if run > len(accessible) {
		panic(fmt.Sprintf("timetable: run index out of bounds: %d / %d", run, len(accessible)))
	}
	p.wheelchairAccessible[stopIndex] = slices.Insert(accessible, run, wheelchairAccessible)
}

// Clone returns a deep copy of the pattern. The exemplar reference is
// shared; all time and accessibility sequences are copied.
func (p *TripPattern) Clone() *TripPattern {
	return &TripPattern{
		Exemplar:             p.Exemplar,
		departureTimes:       cloneIntSequences(p.departureTimes),
		runningTimes:         cloneIntSequences(p.runningTimes),
		arrivalTimes:         cloneIntSequences(p.arrivalTimes),
		dwellTimes:           cloneIntSequences(p.dwellTimes),
		wheelchairAccessible: cloneBoolSequences(p.wheelchairAccessible),
	}
}

func cloneIntSequences(seqs [][]int) [][]int {
	out := make([][]int, len(seqs))
	for i, s := range seqs {
		out[i] = slices.Clone(s)
	}
	return out
}

func cloneBoolSequences(seqs [][]bool) [][]bool {
	out := make([][]bool, len(seqs))
	for i, s := range seqs {
		out[i] = slices.Clone(s)
	}
	return out
}
