package routing

import (
	"log/slog"
	"math"

	"pathfinder.onebusaway.org/internal/metrics"
)

// OptimizeOrReverse re-traverses the path implicit in this state's back
// chain in the opposite direction. With optimize set, time-dependent edges
// are re-evaluated against the schedule so unnecessary waiting is removed
// from the resulting itinerary; otherwise the path is reversed with its
// original durations carried over. With forward set, the already-reversed
// chain is reversed a second time so the result runs in the original
// direction, and the outcome is checked against the unoptimized state.
//
// If a re-traversal is infeasible the pass gives up and the unoptimized
// path is returned; this is expected for some edge kinds and is never
// surfaced as an error.
func (s *State) OptimizeOrReverse(optimize, forward bool) *State {
	orig := s
	unoptimized := orig
	ret := orig.ReversedClone()
	var newInitialWaitTime int64 = -1

	ctx := s.stateData.opt.Ctx
	logger := ctx.logger().With(slog.String("component", "path_optimizer"))

	// Path filters assume forward-edge semantics and must not see the
	// transient reversed states; disable them for the whole pass and
	// restore them on every exit path.
	var pathParsers []PathParser
	if ctx != nil {
		pathParsers = ctx.PathParsers
		ctx.PathParsers = nil
		defer func() { ctx.PathParsers = pathParsers }()
	}

	for orig.BackState() != nil {
		edge := orig.BackEdge()

		if optimize {
			// First boarding in a forward pass: seed the wait from the
			// original parent's time so it lands at the true origin, not
			// at the reversed search's arrival.
			if be, ok := edge.(BoardingEdge); ok && orig.NumBoardings() == 1 && forward {
				if ret.Time()-orig.BackState().Time() < 0 {
					logger.Warn("a transfer has been missed, time delta is negative",
						slog.Int64("reversed_time", ret.Time()),
						slog.Int64("original_parent_time", orig.BackState().Time()))
				}
				ret = be.TraverseWithHint(ret, orig.BackState().Time())
				if ret != nil {
					newInitialWaitTime = ret.stateData.initialWaitTime
				}
			} else {
				ret = edge.Traverse(ret)
			}

			if ret == nil {
				// Expected for some edges (interline dwells); fall back to
				// the unoptimized path.
				logger.Warn("cannot reverse path at edge, returning unoptimized path",
					slog.Int("edge_kind", int(edge.Kind())))
				countPass(ctx, metrics.PassAborted)

				if forward {
					return s
				}
				return unoptimized.Reverse()
			}
		} else {
			narrative := orig.BackEdgeNarrative()
			editor := ret.EditWithNarrative(edge, narrative)
			editor.SetFromState(orig)

			editor.IncrementTimeInSeconds(orig.AbsTimeDeltaSeconds())
			editor.IncrementWeight(orig.WeightDelta())
			editor.IncrementWalkDistance(orig.WalkDistanceDelta())

			if orig.IsBikeRenting() != orig.BackState().IsBikeRenting() {
				editor.SetBikeRenting(!orig.IsBikeRenting())
			}
			ret = editor.MakeState()

			copyNarrativeEndpoints(orig.BackEdgeNarrative(), ret.BackEdgeNarrative())
		}

		orig = orig.BackState()
	}

	if !forward {
		if optimize {
			countPass(ctx, metrics.PassOptimized)
		} else {
			countPass(ctx, metrics.PassReversed)
		}
		return ret
	}

	reversed := ret.Reverse()

	// Consistency diagnostics. Violations are reported, never fatal:
	// schedule effects can legitimately make local weight non-monotonic.
	// Imagine lines A, B and C where A and C run hourly and B every ten
	// minutes: optimizing the B->C transfer can pull the trip on B earlier,
	// which makes the A->B transfer non-optimal without any later trip on A
	// to move forward, so waiting shifts toward the start of the trip
	// without fully reaching it.
	if s.Weight() <= reversed.Weight() {
		logger.Warn("optimization did not decrease weight",
			slog.Float64("before", s.Weight()),
			slog.Float64("after", reversed.Weight()))
	}
	if s.ElapsedTime() != reversed.ElapsedTime() {
		logger.Warn("optimization changed elapsed time",
			slog.Int64("before", s.ElapsedTime()),
			slog.Int64("after", reversed.ElapsedTime()))
	}
	if s.ActiveTime() <= reversed.ActiveTime() {
		logger.Warn("optimization did not decrease active time",
			slog.Int64("before", s.ActiveTime()),
			slog.Int64("after", reversed.ActiveTime()),
			slog.Int("boardings", s.NumBoardings()))
	}
	if reversed.Weight() < s.BackState().Weight() {
		logger.Warn("weight reduced enough to run backwards",
			slog.Float64("after", reversed.Weight()),
			slog.Float64("back_state_weight", s.BackState().Weight()),
			slog.Int("boardings", s.NumBoardings()))
	}
	if s.Time() != reversed.Time() {
		logger.Warn("arrival times do not match",
			slog.Int64("before", s.Time()),
			slog.Int64("after", reversed.Time()))
	}
	if math.Abs(s.Weight()-reversed.Weight()) > 1 && newInitialWaitTime == s.stateData.initialWaitTime {
		logger.Warn("weight changed but initial wait time constant",
			slog.Float64("before", s.Weight()),
			slog.Float64("after", reversed.Weight()),
			slog.Int64("initial_wait", newInitialWaitTime))
	}
	if newInitialWaitTime != reversed.stateData.initialWaitTime {
		logger.Warn("initial wait time not propagated",
			slog.Int64("actual", reversed.stateData.initialWaitTime),
			slog.Int64("expected", newInitialWaitTime))
	}

	// copy over what optimization does not recompute
	reversed.initializeFieldsFrom(s)
	countPass(ctx, metrics.PassOptimized)
	return reversed
}

// Optimize reverse-optimizes a completed path, returning the state at the
// other end of a minimal-waiting equivalent of this state's chain.
func (s *State) Optimize() *State {
	return s.OptimizeOrReverse(true, false)
}

// Reverse reverses a completed path without re-evaluating the schedule.
func (s *State) Reverse() *State {
	return s.OptimizeOrReverse(false, false)
}

func countPass(ctx *Context, result string) {
	if ctx == nil || ctx.Metrics == nil {
		return
	}
	ctx.Metrics.OptimizerPassesTotal.WithLabelValues(result).Inc()
}

// copyNarrativeEndpoints fills narrative endpoints a reversal leaves unset,
// when the new narrative allows it.
func copyNarrativeEndpoints(from, to EdgeNarrative) {
	m, ok := to.(MutableEdgeNarrative)
	if !ok {
		return
	}
	if to.FromVertex() == nil {
		m.SetFromVertex(from.FromVertex())
	}
	if to.ToVertex() == nil {
		m.SetToVertex(from.ToVertex())
	}
}
