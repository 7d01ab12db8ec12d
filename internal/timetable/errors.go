package timetable

import "errors"

// ErrTripOvertaking indicates that an inserted run's departure time would
// break the non-decreasing order of a hop's departure sequence, i.e. the new
// trip overtakes an existing one. The caller decides whether to reject the
// update or split the trip into a new pattern.
var ErrTripOvertaking = errors.New("timetable: trip overtakes another trip on the same pattern")
