package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	m := New()
	require.NotNil(t, m.Registry)

	m.OptimizerPassesTotal.WithLabelValues(PassOptimized).Inc()
	m.OptimizerPassesTotal.WithLabelValues(PassAborted).Inc()
	m.TimetableUpdatesTotal.Inc()
	m.TimetableOvertakingTotal.Inc()
	m.TimetableUpdateWaitSecsTotal.Add(0.25)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["pathfinder_optimizer_passes_total"])
	assert.True(t, names["pathfinder_timetable_updates_total"])
	assert.True(t, names["pathfinder_timetable_overtaking_rejections_total"])
	assert.True(t, names["pathfinder_timetable_update_wait_seconds_total"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OptimizerPassesTotal.WithLabelValues(PassOptimized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TimetableUpdatesTotal))
}

func TestSeparateInstancesHaveSeparateRegistries(t *testing.T) {
	a := New()
	b := New()

	a.TimetableUpdatesTotal.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.TimetableUpdatesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TimetableUpdatesTotal))
}
