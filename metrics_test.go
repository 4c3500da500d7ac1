package atomcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerfTracker_RollingWindow(t *testing.T) {
	tracker := NewPerfTracker(3)

	for i := 1; i <= 5; i++ {
		tracker.Record(FrameMetrics{AtomsTotal: i * 100})
	}

	// Only the last 3 frames survive; the oldest were evicted first.
	assert.Equal(t, 3, tracker.Len())
	latest, ok := tracker.Latest()
	assert.True(t, ok)
	assert.Equal(t, 500, latest.AtomsTotal)

	summary := tracker.Summary()
	assert.Equal(t, 3, summary.SampleCount)
	assert.Equal(t, 500, summary.AtomsTotal)
}

func TestPerfTracker_Empty(t *testing.T) {
	tracker := NewPerfTracker(10)

	_, ok := tracker.Latest()
	assert.False(t, ok)
	assert.Zero(t, tracker.AvgFPS())
	assert.Zero(t, tracker.AvgRenderMillis())
	assert.Equal(t, PerfSummary{}, tracker.Summary())
}

func TestPerfTracker_Averages(t *testing.T) {
	tracker := NewPerfTracker(10)
	tracker.Record(FrameMetrics{
		FrameDuration:  100 * time.Millisecond,
		RenderDuration: 80 * time.Millisecond,
	})
	tracker.Record(FrameMetrics{
		FrameDuration:  50 * time.Millisecond,
		RenderDuration: 40 * time.Millisecond,
	})

	// (10 + 20) / 2 frames per second.
	assert.InDelta(t, 15.0, tracker.AvgFPS(), 1e-9)
	assert.InDelta(t, 60.0, tracker.AvgRenderMillis(), 1e-9)
}

func TestPerfTracker_Reset(t *testing.T) {
	tracker := NewPerfTracker(10)
	tracker.Record(FrameMetrics{AtomsTotal: 42})
	tracker.Reset()

	assert.Equal(t, 0, tracker.Len())
	_, ok := tracker.Latest()
	assert.False(t, ok)
}

func TestFrameMetrics_FPS(t *testing.T) {
	m := FrameMetrics{FrameDuration: 20 * time.Millisecond}
	assert.InDelta(t, 50.0, m.FPS(), 1e-9)

	assert.Zero(t, FrameMetrics{}.FPS(), "zero duration must not divide by zero")
}

func TestPerfSummary_Efficiency(t *testing.T) {
	s := PerfSummary{
		AtomsTotal:    1000,
		AtomsRendered: 600,
		AtomsCulled:   400,
	}
	assert.InDelta(t, 40.0, s.CullingEfficiency(), 1e-9)
	assert.InDelta(t, 60.0, s.RenderEfficiency(), 1e-9)

	empty := PerfSummary{}
	assert.Zero(t, empty.CullingEfficiency())
	assert.Equal(t, 100.0, empty.RenderEfficiency())
}
