package atomcast

import "time"

// FrameMetrics holds the timing and atom counters of one completed render.
type FrameMetrics struct {
	// FrameDuration is the wall-clock time of the whole render call,
	// including encoding. RenderDuration covers projection through
	// rasterization only.
	FrameDuration  time.Duration
	RenderDuration time.Duration

	AtomsTotal    int
	AtomsRendered int
	AtomsCulled   int

	// Per-tier counts of rendered atoms.
	LODHigh    int
	LODMedium  int
	LODLow     int
	LODMinimal int
}

// FPS returns the frame rate implied by the frame duration.
func (m FrameMetrics) FPS() float64 {
	if m.FrameDuration <= 0 {
		return 0
	}
	return 1 / m.FrameDuration.Seconds()
}

// RenderMillis returns the render duration in milliseconds.
func (m FrameMetrics) RenderMillis() float64 {
	return float64(m.RenderDuration) / float64(time.Millisecond)
}

// PerfTracker keeps a bounded FIFO window of recent frame metrics.
// When the window is full the oldest frame is evicted first. Telemetry is
// informational only and accumulates across renders until Reset.
type PerfTracker struct {
	frames     []FrameMetrics
	maxHistory int
}

// NewPerfTracker creates a tracker that retains the last maxHistory frames.
func NewPerfTracker(maxHistory int) *PerfTracker {
	if maxHistory < 1 {
		maxHistory = 1
	}
	return &PerfTracker{
		frames:     make([]FrameMetrics, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// Record appends one frame to the window, evicting the oldest when full.
func (t *PerfTracker) Record(m FrameMetrics) {
	if len(t.frames) == t.maxHistory {
		copy(t.frames, t.frames[1:])
		t.frames = t.frames[:len(t.frames)-1]
	}
	t.frames = append(t.frames, m)
}

// Len returns the number of frames currently retained.
func (t *PerfTracker) Len() int {
	return len(t.frames)
}

// Latest returns the most recent frame metrics, or false when no frame has
// been recorded.
func (t *PerfTracker) Latest() (FrameMetrics, bool) {
	if len(t.frames) == 0 {
		return FrameMetrics{}, false
	}
	return t.frames[len(t.frames)-1], true
}

// AvgFPS returns the average frame rate across the retained window.
func (t *PerfTracker) AvgFPS() float64 {
	if len(t.frames) == 0 {
		return 0
	}
	var total float64
	for _, f := range t.frames {
		total += f.FPS()
	}
	return total / float64(len(t.frames))
}

// AvgRenderMillis returns the average render time in milliseconds.
func (t *PerfTracker) AvgRenderMillis() float64 {
	if len(t.frames) == 0 {
		return 0
	}
	var total float64
	for _, f := range t.frames {
		total += f.RenderMillis()
	}
	return total / float64(len(t.frames))
}

// Reset discards all retained frames.
func (t *PerfTracker) Reset() {
	t.frames = t.frames[:0]
}

// Summary returns rolling averages plus the counters of the latest frame.
func (t *PerfTracker) Summary() PerfSummary {
	latest, ok := t.Latest()
	if !ok {
		return PerfSummary{}
	}
	return PerfSummary{
		AvgFPS:          t.AvgFPS(),
		AvgRenderMillis: t.AvgRenderMillis(),
		AtomsTotal:      latest.AtomsTotal,
		AtomsRendered:   latest.AtomsRendered,
		AtomsCulled:     latest.AtomsCulled,
		LODHigh:         latest.LODHigh,
		LODMedium:       latest.LODMedium,
		LODLow:          latest.LODLow,
		LODMinimal:      latest.LODMinimal,
		SampleCount:     len(t.frames),
	}
}

// PerfSummary is a read-only snapshot of recent render performance.
type PerfSummary struct {
	AvgFPS          float64
	AvgRenderMillis float64
	AtomsTotal      int
	AtomsRendered   int
	AtomsCulled     int
	LODHigh         int
	LODMedium       int
	LODLow          int
	LODMinimal      int
	SampleCount     int
}

// CullingEfficiency returns the percentage of atoms removed before
// rasterization in the latest frame.
func (s PerfSummary) CullingEfficiency() float64 {
	if s.AtomsTotal == 0 {
		return 0
	}
	return float64(s.AtomsCulled) / float64(s.AtomsTotal) * 100
}

// RenderEfficiency returns the percentage of atoms that reached
// rasterization in the latest frame.
func (s PerfSummary) RenderEfficiency() float64 {
	if s.AtomsTotal == 0 {
		return 100
	}
	return float64(s.AtomsRendered) / float64(s.AtomsTotal) * 100
}
