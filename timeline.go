package planes

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TimelineState is the run state of a Timeline.
type TimelineState uint8

const (
	NotRunning TimelineState = iota
	Paused
	Running
)

func (s TimelineState) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return "not running"
	}
}

const defaultUpdateInterval = 40 * time.Millisecond

// Timeline turns elapsed time into frame numbers. A gween tween drives a
// value from 0 to 1 over the duration; at every update interval the value
// is mapped onto the frame range and FrameChanged fires when the frame
// moves. After the configured number of loops it stops and fires Finished.
//
// Time only advances through Update, so a Timeline is fully deterministic.
type Timeline struct {
	duration time.Duration
	interval time.Duration
	loops    int
	start    int
	end      int
	curve    ease.TweenFunc

	tween   *gween.Tween
	state   TimelineState
	pending float32
	loop    int
	frame   int
	value   float32

	FrameChanged Signal[int]
	ValueChanged Signal[float64]
	StateChanged Signal[TimelineState]
	Finished     Signal[struct{}]
}

// NewTimeline returns a stopped timeline lasting duration, with a 40ms update
// interval, one loop, a frame range of 0..0 and a linear curve.
func NewTimeline(duration time.Duration) *Timeline {
	if duration <= 0 {
		panic("planes: NewTimeline with non-positive duration")
	}
	return &Timeline{
		duration: duration,
		interval: defaultUpdateInterval,
		loops:    1,
		curve:    ease.Linear,
	}
}

// SetUpdateInterval sets how often the value is sampled.
func (t *Timeline) SetUpdateInterval(d time.Duration) {
	if d <= 0 {
		panic("planes: Timeline.SetUpdateInterval with non-positive interval")
	}
	t.interval = d
}

// SetLoopCount sets how many times the timeline runs. 0 loops forever.
func (t *Timeline) SetLoopCount(n int) {
	if n < 0 {
		n = 0
	}
	t.loops = n
}

// SetFrameRange sets the first and last frame numbers.
func (t *Timeline) SetFrameRange(start, end int) {
	t.start, t.end = start, end
}

// SetCurve sets the easing curve. nil restores linear.
func (t *Timeline) SetCurve(fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	t.curve = fn
}

// Duration returns the length of one pass over the frame range.
func (t *Timeline) Duration() time.Duration { return t.duration }

// UpdateInterval returns the time between ticks while running.
func (t *Timeline) UpdateInterval() time.Duration { return t.interval }

// LoopCount returns the number of passes per Start; 0 loops forever.
func (t *Timeline) LoopCount() int { return t.loops }

// State returns the current TimelineState.
func (t *Timeline) State() TimelineState { return t.state }

// CurrentFrame returns the frame emitted by the last tick.
func (t *Timeline) CurrentFrame() int { return t.frame }

// CurrentValue returns the eased progress of the current pass, 0 to 1.
func (t *Timeline) CurrentValue() float64 { return float64(t.value) }

// StartFrame returns the first frame of the range.
func (t *Timeline) StartFrame() int { return t.start }

// EndFrame returns the last frame of the range.
func (t *Timeline) EndFrame() int { return t.end }

// FrameForValue maps a curve value in [0, 1] onto the frame range.
func (t *Timeline) FrameForValue(v float64) int {
	return t.start + int(float64(t.end-t.start)*v)
}

// Start rewinds and runs the timeline. It emits StateChanged(Running) and
// then FrameChanged for the start frame. Starting a running timeline does
// nothing.
func (t *Timeline) Start() {
	if t.state == Running {
		return
	}
	t.tween = gween.New(0, 1, float32(t.duration.Seconds()), t.curve)
	t.pending = 0
	t.loop = 0
	t.value = 0
	t.frame = t.start
	t.setState(Running)
	if t.state != Running {
		return
	}
	t.FrameChanged.Emit(t.frame)
	t.ValueChanged.Emit(0)
}

// Stop halts the timeline without emitting Finished.
func (t *Timeline) Stop() {
	if t.state == NotRunning {
		return
	}
	t.setState(NotRunning)
}

// SetPaused pauses or resumes a started timeline.
func (t *Timeline) SetPaused(paused bool) {
	switch {
	case paused && t.state == Running:
		t.setState(Paused)
	case !paused && t.state == Paused:
		t.setState(Running)
	}
}

func (t *Timeline) setState(s TimelineState) {
	if t.state == s {
		return
	}
	t.state = s
	t.StateChanged.Emit(s)
}

// Update advances the timeline by dt seconds, sampling once per elapsed
// update interval.
func (t *Timeline) Update(dt float32) {
	if t.state != Running {
		return
	}
	step := float32(t.interval.Seconds())
	t.pending += dt
	for t.pending >= step && t.state == Running {
		t.pending -= step
		t.tick(step)
	}
}

func (t *Timeline) tick(step float32) {
	v, done := t.tween.Update(step)
	t.value = v
	if f := t.FrameForValue(float64(v)); f != t.frame {
		t.frame = f
		t.FrameChanged.Emit(f)
		if t.state != Running {
			return
		}
	}
	t.ValueChanged.Emit(float64(v))
	if !done || t.state != Running {
		return
	}
	t.loop++
	if t.loops == 0 || t.loop < t.loops {
		t.tween.Reset()
		return
	}
	t.setState(NotRunning)
	t.Finished.Emit(struct{}{})
}
