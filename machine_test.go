package planes

import (
	"testing"
	"time"
)

// newDemoMachine builds the walking/jumping/firing machine of the demo with
// timelines that use exact binary intervals.
func newDemoMachine() (*AnimationStateMachine, map[string]*Timeline) {
	m := NewAnimationStateMachine()
	tls := map[string]*Timeline{}

	walking := NewTimeline(time.Second)
	walking.SetUpdateInterval(125 * time.Millisecond)
	walking.SetFrameRange(0, 7)
	walking.SetLoopCount(0)

	jumping := NewTimeline(time.Second)
	jumping.SetUpdateInterval(125 * time.Millisecond)
	jumping.SetFrameRange(0, 6)

	firing := NewTimeline(500 * time.Millisecond)
	firing.SetUpdateInterval(125 * time.Millisecond)
	firing.SetFrameRange(0, 3)

	for name, tl := range map[string]*Timeline{"walking": walking, "jumping": jumping, "firing": firing} {
		m.AddTimeline(name, tl)
		tls[name] = tl
	}
	m.AddTransition("jumping", "walking")
	m.AddTransition("firing", "walking")
	return m, tls
}

func assertOnlyRunning(t *testing.T, tls map[string]*Timeline, name string) {
	t.Helper()
	for n, tl := range tls {
		want := NotRunning
		if n == name {
			want = Running
		}
		if tl.State() != want {
			t.Errorf("%s state = %v, want %v", n, tl.State(), want)
		}
	}
}

func TestMachineScenario(t *testing.T) {
	m, tls := newDemoMachine()

	m.Activate("walking")
	if m.Current() != "walking" {
		t.Fatalf("Current = %q, want walking", m.Current())
	}
	assertOnlyRunning(t, tls, "walking")

	if !m.Event("walking", "firing") {
		t.Fatal("Event(walking, firing) ignored")
	}
	if m.Current() != "firing" {
		t.Fatalf("Current = %q, want firing", m.Current())
	}
	assertOnlyRunning(t, tls, "firing")

	for i := 0; i < 4; i++ {
		m.Update(0.125)
	}
	if m.Current() != "walking" {
		t.Fatalf("Current = %q after firing finished, want walking", m.Current())
	}
	assertOnlyRunning(t, tls, "walking")

	if m.Event("jumping", "firing") {
		t.Error("guarded event fired from the wrong state")
	}
	if m.Current() != "walking" {
		t.Errorf("Current = %q, want walking", m.Current())
	}
}

func TestMachineWalkingLoopsUntilEvent(t *testing.T) {
	m, _ := newDemoMachine()
	m.Activate("walking")
	for i := 0; i < 100; i++ {
		m.Update(0.125)
	}
	if m.Current() != "walking" {
		t.Errorf("Current = %q, want walking", m.Current())
	}
}

func TestMachineJumpReturnsToWalking(t *testing.T) {
	m, tls := newDemoMachine()
	m.Activate("walking")
	m.Event("walking", "jumping")
	for i := 0; i < 7; i++ {
		m.Update(0.125)
	}
	if m.Current() != "jumping" {
		t.Fatalf("jumping ended early: %q", m.Current())
	}
	m.Update(0.125)
	if m.Current() != "walking" {
		t.Errorf("Current = %q, want walking", m.Current())
	}
	assertOnlyRunning(t, tls, "walking")
}

func TestMachineActivateUnregistered(t *testing.T) {
	m, tls := newDemoMachine()
	m.Activate("walking")
	m.Activate("swimming")
	if m.Current() != "" {
		t.Errorf("Current = %q, want idle", m.Current())
	}
	assertOnlyRunning(t, tls, "")
	m.Update(1) // idle machine ignores time
}

func TestMachineIgnoresStaleFinished(t *testing.T) {
	m, tls := newDemoMachine()
	m.Activate("walking")

	// A timeline finishing outside the machine's control does not move it.
	tls["firing"].Start()
	for i := 0; i < 4; i++ {
		tls["firing"].Update(0.125)
	}
	if m.Current() != "walking" {
		t.Errorf("Current = %q, want walking", m.Current())
	}
}

func TestMachineTransitionedSignal(t *testing.T) {
	m, _ := newDemoMachine()
	var got []Transition
	m.Transitioned.Connect(func(tr Transition) { got = append(got, tr) })

	m.Activate("walking")
	m.Event("walking", "firing")
	m.Activate("nope")

	want := []Transition{{"", "walking"}, {"walking", "firing"}, {"firing", ""}}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMachineDuplicateTimelinePanics(t *testing.T) {
	m := NewAnimationStateMachine()
	m.AddTimeline("a", NewTimeline(time.Second))
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	m.AddTimeline("a", NewTimeline(time.Second))
}

func TestMachineDrivesSprite(t *testing.T) {
	s, p := newTestSprite(t)
	s.AddSequence("walking", 24, 0, 68, 150, 8)
	s.AddSequence("jumping", 14, 152, 80, 151, 7)
	s.AddSequence("firing", 14, 310, 88, 151, 4)

	m, tls := newDemoMachine()
	for name, tl := range tls {
		s.Bind(name, tl)
	}
	m.Activate("walking")
	m.Update(0.25)
	if s.Sequence() != "walking" || s.CurrentFrame() != 1 {
		t.Fatalf("walking: %q frame %d", s.Sequence(), s.CurrentFrame())
	}

	m.Event("walking", "firing")
	if s.Sequence() != "firing" || p.Committed().PanY != 310 {
		t.Fatalf("firing: %q window %+v", s.Sequence(), p.Committed())
	}
	m.Update(0.5)
	if s.Sequence() != "walking" || s.CurrentFrame() != 0 {
		t.Errorf("back to walking: %q frame %d", s.Sequence(), s.CurrentFrame())
	}
}
