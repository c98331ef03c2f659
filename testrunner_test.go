package planes

import (
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	r, err := LoadTestScript([]byte(`
steps:
  - action: screenshot
    label: start
  - action: press
    x: 10
    y: 20
  - action: wait
    frames: 3
  - action: event
    from: walking
    to: firing
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(r.steps))
	}
	if r.steps[1].X != 10 || r.steps[1].Y != 20 {
		t.Errorf("press step = %+v", r.steps[1])
	}
	if r.steps[3].From != "walking" || r.steps[3].To != "firing" {
		t.Errorf("event step = %+v", r.steps[3])
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid", "steps: [", "parse test script"},
		{"empty", "steps: []", "no steps"},
		{"unknown action", "steps:\n  - action: drag\n", `unknown action "drag"`},
		{"unknown key", "steps:\n  - action: wait\n    frame: 3\n", "frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestTestRunnerScreenshotAndPress(t *testing.T) {
	s := NewScene()
	presses := 0
	s.Clicked.Connect(func(PressContext) { presses++ })
	r, err := LoadTestScript([]byte(`
steps:
  - action: screenshot
    label: before
  - action: press
    x: 5
    y: 5
`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)

	s.Update(0)
	if q := s.takeScreenshots(); len(q) != 1 || q[0] != "before" {
		t.Errorf("screenshots = %v", q)
	}
	s.Update(0) // queues the press and delivers it in the same frame
	if presses != 1 {
		t.Errorf("presses = %d, want 1", presses)
	}
	if r.Done() {
		t.Error("runner done before the queue drained")
	}
	s.Update(0)
	if !r.Done() {
		t.Error("runner should be done")
	}
}

func TestTestRunnerWait(t *testing.T) {
	s := NewScene()
	r, err := LoadTestScript([]byte(`
steps:
  - action: wait
    frames: 3
  - action: screenshot
    label: after
`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)
	for i := 0; i < 3; i++ {
		s.Update(0)
		if len(s.takeScreenshots()) != 0 {
			t.Fatalf("screenshot taken during wait frame %d", i)
		}
	}
	s.Update(0)
	if q := s.takeScreenshots(); len(q) != 1 || q[0] != "after" {
		t.Errorf("screenshots = %v", q)
	}
}

func TestTestRunnerEvent(t *testing.T) {
	s := NewScene()
	m, _ := newDemoMachine()
	s.SetMachine(m)
	m.Activate("walking")
	r, err := LoadTestScript([]byte(`
steps:
  - action: event
    from: walking
    to: jumping
  - action: event
    from: walking
    to: firing
`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)
	s.Update(0)
	if m.Current() != "jumping" {
		t.Fatalf("Current = %q, want jumping", m.Current())
	}
	s.Update(0) // guarded: current is not walking
	if m.Current() != "jumping" {
		t.Errorf("Current = %q, want jumping", m.Current())
	}
	if !r.Done() {
		t.Error("runner should be done")
	}
}

func TestTestRunnerAdvance(t *testing.T) {
	s := NewScene()
	s.SetTickRate(0)
	l, p := newTestLayer(t, 100, 10, 4)
	s.Add(l)
	r, err := LoadTestScript([]byte(`
steps:
  - action: advance
    frames: 3
`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)
	s.Update(0)
	if s.Ticks() != 3 {
		t.Errorf("Ticks = %d, want 3", s.Ticks())
	}
	if got := p.Committed().PanX; got != 12 {
		t.Errorf("PanX = %d, want 12", got)
	}
	if !r.Done() {
		t.Error("runner should be done")
	}
}
