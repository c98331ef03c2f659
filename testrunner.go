package planes

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// scriptAction names what one script step does to the scene.
type scriptAction string

const (
	actionScreenshot scriptAction = "screenshot" // queue a capture under Label
	actionPress      scriptAction = "press"      // inject a press at X,Y
	actionEvent      scriptAction = "event"      // fire the machine transition From -> To
	actionWait       scriptAction = "wait"       // idle for Frames updates
	actionAdvance    scriptAction = "advance"    // run Frames scene ticks right away
)

// UnmarshalYAML rejects unknown action names.
func (a *scriptAction) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch v := scriptAction(s); v {
	case actionScreenshot, actionPress, actionEvent, actionWait, actionAdvance:
		*a = v
		return nil
	}
	return fmt.Errorf("line %d: unknown action %q", value.Line, s)
}

type scriptStep struct {
	Action scriptAction `yaml:"action"`
	Label  string       `yaml:"label,omitempty"`
	X      float64      `yaml:"x,omitempty"`
	Y      float64      `yaml:"y,omitempty"`
	From   string       `yaml:"from,omitempty"`
	To     string       `yaml:"to,omitempty"`
	Frames int          `yaml:"frames,omitempty"`
}

// run applies the step and returns how many further updates to sit out.
func (st scriptStep) run(s *Scene) int {
	switch st.Action {
	case actionScreenshot:
		s.Screenshot(st.Label)
	case actionPress:
		s.InjectPress(st.X, st.Y)
	case actionEvent:
		if s.machine == nil || !s.machine.Event(st.From, st.To) {
			Logger().Debug("scripted event ignored", "from", st.From, "to", st.To)
		}
	case actionWait:
		return max(st.Frames-1, 0)
	case actionAdvance:
		for range max(st.Frames, 1) {
			s.Advance()
		}
	}
	return 0
}

// TestRunner drives a scene from a script: one step per Update, holding back
// while injected presses are still queued. Attach it with SetTestRunner.
type TestRunner struct {
	steps []scriptStep
	next  int
	idle  int
	done  bool
}

// LoadTestScript parses a YAML or JSON script of the form
//
//	steps:
//	  - {action: press, x: 400, y: 356}
//	  - {action: wait, frames: 30}
//	  - {action: event, from: walking, to: firing}
//	  - {action: advance, frames: 4}
//	  - {action: screenshot, label: firing}
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `yaml:"steps"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner; it takes one step at the start of every
// Scene.Update.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run and its presses were delivered.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(s *Scene) {
	if r.done || s.PendingPresses() > 0 {
		return
	}
	if r.idle > 0 {
		r.idle--
		return
	}
	if r.next < len(r.steps) {
		r.idle = r.steps[r.next].run(s)
		r.next++
	}
	r.done = r.next == len(r.steps) && r.idle == 0 && s.PendingPresses() == 0
}
