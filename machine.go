package planes

// Transition describes a change of the active animation state. An empty To
// means the machine went idle.
type Transition struct {
	From, To string
}

// AnimationStateMachine runs one named Timeline at a time. States move on
// either automatically, when the active timeline finishes and a transition
// is registered for it, or through guarded events from the outside.
type AnimationStateMachine struct {
	timelines   map[string]*Timeline
	transitions map[string]string
	current     string

	// Transitioned fires after every activation.
	Transitioned Signal[Transition]
}

// NewAnimationStateMachine returns an idle machine with no states.
func NewAnimationStateMachine() *AnimationStateMachine {
	return &AnimationStateMachine{
		timelines:   make(map[string]*Timeline),
		transitions: make(map[string]string),
	}
}

// AddTimeline registers tl as the state name. Registering a name twice panics.
func (m *AnimationStateMachine) AddTimeline(name string, tl *Timeline) {
	if tl == nil {
		panic("planes: AddTimeline with nil timeline")
	}
	if _, dup := m.timelines[name]; dup {
		panic("planes: AddTimeline: duplicate state " + name)
	}
	m.timelines[name] = tl
	tl.Finished.Connect(func(struct{}) { m.finished(name) })
}

// AddTransition makes to follow from automatically when from's timeline finishes.
func (m *AnimationStateMachine) AddTransition(from, to string) {
	m.transitions[from] = to
}

// Activate stops the active timeline and, if name is a registered state,
// starts it. An unknown name leaves the machine idle.
func (m *AnimationStateMachine) Activate(name string) {
	prev := m.current
	if tl, ok := m.timelines[prev]; ok {
		tl.Stop()
	}
	tl, ok := m.timelines[name]
	if !ok {
		m.current = ""
		Logger().Debug("animation idle", "state", name, "from", prev)
		m.Transitioned.Emit(Transition{From: prev})
		return
	}
	m.current = name
	Logger().Debug("animation state", "state", name, "from", prev)
	tl.Start()
	m.Transitioned.Emit(Transition{From: prev, To: name})
}

// Event activates to only while from is the active state. It reports
// whether the transition happened; a mismatch is not an error.
func (m *AnimationStateMachine) Event(from, to string) bool {
	if m.current != from {
		return false
	}
	m.Activate(to)
	return true
}

// Current returns the active state, or "" while idle.
func (m *AnimationStateMachine) Current() string { return m.current }

// Timeline returns the timeline registered for name.
func (m *AnimationStateMachine) Timeline(name string) (*Timeline, bool) {
	tl, ok := m.timelines[name]
	return tl, ok
}

// Update advances the active timeline by dt seconds.
func (m *AnimationStateMachine) Update(dt float32) {
	if tl, ok := m.timelines[m.current]; ok {
		tl.Update(dt)
	}
}

// finished follows the automatic transition of a state whose timeline ended.
// Late notifications from a state that is no longer active are dropped.
func (m *AnimationStateMachine) finished(name string) {
	if name != m.current {
		return
	}
	if to, ok := m.transitions[name]; ok {
		m.Activate(to)
	}
}
