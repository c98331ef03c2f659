package planes

// Item is anything a Scene can host: a plane-bound node that knows how to
// get its pixels onto its plane.
type Item interface {
	Node() *PlaneNode
	Paint() error
}

// Advancer is implemented by items that move on every scene tick.
type Advancer interface {
	// Advance is called twice per tick, with step 0 and then step 1.
	Advance(step int)
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	Node     string
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
}

const (
	defaultTickRate   = 60
	maxTicksPerUpdate = 8
)

// Scene hosts plane-bound items. It never composites pixels itself: ticks
// move pan windows and commit registers, and only items whose content
// changed push new pixels.
//
// Items are kept in insertion order, which is also the hit-test order:
// later items are on top.
type Scene struct {
	items    []Item
	store    EntityStore
	machine  *AnimationStateMachine
	registry *Registry

	tickRate float64
	accum    float64
	ticks    int

	injectQueue     []syntheticPress
	testRunner      *TestRunner
	screenshotQueue []string

	// ScreenshotDir is where screenshots requested with Screenshot are written.
	ScreenshotDir string

	// Clicked fires for presses that no item consumed.
	Clicked Signal[PressContext]
}

// NewScene creates an empty scene ticking 60 times per second.
func NewScene() *Scene {
	return &Scene{
		tickRate:      defaultTickRate,
		ScreenshotDir: "screenshots",
	}
}

// Add appends item on top of the existing items.
func (s *Scene) Add(item Item) {
	if item == nil || item.Node() == nil {
		panic("planes: Scene.Add with nil item")
	}
	for _, it := range s.items {
		if it.Node() == item.Node() {
			panic("planes: Scene.Add: item " + item.Node().Name + " already added")
		}
	}
	s.items = append(s.items, item)
}

// Remove takes item out of the scene. Its plane keeps its last content.
func (s *Scene) Remove(item Item) {
	for i, it := range s.items {
		if it.Node() == item.Node() {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

// Items returns the hosted items bottom first. The slice must not be modified.
func (s *Scene) Items() []Item { return s.items }

// SetMachine attaches the state machine driven by Update.
func (s *Scene) SetMachine(m *AnimationStateMachine) { s.machine = m }

// Machine returns the attached state machine, or nil.
func (s *Scene) Machine() *AnimationStateMachine { return s.machine }

// SetRegistry attaches a registry whose plane effects step with every tick.
func (s *Scene) SetRegistry(r *Registry) { s.registry = r }

// SetEntityStore sets the optional ECS store for interaction event forwarding.
func (s *Scene) SetEntityStore(store EntityStore) { s.store = store }

// SetTickRate sets how many ticks per second Update produces. A rate of 0
// turns automatic ticking off; Advance can still be called directly.
func (s *Scene) SetTickRate(tps float64) {
	if tps < 0 {
		tps = 0
	}
	s.tickRate = tps
	s.accum = 0
}

// TickRate returns the automatic tick rate.
func (s *Scene) TickRate() float64 { return s.tickRate }

// Ticks returns how many ticks have run.
func (s *Scene) Ticks() int { return s.ticks }

// Update runs one frame of dt seconds: scripted and injected input, the
// state machine, as many ticks as the tick rate calls for, and painting.
func (s *Scene) Update(dt float32) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput()
	if s.machine != nil {
		s.machine.Update(dt)
	}
	if s.tickRate > 0 {
		step := 1 / s.tickRate
		s.accum += float64(dt)
		n := 0
		for s.accum >= step && n < maxTicksPerUpdate {
			s.accum -= step
			s.advance()
			n++
		}
		if n == maxTicksPerUpdate {
			s.accum = 0
		}
	}
	s.Flush()
}

// Advance runs one tick and paints what changed.
func (s *Scene) Advance() {
	s.advance()
	s.Flush()
}

func (s *Scene) advance() {
	for step := 0; step < 2; step++ {
		for _, it := range s.items {
			if a, ok := it.(Advancer); ok {
				a.Advance(step)
			}
		}
	}
	if s.registry != nil {
		s.registry.Step()
	}
	s.ticks++
}

// Flush paints every item. Failed items are logged and skipped for this
// frame; their content stays dirty.
func (s *Scene) Flush() {
	for _, it := range s.items {
		if err := it.Paint(); err != nil {
			Logger().Warn("frame skipped", "plane", it.Node().plane.Name(), "err", err)
		}
	}
}

// Screenshot queues a labeled screenshot. The simulator captures queued
// screenshots at the end of its next Draw.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// takeScreenshots returns and clears the queued screenshot labels.
func (s *Scene) takeScreenshots() []string {
	q := s.screenshotQueue
	s.screenshotQueue = nil
	return q
}
