package planes

// syntheticPress is a queued press in screen coordinates.
type syntheticPress struct {
	x, y float64
}

// InjectPress queues a press at the given screen coordinates. Queued presses
// are delivered one per Update, before timelines and ticks run.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPress{x: x, y: y})
}

// PendingPresses returns the number of queued presses.
func (s *Scene) PendingPresses() int { return len(s.injectQueue) }

// processInjectedInput pops one press from the queue and dispatches it.
// Returns true if a press was delivered.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.Press(evt.x, evt.y)
	return true
}
