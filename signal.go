package planes

// Signal is a typed notification channel. Handlers run synchronously, in
// connection order, on the goroutine that calls Emit. The zero value is
// ready to use.
type Signal[T any] struct {
	handlers []signalHandler[T]
	nextID   uint32
}

type signalHandler[T any] struct {
	id uint32
	fn func(T)
}

// Connection identifies a connected handler so it can be disconnected later.
type Connection struct {
	id     uint32
	remove func(uint32)
}

// Disconnect unregisters the handler. Calling it more than once is harmless.
func (c Connection) Disconnect() {
	if c.remove == nil {
		return
	}
	c.remove(c.id)
}

// Connect registers fn and returns a handle that can disconnect it.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	if fn == nil {
		panic("planes: Signal.Connect with nil handler")
	}
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, signalHandler[T]{id: id, fn: fn})
	return Connection{id: id, remove: s.disconnect}
}

// Emit calls every connected handler with v. Handlers connected or
// disconnected during an Emit take effect from the next Emit.
func (s *Signal[T]) Emit(v T) {
	for _, h := range s.handlers {
		h.fn(v)
	}
}

// Len returns the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}

// disconnect rebuilds the slice instead of shifting in place so that an Emit
// already ranging over the old slice is not disturbed.
func (s *Signal[T]) disconnect(id uint32) {
	for i := range s.handlers {
		if s.handlers[i].id == id {
			next := make([]signalHandler[T], 0, len(s.handlers)-1)
			next = append(next, s.handlers[:i]...)
			s.handlers = append(next, s.handlers[i+1:]...)
			return
		}
	}
}
