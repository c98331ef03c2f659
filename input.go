package planes

// Press delivers a pointer press at scene coordinates (x, y). Interactable
// items are tried top-most first; an item whose OnPress returns true
// consumes the press. A press nobody consumes fires Clicked. Press reports
// whether an item consumed it.
func (s *Scene) Press(x, y float64) bool {
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i].Node()
		if !n.Interactable || n.OnPress == nil || !n.Contains(x, y) {
			continue
		}
		lx, ly := n.SceneToLocal(x, y)
		ctx := PressContext{
			Node:     n,
			EntityID: n.EntityID,
			UserData: n.UserData,
			GlobalX:  x,
			GlobalY:  y,
			LocalX:   lx,
			LocalY:   ly,
		}
		s.emitInteraction(EventPress, ctx)
		if n.OnPress(ctx) {
			return true
		}
	}
	ctx := PressContext{GlobalX: x, GlobalY: y, LocalX: x, LocalY: y}
	s.emitInteraction(EventBackgroundPress, ctx)
	s.Clicked.Emit(ctx)
	return false
}

// HitTest returns the top-most interactable node containing (x, y), or nil.
func (s *Scene) HitTest(x, y float64) *PlaneNode {
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i].Node()
		if n.Interactable && n.Contains(x, y) {
			return n
		}
	}
	return nil
}

func (s *Scene) emitInteraction(typ EventType, ctx PressContext) {
	if s.store == nil {
		return
	}
	ev := InteractionEvent{
		Type:     typ,
		EntityID: ctx.EntityID,
		GlobalX:  ctx.GlobalX,
		GlobalY:  ctx.GlobalY,
		LocalX:   ctx.LocalX,
		LocalY:   ctx.LocalY,
	}
	if ctx.Node != nil {
		ev.Node = ctx.Node.Name
	}
	s.store.EmitEvent(ev)
}
