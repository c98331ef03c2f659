package ecs

import (
	"github.com/phanxgames/planes"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for scene press events.
var InteractionEventType = events.NewEventType[planes.InteractionEvent]()

// TransitionEventType is the Donburi event type for animation state changes.
var TransitionEventType = events.NewEventType[planes.Transition]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Press events are published to InteractionEventType and can be consumed
// with Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) planes.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event planes.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// BridgeMachine publishes every transition of m to TransitionEventType in
// world until the returned connection is disconnected.
func BridgeMachine(world donburi.World, m *planes.AnimationStateMachine) planes.Connection {
	return m.Transitioned.Connect(func(tr planes.Transition) {
		TransitionEventType.Publish(world, tr)
	})
}
