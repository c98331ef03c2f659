// Package ecs provides ECS adapters for the planes scene and animation
// state machine.
//
// [NewDonburiStore] bridges scene press events into a [Donburi] world as
// typed events. [BridgeMachine] does the same for animation state
// transitions. Subscribe to [InteractionEventType] or [TransitionEventType]
// in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	conn := ecs.BridgeMachine(world, machine)
//	defer conn.Disconnect()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
