// Package planes composites a 2D scene on hardware overlay planes instead of
// a software framebuffer.
//
// Every visible element owns one plane. Moving or scaling it reprograms the
// plane's position and scale registers; scrolling and sprite animation move
// the plane's pan window over pixels that were written once. Pixels reach a
// plane only through [PlaneNode.PushImage], which maps the framebuffer,
// replaces its contents and unmaps it again.
//
// # Quick start
//
// Planes come from a [Registry] loaded from a YAML configuration:
//
//	reg := planes.NewRegistry(planes.OpenMemory(800, 480, 4))
//	if err := reg.Load("screen.yaml"); err != nil {
//		log.Fatal(err)
//	}
//	defer reg.Close()
//
//	plane, _ := reg.Get("overlay0")
//	layer, err := planes.NewPanningLayer("hills", plane, hills, 800, 330, 2)
//
//	scene := planes.NewScene()
//	scene.Add(layer)
//
// On Linux the fbdev sub-package drives real /dev/fbN devices. Anywhere
// else, [Run] shows a [MemoryDevice] in an [Ebitengine] window:
//
//	planes.Run(scene, dev, planes.RunConfig{Title: "demo"})
//
// # Animation
//
// [Timeline] turns elapsed time into frame numbers using [gween] curves.
// [AnimationStateMachine] keeps one timeline running at a time and moves
// between states when a timeline finishes or when a guarded [AnimationStateMachine.Event]
// arrives. [SpriteAnimator.Bind] routes a timeline's frames into a sprite.
//
// Notifications use [Signal], a typed subscribe/notify channel.
//
// # Logging
//
// The package is silent by default. Install a [log/slog] logger with
// [SetLogger] to see commits, pushes and state changes.
//
// An ECS bridge for [Donburi] lives in planes/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package planes
