// Package ecs forwards corona display events into an ECS world.
//
// [NewDonburiDispatcher] publishes frame, render and sprite events to a
// [Donburi] world as typed events. Subscribe to [FrameEventType],
// [RenderEventType] or [SpriteEventType] in your systems to receive them.
//
// Usage:
//
//	d := corona.NewDisplay(corona.Options{
//		Renderer:   corona.NewEbitenRenderer(),
//		Surface:    corona.NewEbitenSurface(960, 540),
//		Dispatcher: ecs.NewDonburiDispatcher(world),
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
