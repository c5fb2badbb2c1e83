// Package ecs provides ECS adapters for corona.
package ecs

import (
	"github.com/pouwelsjochem/corona"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FrameEventType carries corona.FrameEvent, published once per Update.
var FrameEventType = events.NewEventType[corona.FrameEvent]()

// RenderEventType carries corona.RenderEvent, published after each frame
// event.
var RenderEventType = events.NewEventType[corona.RenderEvent]()

// SpriteEventType carries sprite playback phases (began, next, loop, ended).
var SpriteEventType = events.NewEventType[corona.SpriteEvent]()

type donburiDispatcher struct {
	world donburi.World
}

// NewDonburiDispatcher creates an EventDispatcher backed by a Donburi world.
// Events are queued and delivered by events.ProcessAllEvents or the per-type
// ProcessEvents. Events of other types are dropped.
func NewDonburiDispatcher(world donburi.World) corona.EventDispatcher {
	return &donburiDispatcher{world: world}
}

func (d *donburiDispatcher) DispatchEvent(e corona.Event) {
	switch ev := e.(type) {
	case corona.FrameEvent:
		FrameEventType.Publish(d.world, ev)
	case corona.RenderEvent:
		RenderEventType.Publish(d.world, ev)
	case corona.SpriteEvent:
		SpriteEventType.Publish(d.world, ev)
	}
}
