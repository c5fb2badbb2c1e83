package corona

// Event is delivered to listeners through an EventDispatcher.
type Event interface {
	EventName() string
}

// Event names.
const (
	EventFrame  = "enterFrame"
	EventRender = "render"
	EventSprite = "sprite"
)

// FrameEvent is dispatched once per Update, before RenderEvent.
type FrameEvent struct {
	Time  float64 // ms since the display started
	Frame uint64
}

func (FrameEvent) EventName() string { return EventFrame }

// RenderEvent is dispatched once per Update, after FrameEvent.
type RenderEvent struct {
	Time  float64
	Frame uint64
}

func (RenderEvent) EventName() string { return EventRender }

// SpritePhase is the stage of sprite playback reported by a SpriteEvent.
type SpritePhase uint8

const (
	SpriteBegan SpritePhase = iota
	SpriteNext
	SpriteLoop
	SpriteEnded
)

func (p SpritePhase) String() string {
	switch p {
	case SpriteBegan:
		return "began"
	case SpriteNext:
		return "next"
	case SpriteLoop:
		return "loop"
	case SpriteEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SpriteEvent reports a sprite playback change.
type SpriteEvent struct {
	Target   *Object
	Phase    SpritePhase
	Sequence string
	Frame    int // 1-based frame within the sequence
	Loop     int // 1-based loop iteration
}

func (SpriteEvent) EventName() string { return EventSprite }

// EventDispatcher receives events from the display. Events are plain values
// and may be queued.
type EventDispatcher interface {
	DispatchEvent(e Event)
}

// EventDispatcherFunc adapts a function to EventDispatcher.
type EventDispatcherFunc func(e Event)

func (f EventDispatcherFunc) DispatchEvent(e Event) { f(e) }

// Listeners is an EventDispatcher that fans events out to listeners
// registered by event name, plus an optional downstream dispatcher.
type Listeners struct {
	byName map[string][]func(Event)
	next   EventDispatcher
}

// NewListeners returns a dispatcher forwarding every event to next after the
// registered listeners. next may be nil.
func NewListeners(next EventDispatcher) *Listeners {
	return &Listeners{byName: make(map[string][]func(Event)), next: next}
}

// AddEventListener registers fn for events named name.
func (l *Listeners) AddEventListener(name string, fn func(Event)) {
	l.byName[name] = append(l.byName[name], fn)
}

// RemoveEventListeners drops every listener for name.
func (l *Listeners) RemoveEventListeners(name string) {
	delete(l.byName, name)
}

// SetNext replaces the downstream dispatcher.
func (l *Listeners) SetNext(next EventDispatcher) { l.next = next }

// DispatchEvent calls the listeners for e in registration order, then the
// downstream dispatcher.
func (l *Listeners) DispatchEvent(e Event) {
	for _, fn := range l.byName[e.EventName()] {
		fn(e)
	}
	if l.next != nil {
		l.next.DispatchEvent(e)
	}
}
