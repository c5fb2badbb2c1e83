package corona

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenersDispatchOrder(t *testing.T) {
	var got []string
	next := EventDispatcherFunc(func(e Event) { got = append(got, "next:"+e.EventName()) })
	l := NewListeners(next)
	l.AddEventListener(EventFrame, func(Event) { got = append(got, "a") })
	l.AddEventListener(EventFrame, func(Event) { got = append(got, "b") })
	l.AddEventListener(EventRender, func(Event) { got = append(got, "render") })

	l.DispatchEvent(FrameEvent{Frame: 1})
	assert.Equal(t, []string{"a", "b", "next:enterFrame"}, got)
}

func TestListenersRemoveAndSetNext(t *testing.T) {
	calls := 0
	l := NewListeners(nil)
	l.AddEventListener(EventSprite, func(Event) { calls++ })
	l.DispatchEvent(SpriteEvent{})
	l.RemoveEventListeners(EventSprite)
	l.DispatchEvent(SpriteEvent{})
	assert.Equal(t, 1, calls)

	var forwarded []Event
	l.SetNext(EventDispatcherFunc(func(e Event) { forwarded = append(forwarded, e) }))
	l.DispatchEvent(RenderEvent{Frame: 7})
	assert.Equal(t, []Event{RenderEvent{Frame: 7}}, forwarded)
}

func TestDisplayForwardsToDispatcher(t *testing.T) {
	var names []string
	d := NewDisplay(Options{
		Renderer:   &fakeRenderer{},
		Surface:    newFakeSurface(10, 10),
		Dispatcher: EventDispatcherFunc(func(e Event) { names = append(names, e.EventName()) }),
	})
	d.Initialize()
	d.Update()
	assert.Equal(t, []string{EventFrame, EventRender}, names)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "began", SpriteBegan.String())
	assert.Equal(t, "ended", SpriteEnded.String())
	assert.Equal(t, "unknown", SpritePhase(9).String())
	assert.Equal(t, "documents", DocumentsDirectory.String())
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	d, _, _ := newTestDisplay(10, 10, ContentConfig{})
	d.SetDebugMode(true)
	d.NewRect(nil, 1, 1, 1, 1)
	if err := d.Render(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	assert.True(t, strings.Contains(out, "display initialized"), out)
	assert.True(t, strings.Contains(out, "frame rendered"), out)
	assert.True(t, strings.Contains(out, "commands=1"), out)

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestCountObjects(t *testing.T) {
	root := NewGroupObject("root")
	g := NewGroupObject("g")
	root.Insert(g)
	g.Insert(NewRectObject("a", 1, 1))
	g.Insert(NewRectObject("b", 1, 1))
	assert.Equal(t, 4, countObjects(root))
	assert.Equal(t, 1, countObjects(NewRectObject("leaf", 1, 1)))
}
