package corona

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayInitializeOnce(t *testing.T) {
	r := &fakeRenderer{}
	d := NewDisplay(Options{Renderer: r, Surface: newFakeSurface(640, 480)})
	assert.Equal(t, StateUninitialized, d.State())

	require.True(t, d.Initialize())
	assert.Equal(t, StateInitialized, d.State())
	assert.False(t, d.Initialize())
	assert.Equal(t, 1, r.initCalls)

	// No restrictions: the legacy canvas.
	assert.Equal(t, 1280, d.ContentWidth())
	assert.Equal(t, 720, d.ContentHeight())
	assert.Equal(t, 30, d.FPS())
}

func TestDisplayInitializeFailures(t *testing.T) {
	r := &fakeRenderer{initErr: errors.New("no context")}
	d := NewDisplay(Options{Renderer: r, Surface: newFakeSurface(10, 10)})
	assert.False(t, d.Initialize())
	assert.Equal(t, StateUninitialized, d.State())

	d = NewDisplay(Options{Renderer: &fakeRenderer{}})
	assert.False(t, d.Initialize(), "a surface is required")

	assert.ErrorIs(t, d.Render(), ErrNotInitialized)
}

func TestDisplayInitializeFlipsFromRenderer(t *testing.T) {
	d := NewDisplay(Options{Renderer: &fakeRenderer{flip: true}, Surface: newFakeSurface(10, 10)})
	require.True(t, d.Initialize())
	assert.True(t, d.Transform().IsProperty(PropertyFlipVerticalAxis))
}

func TestDisplayUpdateEventOrder(t *testing.T) {
	d, _, clk := newTestDisplay(100, 100, ContentConfig{})
	var got []string
	d.AddEventListener(EventRender, func(e Event) { got = append(got, e.EventName()) })
	d.AddEventListener(EventFrame, func(e Event) { got = append(got, e.EventName()) })

	clk.advance(16)
	d.Update()
	d.Update()

	assert.Equal(t, []string{EventFrame, EventRender, EventFrame, EventRender}, got)
}

func TestDisplayFrameEventCarriesTime(t *testing.T) {
	d, _, clk := newTestDisplay(100, 100, ContentConfig{})
	var frames []FrameEvent
	d.AddEventListener(EventFrame, func(e Event) { frames = append(frames, e.(FrameEvent)) })

	clk.advance(100)
	d.Update()
	clk.advance(50)
	d.Update()

	require.Len(t, frames, 2)
	assert.Equal(t, FrameEvent{Time: 100, Frame: 1}, frames[0])
	assert.Equal(t, FrameEvent{Time: 150, Frame: 2}, frames[1])
}

func TestDisplayUpdateBeforeInitialize(t *testing.T) {
	d := NewDisplay(Options{Renderer: &fakeRenderer{}, Surface: newFakeSurface(10, 10)})
	called := false
	d.AddEventListener(EventFrame, func(Event) { called = true })
	d.Update()
	assert.False(t, called)
}

func TestDisplayRenderDelta(t *testing.T) {
	d, _, clk := newTestDisplay(100, 100, ContentConfig{})

	clk.advance(250)
	require.NoError(t, d.Render())
	assert.InDelta(t, 0.25, d.DeltaTimeInSeconds(), epsilon)

	clk.advance(16)
	require.NoError(t, d.Render())
	assert.InDelta(t, 0.016, d.DeltaTimeInSeconds(), epsilon)
}

func TestDisplayRenderSkipsValidScene(t *testing.T) {
	d, r, _ := newTestDisplay(100, 100, ContentConfig{})
	d.NewRect(nil, 10, 10, 5, 5)

	require.NoError(t, d.Render())
	require.NoError(t, d.Render())
	assert.Equal(t, 1, r.submitCalls)
	assert.Len(t, r.lastCommands, 1)

	d.Invalidate()
	require.NoError(t, d.Render())
	assert.Equal(t, 2, r.submitCalls)

	d.Update()
	require.NoError(t, d.Render())
	assert.Equal(t, 3, r.submitCalls, "Update queues a redraw")
}

func TestDisplayRenderSkipsHiddenObjects(t *testing.T) {
	d, r, _ := newTestDisplay(100, 100, ContentConfig{})
	a := d.NewRect(nil, 10, 10, 5, 5)
	b := d.NewRect(nil, 10, 10, 5, 5)
	c := d.NewRect(nil, 10, 10, 5, 5)
	a.Visible = false
	b.Alpha = 0

	require.NoError(t, d.Render())
	require.Len(t, r.lastCommands, 1)
	assert.Equal(t, c.ID, r.lastCommands[0].ObjectID)
}

func TestDisplayCollect(t *testing.T) {
	d, _, _ := newTestDisplay(100, 100, ContentConfig{})
	keep := d.NewRect(nil, 0, 0, 1, 1)
	drop := d.NewRect(nil, 0, 0, 1, 1)
	live := d.NewRect(nil, 0, 0, 1, 1)
	d.Remove(keep)
	d.Remove(drop)

	n := d.Collect(func(o *Object) bool { return o == keep })
	assert.Equal(t, 1, n)
	assert.True(t, drop.IsDisposed())
	assert.False(t, keep.IsDisposed())
	assert.Same(t, d.Scene().Orphanage(), keep.Parent())
	assert.False(t, live.IsDisposed())

	assert.Equal(t, 1, d.Collect(nil))
	assert.True(t, keep.IsDisposed())
	assert.Equal(t, 0, d.Scene().Orphanage().NumChildren())
}

func TestDisplayCollectIsNotReentrant(t *testing.T) {
	d, _, _ := newTestDisplay(100, 100, ContentConfig{})
	for i := 0; i < 3; i++ {
		d.Remove(d.NewRect(nil, 0, 0, 1, 1))
	}

	calls, nested := 0, -1
	n := d.Collect(func(o *Object) bool {
		calls++
		if calls == 1 {
			nested = d.Collect(nil)
		}
		return false
	})
	assert.Equal(t, 0, nested)
	assert.Equal(t, 3, calls, "one sweep visits each orphan once")
	assert.Equal(t, 3, n)

	d.Remove(d.NewRect(nil, 0, 0, 1, 1))
	assert.Equal(t, 1, d.Collect(nil), "the guard is released after a sweep")
}

func TestDisplayRemoveIgnoresForeignObjects(t *testing.T) {
	d, _, _ := newTestDisplay(100, 100, ContentConfig{})
	other, _, _ := newTestDisplay(100, 100, ContentConfig{})
	o := other.NewRect(nil, 0, 0, 1, 1)

	d.Remove(o)
	d.Remove(nil)
	assert.Same(t, other.CurrentStage(), o.Parent())
}

func TestDisplayTeardown(t *testing.T) {
	d, r, _ := newTestDisplay(100, 100, ContentConfig{})
	tex := d.Textures().FromImage(solidImage(2, 2, red.NRGBA()))
	img := d.insert(NewImageObject("i", tex, 2, 2), nil)
	tex.Release()
	orphan := d.NewRect(nil, 0, 0, 1, 1)
	d.Remove(orphan)

	d.Teardown()
	assert.Equal(t, StateTornDown, d.State())
	assert.True(t, img.IsDisposed())
	assert.True(t, orphan.IsDisposed())
	assert.Equal(t, 0, d.Textures().Len())
	assert.Equal(t, 0, tex.RefCount())
	assert.Equal(t, 1, r.releaseGPUCalls)

	d.Teardown()
	assert.Equal(t, 1, r.releaseGPUCalls, "teardown runs once")
	assert.ErrorIs(t, d.Render(), ErrNotInitialized)
	assert.Nil(t, d.CaptureScreen())
}

func TestDisplayUnloadReloadResources(t *testing.T) {
	d, r, _ := newTestDisplay(100, 100, ContentConfig{})
	tex := d.Textures().FromImage(solidImage(2, 2, red.NRGBA()))
	d.insert(NewImageObject("i", tex, 2, 2), nil)
	tex.Release()
	require.NoError(t, d.Render())
	require.Equal(t, 1, r.textureUploads)

	d.UnloadResources()
	assert.Equal(t, 1, r.releaseGPUCalls)

	require.NoError(t, d.ReloadResources())
	assert.Equal(t, 2, r.initCalls)
	require.NoError(t, d.Render())
	assert.Equal(t, 2, r.textureUploads, "textures re-upload on the next draw")

	r.initErr = errors.New("device lost")
	assert.Error(t, d.ReloadResources())
}

func TestDisplayWindowSizeChanged(t *testing.T) {
	d, _, _ := newTestDisplay(1000, 700, ContentConfig{MinWidth: 400, MaxWidth: 600, MinHeight: 300, MaxHeight: 400})
	d.Start()
	assert.Equal(t, StateRunning, d.State())
	assert.False(t, d.HasWindowSizeChanged())
	assert.Equal(t, 2, d.Transform().ContentToScreenScale())

	d.SetSurface(newFakeSurface(1300, 800))
	assert.True(t, d.HasWindowSizeChanged())

	d.WindowSizeChanged()
	assert.False(t, d.HasWindowSizeChanged())
	assert.Equal(t, 600, d.ContentWidth())
	assert.Equal(t, 380, d.ContentHeight())
	assert.Equal(t, 1300, d.PixelWidth())
}

func TestDisplayWithoutSurface(t *testing.T) {
	d, _, _ := newTestDisplay(1000, 700, ContentConfig{})
	w := d.ContentWidth()
	d.SetSurface(nil)

	assert.NotPanics(t, func() {
		d.Restart()
		d.WindowSizeChanged()
	})
	assert.Equal(t, w, d.ContentWidth(), "the last resolved size is kept")
	assert.False(t, d.HasWindowSizeChanged())
	assert.ErrorIs(t, d.Render(), ErrNoSurface)
	assert.Nil(t, d.CaptureFrameBuffer(NewRect(0, 0, 5, 5)))

	d.SetSurface(newFakeSurface(1300, 800))
	d.WindowSizeChanged()
	assert.Equal(t, 1300, d.PixelWidth())
}

func TestDisplayApplyConfig(t *testing.T) {
	d, _, _ := newTestDisplay(1920, 1080, ContentConfig{})
	require.Equal(t, 1280, d.ContentWidth())

	cfg, err := ParseConfig([]byte(`
[content]
minWidth = 480
maxWidth = 960
minHeight = 270
maxHeight = 540
tieBreak = "smaller"

[defaults]
background = [0.5]
anchorX = 0.0
`))
	require.NoError(t, err)
	d.ApplyConfig(cfg)

	assert.Equal(t, 2, d.Transform().ContentToScreenScale())
	assert.Equal(t, 960, d.ContentWidth())
	assert.Equal(t, Color{0.5, 0.5, 0.5, 1}, d.Defaults().Background)
	assert.Equal(t, 0.0, d.Defaults().AnchorX)
	assert.Equal(t, cfg, d.Config())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "torndown", StateTornDown.String())
	assert.Equal(t, "unknown", State(42).String())
}
