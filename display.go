package corona

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// State is the display lifecycle stage.
type State uint8

const (
	StateUninitialized State = iota
	StateInitialized         // renderer created, transform resolved
	StateRunning             // Update/Render cycle active
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torndown"
	default:
		return "unknown"
	}
}

// Clock returns the time elapsed since the display was created.
type Clock func() time.Duration

// Options configures a Display.
type Options struct {
	Renderer Renderer
	Surface  Surface
	Platform Platform // defaults to a DesktopPlatform rooted at "."
	Config   Config   // defaults to DefaultConfig()

	// Dispatcher receives events after the display's own listeners.
	Dispatcher EventDispatcher

	// Clock overrides the wall clock, mainly for tests.
	Clock Clock
}

// reentryGuard lets exactly one holder in at a time on the owning thread.
// Release is returned by acquire so every exit path clears it.
type reentryGuard struct {
	held bool
}

func (g *reentryGuard) acquire() (release func(), ok bool) {
	if g.held {
		return nil, false
	}
	g.held = true
	return func() { g.held = false }, true
}

// Display coordinates the content transform, the scene, sprite playback,
// and capture for one render surface.
//
// mu is held for Render, captures, and content size changes so a resize
// arriving from the platform thread never interleaves with a frame. Update
// and event listeners run without it, so listeners may call back into the
// display.
type Display struct {
	mu sync.Mutex

	state     State
	renderer  Renderer
	surface   Surface
	platform  Platform
	transform *ContentTransform
	scene     *Scene
	player    *SpritePlayer
	textures  *TextureFactory
	listeners *Listeners
	defaults  Defaults
	config    Config

	clock        Clock
	previousTime time.Duration
	lastUpdate   time.Duration
	deltaTime    float64
	frame        uint64

	transitions []*TweenGroup
	collecting  reentryGuard
}

// NewDisplay creates an uninitialized display.
func NewDisplay(opts Options) *Display {
	d := &Display{
		renderer:  opts.Renderer,
		surface:   opts.Surface,
		platform:  opts.Platform,
		transform: NewContentTransform(),
		scene:     NewScene(),
		listeners: NewListeners(opts.Dispatcher),
		defaults:  NewDefaults(),
		config:    opts.Config,
		clock:     opts.Clock,
	}
	if d.platform == nil {
		d.platform = NewDesktopPlatform(".", ".")
	}
	if d.config.isZero() {
		d.config = DefaultConfig()
	}
	if d.clock == nil {
		start := time.Now()
		d.clock = func() time.Duration { return time.Since(start) }
	}
	d.player = NewSpritePlayer(d.listeners)
	d.textures = NewTextureFactory(d.renderer)
	return d
}

// Initialize creates renderer state and resolves the content transform for
// the surface. It runs once; later calls return false.
func (d *Display) Initialize() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateUninitialized {
		return false
	}
	if d.renderer == nil || d.surface == nil {
		Logger().Warn("display initialize without renderer or surface")
		return false
	}
	if err := d.renderer.Initialize(); err != nil {
		Logger().Warn("renderer initialize failed", "err", err)
		return false
	}
	d.transform.SetProperty(PropertyFlipVerticalAxis, d.renderer.FlipsVerticalAxis())
	d.applyConfigLocked(d.config)
	d.previousTime = d.clock()
	d.lastUpdate = d.previousTime
	d.state = StateInitialized
	Logger().Info("display initialized",
		"pixelWidth", d.transform.DeviceWidth(), "pixelHeight", d.transform.DeviceHeight(),
		"contentWidth", d.transform.ContentWidth(), "contentHeight", d.transform.ContentHeight(),
		"scale", d.transform.ContentToScreenScale())
	return true
}

// Start resolves the content size for the current surface and enters the
// running state.
func (d *Display) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateInitialized && d.state != StateRunning {
		return
	}
	d.resolveLocked()
	d.state = StateRunning
}

// Restart re-resolves the content size, for example after the content
// restrictions changed.
func (d *Display) Restart() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateUninitialized || d.state == StateTornDown {
		return
	}
	d.resolveLocked()
}

// WindowSizeChanged re-resolves the content size after the surface resized.
func (d *Display) WindowSizeChanged() {
	d.Restart()
}

// HasWindowSizeChanged reports whether the surface size differs from the
// size the transform was last resolved for.
func (d *Display) HasWindowSizeChanged() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.surface == nil || !d.transform.IsResolved() {
		return false
	}
	return d.transform.DeviceWidth() != d.surface.Width() ||
		d.transform.DeviceHeight() != d.surface.Height()
}

// ApplyConfig replaces the configuration and re-resolves the content size.
func (d *Display) ApplyConfig(cfg Config) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyConfigLocked(cfg)
}

func (d *Display) applyConfigLocked(cfg Config) {
	d.config = cfg
	c := cfg.Content
	d.transform.SetContentSizeRestrictions(c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight)
	d.transform.SetPreferredContentToScreenScale(c.Scale)
	d.transform.SetTieBreak(cfg.tieBreak())
	if bg := cfg.Defaults.Background; len(bg) > 0 {
		if col, err := colorFromComponents("background", bg); err == nil {
			d.defaults.Background = col
		} else {
			Logger().Warn("ignoring config background", "err", err)
		}
	}
	if cfg.Defaults.AnchorX != nil {
		d.defaults.AnchorX = clamp01(*cfg.Defaults.AnchorX)
	}
	if cfg.Defaults.AnchorY != nil {
		d.defaults.AnchorY = clamp01(*cfg.Defaults.AnchorY)
	}
	if d.surface != nil {
		d.resolveLocked()
	}
}

func (d *Display) resolveLocked() {
	if d.surface == nil {
		return
	}
	d.transform.Resolve(d.surface.Width(), d.surface.Height())
	d.scene.Invalidate()
}

// Update advances sprites and transitions, queues the scene for redraw,
// then dispatches the frame event followed by the render event.
func (d *Display) Update() {
	if d.state != StateInitialized && d.state != StateRunning {
		return
	}
	now := d.clock()
	nowMs := durationMs(now)
	d.player.Run(nowMs)

	dt := (now - d.lastUpdate).Seconds()
	d.lastUpdate = now
	d.advanceTransitions(dt)

	d.scene.QueueUpdateOfUpdatables()

	d.frame++
	d.listeners.DispatchEvent(FrameEvent{Time: nowMs, Frame: d.frame})
	d.listeners.DispatchEvent(RenderEvent{Time: nowMs, Frame: d.frame})
}

// Render computes the frame delta and draws the scene to the surface.
func (d *Display) Render() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateInitialized && d.state != StateRunning {
		return ErrNotInitialized
	}
	if d.surface == nil {
		return ErrNoSurface
	}
	now := d.clock()
	d.deltaTime = durationMs(now-d.previousTime) / 1000
	d.previousTime = now

	_, err := d.scene.Render(d.renderer, d.surface, d.transform.ContentToScreenMatrix(), d.defaults.Background)
	return err
}

// DeltaTimeInSeconds returns the time between the last two Render calls.
func (d *Display) DeltaTimeInSeconds() float64 { return d.deltaTime }

// Invalidate forces the next Render to redraw.
func (d *Display) Invalidate() { d.scene.Invalidate() }

// Collect disposes every orphan for which reachable reports false (all
// orphans when reachable is nil) and returns how many were disposed. A call
// made while a sweep is in progress does nothing.
func (d *Display) Collect(reachable func(*Object) bool) int {
	release, ok := d.collecting.acquire()
	if !ok {
		return 0
	}
	defer release()

	orphans := append([]*Object(nil), d.scene.orphanage.children...)
	n := 0
	for _, o := range orphans {
		if o.parent != d.scene.orphanage {
			continue
		}
		if reachable != nil && reachable(o) {
			continue
		}
		o.Dispose()
		n++
	}
	return n
}

// UnloadResources frees GPU copies of all textures.
func (d *Display) UnloadResources() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textures.ReleaseGPUResources()
	if d.renderer != nil {
		d.renderer.ReleaseGPUResources()
	}
}

// ReloadResources recreates renderer state after UnloadResources or a lost
// device. Textures re-upload on their next draw.
func (d *Display) ReloadResources() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.renderer == nil {
		return ErrNotInitialized
	}
	d.textures.ReleaseGPUResources()
	d.renderer.ReleaseGPUResources()
	if err := d.renderer.Initialize(); err != nil {
		return errors.Wrap(err, "corona: reload renderer")
	}
	d.scene.Invalidate()
	return nil
}

// Teardown releases textures first, then disposes the scene and renderer
// resources. The display cannot be used afterwards.
func (d *Display) Teardown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateTornDown {
		return
	}
	d.textures.Teardown()
	d.scene.currentStage.Dispose()
	d.scene.offscreenStage.Dispose()
	d.scene.orphanage.Dispose()
	d.transitions = nil
	if d.renderer != nil {
		d.renderer.ReleaseGPUResources()
	}
	d.state = StateTornDown
	Logger().Info("display torn down")
}

// --- Accessors ---

// State returns the lifecycle stage.
func (d *Display) State() State { return d.state }

// Transform returns the content transform. Callers must not resolve it.
func (d *Display) Transform() *ContentTransform { return d.transform }

// Scene returns the scene.
func (d *Display) Scene() *Scene { return d.scene }

// SpritePlayer returns the sprite player.
func (d *Display) SpritePlayer() *SpritePlayer { return d.player }

// Textures returns the texture factory.
func (d *Display) Textures() *TextureFactory { return d.textures }

// Platform returns the platform services.
func (d *Display) Platform() Platform { return d.platform }

// Config returns the active configuration.
func (d *Display) Config() Config { return d.config }

// Renderer returns the renderer.
func (d *Display) Renderer() Renderer { return d.renderer }

// SetSurface replaces the render surface; call WindowSizeChanged afterwards
// if its size differs.
func (d *Display) SetSurface(s Surface) {
	d.mu.Lock()
	d.surface = s
	d.mu.Unlock()
}

// AddEventListener registers fn for the named event.
func (d *Display) AddEventListener(name string, fn func(Event)) {
	d.listeners.AddEventListener(name, fn)
}

// SetDebugMode toggles per-frame render statistics.
func (d *Display) SetDebugMode(enabled bool) { d.scene.SetDebugMode(enabled) }

func durationMs(t time.Duration) float64 {
	return float64(t) / float64(time.Millisecond)
}
