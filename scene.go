package corona

import (
	"time"

	"github.com/pkg/errors"
)

const defaultCommandCap = 256

// Scene owns the display object roots: the current stage that is drawn to
// the screen, an offscreen stage for objects that must stay alive without
// being drawn, and the orphanage holding removed objects until they are
// collected.
type Scene struct {
	currentStage   *Object
	offscreenStage *Object
	orphanage      *Object

	commands []RenderCommand
	invalid  bool
	debug    bool
}

// NewScene creates a scene with empty stages.
func NewScene() *Scene {
	s := &Scene{
		currentStage:   NewGroupObject("stage"),
		offscreenStage: NewGroupObject("offscreen"),
		orphanage:      NewGroupObject("orphanage"),
		commands:       make([]RenderCommand, 0, defaultCommandCap),
		invalid:        true,
	}
	s.currentStage.scene = s
	s.offscreenStage.scene = s
	s.orphanage.scene = s
	return s
}

// CurrentStage returns the root group drawn to the screen.
func (s *Scene) CurrentStage() *Object { return s.currentStage }

// OffscreenStage returns the root group for objects that are never drawn.
func (s *Scene) OffscreenStage() *Object { return s.offscreenStage }

// Orphanage returns the group holding removed, not yet collected objects.
func (s *Scene) Orphanage() *Object { return s.orphanage }

// Invalidate forces the next Render to redraw.
func (s *Scene) Invalidate() { s.invalid = true }

// IsValid reports whether the last rendered frame is still current.
func (s *Scene) IsValid() bool { return !s.invalid }

// QueueUpdateOfUpdatables marks the scene for redraw after sprites and
// transitions have advanced.
func (s *Scene) QueueUpdateOfUpdatables() { s.invalid = true }

// SetDebugMode enables per-frame render statistics at debug log level.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

// Render draws the current stage into surface through proj when the scene
// is invalid. It reports whether a frame was submitted.
func (s *Scene) Render(r Renderer, surface Surface, proj [6]float64, clear Color) (bool, error) {
	if !s.invalid {
		return false, nil
	}
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.commands = s.commands[:0]
	s.commands = s.emit(r, s.commands, s.currentStage, proj, 1)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	if err := r.Submit(surface.Target(), clear, s.commands); err != nil {
		return false, errors.Wrap(err, "corona: submit frame")
	}

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}
	s.invalid = false
	return true, nil
}

// renderObject draws o alone into target through proj. o keeps its position
// within its parent hierarchy.
func (s *Scene) renderObject(r Renderer, target RenderTarget, o *Object, proj [6]float64, clear Color) error {
	parent := proj
	if o.parent != nil {
		parent = multiplyAffine(proj, worldTransformOf(o.parent))
	}
	cmds := s.emit(r, nil, o, parent, 1)
	return r.Submit(target, clear, cmds)
}

// renderStage draws the whole current stage into target through proj.
func (s *Scene) renderStage(r Renderer, target RenderTarget, proj [6]float64, clear Color) error {
	cmds := s.emit(r, nil, s.currentStage, proj, 1)
	return r.Submit(target, clear, cmds)
}

// emit walks o depth-first and appends a command for every visible leaf.
func (s *Scene) emit(r Renderer, cmds []RenderCommand, o *Object, parent [6]float64, parentAlpha float64) []RenderCommand {
	if !o.Visible || o.disposed {
		return cmds
	}
	alpha := parentAlpha * o.Alpha
	if alpha <= 0 {
		return cmds
	}
	world := multiplyAffine(parent, computeLocalTransform(o))

	switch o.kind {
	case KindGroup:
		for _, child := range o.children {
			cmds = s.emit(r, cmds, child, world, alpha)
		}
		return cmds
	case KindRect:
		cmd := leafCommand(o, world, alpha)
		cmd.Type = CommandRect
		return append(cmds, cmd)
	case KindImage, KindSprite:
		if o.texture == nil {
			return cmds
		}
		gpu, err := o.texture.gpuTexture(r)
		if err != nil {
			Logger().Warn("skipping object with unusable texture", "object", o.Name, "err", err)
			return cmds
		}
		cmd := leafCommand(o, world, alpha)
		cmd.Type = CommandTexture
		cmd.Texture = gpu
		if o.sheet != nil {
			cmd.Source = o.sheet.frames[o.sheetFrame]
		} else {
			cmd.Source = o.texture.img.Bounds()
		}
		return append(cmds, cmd)
	}
	return cmds
}

func leafCommand(o *Object, world [6]float64, alpha float64) RenderCommand {
	lb := o.localBounds()
	fill := o.Fill
	fill.A *= alpha
	return RenderCommand{
		Transform: multiplyAffine(world, [6]float64{1, 0, 0, 1, lb.XMin, lb.YMin}),
		Width:     o.Width,
		Height:    o.Height,
		Color:     fill,
		ObjectID:  o.ID,
	}
}
