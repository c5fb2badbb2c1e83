package corona

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on an Object simultaneously.
// Create one with TweenPosition, TweenScale, TweenAlpha, TweenRotation, or
// TweenColor and either call Update(dt) yourself or hand it to
// Display.Transition. If the target object is disposed, the group stops.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Object
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Target returns the animated object.
func (g *TweenGroup) Target() *Object { return g.target }

// TweenPosition animates o.X and o.Y to (toX, toY) over duration seconds.
func TweenPosition(o *Object, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: o}
	g.tweens[0] = gween.New(float32(o.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(o.Y), float32(toY), duration, fn)
	g.fields[0] = &o.X
	g.fields[1] = &o.Y
	return g
}

// TweenScale animates o.XScale and o.YScale.
func TweenScale(o *Object, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: o}
	g.tweens[0] = gween.New(float32(o.XScale), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(o.YScale), float32(toSY), duration, fn)
	g.fields[0] = &o.XScale
	g.fields[1] = &o.YScale
	return g
}

// TweenColor animates all four components of o.Fill.
func TweenColor(o *Object, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: o}
	g.tweens[0] = gween.New(float32(o.Fill.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(o.Fill.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(o.Fill.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(o.Fill.A), float32(to.A), duration, fn)
	g.fields[0] = &o.Fill.R
	g.fields[1] = &o.Fill.G
	g.fields[2] = &o.Fill.B
	g.fields[3] = &o.Fill.A
	return g
}

// TweenAlpha animates o.Alpha.
func TweenAlpha(o *Object, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: o}
	g.tweens[0] = gween.New(float32(o.Alpha), float32(to), duration, fn)
	g.fields[0] = &o.Alpha
	return g
}

// TweenRotation animates o.Rotation (degrees).
func TweenRotation(o *Object, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: o}
	g.tweens[0] = gween.New(float32(o.Rotation), float32(to), duration, fn)
	g.fields[0] = &o.Rotation
	return g
}

// Transition registers g to be advanced by every Update until it is done.
func (d *Display) Transition(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	d.transitions = append(d.transitions, g)
}

// CancelTransitions stops every registered transition targeting o.
func (d *Display) CancelTransitions(o *Object) {
	for _, g := range d.transitions {
		if g.target == o {
			g.Done = true
		}
	}
}

// NumTransitions returns the number of running transitions.
func (d *Display) NumTransitions() int { return len(d.transitions) }

func (d *Display) advanceTransitions(dt float64) {
	if len(d.transitions) == 0 {
		return
	}
	kept := d.transitions[:0]
	for _, g := range d.transitions {
		g.Update(float32(dt))
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(d.transitions); i++ {
		d.transitions[i] = nil
	}
	d.transitions = kept
}
