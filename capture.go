package corona

import (
	"image"
	"math"

	"github.com/pkg/errors"
)

// captureRequest describes one capture. A nil object captures the stage.
type captureRequest struct {
	object     *Object
	bounds     *Rect // content units; nil means object bounds or full screen
	crop       bool  // clip object bounds to the screen
	background *Color
}

// CaptureScreen renders the current stage into a bitmap covering the whole
// content area. It returns nil when the capture is not possible.
func (d *Display) CaptureScreen() *image.NRGBA {
	return d.captureOrWarn(captureRequest{})
}

// CaptureBounds renders the part of the stage inside b (content units,
// clipped to the screen). Degenerate rectangles return nil without touching
// the renderer.
func (d *Display) CaptureBounds(b Rect) *image.NRGBA {
	return d.captureOrWarn(captureRequest{bounds: &b})
}

// CaptureDisplayObject renders o alone, optionally clipped to the screen.
func (d *Display) CaptureDisplayObject(o *Object, cropToScreen bool) *image.NRGBA {
	if o == nil {
		Logger().Warn("capture of nil display object")
		return nil
	}
	return d.captureOrWarn(captureRequest{object: o, crop: cropToScreen})
}

// ColorSample returns the color currently rendered at content point (x, y).
func (d *Display) ColorSample(x, y float64) (Color, bool) {
	bg := d.defaults.Background
	img := d.captureOrWarn(captureRequest{bounds: &Rect{XMin: x, YMin: y, XMax: x + 1, YMax: y + 1}, background: &bg})
	if img == nil {
		Logger().Warn("unable to sample color; the platform or device might not be supported")
		return Color{}, false
	}
	return ColorFromNRGBA(img.NRGBAAt(img.Rect.Min.X, img.Rect.Min.Y)), true
}

// CaptureFrameBuffer reads back the surface pixels under b as last rendered,
// without re-rendering.
func (d *Display) CaptureFrameBuffer(b Rect) *image.NRGBA {
	if b.XMin >= b.XMax || b.YMin >= b.YMax {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if (d.state != StateInitialized && d.state != StateRunning) || d.surface == nil {
		return nil
	}
	b = b.Intersect(d.transform.ScreenContentBounds())
	if b.IsEmpty() {
		return nil
	}
	x0, y0 := math.Floor(b.XMin), math.Floor(b.YMin)
	x, y, w, h := d.transform.ContentToPixels(int(x0), int(y0),
		int(math.Ceil(b.XMax)-x0), int(math.Ceil(b.YMax)-y0))
	img, err := d.renderer.ReadPixels(d.surface.Target(), image.Rect(x, y, x+w, y+h))
	if err != nil {
		Logger().Warn("frame buffer read failed", "err", err)
		return nil
	}
	return img
}

func (d *Display) captureOrWarn(req captureRequest) *image.NRGBA {
	img, err := d.capture(req)
	if err != nil {
		if !errors.Is(err, ErrDegenerateBounds) {
			Logger().Warn("capture failed", "err", err)
		}
		return nil
	}
	return img
}

// capture renders the requested area into an offscreen target sized by the
// content-to-screen scale and reads it back.
func (d *Display) capture(req captureRequest) (*image.NRGBA, error) {
	if b := req.bounds; b != nil && (b.XMin >= b.XMax || b.YMin >= b.YMax) {
		return nil, ErrDegenerateBounds
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateInitialized && d.state != StateRunning {
		return nil, ErrNotInitialized
	}

	screen := d.transform.ScreenContentBounds()
	var r Rect
	if req.object != nil {
		r = req.object.StageBounds()
		if req.bounds != nil {
			r = r.Intersect(*req.bounds)
		} else if req.crop {
			r = r.Intersect(screen)
		}
	} else if req.bounds != nil {
		r = req.bounds.Intersect(screen)
	} else {
		r = screen
	}
	if r.IsEmpty() {
		return nil, ErrDegenerateBounds
	}

	// Whole content units keep the projection unstretched.
	cw := int(math.Ceil(r.Width()))
	ch := int(math.Ceil(r.Height()))
	r.XMax = r.XMin + float64(cw)
	r.YMax = r.YMin + float64(ch)
	_, _, pw, ph := d.transform.ContentToScreenRect(0, 0, cw, ch)
	if pw <= 0 || ph <= 0 {
		return nil, ErrDegenerateBounds
	}

	target, err := d.renderer.NewTarget(pw, ph)
	if err != nil {
		return nil, errors.Wrap(ErrCaptureFailed, err.Error())
	}
	defer d.renderer.ReleaseTarget(target)

	clear := ColorTransparent
	if req.background != nil {
		clear = *req.background
	} else if req.object == nil {
		clear = d.defaults.Background
	}

	proj := projectionForBounds(r, pw, ph)
	if req.object != nil {
		err = d.scene.renderObject(d.renderer, target, req.object, proj, clear)
	} else {
		err = d.scene.renderStage(d.renderer, target, proj, clear)
	}
	if err != nil {
		return nil, errors.Wrap(err, "corona: render capture")
	}

	y := 0
	if d.renderer.FlipsVerticalAxis() {
		_, th := target.Size()
		y = th - ph
	}
	img, err := d.renderer.ReadPixels(target, image.Rect(0, y, pw, y+ph))
	if err != nil {
		return nil, errors.Wrap(ErrCaptureFailed, err.Error())
	}
	return img, nil
}
