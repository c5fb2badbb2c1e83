package corona

import (
	"image"

	"github.com/pkg/errors"
)

// --- Read-only properties ---

func (d *Display) ContentWidth() int  { return d.transform.ContentWidth() }
func (d *Display) ContentHeight() int { return d.transform.ContentHeight() }

func (d *Display) ViewableContentWidth() float64  { return d.transform.ViewableContentWidth() }
func (d *Display) ViewableContentHeight() float64 { return d.transform.ViewableContentHeight() }

func (d *Display) ActualContentWidth() float64  { return d.transform.ActualContentWidth() }
func (d *Display) ActualContentHeight() float64 { return d.transform.ActualContentHeight() }

// PixelWidth returns the surface width in device pixels.
func (d *Display) PixelWidth() int  { return d.transform.DeviceWidth() }
func (d *Display) PixelHeight() int { return d.transform.DeviceHeight() }

// ContentScaleX returns content units per device pixel.
func (d *Display) ContentScaleX() float64 { return d.transform.ScreenToContentScale() }
func (d *Display) ContentScaleY() float64 { return d.transform.ScreenToContentScale() }

func (d *Display) ContentCenterX() float64 { return 0.5 * float64(d.transform.ContentWidth()) }
func (d *Display) ContentCenterY() float64 { return 0.5 * float64(d.transform.ContentHeight()) }

// ScreenOriginX returns the content x of the surface's left edge.
func (d *Display) ScreenOriginX() float64 { return d.transform.ScreenOriginX() }
func (d *Display) ScreenOriginY() float64 { return d.transform.ScreenOriginY() }

// FPS returns the configured frame rate.
func (d *Display) FPS() int { return d.config.Content.FPS }

// CurrentStage returns the root group drawn to the screen.
func (d *Display) CurrentStage() *Object { return d.scene.currentStage }

// SafeAreaInsets returns the platform safe-area insets in content units.
func (d *Display) SafeAreaInsets() Insets {
	in := d.platform.SafeAreaInsets()
	s := d.transform.ScreenToContentScale()
	return Insets{Top: in.Top * s, Left: in.Left * s, Bottom: in.Bottom * s, Right: in.Right * s}
}

// SafeScreenOriginX returns the content x of the safe area's left edge.
func (d *Display) SafeScreenOriginX() float64 {
	return d.SafeAreaInsets().Left + d.ScreenOriginX()
}

// SafeScreenOriginY returns the content y of the safe area's top edge.
func (d *Display) SafeScreenOriginY() float64 {
	return d.SafeAreaInsets().Top + d.ScreenOriginY()
}

// SafeActualContentWidth returns the safe area's width in content units.
func (d *Display) SafeActualContentWidth() float64 {
	in := d.SafeAreaInsets()
	return d.ActualContentWidth() - (in.Left + in.Right)
}

// SafeActualContentHeight returns the safe area's height in content units.
func (d *Display) SafeActualContentHeight() float64 {
	in := d.SafeAreaInsets()
	return d.ActualContentHeight() - (in.Top + in.Bottom)
}

// --- Defaults ---

// Defaults returns the display's visual defaults.
func (d *Display) Defaults() *Defaults { return &d.defaults }

// GetDefault returns a named visual default.
func (d *Display) GetDefault(key string) (any, error) {
	return d.defaults.Get(key)
}

// SetDefault updates a named visual default. Changing the background
// invalidates the scene. Renderers that support filtering hold a single
// filter; a change to either texture filter key forwards the value of that
// key.
func (d *Display) SetDefault(key string, value any) error {
	if err := d.defaults.Set(key, value); err != nil {
		return err
	}
	switch key {
	case "background":
		d.scene.Invalidate()
	case "magTextureFilter", "minTextureFilter":
		if fr, ok := d.renderer.(interface{ SetTextureFilter(TextureFilter) }); ok {
			f := d.defaults.MagTextureFilter
			if key == "minTextureFilter" {
				f = d.defaults.MinTextureFilter
			}
			fr.SetTextureFilter(f)
		}
		d.scene.Invalidate()
	}
	return nil
}

// --- Creation ---

// insert places o under parent, or the current stage when parent is nil,
// and applies the default fill and anchor.
func (d *Display) insert(o *Object, parent *Object) *Object {
	o.setScene(d.scene)
	if o.kind != KindGroup {
		o.AnchorX = d.defaults.AnchorX
		o.AnchorY = d.defaults.AnchorY
	}
	if o.kind == KindRect {
		o.Fill = d.defaults.FillColor
	}
	if parent == nil {
		parent = d.scene.currentStage
	}
	parent.Insert(o)
	return o
}

// NewGroup creates a group under parent (nil for the current stage).
func (d *Display) NewGroup(parent *Object) *Object {
	return d.insert(NewGroupObject(""), parent)
}

// NewRect creates a rectangle centered at (x, y) by default anchors.
func (d *Display) NewRect(parent *Object, x, y, w, h float64) *Object {
	o := d.insert(NewRectObject("", w, h), parent)
	o.SetPosition(x, y)
	return o
}

// NewImage loads the image file name from dir and creates an image object
// sized at one content unit per texture pixel. It returns nil and the error
// when the file cannot be loaded.
func (d *Display) NewImage(parent *Object, name string, dir BaseDir) (*Object, error) {
	path := d.platform.PathForFile(name, dir)
	tex, err := d.textures.Acquire(path)
	if err != nil {
		Logger().Warn("image could not be loaded", "path", path, "err", err)
		return nil, err
	}
	defer tex.Release()
	o := NewImageObject(name, tex, float64(tex.Width()), float64(tex.Height()))
	return d.insert(o, parent), nil
}

// NewImageFromSheet creates an image showing a 1-based sheet frame.
func (d *Display) NewImageFromSheet(parent *Object, sheet *ImageSheet, frame int) *Object {
	if sheet == nil {
		Logger().Warn("newImage with nil image sheet")
		return nil
	}
	return d.insert(NewSheetImageObject("", sheet, frame), parent)
}

// NewSprite creates a sprite from a sheet and sequence descriptions and
// registers it with the sprite player. Descriptions that fail to build are
// skipped with a warning; if none succeed, nil and the first error are
// returned.
func (d *Display) NewSprite(parent *Object, sheet *ImageSheet, data ...SequenceData) (*Object, error) {
	if sheet == nil {
		return nil, errors.New("corona: newSprite requires an image sheet")
	}
	var seqs []*SpriteSequence
	var firstErr error
	for _, sd := range data {
		seq, err := NewSpriteSequence(sd, sheet.NumFrames())
		if err != nil {
			Logger().Warn("sprite sequence skipped", "sequence", sd.Name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		seqs = append(seqs, seq)
	}
	if len(seqs) == 0 {
		if firstErr == nil {
			firstErr = ErrMissingFrames
		}
		return nil, firstErr
	}
	o := d.insert(NewSpriteObject("", sheet, seqs), parent)
	d.player.Add(o)
	return o, nil
}

// Remove detaches o into the orphanage; it is disposed by a later Collect.
func (d *Display) Remove(o *Object) {
	if o == nil || o.scene != d.scene {
		return
	}
	o.RemoveSelf()
}

// --- Capture wrappers ---

// CaptureOptions configures the image-producing capture calls.
type CaptureOptions struct {
	SaveToPhotoLibrary   bool
	CaptureOffscreenArea bool
}

// CaptureImage captures o into a new image object placed on the current
// stage at the captured area's position and sized in content units.
func (d *Display) CaptureImage(o *Object, opts CaptureOptions) *Object {
	if o == nil {
		Logger().Warn("capture of nil display object")
		return nil
	}
	bounds := o.StageBounds()
	if !opts.CaptureOffscreenArea {
		bounds = bounds.Intersect(d.transform.ScreenContentBounds())
	}
	return d.imageFromCapture(d.CaptureDisplayObject(o, !opts.CaptureOffscreenArea), bounds, opts.SaveToPhotoLibrary)
}

// CaptureScreenImage captures the screen into a new image object.
func (d *Display) CaptureScreenImage(saveToPhotoLibrary bool) *Object {
	return d.imageFromCapture(d.CaptureScreen(), d.transform.ScreenContentBounds(), saveToPhotoLibrary)
}

// CaptureBoundsImage captures b into a new image object. Inverted edges are
// swapped first.
func (d *Display) CaptureBoundsImage(b Rect, saveToPhotoLibrary bool) *Object {
	b = b.Normalized()
	return d.imageFromCapture(d.CaptureBounds(b), b.Intersect(d.transform.ScreenContentBounds()), saveToPhotoLibrary)
}

func (d *Display) imageFromCapture(img *image.NRGBA, bounds Rect, saveToPhotoLibrary bool) *Object {
	if img == nil {
		return nil
	}
	if saveToPhotoLibrary {
		if err := d.platform.AddBitmapToPhotoLibrary(img); err != nil {
			Logger().Warn("capture could not be added to the photo library", "err", err)
		}
	}
	s := d.transform.ScreenToContentScale()
	tex := d.textures.FromImage(img)
	defer tex.Release()
	o := NewImageObject("capture", tex, float64(img.Rect.Dx())*s, float64(img.Rect.Dy())*s)
	d.insert(o, nil)
	o.SetPosition(
		bounds.XMin+o.AnchorX*o.Width,
		bounds.YMin+o.AnchorY*o.Height,
	)
	return o
}
