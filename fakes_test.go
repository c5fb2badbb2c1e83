package corona

import (
	"image"
	"image/color"
	"time"

	"github.com/pkg/errors"
)

// fakeTexture is a GPUTexture holding the source image in memory.
type fakeTexture struct {
	img      image.Image
	disposed bool
}

func (t *fakeTexture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *fakeTexture) Dispose() { t.disposed = true }

// fakeTarget is a CPU pixel buffer.
type fakeTarget struct {
	img *image.NRGBA
}

func newFakeTarget(w, h int) *fakeTarget {
	return &fakeTarget{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func (t *fakeTarget) Size() (int, int) { return t.img.Rect.Dx(), t.img.Rect.Dy() }

// fakeSurface is an on-screen target of a fixed size.
type fakeSurface struct {
	target *fakeTarget
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{target: newFakeTarget(w, h)}
}

func (s *fakeSurface) Target() RenderTarget { return s.target }
func (s *fakeSurface) Width() int           { return s.target.img.Rect.Dx() }
func (s *fakeSurface) Height() int          { return s.target.img.Rect.Dy() }

// fakeRenderer rasterizes render commands on the CPU by sampling pixel
// centers, and counts calls.
type fakeRenderer struct {
	flip    bool
	initErr error

	initCalls, submitCalls, readCalls int
	newTargetCalls, releaseCalls      int
	releaseGPUCalls, textureUploads   int
	lastCommands                      []RenderCommand
	filter                            TextureFilter
}

var _ Renderer = (*fakeRenderer)(nil)

func (r *fakeRenderer) Initialize() error {
	r.initCalls++
	return r.initErr
}

func (r *fakeRenderer) NewTexture(img image.Image) (GPUTexture, error) {
	r.textureUploads++
	return &fakeTexture{img: img}, nil
}

func (r *fakeRenderer) NewTarget(w, h int) (RenderTarget, error) {
	r.newTargetCalls++
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("bad target %dx%d", w, h)
	}
	return newFakeTarget(w, h), nil
}

func (r *fakeRenderer) ReleaseTarget(RenderTarget) { r.releaseCalls++ }

func (r *fakeRenderer) Submit(target RenderTarget, clear Color, cmds []RenderCommand) error {
	r.submitCalls++
	r.lastCommands = append(r.lastCommands[:0], cmds...)
	t, ok := target.(*fakeTarget)
	if !ok {
		return errors.Errorf("foreign target %T", target)
	}
	bg := clear.NRGBA()
	for i := 0; i < len(t.img.Pix); i += 4 {
		t.img.Pix[i], t.img.Pix[i+1], t.img.Pix[i+2], t.img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	for _, cmd := range cmds {
		inv := invertAffine(cmd.Transform)
		b := t.img.Rect
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				u, v := transformPoint(inv, float64(x)+0.5, float64(y)+0.5)
				if u < 0 || v < 0 || u >= cmd.Width || v >= cmd.Height {
					continue
				}
				src := cmd.Color
				if cmd.Type == CommandTexture {
					tex := cmd.Texture.(*fakeTexture)
					sx := cmd.Source.Min.X + int(u*float64(cmd.Source.Dx())/cmd.Width)
					sy := cmd.Source.Min.Y + int(v*float64(cmd.Source.Dy())/cmd.Height)
					texel := ColorFromNRGBA(color.NRGBAModel.Convert(tex.img.At(sx, sy)).(color.NRGBA))
					src = Color{R: texel.R * src.R, G: texel.G * src.G, B: texel.B * src.B, A: texel.A * src.A}
				}
				blendOver(t.img, x, y, src)
			}
		}
	}
	return nil
}

// blendOver composites a straight-alpha color over the pixel at (x, y).
func blendOver(img *image.NRGBA, x, y int, src Color) {
	dst := ColorFromNRGBA(img.NRGBAAt(x, y))
	a := src.A + dst.A*(1-src.A)
	if a <= 0 {
		img.SetNRGBA(x, y, color.NRGBA{})
		return
	}
	mix := func(s, d float64) float64 { return (s*src.A + d*dst.A*(1-src.A)) / a }
	img.SetNRGBA(x, y, Color{R: mix(src.R, dst.R), G: mix(src.G, dst.G), B: mix(src.B, dst.B), A: a}.NRGBA())
}

func (r *fakeRenderer) ReadPixels(target RenderTarget, rect image.Rectangle) (*image.NRGBA, error) {
	r.readCalls++
	t, ok := target.(*fakeTarget)
	if !ok {
		return nil, errors.Errorf("foreign target %T", target)
	}
	rect = rect.Intersect(t.img.Rect)
	if rect.Empty() {
		return nil, ErrDegenerateBounds
	}
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		copy(out.Pix[y*out.Stride:], t.img.Pix[t.img.PixOffset(rect.Min.X, rect.Min.Y+y):t.img.PixOffset(rect.Max.X, rect.Min.Y+y)])
	}
	return out, nil
}

func (r *fakeRenderer) FlipsVerticalAxis() bool { return r.flip }

func (r *fakeRenderer) ReleaseGPUResources() { r.releaseGPUCalls++ }

func (r *fakeRenderer) SetTextureFilter(f TextureFilter) { r.filter = f }

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) clock() time.Duration { return c.now }

func (c *fakeClock) advance(ms int) { c.now += time.Duration(ms) * time.Millisecond }

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// stripImage returns n frames of size x size laid out horizontally, frame i
// filled with red channel i*10.
func stripImage(n, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n*size, size))
	for f := 0; f < n; f++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.SetNRGBA(f*size+x, y, color.NRGBA{R: uint8(f * 10), A: 255})
			}
		}
	}
	return img
}

// testSheet returns an n-frame sheet of 4x4 frames.
func testSheet(n int) *ImageSheet {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(stripImage(n, 4))
	s, err := NewImageSheet(tex, SheetOptions{Width: 4, Height: 4, NumFrames: n})
	if err != nil {
		panic(err)
	}
	tex.Release()
	return s
}

// newTestDisplay returns an initialized display on a w x h fake surface
// with the given content restrictions.
func newTestDisplay(w, h int, content ContentConfig) (*Display, *fakeRenderer, *fakeClock) {
	r := &fakeRenderer{}
	clk := &fakeClock{}
	cfg := DefaultConfig()
	if content.MinWidth > 0 {
		if content.TieBreak == "" {
			content.TieBreak = cfg.Content.TieBreak
		}
		if content.FPS == 0 {
			content.FPS = cfg.Content.FPS
		}
		cfg.Content = content
	}
	d := NewDisplay(Options{
		Renderer: r,
		Surface:  newFakeSurface(w, h),
		Platform: NewDesktopPlatform(".", "."),
		Config:   cfg,
		Clock:    clk.clock,
	})
	if !d.Initialize() {
		panic("display failed to initialize")
	}
	return d, r, clk
}
