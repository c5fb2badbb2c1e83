package corona

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// ebitenTexture is a GPUTexture backed by an ebiten image.
type ebitenTexture struct {
	img *ebiten.Image
}

func (t *ebitenTexture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *ebitenTexture) Dispose() { t.img.Deallocate() }

// ebitenTarget is a RenderTarget backed by an ebiten image. Pooled targets
// go back to the pool on release; the screen target never does.
type ebitenTarget struct {
	img    *ebiten.Image
	pooled bool
}

func (t *ebitenTarget) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// --- Render target pool ---

// renderTargetPool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type renderTargetPool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTargetPool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire.
func (p *renderTargetPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// Drain deallocates every pooled image.
func (p *renderTargetPool) Drain() {
	for key, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, key)
	}
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- Renderer ---

// EbitenRenderer draws render commands with ebiten.
type EbitenRenderer struct {
	pool   renderTargetPool
	white  *ebiten.Image
	filter ebiten.Filter
}

var _ Renderer = (*EbitenRenderer)(nil)

// NewEbitenRenderer returns a renderer using linear filtering.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{filter: ebiten.FilterLinear}
}

// Initialize creates the 1x1 fill image used for rectangles.
func (r *EbitenRenderer) Initialize() error {
	r.fillImage()
	return nil
}

// fillImage returns the 1x1 white image, recreating it after
// ReleaseGPUResources.
func (r *EbitenRenderer) fillImage() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(image.White)
	}
	return r.white
}

// SetTextureFilter selects nearest or linear sampling.
func (r *EbitenRenderer) SetTextureFilter(f TextureFilter) {
	if f == FilterNearest {
		r.filter = ebiten.FilterNearest
	} else {
		r.filter = ebiten.FilterLinear
	}
}

func (r *EbitenRenderer) NewTexture(img image.Image) (GPUTexture, error) {
	if img.Bounds().Empty() {
		return nil, errors.New("corona: empty texture image")
	}
	return &ebitenTexture{img: ebiten.NewImageFromImage(img)}, nil
}

func (r *EbitenRenderer) NewTarget(w, h int) (RenderTarget, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("corona: invalid render target size %dx%d", w, h)
	}
	return &ebitenTarget{img: r.pool.Acquire(w, h), pooled: true}, nil
}

func (r *EbitenRenderer) ReleaseTarget(t RenderTarget) {
	if et, ok := t.(*ebitenTarget); ok && et.pooled {
		r.pool.Release(et.img)
		et.img = nil
	}
}

// Submit clears the target and draws every command in order.
func (r *EbitenRenderer) Submit(target RenderTarget, clear Color, cmds []RenderCommand) error {
	et, ok := target.(*ebitenTarget)
	if !ok || et.img == nil {
		return errors.Errorf("corona: foreign render target %T", target)
	}
	dst := et.img
	if clear.A > 0 {
		dst.Fill(clear.RGBA())
	} else {
		dst.Clear()
	}

	var op ebiten.DrawImageOptions
	for i := range cmds {
		cmd := &cmds[i]
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = r.filter

		var src *ebiten.Image
		switch cmd.Type {
		case CommandRect:
			src = r.fillImage()
			op.GeoM.Scale(cmd.Width, cmd.Height)
		case CommandTexture:
			tex, ok := cmd.Texture.(*ebitenTexture)
			if !ok {
				continue
			}
			src = tex.img.SubImage(cmd.Source).(*ebiten.Image)
			sw, sh := cmd.Source.Dx(), cmd.Source.Dy()
			if sw == 0 || sh == 0 {
				continue
			}
			op.GeoM.Scale(cmd.Width/float64(sw), cmd.Height/float64(sh))
		default:
			continue
		}
		op.GeoM.Concat(commandGeoM(cmd.Transform))
		c := cmd.Color
		op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
		dst.DrawImage(src, &op)
	}
	return nil
}

// commandGeoM converts an affine matrix to an ebiten.GeoM.
func commandGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// ReadPixels reads rect of target and converts premultiplied RGBA to
// straight-alpha NRGBA. The result's bounds start at (0, 0).
func (r *EbitenRenderer) ReadPixels(target RenderTarget, rect image.Rectangle) (*image.NRGBA, error) {
	et, ok := target.(*ebitenTarget)
	if !ok || et.img == nil {
		return nil, errors.Errorf("corona: foreign render target %T", target)
	}
	rect = rect.Intersect(et.img.Bounds())
	if rect.Empty() {
		return nil, ErrDegenerateBounds
	}
	w, h := rect.Dx(), rect.Dy()
	pixels := make([]byte, 4*w*h)
	et.img.SubImage(rect).(*ebiten.Image).ReadPixels(pixels)
	return unpremultiply(pixels, w, h), nil
}

// unpremultiply converts premultiplied RGBA bytes to a straight-alpha image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// FlipsVerticalAxis is false: ebiten images have a top-left origin.
func (r *EbitenRenderer) FlipsVerticalAxis() bool { return false }

// ReleaseGPUResources drops pooled targets and the fill image. Both are
// recreated on the next Submit.
func (r *EbitenRenderer) ReleaseGPUResources() {
	r.pool.Drain()
	if r.white != nil {
		r.white.Deallocate()
		r.white = nil
	}
}

// --- Surface ---

// EbitenSurface is the screen image handed to ebiten.Game.Draw. Bind it
// each frame before rendering.
type EbitenSurface struct {
	target        ebitenTarget
	width, height int
}

var _ Surface = (*EbitenSurface)(nil)

// NewEbitenSurface returns a surface of the given device size.
func NewEbitenSurface(w, h int) *EbitenSurface {
	return &EbitenSurface{width: w, height: h}
}

// Bind points the surface at this frame's screen image.
func (s *EbitenSurface) Bind(screen *ebiten.Image) {
	s.target.img = screen
	b := screen.Bounds()
	s.width, s.height = b.Dx(), b.Dy()
}

// Resize records a new device size before the next Bind.
func (s *EbitenSurface) Resize(w, h int) {
	s.width, s.height = w, h
}

func (s *EbitenSurface) Target() RenderTarget { return &s.target }
func (s *EbitenSurface) Width() int           { return s.width }
func (s *EbitenSurface) Height() int          { return s.height }
