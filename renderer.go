package corona

import "image"

// GPUTexture is a renderer-side copy of a Texture.
type GPUTexture interface {
	Size() (w, h int)
	Dispose()
}

// RenderTarget is a pixel buffer the renderer can draw into and read back.
type RenderTarget interface {
	Size() (w, h int)
}

// Surface is the on-screen render target supplied by the platform. Its size
// is the device pixel size used to resolve the content transform.
type Surface interface {
	Target() RenderTarget
	Width() int
	Height() int
}

// Renderer is the GPU backend. All methods run on the render thread with the
// display guard held.
type Renderer interface {
	// Initialize (re)creates device state. It is called once by
	// Display.Initialize and again by Display.ReloadResources.
	Initialize() error

	NewTexture(img image.Image) (GPUTexture, error)

	// NewTarget returns an offscreen target of at least w x h pixels.
	NewTarget(w, h int) (RenderTarget, error)
	ReleaseTarget(t RenderTarget)

	// Submit clears target to clear and draws cmds in order.
	Submit(target RenderTarget, clear Color, cmds []RenderCommand) error

	// ReadPixels reads rect of target as straight-alpha pixels. rect is in
	// the target's native origin (see FlipsVerticalAxis).
	ReadPixels(target RenderTarget, rect image.Rectangle) (*image.NRGBA, error)

	// FlipsVerticalAxis reports whether ReadPixels rows are measured from
	// the bottom edge.
	FlipsVerticalAxis() bool

	ReleaseGPUResources()
}

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandRect    CommandType = iota // solid fill
	CommandTexture                    // textured quad
)

// RenderCommand is a single draw instruction emitted during scene traversal.
// Geometry is the rectangle [0, Width] x [0, Height] placed by Transform,
// which already includes the projection.
type RenderCommand struct {
	Type      CommandType
	Transform [6]float64
	Width     float64
	Height    float64
	Color     Color // straight alpha; Color.A includes inherited alpha
	Texture   GPUTexture
	Source    image.Rectangle // source pixels within Texture
	ObjectID  uint32
}
