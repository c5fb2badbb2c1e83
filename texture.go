package corona

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// sniffLen is the number of leading bytes filetype needs to identify a file.
const sniffLen = 262

// Texture is a reference-counted image shared by any number of display
// objects. The GPU copy is created on first draw and can be dropped and
// recreated (UnloadResources / ReloadResources) without losing the pixels.
type Texture struct {
	key     string
	img     image.Image
	gpu     GPUTexture
	refs    int
	factory *TextureFactory
}

// Key returns the cache key (the file path), or "" for unkeyed textures.
func (t *Texture) Key() string { return t.key }

// Image returns the decoded source image.
func (t *Texture) Image() image.Image { return t.img }

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.img.Bounds().Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.img.Bounds().Dy() }

// RefCount returns the number of live holders.
func (t *Texture) RefCount() int { return t.refs }

func (t *Texture) retain() *Texture {
	t.refs++
	return t
}

// Release drops one reference. The last release frees the GPU copy and
// evicts the texture from its factory.
func (t *Texture) Release() {
	if t.refs <= 0 {
		return
	}
	t.refs--
	if t.refs > 0 {
		return
	}
	t.unload()
	if t.factory != nil {
		t.factory.evict(t)
	}
}

func (t *Texture) unload() {
	if t.gpu != nil {
		t.gpu.Dispose()
		t.gpu = nil
	}
}

// gpuTexture returns the renderer copy, uploading it on first use.
func (t *Texture) gpuTexture(r Renderer) (GPUTexture, error) {
	if t.gpu != nil {
		return t.gpu, nil
	}
	g, err := r.NewTexture(t.img)
	if err != nil {
		return nil, errors.Wrapf(err, "corona: upload texture %q", t.key)
	}
	t.gpu = g
	return g, nil
}

// TextureFactory loads and caches textures by file path. Every texture it
// hands out carries one reference owned by the caller.
type TextureFactory struct {
	renderer Renderer
	textures map[string]*Texture
	unkeyed  map[*Texture]struct{}
}

// NewTextureFactory creates a factory that uploads through r.
func NewTextureFactory(r Renderer) *TextureFactory {
	return &TextureFactory{
		renderer: r,
		textures: make(map[string]*Texture),
		unkeyed:  make(map[*Texture]struct{}),
	}
}

// Acquire returns the texture for path, loading and decoding the file on a
// cache miss. The returned texture holds a new reference for the caller.
func (f *TextureFactory) Acquire(path string) (*Texture, error) {
	if t, ok := f.textures[path]; ok {
		return t.retain(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "corona: read texture %q", path)
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, errors.Wrapf(err, "corona: load texture %q", path)
	}
	t := &Texture{key: path, img: img, factory: f}
	f.textures[path] = t
	return t.retain(), nil
}

// FromImage wraps an in-memory image (for example a capture) in an unkeyed
// texture holding one reference for the caller.
func (f *TextureFactory) FromImage(img image.Image) *Texture {
	t := &Texture{img: img, factory: f}
	f.unkeyed[t] = struct{}{}
	return t.retain()
}

// Lookup returns the cached texture for path without taking a reference.
func (f *TextureFactory) Lookup(path string) (*Texture, bool) {
	t, ok := f.textures[path]
	return t, ok
}

// Len returns the number of live textures.
func (f *TextureFactory) Len() int { return len(f.textures) + len(f.unkeyed) }

func (f *TextureFactory) evict(t *Texture) {
	if t.key != "" {
		if f.textures[t.key] == t {
			delete(f.textures, t.key)
		}
		return
	}
	delete(f.unkeyed, t)
}

// ReleaseGPUResources frees every GPU copy. Textures re-upload on next draw.
func (f *TextureFactory) ReleaseGPUResources() {
	for _, t := range f.textures {
		t.unload()
	}
	for t := range f.unkeyed {
		t.unload()
	}
}

// Teardown frees every texture regardless of outstanding references.
func (f *TextureFactory) Teardown() {
	f.ReleaseGPUResources()
	for k, t := range f.textures {
		t.refs = 0
		t.factory = nil
		delete(f.textures, k)
	}
	for t := range f.unkeyed {
		t.refs = 0
		t.factory = nil
		delete(f.unkeyed, t)
	}
}

// decodeImage identifies data by its magic bytes and decodes it with the
// registered image decoders.
func decodeImage(data []byte) (image.Image, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if !filetype.IsImage(head) {
		return nil, ErrUnsupportedImage
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return nil, errors.Wrap(err, "corona: sniff image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedImage, "%s: %v", kind.MIME.Value, err)
	}
	return img, nil
}
