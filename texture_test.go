package corona

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h, color.NRGBA{R: 255, A: 255})))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestTextureFactoryCachesByPath(t *testing.T) {
	path := writePNG(t, t.TempDir(), "red.png", 8, 4)
	f := NewTextureFactory(&fakeRenderer{})

	a, err := f.Acquire(path)
	require.NoError(t, err)
	b, err := f.Acquire(path)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 2, a.RefCount())
	assert.Equal(t, 8, a.Width())
	assert.Equal(t, 4, a.Height())
	assert.Equal(t, path, a.Key())
	assert.Equal(t, 1, f.Len())

	a.Release()
	_, ok := f.Lookup(path)
	assert.True(t, ok)
	b.Release()
	_, ok = f.Lookup(path)
	assert.False(t, ok)
	assert.Equal(t, 0, f.Len())

	// Extra releases are ignored.
	b.Release()
	assert.Equal(t, 0, b.RefCount())
}

func TestTextureFactoryErrors(t *testing.T) {
	dir := t.TempDir()
	f := NewTextureFactory(&fakeRenderer{})

	_, err := f.Acquire(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	bogus := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not an image"), 0o644))
	_, err = f.Acquire(bogus)
	assert.True(t, errors.Is(err, ErrUnsupportedImage))
	assert.Equal(t, 0, f.Len())
}

func TestDecodeImageBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solidImage(3, 2, color.NRGBA{G: 255, A: 255})))

	img, err := decodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	r, g, _, _ := img.At(1, 1).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), g)
}

func TestTextureGPUUploadIsLazy(t *testing.T) {
	r := &fakeRenderer{}
	f := NewTextureFactory(r)
	tex := f.FromImage(solidImage(2, 2, color.NRGBA{A: 255}))
	assert.Equal(t, 0, r.textureUploads)

	g1, err := tex.gpuTexture(r)
	require.NoError(t, err)
	g2, err := tex.gpuTexture(r)
	require.NoError(t, err)
	assert.Same(t, g1, g2)
	assert.Equal(t, 1, r.textureUploads)

	f.ReleaseGPUResources()
	assert.True(t, g1.(*fakeTexture).disposed)
	assert.Equal(t, 1, tex.RefCount(), "pixels survive a GPU unload")

	_, err = tex.gpuTexture(r)
	require.NoError(t, err)
	assert.Equal(t, 2, r.textureUploads)
}

func TestTextureFactoryTeardown(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 2, 2)
	f := NewTextureFactory(&fakeRenderer{})
	a, err := f.Acquire(path)
	require.NoError(t, err)
	u := f.FromImage(solidImage(1, 1, color.NRGBA{}))

	f.Teardown()
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, 0, a.RefCount())
	assert.Equal(t, 0, u.RefCount())
	assert.NotPanics(t, a.Release)
}
