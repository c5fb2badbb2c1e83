package corona

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageSheetGrid(t *testing.T) {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(image.NewNRGBA(image.Rect(0, 0, 30, 20)))

	s, err := NewImageSheet(tex, SheetOptions{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, 6, s.NumFrames())
	assert.Equal(t, image.Rect(0, 0, 10, 10), s.Frame(1))
	assert.Equal(t, image.Rect(20, 0, 30, 10), s.Frame(3))
	assert.Equal(t, image.Rect(0, 10, 10, 20), s.Frame(4))
	assert.Equal(t, 2, tex.RefCount())

	s.Release()
	assert.Equal(t, 1, tex.RefCount())
	assert.NotPanics(t, s.Release)
}

func TestNewImageSheetNumFrames(t *testing.T) {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(image.NewNRGBA(image.Rect(0, 0, 30, 20)))

	s, err := NewImageSheet(tex, SheetOptions{Width: 10, Height: 10, NumFrames: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumFrames())

	s, err = NewImageSheet(tex, SheetOptions{Width: 10, Height: 10, NumFrames: 40})
	require.NoError(t, err)
	assert.Equal(t, 6, s.NumFrames())
}

func TestNewImageSheetErrors(t *testing.T) {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	_, err := NewImageSheet(tex, SheetOptions{Width: 0, Height: 4})
	assert.Error(t, err)
	_, err = NewImageSheet(tex, SheetOptions{Width: 16, Height: 4})
	assert.Error(t, err)
	assert.Equal(t, 1, tex.RefCount())
}

func TestImageSheetFrameClamps(t *testing.T) {
	s := testSheet(3)
	assert.Equal(t, s.Frame(1), s.Frame(-4))
	assert.Equal(t, s.Frame(3), s.Frame(10))
}

func TestLoadImageSheetArray(t *testing.T) {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(image.NewNRGBA(image.Rect(0, 0, 64, 64)))
	data := []byte(`{"frames": [
		{"filename": "walk_1", "frame": {"x": 0, "y": 0, "w": 16, "h": 32}},
		{"filename": "walk_2", "frame": {"x": 16, "y": 0, "w": 16, "h": 32}, "rotated": true}
	]}`)

	s, err := LoadImageSheet(data, tex)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumFrames())
	assert.Equal(t, image.Rect(0, 0, 16, 32), s.Frame(1))
	assert.Equal(t, image.Rect(16, 0, 48, 16), s.Frame(2))

	n, ok := s.FrameIndex("walk_2")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = s.FrameIndex("run")
	assert.False(t, ok)
}

func TestLoadImageSheetHash(t *testing.T) {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(image.NewNRGBA(image.Rect(0, 0, 64, 64)))
	data := []byte(`{"frames": {
		"b.png": {"frame": {"x": 8, "y": 0, "w": 8, "h": 8}},
		"a.png": {"frame": {"x": 0, "y": 0, "w": 8, "h": 8}}
	}}`)

	s, err := LoadImageSheet(data, tex)
	require.NoError(t, err)
	n, _ := s.FrameIndex("a.png")
	assert.Equal(t, 1, n)
	assert.Equal(t, image.Rect(8, 0, 16, 8), s.Frame(2))
}

func TestLoadImageSheetErrors(t *testing.T) {
	f := NewTextureFactory(&fakeRenderer{})
	tex := f.FromImage(image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	for _, data := range []string{`not json`, `{}`, `{"frames": []}`, `{"frames": 7}`} {
		_, err := LoadImageSheet([]byte(data), tex)
		assert.Error(t, err, data)
	}
	assert.Equal(t, 1, tex.RefCount())
}
