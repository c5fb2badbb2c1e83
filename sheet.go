package corona

import (
	"encoding/json"
	"image"
	"sort"

	"github.com/pkg/errors"
)

// SheetOptions describes a uniform grid of frames laid out left to right,
// top to bottom.
type SheetOptions struct {
	Width, Height int // frame size in pixels
	NumFrames     int // 0 uses every full cell of the texture
}

// ImageSheet is a texture divided into numbered frames.
type ImageSheet struct {
	texture *Texture
	frames  []image.Rectangle
	names   []string
}

// NewImageSheet slices tex into a uniform grid. The sheet holds its own
// reference to tex.
func NewImageSheet(tex *Texture, opts SheetOptions) (*ImageSheet, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.Errorf("corona: invalid sheet frame size %dx%d", opts.Width, opts.Height)
	}
	cols := tex.Width() / opts.Width
	rows := tex.Height() / opts.Height
	total := cols * rows
	if total == 0 {
		return nil, errors.Errorf("corona: sheet frame %dx%d larger than texture %dx%d",
			opts.Width, opts.Height, tex.Width(), tex.Height())
	}
	n := opts.NumFrames
	if n <= 0 || n > total {
		if n > total {
			Logger().Warn("image sheet numFrames exceeds grid, using grid size",
				"numFrames", n, "grid", total)
		}
		n = total
	}
	s := &ImageSheet{texture: tex.retain(), frames: make([]image.Rectangle, n)}
	for i := range s.frames {
		x := (i % cols) * opts.Width
		y := (i / cols) * opts.Height
		s.frames[i] = image.Rect(x, y, x+opts.Width, y+opts.Height)
	}
	return s, nil
}

// --- TexturePacker JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename string   `json:"filename"`
	Frame    jsonRect `json:"frame"`
	Rotated  bool     `json:"rotated"`
}

// LoadImageSheet parses TexturePacker JSON into an image sheet over tex.
// Both the array format ("frames": [{filename, frame}, ...]) and the hash
// format ("frames": {name: {frame}, ...}) are accepted; hash frames are
// numbered in name order.
func LoadImageSheet(jsonData []byte, tex *Texture) (*ImageSheet, error) {
	var probe struct {
		Frames json.RawMessage `json:"frames"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, errors.Wrap(err, "corona: failed to parse image sheet JSON")
	}
	if len(probe.Frames) == 0 {
		return nil, errors.New("corona: image sheet JSON has no \"frames\" key")
	}

	var frames []jsonFrame
	if probe.Frames[0] == '[' {
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, errors.Wrap(err, "corona: failed to parse image sheet frames array")
		}
	} else {
		var hash map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &hash); err != nil {
			return nil, errors.Wrap(err, "corona: failed to parse image sheet frames")
		}
		for name, f := range hash {
			f.Filename = name
			frames = append(frames, f)
		}
		sort.Slice(frames, func(i, j int) bool { return frames[i].Filename < frames[j].Filename })
	}
	if len(frames) == 0 {
		return nil, errors.New("corona: image sheet JSON has no frames")
	}

	s := &ImageSheet{
		texture: tex.retain(),
		frames:  make([]image.Rectangle, len(frames)),
		names:   make([]string, len(frames)),
	}
	for i, f := range frames {
		w, h := f.Frame.W, f.Frame.H
		if f.Rotated {
			w, h = h, w
		}
		s.frames[i] = image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+w, f.Frame.Y+h)
		s.names[i] = f.Filename
	}
	return s, nil
}

// Texture returns the sheet's texture.
func (s *ImageSheet) Texture() *Texture { return s.texture }

// NumFrames returns the number of frames in the sheet.
func (s *ImageSheet) NumFrames() int { return len(s.frames) }

// Frame returns the source rectangle of the given 1-based frame. Out-of-range
// indices are clamped to the first or last frame with a warning.
func (s *ImageSheet) Frame(index int) image.Rectangle {
	return s.frames[s.clampFrame(index)-1]
}

// FrameIndex returns the 1-based frame number for a frame name from JSON.
func (s *ImageSheet) FrameIndex(name string) (int, bool) {
	for i, n := range s.names {
		if n == name {
			return i + 1, true
		}
	}
	return 0, false
}

func (s *ImageSheet) clampFrame(index int) int {
	n := len(s.frames)
	if index < 1 || index > n {
		c := clampInt(index, 1, n)
		Logger().Warn("image sheet frame out of range, clamping",
			"frame", index, "numFrames", n, "using", c)
		return c
	}
	return index
}

// Release drops the sheet's texture reference.
func (s *ImageSheet) Release() {
	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}
}
