package corona

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type imageFormat uint8

const (
	formatJPEG imageFormat = iota
	formatPNG
	formatBMP
)

// formatForFilename picks the encoder from the file extension; anything
// other than .png or .bmp is written as JPEG.
func formatForFilename(name string) imageFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return formatPNG
	case ".bmp":
		return formatBMP
	default:
		return formatJPEG
	}
}

// SaveOptions configures Display.Save.
type SaveOptions struct {
	Filename             string
	BaseDir              BaseDir // non-writable directories fall back to Documents
	CaptureOffscreenArea bool    // include parts of the object outside the screen
	BackgroundColor      *Color  // composited under the capture when set
}

// Save captures o and writes it under opts.BaseDir. It returns the path
// written.
func (d *Display) Save(o *Object, opts SaveOptions) (string, error) {
	if opts.Filename == "" {
		return "", ErrMissingFilename
	}
	if o == nil {
		return "", ErrNilObject
	}
	dir := opts.BaseDir
	if !d.platform.IsWritableDirectory(dir) {
		Logger().Warn("save directory is not writable, using documents directory", "dir", dir)
		dir = DocumentsDirectory
	}

	img, err := d.capture(captureRequest{object: o, crop: !opts.CaptureOffscreenArea})
	if err != nil {
		return "", errors.Wrap(err, "corona: save capture")
	}
	var out image.Image = img
	if opts.BackgroundColor != nil {
		out = composite(img, *opts.BackgroundColor)
	}

	path := d.platform.PathForFile(opts.Filename, dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(err, "corona: mkdir %s", filepath.Dir(path))
	}
	if err := writeImageFile(path, out, formatForFilename(opts.Filename)); err != nil {
		return "", err
	}
	return path, nil
}

// composite draws img over a solid background.
func composite(img *image.NRGBA, bg Color) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

// writeImageFile encodes img to path in the given format.
func writeImageFile(path string, img image.Image, format imageFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "corona: create %s", path)
	}
	switch format {
	case formatPNG:
		err = png.Encode(f, img)
	case formatBMP:
		err = bmp.Encode(f, img)
	default:
		err = jpeg.Encode(f, flatten(img), &jpeg.Options{Quality: 90})
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "corona: encode %s", path)
	}
	return f.Close()
}

// flatten composites translucent pixels over black; JPEG has no alpha.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.Black, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
