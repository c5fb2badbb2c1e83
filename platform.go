package corona

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// BaseDir names a platform directory for PathForFile.
type BaseDir uint8

const (
	ResourceDirectory BaseDir = iota // read-only application bundle
	DocumentsDirectory
	TemporaryDirectory
	CachesDirectory
)

func (d BaseDir) String() string {
	switch d {
	case ResourceDirectory:
		return "resource"
	case DocumentsDirectory:
		return "documents"
	case TemporaryDirectory:
		return "temporary"
	case CachesDirectory:
		return "caches"
	default:
		return "unknown"
	}
}

// Insets are safe-area margins in device pixels.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// ErrPhotoLibraryUnsupported is returned by platforms without a photo sink.
var ErrPhotoLibraryUnsupported = errors.New("corona: photo library not supported on this platform")

// Platform is the host services the display needs.
type Platform interface {
	SafeAreaInsets() Insets
	PathForFile(name string, dir BaseDir) string
	IsWritableDirectory(dir BaseDir) bool
	AddBitmapToPhotoLibrary(img image.Image) error
}

// DesktopPlatform is a directory-backed Platform.
type DesktopPlatform struct {
	ResourceDir  string
	DocumentsDir string
	TemporaryDir string
	CachesDir    string
	PicturesDir  string // photo library sink; empty disables it
	Insets       Insets
}

var _ Platform = (*DesktopPlatform)(nil)

// NewDesktopPlatform returns a platform reading resources from resourceDir
// and keeping writable directories under dataDir.
func NewDesktopPlatform(resourceDir, dataDir string) *DesktopPlatform {
	return &DesktopPlatform{
		ResourceDir:  resourceDir,
		DocumentsDir: filepath.Join(dataDir, "Documents"),
		TemporaryDir: filepath.Join(os.TempDir(), "corona"),
		CachesDir:    filepath.Join(dataDir, "Caches"),
		PicturesDir:  filepath.Join(dataDir, "Pictures"),
	}
}

func (p *DesktopPlatform) SafeAreaInsets() Insets { return p.Insets }

func (p *DesktopPlatform) dir(d BaseDir) string {
	switch d {
	case DocumentsDirectory:
		return p.DocumentsDir
	case TemporaryDirectory:
		return p.TemporaryDir
	case CachesDirectory:
		return p.CachesDir
	default:
		return p.ResourceDir
	}
}

// PathForFile joins name onto the directory for d.
func (p *DesktopPlatform) PathForFile(name string, d BaseDir) string {
	return filepath.Join(p.dir(d), name)
}

// IsWritableDirectory reports whether files may be saved under d. The
// resource directory never is.
func (p *DesktopPlatform) IsWritableDirectory(d BaseDir) bool {
	return d != ResourceDirectory && p.dir(d) != ""
}

// AddBitmapToPhotoLibrary writes img as a timestamped PNG into PicturesDir.
func (p *DesktopPlatform) AddBitmapToPhotoLibrary(img image.Image) error {
	if p.PicturesDir == "" {
		return ErrPhotoLibraryUnsupported
	}
	if err := os.MkdirAll(p.PicturesDir, 0o755); err != nil {
		return errors.Wrapf(err, "corona: mkdir %s", p.PicturesDir)
	}
	name := fmt.Sprintf("capture_%s.png", time.Now().Format("20060102_150405.000"))
	return writeImageFile(filepath.Join(p.PicturesDir, name), img, formatPNG)
}
