package corona

import "math"

// TieBreak selects which candidate wins when two content scales waste the same
// amount of border space.
type TieBreak uint8

const (
	TieLargerScale  TieBreak = iota // later (larger) scale replaces an equally good earlier one
	TieSmallerScale                 // first (smallest) scale found is kept
)

// Property is a bit flag toggled per platform on a ContentTransform.
type Property uint8

const (
	// PropertyFlipVerticalAxis makes ContentToPixels return rows measured from
	// the bottom edge, as GPU read-back APIs with a bottom-left origin expect.
	PropertyFlipVerticalAxis Property = 1 << iota
)

const (
	// maxContentScale bounds the integer scale search.
	maxContentScale = 20

	// legacyContentWidth and legacyContentHeight are used when no content size
	// restrictions were configured (minimum width of zero).
	legacyContentWidth  = 1280
	legacyContentHeight = 720

	uninitialized = -1
)

// ContentTransform converts between device pixels and the application's
// authored content coordinates. It picks an integer content-to-screen scale
// and centering offsets that fit the configured content size range onto the
// device surface.
//
// All derived values are recomputed together by Resolve; nothing is updated
// piecemeal.
type ContentTransform struct {
	deviceWidth, deviceHeight int

	minContentWidth, maxContentWidth   int
	minContentHeight, maxContentHeight int
	preferredScale                     int
	tieBreak                           TieBreak

	contentWidth, contentHeight             int
	scaledContentWidth, scaledContentHeight int
	contentToScreenScale                    int
	screenToContentScale                    float64
	xScreenOffset, yScreenOffset            int
	screenContentBounds                     Rect

	properties Property
}

// NewContentTransform returns an unresolved transform with no content size
// restrictions.
func NewContentTransform() *ContentTransform {
	return &ContentTransform{
		deviceWidth:          uninitialized,
		deviceHeight:         uninitialized,
		contentWidth:         uninitialized,
		contentHeight:        uninitialized,
		scaledContentWidth:   uninitialized,
		scaledContentHeight:  uninitialized,
		contentToScreenScale: 1,
		screenToContentScale: 1,
	}
}

// SetContentSizeRestrictions sets the content size range. A minimum width of
// zero selects the legacy fixed 1280x720 canvas. Negative values are treated
// as zero and a maximum below its minimum is raised to the minimum.
func (t *ContentTransform) SetContentSizeRestrictions(minWidth, maxWidth, minHeight, maxHeight int) {
	minWidth = max(minWidth, 0)
	minHeight = max(minHeight, 0)
	t.minContentWidth = minWidth
	t.minContentHeight = minHeight
	t.maxContentWidth = max(maxWidth, minWidth)
	t.maxContentHeight = max(maxHeight, minHeight)
}

// SetPreferredContentToScreenScale pins the scale instead of searching for the
// best one. Zero or less restores the search.
func (t *ContentTransform) SetPreferredContentToScreenScale(scale int) {
	t.preferredScale = max(scale, 0)
}

// SetTieBreak sets the equal-waste tie-break policy used by the scale search.
func (t *ContentTransform) SetTieBreak(tb TieBreak) {
	t.tieBreak = tb
}

// SetProperty sets or clears a property flag.
func (t *ContentTransform) SetProperty(p Property, value bool) {
	if value {
		t.properties |= p
	} else {
		t.properties &^= p
	}
}

// IsProperty reports whether the property flag is set.
func (t *ContentTransform) IsProperty(p Property) bool {
	return t.properties&p != 0
}

// scaleCandidate is one content size/offset choice for an integer scale.
type scaleCandidate struct {
	scale            int
	width, height    int
	xOffset, yOffset int
}

func (c scaleCandidate) waste() int {
	return c.xOffset + c.yOffset
}

// Resolve recomputes scale, content size, offsets, and bounds for a device
// surface of the given pixel size.
func (t *ContentTransform) Resolve(deviceWidth, deviceHeight int) {
	t.deviceWidth = max(deviceWidth, 0)
	t.deviceHeight = max(deviceHeight, 0)

	var c scaleCandidate
	switch {
	case t.minContentWidth == 0:
		c = scaleCandidate{scale: 1, width: legacyContentWidth, height: legacyContentHeight}
	case t.preferredScale > 0:
		c = t.candidateForScale(min(t.preferredScale, maxContentScale))
	default:
		c = t.bestCandidate()
	}

	t.contentToScreenScale = c.scale
	t.contentWidth = c.width
	t.contentHeight = c.height
	t.xScreenOffset = c.xOffset
	t.yScreenOffset = c.yOffset

	t.screenToContentScale = 1 / float64(c.scale)
	t.scaledContentWidth = c.width * c.scale
	t.scaledContentHeight = c.height * c.scale
	t.screenContentBounds = Rect{XMax: float64(c.width), YMax: float64(c.height)}
}

// bestCandidate searches scales 1..maxContentScale for the one leaving the
// smallest letterbox/pillarbox border.
func (t *ContentTransform) bestCandidate() scaleCandidate {
	best := t.candidateForScale(1)
	for s := 2; s <= maxContentScale; s++ {
		w, h := t.deviceWidth/s, t.deviceHeight/s
		if w < t.minContentWidth || h < t.minContentHeight {
			// Larger scales only shrink the content further.
			break
		}
		c := t.clampedCandidate(s, w, h)
		if t.prefer(c, best) {
			best = c
		}
	}
	return best
}

func (t *ContentTransform) prefer(c, best scaleCandidate) bool {
	if t.tieBreak == TieSmallerScale {
		return c.waste() < best.waste()
	}
	return c.waste() <= best.waste()
}

// candidateForScale returns the candidate for scale, stepping down one scale
// at a time while the minimum content size is not met. Scale 1 is the floor:
// when even that is too small, its best-effort values are used.
func (t *ContentTransform) candidateForScale(scale int) scaleCandidate {
	for s := scale; s > 1; s-- {
		w, h := t.deviceWidth/s, t.deviceHeight/s
		if w >= t.minContentWidth && h >= t.minContentHeight {
			return t.clampedCandidate(s, w, h)
		}
	}
	return t.clampedCandidate(1, t.deviceWidth, t.deviceHeight)
}

func (t *ContentTransform) clampedCandidate(scale, w, h int) scaleCandidate {
	w = min(w, t.maxContentWidth)
	h = min(h, t.maxContentHeight)
	return scaleCandidate{
		scale:   scale,
		width:   w,
		height:  h,
		xOffset: (t.deviceWidth - w*scale) / 2,
		yOffset: (t.deviceHeight - h*scale) / 2,
	}
}

// --- Accessors ---

// IsResolved reports whether Resolve has run at least once.
func (t *ContentTransform) IsResolved() bool { return t.deviceWidth != uninitialized }

// DeviceWidth returns the surface width in pixels, or -1 before Resolve.
func (t *ContentTransform) DeviceWidth() int { return t.deviceWidth }

// DeviceHeight returns the surface height in pixels, or -1 before Resolve.
func (t *ContentTransform) DeviceHeight() int { return t.deviceHeight }

func (t *ContentTransform) ContentWidth() int        { return t.contentWidth }
func (t *ContentTransform) ContentHeight() int       { return t.contentHeight }
func (t *ContentTransform) ScaledContentWidth() int  { return t.scaledContentWidth }
func (t *ContentTransform) ScaledContentHeight() int { return t.scaledContentHeight }
func (t *ContentTransform) MinContentWidth() int     { return t.minContentWidth }
func (t *ContentTransform) MinContentHeight() int    { return t.minContentHeight }
func (t *ContentTransform) MaxContentWidth() int     { return t.maxContentWidth }
func (t *ContentTransform) MaxContentHeight() int    { return t.maxContentHeight }
func (t *ContentTransform) XScreenOffset() int       { return t.xScreenOffset }
func (t *ContentTransform) YScreenOffset() int       { return t.yScreenOffset }

// ContentToScreenScale returns the number of device pixels per content unit.
func (t *ContentTransform) ContentToScreenScale() int { return t.contentToScreenScale }

// ScreenToContentScale returns the reciprocal of ContentToScreenScale.
func (t *ContentTransform) ScreenToContentScale() float64 { return t.screenToContentScale }

// ScreenContentBounds returns the logical screen rectangle
// [0, 0, contentWidth, contentHeight].
func (t *ContentTransform) ScreenContentBounds() Rect { return t.screenContentBounds }

// ActualContentWidth returns the full device width in content units,
// including the letterbox border.
func (t *ContentTransform) ActualContentWidth() float64 {
	return float64(t.deviceWidth) * t.screenToContentScale
}

// ActualContentHeight returns the full device height in content units.
func (t *ContentTransform) ActualContentHeight() float64 {
	return float64(t.deviceHeight) * t.screenToContentScale
}

// ViewableContentWidth returns the part of the content width that is on screen.
func (t *ContentTransform) ViewableContentWidth() float64 {
	return math.Min(float64(t.contentWidth), t.ActualContentWidth())
}

// ViewableContentHeight returns the part of the content height that is on screen.
func (t *ContentTransform) ViewableContentHeight() float64 {
	return math.Min(float64(t.contentHeight), t.ActualContentHeight())
}

// ScreenOriginX returns the content x coordinate of the device's left edge.
func (t *ContentTransform) ScreenOriginX() float64 {
	return -float64(t.xScreenOffset) * t.screenToContentScale
}

// ScreenOriginY returns the content y coordinate of the device's top edge.
func (t *ContentTransform) ScreenOriginY() float64 {
	return -float64(t.yScreenOffset) * t.screenToContentScale
}

// --- Conversions ---

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ContentToScreen converts a content-space point to device pixels with the
// origin at the top-left corner of the surface.
func (t *ContentTransform) ContentToScreen(x, y int) (sx, sy int) {
	sx, sy, _, _ = t.ContentToScreenRect(x, y, 0, 0)
	return sx, sy
}

// ContentToScreenRect converts a content-space rectangle to device pixels.
// Width and height are scaled but not offset.
func (t *ContentTransform) ContentToScreenRect(x, y, w, h int) (sx, sy, sw, sh int) {
	s := t.screenToContentScale
	sx = roundHalfUp(float64(x)/s + float64(t.xScreenOffset))
	sy = roundHalfUp(float64(y)/s + float64(t.yScreenOffset))
	sw = roundHalfUp(float64(w) / s)
	sh = roundHalfUp(float64(h) / s)
	return sx, sy, sw, sh
}

// ContentToPixels converts a content-space rectangle to pixel coordinates in
// the renderer's native origin: like ContentToScreenRect, then flipped to a
// bottom-left origin when PropertyFlipVerticalAxis is set.
func (t *ContentTransform) ContentToPixels(x, y, w, h int) (px, py, pw, ph int) {
	px, py, pw, ph = t.ContentToScreenRect(x, y, w, h)
	if t.IsProperty(PropertyFlipVerticalAxis) {
		py = t.deviceHeight - py - ph
	}
	return px, py, pw, ph
}

// ScreenToContent converts a device pixel position back to content units.
func (t *ContentTransform) ScreenToContent(sx, sy float64) (x, y float64) {
	s := t.screenToContentScale
	return (sx - float64(t.xScreenOffset)) * s, (sy - float64(t.yScreenOffset)) * s
}

// ContentToScreenMatrix returns the affine matrix mapping content units to
// device pixels: Translate(offset) * Scale(contentToScreenScale).
func (t *ContentTransform) ContentToScreenMatrix() [6]float64 {
	s := float64(t.contentToScreenScale)
	return [6]float64{s, 0, 0, s, float64(t.xScreenOffset), float64(t.yScreenOffset)}
}
