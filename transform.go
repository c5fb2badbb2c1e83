package corona

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the object's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Scale -> Rotate -> Translate(X, Y)
//
// Anchors do not move the origin; they offset the geometry (see localBounds).
func computeLocalTransform(o *Object) [6]float64 {
	sin, cos := math.Sincos(o.Rotation * math.Pi / 180)
	sx, sy := o.XScale, o.YScale
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, o.X, o.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformRect returns the axis-aligned bounds of r after applying m.
func transformRect(m [6]float64, r Rect) Rect {
	x0, y0 := transformPoint(m, r.XMin, r.YMin)
	x1, y1 := transformPoint(m, r.XMax, r.YMin)
	x2, y2 := transformPoint(m, r.XMax, r.YMax)
	x3, y3 := transformPoint(m, r.XMin, r.YMax)
	return Rect{
		XMin: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		YMin: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		XMax: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		YMax: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// projectionForBounds returns the matrix mapping the content rectangle b onto
// a pixel target of size w x h with b's top-left corner at the origin.
func projectionForBounds(b Rect, w, h int) [6]float64 {
	sx := float64(w) / b.Width()
	sy := float64(h) / b.Height()
	return [6]float64{sx, 0, 0, sy, -b.XMin * sx, -b.YMin * sy}
}

// --- Transform property setters ---

// Translate moves the object by (dx, dy).
func (o *Object) Translate(dx, dy float64) {
	o.X += dx
	o.Y += dy
}

// SetPosition sets the object's local X and Y.
func (o *Object) SetPosition(x, y float64) {
	o.X = x
	o.Y = y
}

// SetScale sets XScale and YScale.
func (o *Object) SetScale(sx, sy float64) {
	o.XScale = sx
	o.YScale = sy
}

// Scale multiplies the current scale by (sx, sy).
func (o *Object) Scale(sx, sy float64) {
	o.XScale *= sx
	o.YScale *= sy
}

// Rotate adds deg degrees to the rotation.
func (o *Object) Rotate(deg float64) {
	o.Rotation += deg
}

// SetAnchor sets the anchor point as a fraction of the object's size.
func (o *Object) SetAnchor(ax, ay float64) {
	o.AnchorX = ax
	o.AnchorY = ay
}

// --- Coordinate conversion ---

// worldTransformOf composes local transforms from the stage root down to o.
func worldTransformOf(o *Object) [6]float64 {
	if o.parent == nil {
		return computeLocalTransform(o)
	}
	return multiplyAffine(worldTransformOf(o.parent), computeLocalTransform(o))
}

// ContentToLocal converts a content-space point to this object's local space.
func (o *Object) ContentToLocal(x, y float64) (lx, ly float64) {
	return transformPoint(invertAffine(worldTransformOf(o)), x, y)
}

// LocalToContent converts a local-space point to content space.
func (o *Object) LocalToContent(lx, ly float64) (x, y float64) {
	return transformPoint(worldTransformOf(o), lx, ly)
}
