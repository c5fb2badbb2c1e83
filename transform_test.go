package corona

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func assertMatrix(t *testing.T, want, got [6]float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], epsilon, "element %d", i)
	}
}

func TestComputeLocalTransformIdentity(t *testing.T) {
	o := NewGroupObject("g")
	assertMatrix(t, identityTransform, computeLocalTransform(o))
}

func TestComputeLocalTransformTranslateScale(t *testing.T) {
	o := NewGroupObject("g")
	o.SetPosition(10, 20)
	o.SetScale(2, 3)
	assertMatrix(t, [6]float64{2, 0, 0, 3, 10, 20}, computeLocalTransform(o))
}

func TestComputeLocalTransformRotation(t *testing.T) {
	o := NewGroupObject("g")
	o.Rotate(90)
	x, y := transformPoint(computeLocalTransform(o), 1, 0)
	assert.InDelta(t, 0, x, epsilon)
	assert.InDelta(t, 1, y, epsilon)
}

func TestMultiplyAffineWithIdentity(t *testing.T) {
	m := [6]float64{2, 0.5, -0.5, 3, 7, 9}
	assertMatrix(t, m, multiplyAffine(identityTransform, m))
	assertMatrix(t, m, multiplyAffine(m, identityTransform))
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0.5, -0.5, 3, 7, 9}
	assertMatrix(t, identityTransform, multiplyAffine(m, invertAffine(m)))
	assertMatrix(t, identityTransform, invertAffine([6]float64{0, 0, 0, 0, 5, 5}))
}

func TestTransformRectRotated(t *testing.T) {
	o := NewGroupObject("g")
	o.Rotate(45)
	r := transformRect(computeLocalTransform(o), Rect{XMin: -1, YMin: -1, XMax: 1, YMax: 1})
	assert.InDelta(t, -math.Sqrt2, r.XMin, epsilon)
	assert.InDelta(t, math.Sqrt2, r.YMax, epsilon)
}

func TestProjectionForBounds(t *testing.T) {
	p := projectionForBounds(Rect{XMin: 10, YMin: 20, XMax: 60, YMax: 45}, 100, 50)
	x, y := transformPoint(p, 10, 20)
	assert.InDelta(t, 0, x, epsilon)
	assert.InDelta(t, 0, y, epsilon)
	x, y = transformPoint(p, 60, 45)
	assert.InDelta(t, 100, x, epsilon)
	assert.InDelta(t, 50, y, epsilon)
}

func TestLocalContentRoundTrip(t *testing.T) {
	parent := NewGroupObject("p")
	parent.SetPosition(100, 50)
	parent.SetScale(2, 2)
	child := NewGroupObject("c")
	child.SetPosition(10, 0)
	child.Rotate(30)
	parent.Insert(child)

	x, y := child.LocalToContent(0, 0)
	assert.InDelta(t, 120, x, epsilon)
	assert.InDelta(t, 50, y, epsilon)

	lx, ly := child.ContentToLocal(x, y)
	assert.InDelta(t, 0, lx, epsilon)
	assert.InDelta(t, 0, ly, epsilon)

	cx, cy := child.LocalToContent(3, 4)
	lx, ly = child.ContentToLocal(cx, cy)
	assert.InDelta(t, 3, lx, epsilon)
	assert.InDelta(t, 4, ly, epsilon)
}

func TestObjectTransformSetters(t *testing.T) {
	o := NewRectObject("r", 1, 1)
	o.Translate(3, 4)
	o.Translate(1, 1)
	assert.Equal(t, 4.0, o.X)
	assert.Equal(t, 5.0, o.Y)
	o.Scale(2, 4)
	o.Scale(2, 0.5)
	assert.Equal(t, 4.0, o.XScale)
	assert.Equal(t, 2.0, o.YScale)
	o.SetAnchor(0, 1)
	assert.Equal(t, Rect{XMin: 0, YMin: -1, XMax: 1, YMax: 0}, o.localBounds())
}

func TestRectOperations(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 10, 10)

	assert.Equal(t, 10.0, a.Width())
	assert.True(t, a.Intersects(b))
	assert.Equal(t, Rect{XMin: 5, YMin: 5, XMax: 10, YMax: 10}, a.Intersect(b))
	assert.Equal(t, Rect{XMin: 0, YMin: 0, XMax: 15, YMax: 15}, a.Union(b))
	assert.True(t, a.Contains(10, 10))
	assert.False(t, a.Contains(10.1, 5))

	disjoint := a.Intersect(NewRect(20, 20, 5, 5))
	assert.True(t, disjoint.IsEmpty())

	inverted := Rect{XMin: 10, YMin: 8, XMax: 2, YMax: 1}
	assert.True(t, inverted.IsEmpty())
	assert.Equal(t, Rect{XMin: 2, YMin: 1, XMax: 10, YMax: 8}, inverted.Normalized())
}
