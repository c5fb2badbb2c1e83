package corona

// Kind identifies the variant of a display object.
type Kind uint8

const (
	KindGroup  Kind = iota // container with no visual of its own
	KindRect               // filled rectangle
	KindImage              // texture or image sheet frame
	KindSprite             // animated image sheet frames
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindRect:
		return "rect"
	case KindImage:
		return "image"
	case KindSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// Bounded is implemented by anything with an axis-aligned extent in content
// space.
type Bounded interface {
	StageBounds() Rect
}

// Container is the capability of holding child objects. Only group objects
// (including stages and the orphanage) provide it; see Object.AsContainer.
type Container interface {
	Insert(child *Object)
	InsertAt(child *Object, index int)
	Remove(child *Object)
	NumChildren() int
	Children() []*Object
}

var (
	_ Bounded   = (*Object)(nil)
	_ Container = (*Object)(nil)
)

// objectIDCounter is a plain counter; objects belong to the render thread.
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// Object is a display object. A single flat struct carries every kind; Kind
// selects which fields are meaningful.
type Object struct {
	// Identity
	ID   uint32
	Name string
	kind Kind

	// Hierarchy
	parent   *Object
	children []*Object
	scene    *Scene

	// Transform (local). Rotation is in degrees. Anchors are fractions of
	// Width/Height and are ignored for groups.
	X, Y             float64
	XScale, YScale   float64
	Rotation         float64
	AnchorX, AnchorY float64

	// Geometry for rects, images, and sprites, in content units.
	Width, Height float64

	Alpha   float64
	Visible bool
	Fill    Color

	// Image fields (KindImage, KindSprite)
	texture    *Texture
	sheet      *ImageSheet
	sheetFrame int // 0-based

	// Sprite fields (KindSprite)
	sprite *spriteState

	UserData any

	disposed bool
}

func objectDefaults(o *Object) {
	o.ID = nextObjectID()
	o.XScale = 1
	o.YScale = 1
	o.AnchorX = 0.5
	o.AnchorY = 0.5
	o.Alpha = 1
	o.Visible = true
	o.Fill = ColorWhite
}

func newObject(kind Kind, name string) *Object {
	o := &Object{Name: name, kind: kind}
	objectDefaults(o)
	return o
}

// NewGroupObject creates a detached group.
func NewGroupObject(name string) *Object {
	return newObject(KindGroup, name)
}

// NewRectObject creates a detached rectangle of the given size.
func NewRectObject(name string, w, h float64) *Object {
	o := newObject(KindRect, name)
	o.Width, o.Height = w, h
	return o
}

// NewImageObject creates a detached image showing the whole texture. The
// object holds a reference to tex until it is disposed.
func NewImageObject(name string, tex *Texture, w, h float64) *Object {
	o := newObject(KindImage, name)
	o.Width, o.Height = w, h
	o.texture = tex.retain()
	return o
}

// NewSheetImageObject creates a detached image showing one frame (1-based)
// of an image sheet.
func NewSheetImageObject(name string, sheet *ImageSheet, frame int) *Object {
	o := newObject(KindImage, name)
	o.sheet = sheet
	o.texture = sheet.Texture().retain()
	o.SetSheetFrame(frame)
	return o
}

// Kind returns the object's variant.
func (o *Object) Kind() Kind { return o.kind }

// Parent returns the containing group, or nil for stages and detached objects.
func (o *Object) Parent() *Object { return o.parent }

// Texture returns the texture drawn by image and sprite objects.
func (o *Object) Texture() *Texture { return o.texture }

// Sheet returns the image sheet, or nil when the object draws a whole texture.
func (o *Object) Sheet() *ImageSheet { return o.sheet }

// SheetFrame returns the current 1-based image sheet frame.
func (o *Object) SheetFrame() int { return o.sheetFrame + 1 }

// SetSheetFrame shows the given 1-based frame of the object's image sheet and
// resizes the object to it. Out-of-range frames are clamped.
func (o *Object) SetSheetFrame(frame int) {
	if o.sheet == nil {
		return
	}
	o.setSheetFrameIndex(o.sheet.clampFrame(frame) - 1)
}

func (o *Object) setSheetFrameIndex(i int) {
	o.sheetFrame = i
	f := o.sheet.frames[i]
	o.Width, o.Height = float64(f.Dx()), float64(f.Dy())
}

// AsContainer returns the object's Container capability when it is a group.
func (o *Object) AsContainer() (Container, bool) {
	if o.kind != KindGroup {
		return nil, false
	}
	return o, true
}

// IsDisposed reports whether the object has been disposed.
func (o *Object) IsDisposed() bool { return o.disposed }

// Stage returns the root group the object is attached to.
func (o *Object) Stage() *Object {
	p := o
	for p.parent != nil {
		p = p.parent
	}
	return p
}

// --- Tree manipulation ---

func (o *Object) mustBeGroup(op string) {
	if o.kind != KindGroup {
		panic("corona: " + op + " on non-group object")
	}
}

// Insert appends child to this group's children. A child that already has a
// parent is removed from it first. Panics if child is nil, the receiver is not
// a group, or the insertion would create a cycle.
func (o *Object) Insert(child *Object) {
	o.InsertAt(child, len(o.children))
}

// InsertAt inserts child at the given index; indices past the end append.
func (o *Object) InsertAt(child *Object, index int) {
	o.mustBeGroup("Insert")
	if child == nil {
		panic("corona: cannot insert nil child")
	}
	if isAncestor(child, o) {
		panic("corona: inserting child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	index = clampInt(index, 0, len(o.children))
	child.parent = o
	if child.scene == nil && o.scene != nil {
		child.setScene(o.scene)
	}
	o.children = append(o.children, nil)
	copy(o.children[index+1:], o.children[index:])
	o.children[index] = child
	if child.scene != nil && child.scene.debug {
		debugCheckTreeDepth(child)
	}
}

// Remove detaches child from this group. Panics if child's parent is not o.
func (o *Object) Remove(child *Object) {
	if child.parent != o {
		panic("corona: child's parent is not this object")
	}
	o.removeChildByPtr(child)
	child.parent = nil
}

// Children returns the child list. The returned slice must not be mutated.
func (o *Object) Children() []*Object { return o.children }

// NumChildren returns the number of children.
func (o *Object) NumChildren() int { return len(o.children) }

// ChildAt returns the child at the given index.
func (o *Object) ChildAt(index int) *Object { return o.children[index] }

// ToFront moves the object to the end of its parent's draw order.
func (o *Object) ToFront() {
	if p := o.parent; p != nil {
		p.removeChildByPtr(o)
		p.children = append(p.children, o)
	}
}

// ToBack moves the object to the start of its parent's draw order.
func (o *Object) ToBack() {
	if p := o.parent; p != nil {
		p.removeChildByPtr(o)
		p.children = append(p.children, nil)
		copy(p.children[1:], p.children)
		p.children[0] = o
	}
}

// RemoveSelf detaches the object from the live stage and parks it in the
// orphanage until the next Collect decides whether it can be disposed.
// Objects not created through a display are simply detached.
func (o *Object) RemoveSelf() {
	if o.scene != nil && o != o.scene.orphanage {
		o.scene.orphanage.Insert(o)
		return
	}
	if o.parent != nil {
		o.parent.Remove(o)
	}
}

// --- Disposal ---

// Dispose detaches the object, releases its texture references, and disposes
// all descendants.
func (o *Object) Dispose() {
	if o.disposed {
		return
	}
	if o.parent != nil {
		o.parent.Remove(o)
	}
	o.dispose()
}

func (o *Object) dispose() {
	o.disposed = true
	for _, child := range o.children {
		child.parent = nil
		child.dispose()
	}
	o.children = nil
	o.parent = nil
	if o.texture != nil {
		o.texture.Release()
		o.texture = nil
	}
	o.sheet = nil
	if o.sprite != nil {
		o.sprite.playing = false
		o.sprite = nil
	}
	o.UserData = nil
}

// --- Bounds ---

// localBounds returns the object's own geometry in local space, offset by
// its anchor.
func (o *Object) localBounds() Rect {
	ox := o.AnchorX * o.Width
	oy := o.AnchorY * o.Height
	return Rect{XMin: -ox, YMin: -oy, XMax: o.Width - ox, YMax: o.Height - oy}
}

// StageBounds returns the object's axis-aligned extent in content space.
// A group's bounds are the union of its visible children's; an empty group
// collapses to its origin.
func (o *Object) StageBounds() Rect {
	return stageBounds(o, worldTransformOf(o))
}

func stageBounds(o *Object, world [6]float64) Rect {
	if o.kind != KindGroup {
		return transformRect(world, o.localBounds())
	}
	var r Rect
	first := true
	for _, child := range o.children {
		if !child.Visible {
			continue
		}
		b := stageBounds(child, multiplyAffine(world, computeLocalTransform(child)))
		if first {
			r = b
			first = false
		} else {
			r = r.Union(b)
		}
	}
	if first {
		x, y := transformPoint(world, 0, 0)
		return Rect{XMin: x, YMin: y, XMax: x, YMax: y}
	}
	return r
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) o.
func isAncestor(candidate, o *Object) bool {
	for p := o; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// setScene attaches o and its descendants to s.
func (o *Object) setScene(s *Scene) {
	o.scene = s
	for _, c := range o.children {
		c.setScene(s)
	}
}

// removeChildByPtr removes child from o.children without clearing child.parent.
func (o *Object) removeChildByPtr(child *Object) {
	for i, c := range o.children {
		if c == child {
			copy(o.children[i:], o.children[i+1:])
			o.children[len(o.children)-1] = nil
			o.children = o.children[:len(o.children)-1]
			return
		}
	}
}
