package planes

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// PressContext carries press event data to node handlers and scene listeners.
type PressContext struct {
	Node     *PlaneNode // nil for background presses
	EntityID uint32
	UserData any
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
}

// PushOptions controls how PushImage places an image into a plane.
type PushOptions struct {
	MirrorHorizontal bool
	MirrorVertical   bool
	// Fit scales the image to the framebuffer size, keeping its aspect ratio.
	Fit bool
}

// DefaultPushOptions fits the image and applies no mirroring.
var DefaultPushOptions = PushOptions{Fit: true}

// Change identifies a geometry notification delivered to a node.
type Change uint8

const (
	ChangePosition           Change = iota // position is about to change
	ChangePositionHasChanged               // position has changed
	ChangeScale                            // scale is about to change
	ChangeScaleHasChanged                  // scale has changed
)

// nodeIDCounter is a plain counter (no atomic: the scene is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// PlaneNode binds one scene item to one hardware plane. Position and scale
// are forwarded to the plane registers and committed as they change. The
// node never draws through a software compositor: its pixels reach the
// plane only through PushImage.
//
// The plane is borrowed from a Registry and must outlive the node.
type PlaneNode struct {
	ID   uint32
	Name string

	plane  Plane
	bounds Rect

	x, y  float64
	scale float64

	rotation     float64
	skewX, skewY float64
	pivotX       float64
	pivotY       float64

	content      image.Image
	contentOpts  PushOptions
	contentDirty bool

	// Interactable nodes take part in scene hit testing.
	Interactable bool
	// OnPress is called for presses inside the node's scene bounds. Returning
	// true consumes the press.
	OnPress func(PressContext) bool
	// OnChange observes geometry notifications after they reach the plane.
	OnChange func(Change)

	UserData any
	EntityID uint32
}

// NewPlaneNode binds a new node to plane. bounds is the logical size used for
// hit testing, independent of the framebuffer size. The node starts at the
// plane's current position and scale and commits them once.
func NewPlaneNode(name string, plane Plane, bounds Rect) (*PlaneNode, error) {
	if plane == nil {
		return nil, fmt.Errorf("planes: node %q: %w", name, ErrNilPlane)
	}
	n := &PlaneNode{
		ID:     nextNodeID(),
		Name:   name,
		plane:  plane,
		bounds: bounds,
		scale:  1,
	}
	st := plane.State()
	n.x, n.y = float64(st.X), float64(st.Y)
	if st.Scale > 0 {
		n.scale = st.Scale
	}
	if err := n.moveEvent(); err != nil {
		return nil, err
	}
	return n, nil
}

// MustNewPlaneNode is like NewPlaneNode but panics on error.
func MustNewPlaneNode(name string, plane Plane, bounds Rect) *PlaneNode {
	n, err := NewPlaneNode(name, plane, bounds)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// Node returns n. It lets PlaneNode and every type embedding it satisfy Item.
func (n *PlaneNode) Node() *PlaneNode { return n }

// Plane returns the bound plane.
func (n *PlaneNode) Plane() Plane { return n.plane }

// Bounds returns the logical rectangle in local coordinates.
func (n *PlaneNode) Bounds() Rect { return n.bounds }

// SetBounds replaces the logical rectangle.
func (n *PlaneNode) SetBounds(r Rect) { n.bounds = r }

// Position returns the node position in scene coordinates.
func (n *PlaneNode) Position() Vec2 { return Vec2{n.x, n.y} }

// Scale returns the uniform scale factor.
func (n *PlaneNode) Scale() float64 { return n.scale }

// SetPosition moves the node. The plane receives the position and a commit
// on both the pending and the final notification.
func (n *PlaneNode) SetPosition(x, y float64) error {
	if n.x == x && n.y == y {
		return nil
	}
	err := n.itemChange(ChangePosition, x, y)
	n.x, n.y = x, y
	return errors.Join(err, n.itemChange(ChangePositionHasChanged, x, y))
}

// Move offsets the node position by (dx, dy).
func (n *PlaneNode) Move(dx, dy float64) error {
	return n.SetPosition(n.x+dx, n.y+dy)
}

// SetScale sets the uniform scale factor. Factors that are not finite and
// positive are rejected with ErrInvalidScale and leave the plane untouched.
func (n *PlaneNode) SetScale(factor float64) error {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("planes: scale %q to %v: %w", n.Name, factor, ErrInvalidScale)
	}
	if factor == n.scale {
		return nil
	}
	if err := n.itemChange(ChangeScale, factor, 0); err != nil {
		return err
	}
	n.scale = factor
	return n.itemChange(ChangeScaleHasChanged, factor, 0)
}

// itemChange forwards a geometry notification to the plane.
func (n *PlaneNode) itemChange(change Change, a, b float64) error {
	var err error
	switch change {
	case ChangePosition, ChangePositionHasChanged:
		n.plane.SetPosition(int(math.Round(a)), int(math.Round(b)))
		err = n.commit()
	case ChangeScaleHasChanged:
		n.plane.SetScale(a)
		err = n.commit()
	}
	if n.OnChange != nil {
		n.OnChange(change)
	}
	return err
}

// moveEvent writes the current position to the plane and commits.
func (n *PlaneNode) moveEvent() error {
	n.plane.SetPosition(int(math.Round(n.x)), int(math.Round(n.y)))
	n.plane.SetScale(n.scale)
	return n.commit()
}

func (n *PlaneNode) commit() error {
	if err := n.plane.Apply(); err != nil {
		return fmt.Errorf("planes: commit %q: %w", n.plane.Name(), err)
	}
	return nil
}

// SceneBounds returns the node's bounding rectangle in scene coordinates.
func (n *PlaneNode) SceneBounds() Rect {
	return Rect{
		X:      n.x + n.bounds.X*n.scale,
		Y:      n.y + n.bounds.Y*n.scale,
		Width:  n.bounds.Width * n.scale,
		Height: n.bounds.Height * n.scale,
	}
}

// Contains reports whether the scene point (x, y) is inside the node.
func (n *PlaneNode) Contains(x, y float64) bool {
	return n.SceneBounds().Contains(x, y)
}

// --- Content ---

// SetImage sets the image Paint pushes and marks the content dirty.
func (n *PlaneNode) SetImage(img image.Image, opts PushOptions) {
	n.content = img
	n.contentOpts = opts
	n.contentDirty = true
}

// Image returns the image set with SetImage.
func (n *PlaneNode) Image() image.Image { return n.content }

// SetMirror sets the mirror flags used by Paint.
func (n *PlaneNode) SetMirror(horizontal, vertical bool) {
	if n.contentOpts.MirrorHorizontal == horizontal && n.contentOpts.MirrorVertical == vertical {
		return
	}
	n.contentOpts.MirrorHorizontal = horizontal
	n.contentOpts.MirrorVertical = vertical
	n.contentDirty = true
}

// Mirror returns the mirror flags used by Paint.
func (n *PlaneNode) Mirror() (horizontal, vertical bool) {
	return n.contentOpts.MirrorHorizontal, n.contentOpts.MirrorVertical
}

// Invalidate schedules the content to be pushed on the next Paint.
func (n *PlaneNode) Invalidate() { n.contentDirty = true }

// NeedsPaint reports whether Paint would push pixels.
func (n *PlaneNode) NeedsPaint() bool { return n.contentDirty && n.content != nil }

// Paint pushes the node's image if it changed since the last successful push.
// A failed push leaves the content dirty so the next tick retries it.
func (n *PlaneNode) Paint() error {
	if !n.NeedsPaint() {
		return nil
	}
	if err := n.PushImage(n.content, n.contentOpts); err != nil {
		return err
	}
	n.contentDirty = false
	return nil
}

// PushImage writes img into the plane framebuffer with replace semantics:
// every written pixel overwrites what was there, without blending.
//
// The framebuffer is reallocated first when its size differs from the
// image. The image is then optionally fitted to the framebuffer, mirrored,
// drawn through the node's content transform at the framebuffer origin and
// the memory is unmapped. Registers are not committed.
func (n *PlaneNode) PushImage(img image.Image, opts PushOptions) (err error) {
	p := n.plane
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("planes: push %q: empty image: %w", p.Name(), ErrInvalidGeometry)
	}
	if p.Width() != b.Dx() || p.Height() != b.Dy() {
		if err := p.Reallocate(b.Dx(), b.Dy(), p.Format()); err != nil {
			return fmt.Errorf("planes: push %q: %w", p.Name(), err)
		}
	}

	dst, err := p.Map()
	if err != nil {
		return fmt.Errorf("planes: push %q: %w", p.Name(), err)
	}
	defer func() {
		if uerr := p.Unmap(); uerr != nil && err == nil {
			err = fmt.Errorf("planes: push %q: %w", p.Name(), uerr)
		}
	}()

	src := img
	if opts.Fit {
		src = fitImage(src, p.Width(), p.Height(), interpolatorFor(p.Format()))
	}
	if opts.MirrorHorizontal || opts.MirrorVertical {
		src = mirrorImage(src, opts.MirrorHorizontal, opts.MirrorVertical)
	}

	db := dst.Bounds()
	sb := src.Bounds()
	m := computeContentTransform(n)
	covers := sb.Dx() >= db.Dx() && sb.Dy() >= db.Dy()
	if m != identityTransform || !covers {
		draw.Draw(dst, db, image.Transparent, image.Point{}, draw.Src)
	}
	if m == identityTransform {
		draw.Draw(dst, image.Rectangle{Min: db.Min, Max: db.Min.Add(sb.Size())}, src, sb.Min, draw.Src)
	} else {
		m = multiplyAffine(m, [6]float64{1, 0, 0, 1, -float64(sb.Min.X), -float64(sb.Min.Y)})
		m = multiplyAffine([6]float64{1, 0, 0, 1, float64(db.Min.X), float64(db.Min.Y)}, m)
		interpolatorFor(p.Format()).Transform(dst, toAff3(m), src, sb, xdraw.Src, nil)
	}
	Logger().Debug("image pushed", "plane", p.Name(), "size", fmt.Sprintf("%dx%d", sb.Dx(), sb.Dy()),
		"mirrorH", opts.MirrorHorizontal, "mirrorV", opts.MirrorVertical)
	return nil
}

// interpolatorFor picks a resampling filter for the target pixel format.
// 16-bit framebuffers cannot show the extra precision of CatmullRom.
func interpolatorFor(f PixelFormat) xdraw.Interpolator {
	if f == FormatRGB565 {
		return xdraw.ApproxBiLinear
	}
	return xdraw.CatmullRom
}

// fitImage scales img to the largest size that fits in w x h while keeping
// its aspect ratio. An image that already fits exactly is returned as is.
func fitImage(img image.Image, w, h int, filter xdraw.Interpolator) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	fw := w
	fh := int(math.Round(float64(b.Dy()) * float64(w) / float64(b.Dx())))
	if fh > h {
		fh = h
		fw = int(math.Round(float64(b.Dx()) * float64(h) / float64(b.Dy())))
	}
	fw, fh = max(fw, 1), max(fh, 1)
	out := image.NewRGBA(image.Rect(0, 0, fw, fh))
	filter.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out
}

// mirrorImage flips img along the requested axes. Nearest-neighbour sampling
// with a reflection matrix copies pixels exactly.
func mirrorImage(img image.Image, horizontal, vertical bool) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	m := f64.Aff3{1, 0, -float64(b.Min.X), 0, 1, -float64(b.Min.Y)}
	if horizontal {
		m[0], m[2] = -1, float64(b.Min.X)+w
	}
	if vertical {
		m[4], m[5] = -1, float64(b.Min.Y)+h
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.NearestNeighbor.Transform(out, m, img, b, xdraw.Src, nil)
	return out
}
