package planes

import (
	"fmt"
	"image"
)

// ScrollAxis selects the direction a PanningLayer scrolls in.
type ScrollAxis uint8

const (
	ScrollHorizontal ScrollAxis = iota
	ScrollVertical
)

// PanningLayer scrolls an image forever by moving the plane's pan window.
// The image holds two seamless copies of the visible window side by side
// (or stacked, for vertical layers), so wrapping the window offset by one
// copy is invisible. Pixels are pushed once; scrolling never redraws.
type PanningLayer struct {
	*PlaneNode

	axis   ScrollAxis
	width  int
	height int
	speed  int
	offset int
}

// NewPanningLayer creates a horizontally scrolling layer showing a width x
// height window of img. speed is in pixels per tick; negative speeds scroll
// the other way.
func NewPanningLayer(name string, plane Plane, img image.Image, width, height, speed int) (*PanningLayer, error) {
	return newPanningLayer(name, plane, img, width, height, speed, ScrollHorizontal)
}

// NewVerticalPanningLayer is like NewPanningLayer but scrolls along Y.
func NewVerticalPanningLayer(name string, plane Plane, img image.Image, width, height, speed int) (*PanningLayer, error) {
	return newPanningLayer(name, plane, img, width, height, speed, ScrollVertical)
}

func newPanningLayer(name string, plane Plane, img image.Image, width, height, speed int, axis ScrollAxis) (*PanningLayer, error) {
	if img == nil {
		return nil, fmt.Errorf("planes: layer %q: nil image: %w", name, ErrInvalidGeometry)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("planes: layer %q: window %dx%d: %w", name, width, height, ErrInvalidGeometry)
	}
	b := img.Bounds()
	node, err := NewPlaneNode(name, plane, Rect{Width: float64(b.Dx()), Height: float64(b.Dy())})
	if err != nil {
		return nil, err
	}
	node.SetImage(img, PushOptions{})
	l := &PanningLayer{PlaneNode: node, axis: axis, width: width, height: height, speed: speed}
	if l.span() <= 0 {
		return nil, fmt.Errorf("planes: layer %q: image %dx%d too small to scroll: %w", name, b.Dx(), b.Dy(), ErrInvalidGeometry)
	}
	if speed < 0 {
		l.offset = l.span()
	}

	plane.SetPanSize(width, height)
	l.programOffset()
	if err := node.commit(); err != nil {
		return nil, err
	}
	return l, nil
}

// span is the size of one tile copy along the scroll axis.
func (l *PanningLayer) span() int {
	b := l.content.Bounds()
	if l.axis == ScrollVertical {
		return b.Dy() / 2
	}
	return b.Dx() / 2
}

func (l *PanningLayer) programOffset() {
	if l.axis == ScrollVertical {
		l.plane.SetPanPosition(0, l.offset)
		return
	}
	l.plane.SetPanPosition(l.offset, 0)
}

// Reverse flips the scroll direction from the next Advance on.
func (l *PanningLayer) Reverse() { l.speed = -l.speed }

// Speed returns the signed scroll speed in pixels per tick.
func (l *PanningLayer) Speed() int { return l.speed }

// SetSpeed changes the scroll speed from the next Advance on.
func (l *PanningLayer) SetSpeed(speed int) { l.speed = speed }

// Offset returns the current pan offset along the scroll axis.
func (l *PanningLayer) Offset() int { return l.offset }

// Axis returns the scroll axis.
func (l *PanningLayer) Axis() ScrollAxis { return l.axis }

// WindowSize returns the visible pan window size.
func (l *PanningLayer) WindowSize() (width, height int) { return l.width, l.height }

// Advance scrolls by one speed step and commits the new pan offset. Passing
// the end of the first tile copy jumps back to 0 and going below 0 jumps to
// the start of the second copy, which shows the same pixels. A zero step is
// the scene's preparation phase and does nothing.
func (l *PanningLayer) Advance(step int) {
	if step == 0 || l.speed == 0 {
		return
	}
	l.offset = wrapPan(l.offset+l.speed, l.span())
	l.programOffset()
	if err := l.commit(); err != nil {
		Logger().Warn("layer scroll not committed", "plane", l.plane.Name(), "err", err)
	}
}
