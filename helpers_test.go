package planes

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// newTestPlane allocates a single plane on a fresh 800x480 memory device.
func newTestPlane(t *testing.T, name string, w, h int) *MemoryPlane {
	t.Helper()
	d := NewMemoryDevice(800, 480, 4)
	p, err := d.CreatePlane(0, PlaneConfig{Name: name, Width: w, Height: h})
	if err != nil {
		t.Fatalf("CreatePlane: %v", err)
	}
	return p.(*MemoryPlane)
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// gradientImage encodes each pixel's coordinates in its color so that
// placement errors are visible.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return img
}

// failingPlane wraps a MemoryPlane and fails selected operations.
type failingPlane struct {
	*MemoryPlane
	mapErr        error
	reallocErr    error
	applyErr      error
	keepSize      bool
	reallocations int
}

var errInjected = errors.New("injected failure")

func (p *failingPlane) Map() (draw.Image, error) {
	if p.mapErr != nil {
		return nil, p.mapErr
	}
	return p.MemoryPlane.Map()
}

func (p *failingPlane) Reallocate(w, h int, f PixelFormat) error {
	p.reallocations++
	if p.reallocErr != nil {
		return p.reallocErr
	}
	if p.keepSize {
		return nil
	}
	return p.MemoryPlane.Reallocate(w, h, f)
}

func (p *failingPlane) Apply() error {
	if p.applyErr != nil {
		return p.applyErr
	}
	return p.MemoryPlane.Apply()
}

func mustNode(t *testing.T, p Plane) *PlaneNode {
	t.Helper()
	n, err := NewPlaneNode("node", p, Rect{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("NewPlaneNode: %v", err)
	}
	return n
}
