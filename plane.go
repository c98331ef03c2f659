package planes

import "image/draw"

// PlaneState is the set of programmable plane registers: where the plane
// sits on screen, how it is scaled, and which window of its framebuffer is
// scanned out.
type PlaneState struct {
	X, Y      int
	Scale     float64
	PanX      int
	PanY      int
	PanWidth  int
	PanHeight int
}

// Plane is one hardware overlay plane. Register setters only stage values;
// nothing reaches the display until Apply commits them. Framebuffer memory is
// accessible only between Map and Unmap.
type Plane interface {
	Name() string
	Index() int
	Type() PlaneType
	Width() int
	Height() int
	Format() PixelFormat

	// State returns the staged (not necessarily committed) registers.
	State() PlaneState
	SetPosition(x, y int)
	SetScale(factor float64)
	SetPanPosition(x, y int)
	SetPanSize(width, height int)
	Apply() error

	Reallocate(width, height int, format PixelFormat) error
	Map() (draw.Image, error)
	Unmap() error
}

// Device is a display controller that hands out planes.
type Device interface {
	Screen() (width, height int)
	NumPlanes() int
	CreatePlane(index int, cfg PlaneConfig) (Plane, error)
	Close() error
}

// DeviceOpener opens a Device. Registries take an opener rather than a device
// so that a failed configuration never touches the hardware.
type DeviceOpener func() (Device, error)
