package planes

import "fmt"

// Vec2 is a 2D vector used for positions and offsets in scene space.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// PixelFormat identifies the memory layout of a plane framebuffer.
type PixelFormat uint8

const (
	FormatARGB8888 PixelFormat = iota // 32 bpp with alpha (default)
	FormatXRGB8888                    // 32 bpp, alpha ignored
	FormatRGBA8888                    // 32 bpp, byte order R G B A
	FormatRGB565                      // 16 bpp, no alpha
)

var formatNames = [...]string{
	FormatARGB8888: "ARGB8888",
	FormatXRGB8888: "XRGB8888",
	FormatRGBA8888: "RGBA8888",
	FormatRGB565:   "RGB565",
}

func (f PixelFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// BitsPerPixel returns the storage depth of one pixel.
func (f PixelFormat) BitsPerPixel() int {
	if f == FormatRGB565 {
		return 16
	}
	return 32
}

// HasAlpha reports whether the format stores a meaningful alpha channel.
func (f PixelFormat) HasAlpha() bool {
	return f == FormatARGB8888 || f == FormatRGBA8888
}

// ParsePixelFormat converts a format name such as "ARGB8888" into a PixelFormat.
func ParsePixelFormat(s string) (PixelFormat, error) {
	for i, name := range formatNames {
		if name == s {
			return PixelFormat(i), nil
		}
	}
	return 0, fmt.Errorf("planes: unknown pixel format %q: %w", s, ErrInvalidConfig)
}

// PlaneType is the hardware role of a plane.
type PlaneType uint8

const (
	PlaneOverlay PlaneType = iota // general purpose overlay (default)
	PlanePrimary                  // primary scanout plane
	PlaneCursor                   // small cursor plane
)

var planeTypeNames = [...]string{
	PlaneOverlay: "overlay",
	PlanePrimary: "primary",
	PlaneCursor:  "cursor",
}

func (t PlaneType) String() string {
	if int(t) < len(planeTypeNames) {
		return planeTypeNames[t]
	}
	return fmt.Sprintf("PlaneType(%d)", uint8(t))
}

// ParsePlaneType converts a type name such as "overlay" into a PlaneType.
func ParsePlaneType(s string) (PlaneType, error) {
	for i, name := range planeTypeNames {
		if name == s {
			return PlaneType(i), nil
		}
	}
	return 0, fmt.Errorf("planes: unknown plane type %q: %w", s, ErrInvalidConfig)
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPress           EventType = iota // a press landed on an interactable node
	EventBackgroundPress                  // a press no node consumed
)
