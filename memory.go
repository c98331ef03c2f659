package planes

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
)

// MemoryDevice is an in-process Device whose planes keep their framebuffers
// in ordinary memory. It backs the ebiten simulator and the tests.
type MemoryDevice struct {
	width, height int
	slots         int
	planes        []*MemoryPlane
	closed        bool
}

// NewMemoryDevice creates a device with the given screen size and number of
// plane slots.
func NewMemoryDevice(width, height, slots int) *MemoryDevice {
	return &MemoryDevice{width: width, height: height, slots: slots}
}

// OpenMemory returns a DeviceOpener for a fresh MemoryDevice.
func OpenMemory(width, height, slots int) DeviceOpener {
	return func() (Device, error) {
		return NewMemoryDevice(width, height, slots), nil
	}
}

// Screen returns the display size in pixels.
func (d *MemoryDevice) Screen() (int, int) { return d.width, d.height }

// NumPlanes returns the number of plane slots.
func (d *MemoryDevice) NumPlanes() int { return d.slots }

// CreatePlane allocates the plane in slot index with the configured
// framebuffer size and format.
func (d *MemoryDevice) CreatePlane(index int, cfg PlaneConfig) (Plane, error) {
	if d.closed {
		return nil, fmt.Errorf("planes: create plane %q: %w", cfg.Name, ErrDeviceClosed)
	}
	if index < 0 || index >= d.slots {
		return nil, fmt.Errorf("planes: create plane %q: slot %d out of range [0,%d)", cfg.Name, index, d.slots)
	}
	for _, p := range d.planes {
		if p.index == index {
			return nil, fmt.Errorf("planes: create plane %q: slot %d already in use by %q", cfg.Name, index, p.name)
		}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("planes: create plane %q: %dx%d: %w", cfg.Name, cfg.Width, cfg.Height, ErrInvalidGeometry)
	}
	zorder := index
	if cfg.ZOrder != nil {
		zorder = *cfg.ZOrder
	}
	p := &MemoryPlane{
		device: d,
		name:   cfg.Name,
		index:  index,
		typ:    cfg.Type,
		zorder: zorder,
		format: cfg.Format,
		fb:     image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}
	p.pending = PlaneState{Scale: 1, PanWidth: cfg.Width, PanHeight: cfg.Height}
	p.committed = p.pending
	d.planes = append(d.planes, p)
	return p, nil
}

// Planes returns every allocated plane sorted by z-order, bottom first.
func (d *MemoryDevice) Planes() []*MemoryPlane {
	out := make([]*MemoryPlane, len(d.planes))
	copy(out, d.planes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].zorder < out[j].zorder })
	return out
}

// Close releases every plane. Further plane operations fail with ErrDeviceClosed.
func (d *MemoryDevice) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	for _, p := range d.planes {
		p.mapping = nil
		p.fb = nil
	}
	return nil
}

// MemoryPlane is a Plane owned by a MemoryDevice.
type MemoryPlane struct {
	device *MemoryDevice
	name   string
	index  int
	typ    PlaneType
	zorder int
	format PixelFormat

	fb         *image.RGBA
	mapping    *memoryMapping
	generation uint64

	pending   PlaneState
	committed PlaneState
	commits   int
}

func (p *MemoryPlane) Name() string        { return p.name }
func (p *MemoryPlane) Index() int          { return p.index }
func (p *MemoryPlane) Type() PlaneType     { return p.typ }
func (p *MemoryPlane) Format() PixelFormat { return p.format }
func (p *MemoryPlane) ZOrder() int         { return p.zorder }

// Width returns the framebuffer width.
func (p *MemoryPlane) Width() int {
	if p.fb == nil {
		return 0
	}
	return p.fb.Rect.Dx()
}

// Height returns the framebuffer height.
func (p *MemoryPlane) Height() int {
	if p.fb == nil {
		return 0
	}
	return p.fb.Rect.Dy()
}

func (p *MemoryPlane) State() PlaneState { return p.pending }

func (p *MemoryPlane) SetPosition(x, y int) {
	p.pending.X, p.pending.Y = x, y
}

func (p *MemoryPlane) SetScale(factor float64) {
	p.pending.Scale = factor
}

func (p *MemoryPlane) SetPanPosition(x, y int) {
	p.pending.PanX, p.pending.PanY = x, y
}

func (p *MemoryPlane) SetPanSize(width, height int) {
	p.pending.PanWidth, p.pending.PanHeight = width, height
}

// Apply commits the staged registers.
func (p *MemoryPlane) Apply() error {
	if p.device.closed {
		return fmt.Errorf("planes: apply %q: %w", p.name, ErrDeviceClosed)
	}
	p.committed = p.pending
	p.commits++
	return nil
}

// Reallocate replaces the framebuffer. Previous contents are discarded.
func (p *MemoryPlane) Reallocate(width, height int, format PixelFormat) error {
	if p.device.closed {
		return fmt.Errorf("planes: reallocate %q: %w", p.name, ErrDeviceClosed)
	}
	if p.mapping != nil {
		return fmt.Errorf("planes: reallocate %q: %w", p.name, ErrMapped)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("planes: reallocate %q to %dx%d: %w", p.name, width, height, ErrInvalidGeometry)
	}
	p.fb = image.NewRGBA(image.Rect(0, 0, width, height))
	p.format = format
	p.generation++
	return nil
}

// Map exposes the framebuffer for drawing. Mapping an already mapped plane
// returns the same image. Writes through an image whose session has been
// unmapped are dropped.
func (p *MemoryPlane) Map() (draw.Image, error) {
	if p.device.closed {
		return nil, fmt.Errorf("planes: map %q: %w", p.name, ErrDeviceClosed)
	}
	if p.mapping == nil {
		p.mapping = &memoryMapping{plane: p, fb: p.fb}
	}
	return p.mapping, nil
}

// Unmap ends a drawing session and publishes the new contents.
func (p *MemoryPlane) Unmap() error {
	if p.mapping == nil {
		return fmt.Errorf("planes: unmap %q: %w", p.name, ErrUnmapped)
	}
	p.mapping = nil
	p.generation++
	return nil
}

// Mapped reports whether the framebuffer is currently mapped.
func (p *MemoryPlane) Mapped() bool { return p.mapping != nil }

// Committed returns the registers as of the last Apply.
func (p *MemoryPlane) Committed() PlaneState { return p.committed }

// Commits returns how many times Apply has succeeded.
func (p *MemoryPlane) Commits() int { return p.commits }

// Generation changes whenever the framebuffer contents may have changed.
func (p *MemoryPlane) Generation() uint64 { return p.generation }

// Framebuffer returns the scanout view of the plane memory. Callers must not
// write to it; drawing goes through Map.
func (p *MemoryPlane) Framebuffer() *image.RGBA { return p.fb }

// memoryMapping is the draw.Image handed out by one Map call.
type memoryMapping struct {
	plane *MemoryPlane
	fb    *image.RGBA
}

func (m *memoryMapping) live() bool { return m.plane.mapping == m }

func (m *memoryMapping) ColorModel() color.Model { return color.RGBAModel }

func (m *memoryMapping) Bounds() image.Rectangle { return m.fb.Rect }

func (m *memoryMapping) At(x, y int) color.Color { return m.fb.At(x, y) }

func (m *memoryMapping) Set(x, y int, c color.Color) {
	if m.live() {
		m.fb.Set(x, y, c)
	}
}
