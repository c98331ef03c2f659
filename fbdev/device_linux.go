//go:build linux

package fbdev

import (
	"fmt"
	"image/color"
	"image/draw"

	"github.com/gonutz/framebuffer"
	"github.com/phanxgames/planes"
	"golang.org/x/sys/unix"
)

// DefaultPath is the framebuffer used when Open gets no paths.
const DefaultPath = "/dev/fb0"

// Device is a planes.Device whose plane slots are framebuffer nodes.
type Device struct {
	paths         []string
	width, height int
	planes        []*Plane
	closed        bool
}

// Open reads the screen size from the first path and returns a device with
// one plane slot per path.
func Open(paths ...string) (*Device, error) {
	if len(paths) == 0 {
		paths = []string{DefaultPath}
	}
	fd, err := unix.Open(paths[0], unix.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", paths[0], err)
	}
	defer unix.Close(fd)
	v, err := getVarInfo(fd)
	if err != nil {
		return nil, fmt.Errorf("fbdev: FBIOGET_VSCREENINFO on %s: %w", paths[0], err)
	}
	d := &Device{
		paths:  append([]string(nil), paths...),
		width:  int(v.XRes),
		height: int(v.YRes),
	}
	planes.Logger().Info("fbdev opened", "path", paths[0], "width", d.width, "height", d.height, "slots", len(paths))
	return d, nil
}

// Opener returns a planes.DeviceOpener for Open(paths...).
func Opener(paths ...string) planes.DeviceOpener {
	return func() (planes.Device, error) {
		d, err := Open(paths...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// Screen returns the visible resolution of the first framebuffer.
func (d *Device) Screen() (int, int) { return d.width, d.height }

// NumPlanes returns the number of framebuffer nodes.
func (d *Device) NumPlanes() int { return len(d.paths) }

// CreatePlane opens the framebuffer for slot index, or cfg.Device when set,
// and sizes its virtual resolution to the configured framebuffer.
func (d *Device) CreatePlane(index int, cfg planes.PlaneConfig) (planes.Plane, error) {
	if d.closed {
		return nil, fmt.Errorf("fbdev: create plane %q: %w", cfg.Name, planes.ErrDeviceClosed)
	}
	if index < 0 || index >= len(d.paths) {
		return nil, fmt.Errorf("fbdev: create plane %q: slot %d out of range [0,%d)", cfg.Name, index, len(d.paths))
	}
	path := d.paths[index]
	if cfg.Device != "" {
		path = cfg.Device
	}
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: create plane %q: %w", cfg.Name, err)
	}
	p := &Plane{
		device: d,
		name:   cfg.Name,
		index:  index,
		typ:    cfg.Type,
		path:   path,
		fd:     fd,
	}
	if err := p.Reallocate(cfg.Width, cfg.Height, cfg.Format); err != nil {
		unix.Close(fd)
		return nil, err
	}
	p.pending = planes.PlaneState{Scale: 1, PanWidth: p.width, PanHeight: p.height}
	p.committed = p.pending
	d.planes = append(d.planes, p)
	return p, nil
}

// Close releases every plane.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	for _, p := range d.planes {
		p.release()
	}
	return nil
}

// Plane is one framebuffer node.
type Plane struct {
	device *Device
	name   string
	index  int
	typ    planes.PlaneType
	path   string
	fd     int

	width, height int
	format        planes.PixelFormat
	mapped        draw.Image
	unmap         func()

	pending   planes.PlaneState
	committed planes.PlaneState
}

func (p *Plane) Name() string               { return p.name }
func (p *Plane) Index() int                 { return p.index }
func (p *Plane) Type() planes.PlaneType     { return p.typ }
func (p *Plane) Width() int                 { return p.width }
func (p *Plane) Height() int                { return p.height }
func (p *Plane) Format() planes.PixelFormat { return p.format }
func (p *Plane) State() planes.PlaneState   { return p.pending }

// Path returns the device node backing the plane.
func (p *Plane) Path() string { return p.path }

func (p *Plane) SetPosition(x, y int)    { p.pending.X, p.pending.Y = x, y }
func (p *Plane) SetScale(factor float64) { p.pending.Scale = factor }
func (p *Plane) SetPanPosition(x, y int) { p.pending.PanX, p.pending.PanY = x, y }
func (p *Plane) SetPanSize(width, height int) {
	p.pending.PanWidth, p.pending.PanHeight = width, height
}

// Apply pans the display to the staged window origin. The kernel scans out a
// window of the visible resolution, so the pan size only applies when it
// matches.
func (p *Plane) Apply() error {
	if p.device.closed {
		return fmt.Errorf("fbdev: apply %q: %w", p.name, planes.ErrDeviceClosed)
	}
	st := p.pending
	if st.PanX != p.committed.PanX || st.PanY != p.committed.PanY {
		v, err := getVarInfo(p.fd)
		if err != nil {
			return fmt.Errorf("fbdev: apply %q: %w", p.name, err)
		}
		v.XOffset, v.YOffset = uint32(max(st.PanX, 0)), uint32(max(st.PanY, 0))
		if err := panDisplay(p.fd, &v); err != nil {
			return fmt.Errorf("fbdev: apply %q: FBIOPAN_DISPLAY: %w", p.name, err)
		}
	}
	if st.X != p.committed.X || st.Y != p.committed.Y || st.Scale != p.committed.Scale {
		planes.Logger().Debug("register not supported by fbdev", "plane", p.name,
			"x", st.X, "y", st.Y, "scale", st.Scale, "err", planes.ErrUnsupported)
	}
	p.committed = st
	return nil
}

// Reallocate sets the virtual resolution and pixel layout. The visible
// resolution is left to the driver.
func (p *Plane) Reallocate(width, height int, format planes.PixelFormat) error {
	if p.device.closed {
		return fmt.Errorf("fbdev: reallocate %q: %w", p.name, planes.ErrDeviceClosed)
	}
	if p.mapped != nil {
		return fmt.Errorf("fbdev: reallocate %q: %w", p.name, planes.ErrMapped)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("fbdev: reallocate %q to %dx%d: %w", p.name, width, height, planes.ErrInvalidGeometry)
	}
	v, err := getVarInfo(p.fd)
	if err != nil {
		return fmt.Errorf("fbdev: reallocate %q: %w", p.name, err)
	}
	v.XResVirtual, v.YResVirtual = uint32(width), uint32(height)
	v.XOffset, v.YOffset = 0, 0
	setFormat(&v, format)
	if err := putVarInfo(p.fd, &v); err != nil {
		return fmt.Errorf("fbdev: reallocate %q: FBIOPUT_VSCREENINFO: %w", p.name, err)
	}
	// Drivers may round the request; keep what they granted.
	got, err := getVarInfo(p.fd)
	if err != nil {
		return fmt.Errorf("fbdev: reallocate %q: %w", p.name, err)
	}
	p.width, p.height = int(got.XResVirtual), int(got.YResVirtual)
	p.format = format
	if f, ok := formatOf(got); ok {
		p.format = f
	}
	planes.Logger().Debug("framebuffer reallocated", "plane", p.name,
		"width", p.width, "height", p.height, "format", p.format)
	return nil
}

// Map memory-maps the framebuffer. An RGB565 node whose virtual and visible
// resolutions match goes through gonutz/framebuffer; every other layout is
// mapped over line_length*yres_virtual bytes so panned and 32 bpp planes see
// their whole virtual framebuffer.
func (p *Plane) Map() (draw.Image, error) {
	if p.device.closed {
		return nil, fmt.Errorf("fbdev: map %q: %w", p.name, planes.ErrDeviceClosed)
	}
	if p.mapped != nil {
		return p.mapped, nil
	}
	v, err := getVarInfo(p.fd)
	if err != nil {
		return nil, fmt.Errorf("fbdev: map %q: %w", p.name, err)
	}
	if p.format == planes.FormatRGB565 && v.XRes == v.XResVirtual && v.YRes == v.YResVirtual {
		fb, err := framebuffer.Open(p.path)
		if err != nil {
			return nil, fmt.Errorf("fbdev: map %q: %w", p.name, err)
		}
		p.mapped, p.unmap = opaqueImage{fb}, fb.Close
		return p.mapped, nil
	}
	fix, err := getFixInfo(p.fd)
	if err != nil {
		return nil, fmt.Errorf("fbdev: map %q: FBIOGET_FSCREENINFO: %w", p.name, err)
	}
	size := int(fix.LineLength) * int(v.YResVirtual)
	mem, err := unix.Mmap(p.fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("fbdev: map %q: mmap %d bytes: %w", p.name, size, err)
	}
	p.mapped = newMappedImage(mem, int(fix.LineLength), int(v.XResVirtual), int(v.YResVirtual), p.format)
	p.unmap = func() {
		if err := unix.Munmap(mem); err != nil {
			planes.Logger().Warn("munmap failed", "plane", p.name, "err", err)
		}
	}
	return p.mapped, nil
}

// Unmap releases the mapping.
func (p *Plane) Unmap() error {
	if p.mapped == nil {
		return fmt.Errorf("fbdev: unmap %q: %w", p.name, planes.ErrUnmapped)
	}
	p.unmap()
	p.mapped, p.unmap = nil, nil
	return nil
}

// opaqueImage stores every pixel through a gonutz device, which skips fully
// transparent colors. Alpha is dropped so transparent source pixels clear to
// black.
type opaqueImage struct {
	*framebuffer.Device
}

func (o opaqueImage) Set(x, y int, c color.Color) {
	rgb := color.RGBAModel.Convert(c).(color.RGBA)
	rgb.A = 0xff
	o.Device.Set(x, y, rgb)
}

func (p *Plane) release() {
	if p.mapped != nil {
		p.unmap()
		p.mapped, p.unmap = nil, nil
	}
	if p.fd >= 0 {
		unix.Close(p.fd)
		p.fd = -1
	}
}
