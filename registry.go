package planes

import (
	"errors"
	"fmt"
)

// Registry owns the display device and every configured plane. Create one
// with NewRegistry, fill it with Load or LoadConfig, hand planes to nodes
// with Get or At, and release everything with Close.
type Registry struct {
	open    DeviceOpener
	device  Device
	planes  []Plane
	effects []*planeEffect
	screenW int
	screenH int
}

// NewRegistry returns an empty registry that will open its device with open.
func NewRegistry(open DeviceOpener) *Registry {
	if open == nil {
		panic("planes: NewRegistry with nil DeviceOpener")
	}
	return &Registry{open: open}
}

// Load reads the configuration file at path and creates its planes.
func (r *Registry) Load(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	return r.LoadConfig(cfg)
}

// LoadConfig opens the device and creates one plane per declared entry,
// programming and committing its initial registers. On failure the planes
// created so far stay owned by the registry and Close releases them.
func (r *Registry) LoadConfig(cfg *Config) error {
	if r.device != nil {
		return errors.New("planes: registry already loaded")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	dev, err := r.open()
	if err != nil {
		return fmt.Errorf("planes: open device: %w", err)
	}
	r.device = dev

	r.screenW, r.screenH = dev.Screen()
	if cfg.Screen.Width > 0 && cfg.Screen.Height > 0 {
		r.screenW, r.screenH = cfg.Screen.Width, cfg.Screen.Height
	}
	if n := dev.NumPlanes(); len(cfg.Planes) > n {
		return fmt.Errorf("planes: %d planes declared but device has %d: %w", len(cfg.Planes), n, ErrInvalidConfig)
	}

	for i, pc := range cfg.Planes {
		p, err := dev.CreatePlane(i, pc)
		if err != nil {
			return fmt.Errorf("planes: create plane %q: %w", pc.Name, err)
		}
		r.planes = append(r.planes, p)

		p.SetPosition(pc.X, pc.Y)
		p.SetScale(pc.Scale)
		p.SetPanPosition(pc.Pan.X, pc.Pan.Y)
		p.SetPanSize(pc.Pan.Width, pc.Pan.Height)
		if err := p.Apply(); err != nil {
			return fmt.Errorf("planes: commit plane %q: %w", pc.Name, err)
		}
		if pc.Effects.Move != nil || pc.Effects.Pan != nil {
			r.effects = append(r.effects, newPlaneEffect(p, pc.Effects))
		}
		Logger().Debug("plane created", "plane", pc.Name, "index", i,
			"size", fmt.Sprintf("%dx%d", p.Width(), p.Height()), "format", p.Format())
	}
	Logger().Info("registry loaded", "planes", len(r.planes), "effects", len(r.effects),
		"screen", fmt.Sprintf("%dx%d", r.screenW, r.screenH))
	return nil
}

// Get returns the plane with the given name.
func (r *Registry) Get(name string) (Plane, bool) {
	for _, p := range r.planes {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// At returns the plane at position index in declaration order.
func (r *Registry) At(index int) (Plane, bool) {
	if index < 0 || index >= len(r.planes) {
		return nil, false
	}
	return r.planes[index], true
}

// MustGet is like Get but returns an error wrapping ErrPlaneNotFound.
func (r *Registry) MustGet(name string) (Plane, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("planes: %q: %w", name, ErrPlaneNotFound)
	}
	return p, nil
}

// Len returns the number of planes.
func (r *Registry) Len() int { return len(r.planes) }

// Planes returns the planes in declaration order. The slice must not be modified.
func (r *Registry) Planes() []Plane { return r.planes }

// Device returns the open device, or nil before a successful open.
func (r *Registry) Device() Device { return r.device }

// Screen returns the display size used by effects.
func (r *Registry) Screen() (width, height int) { return r.screenW, r.screenH }

// Step runs every configured plane effect once. Each affected plane is
// committed once. Failing commits are logged and do not stop other planes.
func (r *Registry) Step() {
	for _, e := range r.effects {
		if err := e.step(r.screenW, r.screenH); err != nil {
			Logger().Warn("plane effect skipped", "plane", e.plane.Name(), "err", err)
		}
	}
}

// Close releases every plane and closes the device. It is safe to call after
// a failed load and more than once.
func (r *Registry) Close() error {
	r.planes = nil
	r.effects = nil
	if r.device == nil {
		return nil
	}
	dev := r.device
	r.device = nil
	if err := dev.Close(); err != nil {
		return fmt.Errorf("planes: close device: %w", err)
	}
	Logger().Info("registry closed")
	return nil
}
