package planes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the display and every plane to create on it. It is read
// from YAML; JSON documents parse too.
type Config struct {
	Screen ScreenConfig  `yaml:"screen"`
	Planes []PlaneConfig `yaml:"planes"`
}

// ScreenConfig is the size of the composited display. Zero means "ask the device".
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlaneConfig declares one plane and its initial registers. A nil ZOrder
// stacks the plane in declaration order.
type PlaneConfig struct {
	Name    string       `yaml:"name"`
	Type    PlaneType    `yaml:"type"`
	Device  string       `yaml:"device,omitempty"`
	X       int          `yaml:"x"`
	Y       int          `yaml:"y"`
	Width   int          `yaml:"width"`
	Height  int          `yaml:"height"`
	Format  PixelFormat  `yaml:"format"`
	Scale   float64      `yaml:"scale"`
	ZOrder  *int         `yaml:"zorder,omitempty"`
	Pan     PanConfig    `yaml:"pan"`
	Effects EffectConfig `yaml:"effects"`
}

// PanConfig is the initial pan window. A zero size selects the whole framebuffer.
type PanConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EffectConfig lists the per-step effects the registry runs on a plane.
type EffectConfig struct {
	Move *Velocity `yaml:"move,omitempty"`
	Pan  *Velocity `yaml:"pan,omitempty"`
}

// Velocity is a per-step displacement in pixels.
type Velocity struct {
	DX int `yaml:"dx"`
	DY int `yaml:"dy"`
}

// UnmarshalYAML accepts a format name such as "RGB565".
func (f *PixelFormat) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParsePixelFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalYAML writes the format name.
func (f PixelFormat) MarshalYAML() (any, error) { return f.String(), nil }

// UnmarshalYAML accepts a plane type name such as "overlay".
func (t *PlaneType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParsePlaneType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalYAML writes the plane type name.
func (t PlaneType) MarshalYAML() (any, error) { return t.String(), nil }

// ParseConfig decodes a configuration document, fills in defaults and
// validates it. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("planes: parse config: empty document: %w", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("planes: parse config: %w: %w", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("planes: load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// Marshal encodes the configuration back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyDefaults() {
	for i := range c.Planes {
		p := &c.Planes[i]
		if p.Scale == 0 {
			p.Scale = 1
		}
		if p.ZOrder == nil {
			z := i
			p.ZOrder = &z
		}
		if p.Pan.Width == 0 {
			p.Pan.Width = p.Width
		}
		if p.Pan.Height == 0 {
			p.Pan.Height = p.Height
		}
	}
}

// Validate reports every problem in the configuration at once. The returned
// error matches ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Screen.Width < 0 || c.Screen.Height < 0 {
		fail("screen: negative size %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if len(c.Planes) == 0 {
		fail("no planes declared")
	}
	seen := make(map[string]int, len(c.Planes))
	for i, p := range c.Planes {
		if p.Name == "" {
			fail("plane %d: missing name", i)
		} else if j, dup := seen[p.Name]; dup {
			fail("plane %d: name %q already used by plane %d", i, p.Name, j)
		} else {
			seen[p.Name] = i
		}
		if p.Width <= 0 || p.Height <= 0 {
			fail("plane %q: framebuffer size %dx%d must be positive", p.Name, p.Width, p.Height)
		}
		if p.Scale <= 0 || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
			fail("plane %q: scale %v must be finite and positive", p.Name, p.Scale)
		}
		if p.Pan.X < 0 || p.Pan.Y < 0 || p.Pan.Width <= 0 || p.Pan.Height <= 0 ||
			p.Pan.X+p.Pan.Width > p.Width || p.Pan.Y+p.Pan.Height > p.Height {
			fail("plane %q: pan window %d,%d %dx%d outside framebuffer %dx%d",
				p.Name, p.Pan.X, p.Pan.Y, p.Pan.Width, p.Pan.Height, p.Width, p.Height)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("planes: %w: %w", ErrInvalidConfig, errors.Join(errs...))
}
