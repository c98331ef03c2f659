package planes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoConfig = `
screen:
  width: 800
  height: 480
planes:
  - name: primary
    type: primary
    width: 800
    height: 480
  - name: overlay0
    y: 70
    width: 1600
    height: 330
    format: XRGB8888
    pan: {width: 800, height: 330}
  - name: overlay2
    width: 1000
    height: 480
    format: RGB565
    scale: 0.5
    zorder: 7
    pan: {width: 500, height: 480}
    effects:
      move: {dx: 3, dy: -2}
      pan: {dx: 4}
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(demoConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Planes, 3)

	assert.Equal(t, ScreenConfig{Width: 800, Height: 480}, cfg.Screen)

	primary := cfg.Planes[0]
	assert.Equal(t, PlanePrimary, primary.Type)
	assert.Equal(t, FormatARGB8888, primary.Format)
	assert.Equal(t, 1.0, primary.Scale)
	assert.Equal(t, PanConfig{Width: 800, Height: 480}, primary.Pan)

	layer := cfg.Planes[1]
	assert.Equal(t, PlaneOverlay, layer.Type)
	assert.Equal(t, 70, layer.Y)
	assert.Equal(t, FormatXRGB8888, layer.Format)
	require.NotNil(t, layer.ZOrder)
	assert.Equal(t, 1, *layer.ZOrder, "zorder defaults to declaration order")
	assert.Equal(t, PanConfig{Width: 800, Height: 330}, layer.Pan)

	fx := cfg.Planes[2]
	assert.Equal(t, FormatRGB565, fx.Format)
	assert.Equal(t, 0.5, fx.Scale)
	require.NotNil(t, fx.ZOrder)
	assert.Equal(t, 7, *fx.ZOrder)
	require.NotNil(t, fx.Effects.Move)
	assert.Equal(t, Velocity{DX: 3, DY: -2}, *fx.Effects.Move)
	require.NotNil(t, fx.Effects.Pan)
	assert.Equal(t, Velocity{DX: 4}, *fx.Effects.Pan)
}

func TestParseConfigExplicitZeroZOrder(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
planes:
  - {name: a, width: 4, height: 4}
  - {name: b, width: 4, height: 4, zorder: 0}
  - {name: c, width: 4, height: 4}
`))
	require.NoError(t, err)
	zs := make([]int, len(cfg.Planes))
	for i, p := range cfg.Planes {
		require.NotNil(t, p.ZOrder, p.Name)
		zs[i] = *p.ZOrder
	}
	assert.Equal(t, []int{0, 0, 2}, zs)
}

func TestParseConfigAcceptsJSON(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"planes": [{"name": "a", "width": 4, "height": 4, "format": "RGBA8888"}]}`))
	require.NoError(t, err)
	assert.Equal(t, FormatRGBA8888, cfg.Planes[0].Format)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"no planes", `screen: {width: 10, height: 10}`},
		{"unknown field", `planes: [{name: a, width: 1, height: 1, colour: red}]`},
		{"unknown format", `planes: [{name: a, width: 1, height: 1, format: YUV420}]`},
		{"unknown type", `planes: [{name: a, type: sprite, width: 1, height: 1}]`},
		{"missing name", `planes: [{width: 1, height: 1}]`},
		{"duplicate name", `planes: [{name: a, width: 1, height: 1}, {name: a, width: 1, height: 1}]`},
		{"zero size", `planes: [{name: a, width: 0, height: 1}]`},
		{"negative scale", `planes: [{name: a, width: 1, height: 1, scale: -1}]`},
		{"pan outside", `planes: [{name: a, width: 10, height: 10, pan: {x: 5, width: 8, height: 10}}]`},
		{"not yaml", `planes: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := &Config{Planes: []PlaneConfig{
		{Name: "", Width: 1, Height: 1, Scale: 1, Pan: PanConfig{Width: 1, Height: 1}},
		{Name: "b", Width: -1, Height: 1, Scale: 1, Pan: PanConfig{Width: 1, Height: 1}},
	}}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "missing name")
	assert.Contains(t, err.Error(), `plane "b"`)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Planes, 3)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigMarshalUsesNames(t *testing.T) {
	cfg, err := ParseConfig([]byte(demoConfig))
	require.NoError(t, err)
	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "format: RGB565")
	assert.Contains(t, string(out), "type: primary")

	again, err := ParseConfig(out)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestParsePixelFormat(t *testing.T) {
	for _, f := range []PixelFormat{FormatARGB8888, FormatXRGB8888, FormatRGBA8888, FormatRGB565} {
		got, err := ParsePixelFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	assert.Equal(t, 16, FormatRGB565.BitsPerPixel())
	assert.Equal(t, 32, FormatXRGB8888.BitsPerPixel())
	assert.False(t, FormatXRGB8888.HasAlpha())
	assert.True(t, FormatARGB8888.HasAlpha())
}
