package fbdev

import (
	"image"
	"image/color"

	"github.com/phanxgames/planes"
)

// mappedImage is a draw.Image over mapped framebuffer memory laid out as
// rows of pitch bytes in one of the plane pixel formats. Set stores every
// pixel it is given, alpha included, so drawing with draw.Src replaces the
// framebuffer contents.
type mappedImage struct {
	pix    []byte
	pitch  int
	rect   image.Rectangle
	format planes.PixelFormat
}

func newMappedImage(pix []byte, pitch, width, height int, format planes.PixelFormat) *mappedImage {
	return &mappedImage{pix: pix, pitch: pitch, rect: image.Rect(0, 0, width, height), format: format}
}

func (m *mappedImage) Bounds() image.Rectangle { return m.rect }

func (m *mappedImage) ColorModel() color.Model {
	if m.format.HasAlpha() {
		return color.NRGBAModel
	}
	return color.RGBAModel
}

func (m *mappedImage) offset(x, y int) (int, bool) {
	if !image.Pt(x, y).In(m.rect) {
		return 0, false
	}
	i := y*m.pitch + x*m.format.BitsPerPixel()/8
	if i+m.format.BitsPerPixel()/8 > len(m.pix) {
		return 0, false
	}
	return i, true
}

func (m *mappedImage) At(x, y int) color.Color {
	i, ok := m.offset(x, y)
	if !ok {
		return color.NRGBA{}
	}
	p := m.pix[i:]
	switch m.format {
	case planes.FormatRGB565:
		v := uint16(p[0]) | uint16(p[1])<<8
		r, g, b := uint8(v>>11), uint8(v>>5)&0x3f, uint8(v)&0x1f
		return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xff}
	case planes.FormatRGBA8888:
		return color.NRGBA{R: p[3], G: p[2], B: p[1], A: p[0]}
	case planes.FormatXRGB8888:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
	default:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
}

func (m *mappedImage) Set(x, y int, c color.Color) {
	i, ok := m.offset(x, y)
	if !ok {
		return
	}
	p := m.pix[i:]
	switch m.format {
	case planes.FormatRGB565:
		rgb := color.RGBAModel.Convert(c).(color.RGBA)
		v := uint16(rgb.R>>3)<<11 | uint16(rgb.G>>2)<<5 | uint16(rgb.B>>3)
		p[0], p[1] = byte(v), byte(v>>8)
	case planes.FormatXRGB8888:
		rgb := color.RGBAModel.Convert(c).(color.RGBA)
		p[0], p[1], p[2], p[3] = rgb.B, rgb.G, rgb.R, 0xff
	case planes.FormatRGBA8888:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		p[0], p[1], p[2], p[3] = n.A, n.B, n.G, n.R
	default:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		p[0], p[1], p[2], p[3] = n.B, n.G, n.R, n.A
	}
}
