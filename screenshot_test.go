package planes

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"start", "start"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
		{"after firing", "after_firing"},
		{"a/b\\c", "a_b_c"},
		{"v1.2-rc", "v1.2-rc"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStraightAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	copy(src.Pix, []byte{
		128, 64, 0, 128, // half transparent
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
	})
	img := straightAlpha(src)
	if got := img.NRGBAAt(0, 0); got.R != 255 || got.G != 127 || got.B != 0 || got.A != 128 {
		t.Errorf("pixel 0 = %+v", got)
	}
	if got := img.NRGBAAt(1, 0); got.R != 10 || got.G != 20 || got.B != 30 || got.A != 255 {
		t.Errorf("pixel 1 = %+v", got)
	}
	if got := img.NRGBAAt(2, 0); got.A != 0 {
		t.Errorf("pixel 2 = %+v", got)
	}
}

func TestCaptureName(t *testing.T) {
	if got, want := captureName(42, "after firing"), "tick000042_after_firing"; got != want {
		t.Errorf("captureName = %q, want %q", got, want)
	}
}

func TestPlaneWindowFollowsCommittedPan(t *testing.T) {
	p := newTestPlane(t, "p", 8, 4)
	fb := p.Framebuffer()
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			fb.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), A: 0xff})
		}
	}
	p.SetPanPosition(3, 0)
	p.SetPanSize(4, 4)
	if w := planeWindow(p); w.Bounds().Dx() != 8 {
		t.Fatalf("window before Apply = %v, want whole framebuffer", w.Bounds())
	}
	if err := p.Apply(); err != nil {
		t.Fatal(err)
	}
	w := planeWindow(p)
	if got := w.Bounds(); got != image.Rect(3, 0, 7, 4) {
		t.Fatalf("window = %v, want (3,0)-(7,4)", got)
	}
	if got := color.NRGBAModel.Convert(w.At(3, 0)).(color.NRGBA); got.R != 30 {
		t.Errorf("first window pixel red = %d, want 30", got.R)
	}

	if _, err := p.Map(); err != nil {
		t.Fatal(err)
	}
	if planeWindow(p) != nil {
		t.Error("window of a mapped plane should be nil")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	if err := writePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 4 || cfg.Height != 3 {
		t.Errorf("decoded %dx%d, want 4x3", cfg.Width, cfg.Height)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected error for missing directory")
	}
}
