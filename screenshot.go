package planes

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// captureFrame writes one capture per queued screenshot label: the composited
// screen plus the committed pan window of every plane, each as a PNG. Files
// are named after the scene tick, so a scripted run names them the same way
// every time.
func (sim *Simulator) captureFrame(screen *ebiten.Image) {
	labels := sim.scene.takeScreenshots()
	if len(labels) == 0 {
		return
	}
	dir := sim.scene.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Logger().Warn("capture skipped", "dir", dir, "err", err)
		return
	}

	shot := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(shot.Pix)
	composite := straightAlpha(shot)
	windows := make(map[string]image.Image)
	for _, p := range sim.device.Planes() {
		if w := planeWindow(p); w != nil {
			windows[p.Name()] = w
		}
	}

	tick := sim.scene.Ticks()
	for _, label := range labels {
		base := filepath.Join(dir, captureName(tick, label))
		if err := writePNG(base+".png", composite); err != nil {
			Logger().Warn("capture failed", "label", label, "err", err)
			continue
		}
		for name, w := range windows {
			if err := writePNG(base+"."+sanitizeLabel(name)+".png", w); err != nil {
				Logger().Warn("plane capture failed", "label", label, "plane", name, "err", err)
			}
		}
		Logger().Info("capture written", "path", base+".png", "tick", tick, "planes", len(windows))
	}
}

// captureName is the file stem of a capture taken at tick.
func captureName(tick int, label string) string {
	return fmt.Sprintf("tick%06d_%s", tick, sanitizeLabel(label))
}

// planeWindow returns the part of the plane's framebuffer that its committed
// pan window scans out, or nil when there is nothing to show.
func planeWindow(p *MemoryPlane) image.Image {
	fb := p.Framebuffer()
	if fb == nil || p.Mapped() {
		return nil
	}
	r := panRect(p.Committed(), fb.Rect)
	if r.Empty() {
		return nil
	}
	return straightAlpha(fb.SubImage(r).(*image.RGBA))
}

// straightAlpha converts premultiplied pixels, as planes and ebiten store
// them, to the NRGBA layout PNG files use.
func straightAlpha(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.' and turns everything else
// into '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
