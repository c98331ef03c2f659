package planes

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig holds the window options for Run.
type RunConfig struct {
	Title  string
	Width  int // window width, defaults to the device screen width
	Height int // window height, defaults to the device screen height
	TPS    int // ticks per second, 0 keeps the ebiten default
	// ExitKeys end the run when pressed. nil means ebiten.Key0.
	ExitKeys   []ebiten.Key
	Background color.Color
	// Update, when set, runs every frame before the scene updates. Returning
	// an error ends the run with that error.
	Update func() error
}

// Simulator shows the committed state of a MemoryDevice in a desktop window,
// the way the display controller would scan it out: each plane's pan window
// is cut from its framebuffer, scaled by the plane scale and placed at the
// plane position, bottom plane first. Mouse and touch presses go to the scene.
type Simulator struct {
	scene    *Scene
	device   *MemoryDevice
	width    int
	height   int
	exitKeys []ebiten.Key
	bg       color.Color
	update   func() error
	textures map[*MemoryPlane]*planeTexture
	touchBuf []ebiten.TouchID
}

type planeTexture struct {
	img        *ebiten.Image
	generation uint64
	w, h       int
}

// NewSimulator creates an ebiten.Game for scene and device.
func NewSimulator(scene *Scene, device *MemoryDevice, cfg RunConfig) *Simulator {
	w, h := device.Screen()
	if cfg.Width > 0 && cfg.Height > 0 {
		w, h = cfg.Width, cfg.Height
	}
	exit := cfg.ExitKeys
	if exit == nil {
		exit = []ebiten.Key{ebiten.Key0}
	}
	bg := cfg.Background
	if bg == nil {
		bg = color.Black
	}
	return &Simulator{
		scene:    scene,
		device:   device,
		width:    w,
		height:   h,
		exitKeys: exit,
		bg:       bg,
		update:   cfg.Update,
		textures: make(map[*MemoryPlane]*planeTexture),
	}
}

// Run opens a window and runs scene on device until the window closes or the
// exit key is pressed.
func Run(scene *Scene, device *MemoryDevice, cfg RunConfig) error {
	sim := NewSimulator(scene, device, cfg)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowSize(sim.width, sim.height)
	return ebiten.RunGame(sim)
}

// Update implements ebiten.Game.
func (sim *Simulator) Update() error {
	for _, k := range sim.exitKeys {
		if inpututil.IsKeyJustPressed(k) {
			return ebiten.Termination
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		sim.scene.InjectPress(float64(x), float64(y))
	}
	sim.touchBuf = inpututil.AppendJustPressedTouchIDs(sim.touchBuf[:0])
	for _, id := range sim.touchBuf {
		x, y := ebiten.TouchPosition(id)
		sim.scene.InjectPress(float64(x), float64(y))
	}
	if sim.update != nil {
		if err := sim.update(); err != nil {
			return err
		}
	}
	sim.scene.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

// Draw implements ebiten.Game.
func (sim *Simulator) Draw(screen *ebiten.Image) {
	screen.Fill(sim.bg)
	for _, p := range sim.device.Planes() {
		fb := p.Framebuffer()
		if fb == nil || p.Mapped() {
			continue
		}
		st := p.Committed()
		src := panRect(st, fb.Rect)
		if src.Empty() {
			continue
		}
		tex := sim.texture(p, fb)
		op := &ebiten.DrawImageOptions{}
		if st.Scale != 1 {
			op.Filter = ebiten.FilterLinear
		}
		op.GeoM.Scale(st.Scale, st.Scale)
		op.GeoM.Translate(float64(st.X), float64(st.Y))
		screen.DrawImage(tex.SubImage(src).(*ebiten.Image), op)
	}
	sim.captureFrame(screen)
}

// Layout implements ebiten.Game.
func (sim *Simulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	return sim.width, sim.height
}

// texture returns the GPU copy of a plane framebuffer, uploading it again
// when the framebuffer was reallocated or written.
func (sim *Simulator) texture(p *MemoryPlane, fb *image.RGBA) *ebiten.Image {
	w, h := fb.Rect.Dx(), fb.Rect.Dy()
	t := sim.textures[p]
	if t == nil || t.w != w || t.h != h {
		if t != nil {
			t.img.Deallocate()
		}
		t = &planeTexture{img: ebiten.NewImage(w, h), w: w, h: h}
		t.generation = p.Generation() + 1
		sim.textures[p] = t
	}
	if t.generation != p.Generation() {
		t.img.WritePixels(fb.Pix)
		t.generation = p.Generation()
	}
	return t.img
}

// panRect returns the scanned-out part of a framebuffer: the pan window
// clipped to the framebuffer. A zero pan size selects the whole framebuffer.
func panRect(st PlaneState, fb image.Rectangle) image.Rectangle {
	w, h := st.PanWidth, st.PanHeight
	if w <= 0 || h <= 0 {
		return fb
	}
	origin := fb.Min.Add(image.Pt(st.PanX, st.PanY))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}.Intersect(fb)
}
