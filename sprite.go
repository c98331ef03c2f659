package planes

import (
	"fmt"
	"image"
)

// Sequence locates one animation clip on a sprite sheet: frames of
// Width x Height laid out left to right starting at (X, Y).
type Sequence struct {
	X, Y          int
	Width, Height int
	Count         int
}

// Origin returns the sheet position of frame f.
func (s Sequence) Origin(f int) (x, y int) {
	return s.X + f*s.Width, s.Y
}

// SpriteAnimator shows one frame of a sprite sheet at a time by moving the
// plane's pan window over the sheet. The whole sheet is pushed once; picking
// a frame is a register write and a commit.
type SpriteAnimator struct {
	*PlaneNode

	sequences map[string]Sequence
	names     []string
	current   string
	frame     int

	// Clicked fires for every press inside the sprite. The press is not
	// consumed, so the scene keeps dispatching it.
	Clicked Signal[PressContext]
}

// NewSpriteAnimator creates an animator for sheet. width and height are the
// logical size used for hit testing, normally the largest frame.
func NewSpriteAnimator(name string, plane Plane, sheet image.Image, width, height int) (*SpriteAnimator, error) {
	if sheet == nil {
		return nil, fmt.Errorf("planes: sprite %q: nil sheet: %w", name, ErrInvalidGeometry)
	}
	node, err := NewPlaneNode(name, plane, Rect{Width: float64(width), Height: float64(height)})
	if err != nil {
		return nil, err
	}
	s := &SpriteAnimator{PlaneNode: node, sequences: make(map[string]Sequence)}
	node.SetImage(sheet, DefaultPushOptions)
	node.Interactable = true
	node.OnPress = s.press
	return s, nil
}

// MustNewSpriteAnimator is like NewSpriteAnimator but panics on error.
func MustNewSpriteAnimator(name string, plane Plane, sheet image.Image, width, height int) *SpriteAnimator {
	s, err := NewSpriteAnimator(name, plane, sheet, width, height)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// AddSequence registers a clip. The first clip ever added also becomes the
// current one and its first frame is shown immediately.
func (s *SpriteAnimator) AddSequence(name string, x, y, width, height, count int) error {
	if width <= 0 || height <= 0 || count <= 0 {
		return fmt.Errorf("planes: sprite %q: sequence %q %dx%d x%d: %w", s.Name, name, width, height, count, ErrInvalidGeometry)
	}
	first := len(s.sequences) == 0
	if _, exists := s.sequences[name]; !exists {
		s.names = append(s.names, name)
	}
	s.sequences[name] = Sequence{X: x, Y: y, Width: width, Height: height, Count: count}
	if !first {
		return nil
	}
	s.current = name
	s.frame = 0
	s.plane.SetPanPosition(x, y)
	s.plane.SetPanSize(width, height)
	return s.commit()
}

// SetSequence switches to the named clip and rewinds to frame 0. Selecting
// the current clip changes nothing. The pan window moves on the next SetFrame.
func (s *SpriteAnimator) SetSequence(name string) error {
	if name == s.current {
		return nil
	}
	if _, ok := s.sequences[name]; !ok {
		return fmt.Errorf("planes: sprite %q: %q: %w", s.Name, name, ErrUnknownSequence)
	}
	s.current = name
	s.frame = 0
	return nil
}

// SetFrame shows frame f of the current clip. Out of range frames wrap
// around the clip length. The pan window is committed even when it did not
// move.
func (s *SpriteAnimator) SetFrame(f int) error {
	seq, ok := s.sequences[s.current]
	if !ok {
		return fmt.Errorf("planes: sprite %q: no sequence selected: %w", s.Name, ErrUnknownSequence)
	}
	s.frame = wrap(f, seq.Count)
	x, y := seq.Origin(s.frame)
	s.plane.SetPanPosition(x, y)
	s.plane.SetPanSize(seq.Width, seq.Height)
	return s.commit()
}

// Sequence returns the current clip name.
func (s *SpriteAnimator) Sequence() string { return s.current }

// CurrentFrame returns the current frame index.
func (s *SpriteAnimator) CurrentFrame() int { return s.frame }

// FrameCount returns the number of frames in the named clip, or 0.
func (s *SpriteAnimator) FrameCount(name string) int {
	return s.sequences[name].Count
}

// Lookup returns the named clip.
func (s *SpriteAnimator) Lookup(name string) (Sequence, bool) {
	seq, ok := s.sequences[name]
	return seq, ok
}

// Sequences returns the clip names in registration order.
func (s *SpriteAnimator) Sequences() []string { return s.names }

// FrameSize returns the cell size of the current clip.
func (s *SpriteAnimator) FrameSize() (width, height int) {
	seq := s.sequences[s.current]
	return seq.Width, seq.Height
}

// ToggleFlipHorizontal mirrors the sheet left to right on the next Paint.
func (s *SpriteAnimator) ToggleFlipHorizontal() {
	h, v := s.Mirror()
	s.SetMirror(!h, v)
}

// Bind drives the sprite from tl: entering the running state selects the
// named clip and every frame change selects that frame.
func (s *SpriteAnimator) Bind(name string, tl *Timeline) {
	tl.StateChanged.Connect(func(state TimelineState) {
		if state != Running {
			return
		}
		if err := s.SetSequence(name); err != nil {
			Logger().Warn("sequence not selected", "plane", s.plane.Name(), "err", err)
		}
	})
	tl.FrameChanged.Connect(func(f int) {
		if s.current != name {
			return
		}
		if err := s.SetFrame(f); err != nil {
			Logger().Warn("frame not shown", "plane", s.plane.Name(), "err", err)
		}
	})
}

func (s *SpriteAnimator) press(ctx PressContext) bool {
	s.Clicked.Emit(ctx)
	return false
}
