package planes

// planeEffect moves a plane or its pan window a fixed amount every step.
type planeEffect struct {
	plane  Plane
	move   *Velocity
	pan    *Velocity
	moveDX int
	moveDY int
}

func newPlaneEffect(p Plane, cfg EffectConfig) *planeEffect {
	e := &planeEffect{plane: p, move: cfg.Move, pan: cfg.Pan}
	if cfg.Move != nil {
		e.moveDX, e.moveDY = cfg.Move.DX, cfg.Move.DY
	}
	return e
}

// step applies one tick of every effect and commits.
func (e *planeEffect) step(screenW, screenH int) error {
	st := e.plane.State()
	if e.move != nil {
		w := int(float64(st.PanWidth) * st.Scale)
		h := int(float64(st.PanHeight) * st.Scale)
		var x, y int
		x, e.moveDX = bounce(st.X, e.moveDX, screenW-w)
		y, e.moveDY = bounce(st.Y, e.moveDY, screenH-h)
		e.plane.SetPosition(x, y)
	}
	if e.pan != nil {
		px, py := st.PanX, st.PanY
		if e.pan.DX != 0 {
			px = wrapPan(px+e.pan.DX, e.plane.Width()-st.PanWidth)
		}
		if e.pan.DY != 0 {
			py = wrapPan(py+e.pan.DY, e.plane.Height()-st.PanHeight)
		}
		e.plane.SetPanPosition(px, py)
	}
	return e.plane.Apply()
}

// bounce moves pos by v inside [0, limit], reversing v at either edge.
func bounce(pos, v, limit int) (int, int) {
	if v == 0 {
		return pos, v
	}
	if limit <= 0 {
		return 0, v
	}
	pos += v
	switch {
	case pos < 0:
		pos, v = -pos, -v
	case pos > limit:
		pos, v = 2*limit-pos, -v
	}
	return min(max(pos, 0), limit), v
}

// wrapPan applies the pan wrap rule: offsets at or past span restart at 0
// and negative offsets restart at span.
func wrapPan(v, span int) int {
	switch {
	case span <= 0:
		return 0
	case v >= span:
		return 0
	case v < 0:
		return span
	}
	return v
}

// wrap folds v into [0, span). A non-positive span pins the value at 0.
func wrap(v, span int) int {
	if span <= 0 {
		return 0
	}
	v %= span
	if v < 0 {
		v += span
	}
	return v
}
