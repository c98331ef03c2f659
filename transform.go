package planes

import (
	"math"

	"golang.org/x/image/math/f64"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeContentTransform returns the matrix applied to pixels when a node
// pushes an image. Returns [a, b, c, d, tx, ty].
//
// Position and scale are not part of it: the plane registers implement those
// in hardware. Composition order:
//
//	Translate(-PivotX, -PivotY) -> Skew -> Rotate -> Translate(PivotX, PivotY)
func computeContentTransform(n *PlaneNode) [6]float64 {
	if n.rotation == 0 && n.skewX == 0 && n.skewY == 0 {
		return identityTransform
	}
	sin, cos := math.Sincos(n.rotation)
	var tanSkewX, tanSkewY float64
	if n.skewX != 0 {
		tanSkewX = math.Tan(n.skewX)
	}
	if n.skewY != 0 {
		tanSkewY = math.Tan(n.skewY)
	}
	m := [6]float64{1, 0, 0, 1, -n.pivotX, -n.pivotY}
	m = multiplyAffine([6]float64{1, tanSkewY, tanSkewX, 1, 0, 0}, m)
	m = multiplyAffine([6]float64{cos, sin, -sin, cos, 0, 0}, m)
	return multiplyAffine([6]float64{1, 0, 0, 1, n.pivotX, n.pivotY}, m)
}

// computeSceneTransform maps node-local coordinates to scene coordinates,
// combining the content transform with the plane's scale and position.
func computeSceneTransform(n *PlaneNode) [6]float64 {
	placement := [6]float64{n.scale, 0, 0, n.scale, n.x, n.y}
	return multiplyAffine(placement, computeContentTransform(n))
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// toAff3 converts the column layout used here into the row-major layout of
// golang.org/x/image/draw.
func toAff3(m [6]float64) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

// --- Content transform setters ---

// SetRotation sets the content rotation in radians around the pivot.
func (n *PlaneNode) SetRotation(r float64) {
	n.rotation = r
	n.Invalidate()
}

// SetSkew sets the content skew angles in radians.
func (n *PlaneNode) SetSkew(sx, sy float64) {
	n.skewX, n.skewY = sx, sy
	n.Invalidate()
}

// SetPivot sets the point, in image pixels, that rotation and skew pivot around.
func (n *PlaneNode) SetPivot(px, py float64) {
	n.pivotX, n.pivotY = px, py
	n.Invalidate()
}

// Rotation returns the content rotation in radians.
func (n *PlaneNode) Rotation() float64 { return n.rotation }

// --- Coordinate conversion ---

// SceneToLocal converts a scene-space point to this node's local coordinate space.
func (n *PlaneNode) SceneToLocal(sx, sy float64) (lx, ly float64) {
	return transformPoint(invertAffine(computeSceneTransform(n)), sx, sy)
}

// LocalToScene converts a local-space point to scene space.
func (n *PlaneNode) LocalToScene(lx, ly float64) (sx, sy float64) {
	return transformPoint(computeSceneTransform(n), lx, ly)
}
