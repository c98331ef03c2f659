package planes

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestContentTransformIdentity(t *testing.T) {
	n := mustNode(t, newTestPlane(t, "p", 4, 4))
	got := computeContentTransform(n)
	if got != identityTransform {
		t.Errorf("got %v, want identity", got)
	}
}

func TestContentTransformIgnoresPositionAndScale(t *testing.T) {
	n := mustNode(t, newTestPlane(t, "p", 4, 4))
	if err := n.SetPosition(30, 40); err != nil {
		t.Fatal(err)
	}
	if err := n.SetScale(2); err != nil {
		t.Fatal(err)
	}
	assertMatrix(t, "content", computeContentTransform(n), identityTransform)
	assertMatrix(t, "scene", computeSceneTransform(n), [6]float64{2, 0, 0, 2, 30, 40})
}

func TestContentTransformRotationAroundPivot(t *testing.T) {
	n := mustNode(t, newTestPlane(t, "p", 4, 4))
	n.SetPivot(10, 10)
	n.SetRotation(math.Pi / 2)
	m := computeContentTransform(n)

	x, y := transformPoint(m, 10, 10)
	assertNear(t, "pivot x", x, 10)
	assertNear(t, "pivot y", y, 10)

	// (20, 10) is 10 right of the pivot; a quarter turn puts it 10 below.
	x, y = transformPoint(m, 20, 10)
	assertNear(t, "x", x, 10)
	assertNear(t, "y", y, 20)
}

func TestContentTransformSkew(t *testing.T) {
	n := mustNode(t, newTestPlane(t, "p", 4, 4))
	n.SetSkew(math.Pi/4, 0)
	x, y := transformPoint(computeContentTransform(n), 0, 10)
	assertNear(t, "x", x, 10)
	assertNear(t, "y", y, 10)
}

func TestSceneToLocalRoundTrip(t *testing.T) {
	n := mustNode(t, newTestPlane(t, "p", 4, 4))
	if err := n.SetPosition(100, 50); err != nil {
		t.Fatal(err)
	}
	if err := n.SetScale(0.5); err != nil {
		t.Fatal(err)
	}
	lx, ly := n.SceneToLocal(110, 60)
	assertNear(t, "lx", lx, 20)
	assertNear(t, "ly", ly, 20)
	sx, sy := n.LocalToScene(lx, ly)
	assertNear(t, "sx", sx, 110)
	assertNear(t, "sy", sy, 60)
}

func TestMultiplyAffineIdentity(t *testing.T) {
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 4, 10, 20}
	assertMatrix(t, "m*inv", multiplyAffine(m, invertAffine(m)), identityTransform)
	assertMatrix(t, "singular", invertAffine([6]float64{0, 0, 0, 0, 1, 1}), identityTransform)
}

func TestToAff3(t *testing.T) {
	m := [6]float64{1, 2, 3, 4, 5, 6}
	got := toAff3(m)
	want := [6]float64{1, 3, 5, 2, 4, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("toAff3 = %v, want %v", got, want)
		}
	}
}
