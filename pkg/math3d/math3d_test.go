package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross x", V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1)},
		{"parallel", V3(1, 2, 3), V3(2, 4, 6), Zero3()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Cross(tt.b)
			if !got.ApproxEqual(tt.want, eps) {
				t.Errorf("Cross(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
	if got := V3(3, 0, 4).Normalize().Len(); math.Abs(got-1) > eps {
		t.Errorf("Normalize length = %v, want 1", got)
	}
}

func TestMat4Rotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"rotX 90 moves Y to Z", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"rotY 90 moves Z to X", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"rotZ 90 moves X to Y", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"translate", Translate(V3(1, 2, 3)), V3(1, 1, 1), V3(2, 3, 4)},
		{"scale", Scale(V3(2, 3, 4)), V3(1, 1, 1), V3(2, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.MulVec3(tt.in)
			if !got.ApproxEqual(tt.want, eps) {
				t.Errorf("MulVec3(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.3))
	if got := m.Mul(Identity()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(5, 5, 5))
	if got := m.MulVec3Dir(V3(0, 0, 1)); !got.ApproxEqual(V3(0, 0, 1), eps) {
		t.Errorf("MulVec3Dir = %v, want (0,0,1)", got)
	}
}

func TestLookAtPerspective(t *testing.T) {
	view := LookAt(V3(0, 0, 5), Zero3(), V3(0, 1, 0))
	// Origin sits 5 units in front of the camera.
	if got := view.MulVec3(Zero3()); !got.ApproxEqual(V3(0, 0, -5), eps) {
		t.Errorf("view * origin = %v, want (0,0,-5)", got)
	}

	proj := Perspective(math.Pi/2, 1, 1, 10)
	near := proj.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	far := proj.MulVec4(V4(0, 0, -10, 1)).PerspectiveDivide()
	if math.Abs(near.Z+1) > eps || math.Abs(far.Z-1) > eps {
		t.Errorf("depth range = [%v, %v], want [-1, 1]", near.Z, far.Z)
	}
}
