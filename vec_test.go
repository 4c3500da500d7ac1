package atomcast

import (
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		op     func(Vec3, Vec3) Vec3
		v, w   Vec3
		expect Vec3
	}{
		{"add", Vec3.Add, V3(1, 2, 3), V3(4, 5, 6), V3(5, 7, 9)},
		{"add zero", Vec3.Add, V3(1, 2, 3), V3(0, 0, 0), V3(1, 2, 3)},
		{"sub", Vec3.Sub, V3(4, 5, 6), V3(1, 2, 3), V3(3, 3, 3)},
		{"sub negative", Vec3.Sub, V3(0, 0, 0), V3(1, -2, 3), V3(-1, 2, -3)},
		{"cross x*y=z", Vec3.Cross, V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"cross y*z=x", Vec3.Cross, V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"cross parallel", Vec3.Cross, V3(2, 0, 0), V3(4, 0, 0), V3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op(tt.v, tt.w)
			if !result.Approx(tt.expect, 1e-6) {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.name, tt.v, tt.w, result, tt.expect)
			}
		})
	}
}

func TestVec3_Length(t *testing.T) {
	tests := []struct {
		name   string
		v      Vec3
		expect float32
	}{
		{"zero", V3(0, 0, 0), 0},
		{"unit", V3(1, 0, 0), 1},
		{"pythagorean", V3(3, 4, 0), 5},
		{"3d", V3(2, 3, 6), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Length(); got != tt.expect {
				t.Errorf("%v.Length() = %v, want %v", tt.v, got, tt.expect)
			}
			if got := tt.v.LengthSq(); got != tt.expect*tt.expect {
				t.Errorf("%v.LengthSq() = %v, want %v", tt.v, got, tt.expect*tt.expect)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := V3(3, 4, 0).Normalize()
	if !v.Approx(V3(0.6, 0.8, 0), 1e-6) {
		t.Errorf("Normalize = %v, want (0.6, 0.8, 0)", v)
	}

	// Zero vector stays zero instead of producing NaN.
	z := V3(0, 0, 0).Normalize()
	if !z.IsZero() {
		t.Errorf("Normalize of zero vector = %v, want zero", z)
	}
}

func TestVec3_Distance(t *testing.T) {
	if d := V3(0, 0, 0).Distance(V3(3, 4, 0)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestVec3_Dot(t *testing.T) {
	tests := []struct {
		name   string
		v, w   Vec3
		expect float32
	}{
		{"orthogonal", V3(1, 0, 0), V3(0, 1, 0), 0},
		{"parallel", V3(1, 2, 3), V3(1, 2, 3), 14},
		{"opposite", V3(1, 0, 0), V3(-1, 0, 0), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Dot(tt.w); got != tt.expect {
				t.Errorf("%v.Dot(%v) = %v, want %v", tt.v, tt.w, got, tt.expect)
			}
		})
	}
}
