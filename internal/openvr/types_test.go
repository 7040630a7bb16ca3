package openvr

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{name: "already unit", in: Vec3{0, 0, -1}, want: Vec3{0, 0, -1}},
		{name: "axis scaled", in: Vec3{0, 3, 0}, want: Vec3{0, 1, 0}},
		{name: "zero untouched", in: Vec3{}, want: Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVec3NormalizeMagnitude(t *testing.T) {
	v := Vec3{X: 0.3, Y: -0.2, Z: -0.9}.Normalize()

	mag := math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
	if math.Abs(mag-1) > 1e-6 {
		t.Errorf("normalized magnitude = %v, want 1", mag)
	}
}

func TestDeviceClassString(t *testing.T) {
	if DeviceClassHMD.String() != "hmd" {
		t.Errorf("DeviceClassHMD.String() = %q", DeviceClassHMD.String())
	}
	if DeviceClass(99).String() != "invalid" {
		t.Errorf("unknown class should stringify as invalid")
	}
}
