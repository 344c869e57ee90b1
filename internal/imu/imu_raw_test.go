package imu

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func TestScaleForRanges(t *testing.T) {
	cases := []struct {
		accelRange, gyroRange byte
		wantAccel, wantGyro   float64
	}{
		{0, 0, 16384.0, 131.0},
		{1, 1, 8192.0, 65.5},
		{2, 2, 4096.0, 32.75},
		{3, 3, 2048.0, 16.375},
	}
	for _, tc := range cases {
		s := ScaleForRanges(tc.accelRange, tc.gyroRange)
		if s.AccelLSBPerG != tc.wantAccel {
			t.Errorf("accel range %d: got %g LSB/g, want %g", tc.accelRange, s.AccelLSBPerG, tc.wantAccel)
		}
		if s.GyroLSBPerDPS != tc.wantGyro {
			t.Errorf("gyro range %d: got %g LSB/(°/s), want %g", tc.gyroRange, s.GyroLSBPerDPS, tc.wantGyro)
		}
	}
}

func TestToSample(t *testing.T) {
	// ±2 g, ±250 °/s: 16384 counts = 1 g, 131 counts = 1 °/s.
	s := ScaleForRanges(0, 0)
	raw := Raw{Source: "left", Ax: 16384, Ay: -8192, Az: 0, Gx: 131, Gy: 0, Gz: -262}
	got := raw.ToSample(s)

	if math.Abs(got.Accel.X-1.0) > tolerance ||
		math.Abs(got.Accel.Y+0.5) > tolerance ||
		math.Abs(got.Accel.Z) > tolerance {
		t.Errorf("accel: got %+v, want (1, -0.5, 0) g", got.Accel)
	}

	oneDeg := math.Pi / 180.0
	if math.Abs(got.Gyro.X-oneDeg) > tolerance ||
		math.Abs(got.Gyro.Y) > tolerance ||
		math.Abs(got.Gyro.Z+2*oneDeg) > tolerance {
		t.Errorf("gyro: got %+v, want (1, 0, -2) °/s in rad/s", got.Gyro)
	}
}
