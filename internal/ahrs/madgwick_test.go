package ahrs

import (
	"math"
	"math/rand"
	"testing"
)

// normTolerance allows for the approximate inverse square root used by the
// renormalisation step.
const normTolerance = 1e-2

func quatNormSq(q Quaternion) float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// gravityEstimate returns the direction of gravity in the body frame as
// predicted by the orientation estimate.
func gravityEstimate(q Quaternion) (x, y, z float64) {
	x = 2 * (q.X*q.Z - q.W*q.Y)
	y = 2 * (q.W*q.X + q.Y*q.Z)
	z = q.W*q.W - q.X*q.X - q.Y*q.Y + q.Z*q.Z
	return x, y, z
}

func TestNewStartsAtIdentity(t *testing.T) {
	f := NewDefault()
	q := f.Quaternion()
	if q.W != 1 || q.X != 0 || q.Y != 0 || q.Z != 0 {
		t.Errorf("fresh filter: got %+v, want identity", q)
	}
}

func TestInvSqrtAccuracy(t *testing.T) {
	inputs := []float64{0.25, 0.5, 1.0, 2.0, 3.7, 100.0, 1e-6, 1e6}
	for _, x := range inputs {
		got := invSqrt(x)
		want := 1 / math.Sqrt(x)
		relErr := math.Abs(got-want) / want
		if relErr > 0.002 {
			t.Errorf("invSqrt(%g): got %g, want %g (rel err %g)", x, got, want, relErr)
		}
	}
}

func TestZeroInputStability(t *testing.T) {
	f := NewDefault()
	start := f.Quaternion()
	for i := 0; i < 100; i++ {
		q := f.Update(Vector3{}, Vector3{})
		if math.Abs(q.W-start.W) > normTolerance ||
			math.Abs(q.X-start.X) > normTolerance ||
			math.Abs(q.Y-start.Y) > normTolerance ||
			math.Abs(q.Z-start.Z) > normTolerance {
			t.Fatalf("call %d: quaternion drifted from %+v to %+v with zero input", i, start, q)
		}
	}
}

func TestUnitNormAfterEveryUpdate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	f := New(0.01, 0.1)
	for i := 0; i < 2000; i++ {
		gyro := Vector3{
			X: rng.Float64()*4 - 2,
			Y: rng.Float64()*4 - 2,
			Z: rng.Float64()*4 - 2,
		}
		accel := Vector3{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		q := f.Update(gyro, accel)
		if n := quatNormSq(q); math.Abs(n-1) > normTolerance {
			t.Fatalf("call %d: |q|^2 = %g, want 1 within %g", i, n, normTolerance)
		}
	}
}

func TestAccelerometerPullsTowardGravity(t *testing.T) {
	cases := []struct {
		name  string
		accel Vector3
	}{
		{"x axis", Vector3{X: 1}},
		{"yz diagonal", Vector3{Y: 2, Z: 2}},
		{"negative y", Vector3{Y: -9.81}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New(0.01, 0.1)
			for i := 0; i < 5000; i++ {
				f.Update(Vector3{}, tc.accel)
			}

			mag := math.Sqrt(tc.accel.X*tc.accel.X + tc.accel.Y*tc.accel.Y + tc.accel.Z*tc.accel.Z)
			wantX := tc.accel.X / mag
			wantY := tc.accel.Y / mag
			wantZ := tc.accel.Z / mag

			gx, gy, gz := gravityEstimate(f.Quaternion())
			const tol = 0.02
			if math.Abs(gx-wantX) > tol || math.Abs(gy-wantY) > tol || math.Abs(gz-wantZ) > tol {
				t.Errorf("estimated gravity (%g, %g, %g), want (%g, %g, %g) within %g",
					gx, gy, gz, wantX, wantY, wantZ, tol)
			}
		})
	}
}

// TestGyroOnlyUpdate feeds one gyro sample with a zero accelerometer
// reading through a default filter and checks the result against direct
// integration of the quaternion kinematics.
func TestGyroOnlyUpdate(t *testing.T) {
	f := NewDefault()
	got := f.Update(Vector3{X: 0.05, Y: 0.065, Z: 0.9}, Vector3{})

	if got == Identity() {
		t.Fatal("gyro integration left the quaternion at identity")
	}
	if n := quatNormSq(got); math.Abs(n-1) > normTolerance {
		t.Errorf("|q|^2 = %g, want 1 within %g", n, normTolerance)
	}

	// Expected state from exact arithmetic: integrate 0.5*q0*gyro over one
	// default sample period, then normalise.
	w := 1.0
	x := 0.5 * 0.05 * DefaultSamplePeriod
	y := 0.5 * 0.065 * DefaultSamplePeriod
	z := 0.5 * 0.9 * DefaultSamplePeriod
	n := math.Sqrt(w*w + x*x + y*y + z*z)

	const tol = 5e-3
	if math.Abs(got.W-w/n) > tol || math.Abs(got.X-x/n) > tol ||
		math.Abs(got.Y-y/n) > tol || math.Abs(got.Z-z/n) > tol {
		t.Errorf("got %+v, want (%g, %g, %g, %g) within %g",
			got, w/n, x/n, y/n, z/n, tol)
	}

	if f.Quaternion() != got {
		t.Errorf("internal state %+v does not match returned value %+v", f.Quaternion(), got)
	}
}

func TestResetRestoresIdentity(t *testing.T) {
	f := NewDefault()
	f.Update(Vector3{X: 0.3, Y: -0.2, Z: 1.1}, Vector3{Z: 1})
	f.Reset()
	if q := f.Quaternion(); q != Identity() {
		t.Errorf("after reset: got %+v, want identity", q)
	}
}

func BenchmarkUpdate(b *testing.B) {
	f := New(0.01, 0.1)
	gyro := Vector3{X: 0.05, Y: 0.065, Z: 0.9}
	accel := Vector3{X: 0.02, Y: -0.01, Z: 0.98}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Update(gyro, accel)
	}
}

func BenchmarkInvSqrt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		invSqrt(2.0)
	}
}
