package orientation

import (
	"math"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
)

// Pose is the Euler-angle view of an orientation, in degrees. It is the
// human-readable companion to the quaternion published on the wire.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time.
type Source interface {
	Next() (Pose, error)
}

const radToDeg = 180.0 / math.Pi

// PoseFromQuaternion converts an orientation quaternion to roll/pitch/yaw
// in degrees. Pitch is clamped to ±90° at the gimbal-lock singularity.
func PoseFromQuaternion(q ahrs.Quaternion) Pose {
	// Roll (x-axis rotation)
	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := math.Atan2(sinrCosp, cosrCosp)

	// Pitch (y-axis rotation)
	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	// Yaw (z-axis rotation)
	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := math.Atan2(sinyCosp, cosyCosp)

	return Pose{
		Roll:  roll * radToDeg,
		Pitch: pitch * radToDeg,
		Yaw:   yaw * radToDeg,
	}
}
