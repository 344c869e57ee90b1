package imu

import (
	"math"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
)

// Raw represents a single raw accel+gyro sample in sensor counts.
type Raw struct {
	Source string `json:"source"`

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

type RawSource interface {
	ReadRaw() (Raw, error)
}

// Sample is a physical-unit reading ready for fusion: accelerometer in g,
// gyroscope in rad/s, both in the body frame.
type Sample struct {
	Accel ahrs.Vector3 `json:"accel"`
	Gyro  ahrs.Vector3 `json:"gyro"`
}

// Scale converts raw counts to physical units for the configured
// full-scale ranges.
type Scale struct {
	AccelLSBPerG  float64
	GyroLSBPerDPS float64
}

// ScaleForRanges returns the MPU-9250 sensitivities for the given range
// settings: accel 0-3 = ±2/4/8/16 g, gyro 0-3 = ±250/500/1000/2000 °/s.
func ScaleForRanges(accelRange, gyroRange byte) Scale {
	return Scale{
		AccelLSBPerG:  16384.0 / float64(int(1)<<accelRange),
		GyroLSBPerDPS: 131.0 / float64(int(1)<<gyroRange),
	}
}

const degToRad = math.Pi / 180.0

// ToSample converts a raw sample to physical units.
func (r Raw) ToSample(s Scale) Sample {
	return Sample{
		Accel: ahrs.Vector3{
			X: float64(r.Ax) / s.AccelLSBPerG,
			Y: float64(r.Ay) / s.AccelLSBPerG,
			Z: float64(r.Az) / s.AccelLSBPerG,
		},
		Gyro: ahrs.Vector3{
			X: float64(r.Gx) / s.GyroLSBPerDPS * degToRad,
			Y: float64(r.Gy) / s.GyroLSBPerDPS * degToRad,
			Z: float64(r.Gz) / s.GyroLSBPerDPS * degToRad,
		},
	}
}
