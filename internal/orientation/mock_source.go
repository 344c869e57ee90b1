// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
)

type mockSource struct {
	filter *ahrs.Filter
	step   int
	period float64
}

// NewMockSource creates an orientation source that runs the fusion filter
// on synthetic sensor data, so the full pipeline can be exercised without
// hardware or a broker.
func NewMockSource() Source {
	const samplePeriod = 0.1 // matches the mock tick rate
	return &mockSource{
		filter: ahrs.New(samplePeriod, ahrs.DefaultBeta),
		period: samplePeriod,
	}
}

func (m *mockSource) Next() (Pose, error) {
	t := float64(m.step) * m.period
	m.step++

	// Slow tumble: sinusoidal body rates plus a steady 1 g pointing down.
	gyro := ahrs.Vector3{
		X: 0.3 * math.Sin(t),
		Y: 0.2 * math.Cos(t*0.7),
		Z: 0.1,
	}
	accel := ahrs.Vector3{Z: 1}

	q := m.filter.Update(gyro, accel)
	return PoseFromQuaternion(q), nil
}
