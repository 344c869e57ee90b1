// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"fmt"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
)

// One-shot demonstration of the fusion filter: a single gyro sample with
// no usable accelerometer reading, printed as the four quaternion
// components.
func main() {
	filter := ahrs.NewDefault()

	q := filter.Update(
		ahrs.Vector3{X: 0.05, Y: 0.065, Z: 0.9},
		ahrs.Vector3{},
	)

	fmt.Printf("Quaternion = %g, %g, %g, %g\n", q.W, q.X, q.Y, q.Z)
}
