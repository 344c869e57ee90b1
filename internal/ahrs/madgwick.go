// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package ahrs fuses gyroscope and accelerometer readings into an
// orientation quaternion using Madgwick's gradient-descent IMU filter.
package ahrs

import "math"

// Filter tuning defaults. The sample period is the reciprocal of the
// conventional 66.6 Hz-ish tuning constant; beta is the proportional gain
// blending the accelerometer correction against gyro integration.
const (
	DefaultSamplePeriod = 1.0 / 0.015
	DefaultBeta         = 0.1
)

// Filter holds the live orientation estimate for one sensor stream.
// Update mutates the estimate in place; callers sharing one instance across
// goroutines must serialize their calls.
type Filter struct {
	samplePeriod float64 // seconds between Update calls
	beta         float64
	q            Quaternion
}

// New returns a filter starting at the identity rotation. samplePeriod and
// beta must be positive and are fixed for the lifetime of the filter.
func New(samplePeriod, beta float64) *Filter {
	return &Filter{
		samplePeriod: samplePeriod,
		beta:         beta,
		q:            Identity(),
	}
}

// NewDefault returns a filter with the default tuning.
func NewDefault() *Filter {
	return New(DefaultSamplePeriod, DefaultBeta)
}

// Quaternion returns the current orientation estimate.
func (f *Filter) Quaternion() Quaternion {
	return f.q
}

// Reset restores the identity rotation. This is the only recovery path once
// non-finite sensor input has corrupted the state.
func (f *Filter) Reset() {
	f.q = Identity()
}

// Update advances the orientation by one sample period from a gyroscope
// reading (rad/s) and an accelerometer reading, and returns the new
// estimate. An all-zero accelerometer sample disables the gravity
// correction for this step, leaving pure gyro integration; normalising a
// zero vector would divide by zero and poison every later state.
func (f *Filter) Update(gyro, accel Vector3) Quaternion {
	q0, q1, q2, q3 := f.q.W, f.q.X, f.q.Y, f.q.Z

	// Rate of change of quaternion from the gyroscope: 0.5 * q ⊗ (0, gyro).
	qDot1 := 0.5 * (-q1*gyro.X - q2*gyro.Y - q3*gyro.Z)
	qDot2 := 0.5 * (q0*gyro.X + q2*gyro.Z - q3*gyro.Y)
	qDot3 := 0.5 * (q0*gyro.Y - q1*gyro.Z + q3*gyro.X)
	qDot4 := 0.5 * (q0*gyro.Z + q1*gyro.Y - q2*gyro.X)

	if !(accel.X == 0 && accel.Y == 0 && accel.Z == 0) {
		// Normalise the accelerometer measurement.
		recipNorm := invSqrt(accel.X*accel.X + accel.Y*accel.Y + accel.Z*accel.Z)
		ax := accel.X * recipNorm
		ay := accel.Y * recipNorm
		az := accel.Z * recipNorm

		// Auxiliary variables to avoid repeated arithmetic.
		twoQ0 := 2 * q0
		twoQ1 := 2 * q1
		twoQ2 := 2 * q2
		twoQ3 := 2 * q3
		fourQ0 := 4 * q0
		fourQ1 := 4 * q1
		fourQ2 := 4 * q2
		eightQ1 := 8 * q1
		eightQ2 := 8 * q2
		q0q0 := q0 * q0
		q1q1 := q1 * q1
		q2q2 := q2 * q2
		q3q3 := q3 * q3

		// Gradient of the error between estimated and measured gravity.
		s0 := fourQ0*q2q2 + twoQ2*ax + fourQ0*q1q1 - twoQ1*ay
		s1 := fourQ1*q3q3 - twoQ3*ax + 4*q0q0*q1 - twoQ0*ay - fourQ1 + eightQ1*q1q1 + eightQ1*q2q2 + fourQ1*az
		s2 := 4*q0q0*q2 + twoQ0*ax + fourQ2*q3q3 - twoQ3*ay - fourQ2 + eightQ2*q1q1 + eightQ2*q2q2 + fourQ2*az
		s3 := 4*q1q1*q3 - twoQ1*ax + 4*q2q2*q3 - twoQ2*ay
		recipNorm = invSqrt(s0*s0 + s1*s1 + s2*s2 + s3*s3)

		// Feedback step pulling the estimate toward measured gravity.
		qDot1 -= f.beta * s0 * recipNorm
		qDot2 -= f.beta * s1 * recipNorm
		qDot3 -= f.beta * s2 * recipNorm
		qDot4 -= f.beta * s3 * recipNorm
	}

	// Integrate the rate of change and renormalise.
	q0 += qDot1 * f.samplePeriod
	q1 += qDot2 * f.samplePeriod
	q2 += qDot3 * f.samplePeriod
	q3 += qDot4 * f.samplePeriod
	recipNorm := invSqrt(q0*q0 + q1*q1 + q2*q2 + q3*q3)

	f.q = Quaternion{
		W: q0 * recipNorm,
		X: q1 * recipNorm,
		Y: q2 * recipNorm,
		Z: q3 * recipNorm,
	}
	return f.q
}

// invSqrt approximates 1/sqrt(x) by reinterpreting the float's bits for a
// seed and refining with one Newton-Raphson step. Relative error stays
// under about 0.17%, which the normalisation steps tolerate. x must be
// positive, which holds because callers only pass sums of squares.
func invSqrt(x float64) float64 {
	i := math.Float64bits(x)
	i = 0x5FE6EB50C7B537A9 - (i >> 1)
	y := math.Float64frombits(i)
	return y * (1.5 - 0.5*x*y*y)
}
