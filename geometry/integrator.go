// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"go.uber.org/zap"

	"github.com/geomstats-ml/geomstats/tensor"
)

// CurvatureRHS supplies the right-hand side of the geodesic equation: the
// acceleration x'' = -Gamma(x)(v, v) induced by the metric's Christoffel
// symbols. Metrics with known curvature implement it so the integrator can
// advance geodesics without closed-form exp.
type CurvatureRHS interface {
	// GeodesicAcceleration evaluates the acceleration at position x with
	// velocity v, both batched.
	GeodesicAcceleration(x, v *tensor.RawTensor) (*tensor.RawTensor, error)
}

// GeodesicIntegrator advances the geodesic equation as the first-order
// system (x' = v, v' = a(x, v)) with classical RK4 steps. Each step is
// validated by step-doubling: a full step is compared against two half
// steps, and the step is halved until the discrepancy drops below Tol.
// A step that cannot meet Tol within MaxHalvings fails with
// *IntegrationDivergedError instead of returning diverged values.
type GeodesicIntegrator struct {
	// Steps is the base step count for integrating over [0, 1].
	Steps int

	// Tol bounds the local error estimate per step.
	Tol float64

	// MaxHalvings bounds how often a step may be halved.
	MaxHalvings int

	logger *zap.Logger
}

// Integrator defaults.
const (
	DefaultIntegratorSteps       = 100
	DefaultIntegratorTol         = DefaultTol
	DefaultIntegratorMaxHalvings = 16
)

// NewGeodesicIntegrator creates an integrator with the default budgets.
func NewGeodesicIntegrator() *GeodesicIntegrator {
	return &GeodesicIntegrator{
		Steps:       DefaultIntegratorSteps,
		Tol:         DefaultIntegratorTol,
		MaxHalvings: DefaultIntegratorMaxHalvings,
		logger:      zap.NewNop(),
	}
}

// SetLogger installs a logger for step diagnostics.
func (g *GeodesicIntegrator) SetLogger(l *zap.Logger) {
	g.logger = l
}

// Exp integrates the geodesic from basePoint with initial velocity
// tangentVec over t in [0, 1] and returns the endpoint. This is the
// numerical fallback for Metric.Exp when no closed form exists.
func (g *GeodesicIntegrator) Exp(rhs CurvatureRHS, tangentVec, basePoint *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
	x, _, err := g.Integrate(rhs, basePoint, tangentVec, 1, b)
	return x, err
}

// Integrate advances (x, v) from time 0 to time t and returns the final
// position and velocity.
func (g *GeodesicIntegrator) Integrate(rhs CurvatureRHS, x0, v0 *tensor.RawTensor, t float64, b tensor.Backend) (*tensor.RawTensor, *tensor.RawTensor, error) {
	steps := g.Steps
	if steps < 1 {
		steps = 1
	}
	h := t / float64(steps)

	x := atLeast2D(b, x0)
	v := atLeast2D(b, v0)

	for step := 0; step < steps; step++ {
		var err error
		x, v, err = g.advance(rhs, x, v, h, step, b)
		if err != nil {
			return nil, nil, err
		}
	}
	return x, v, nil
}

// Trajectory integrates over [0, t] and returns the positions after each
// base step, including the initial position: steps+1 points in total.
func (g *GeodesicIntegrator) Trajectory(rhs CurvatureRHS, x0, v0 *tensor.RawTensor, t float64, b tensor.Backend) ([]*tensor.RawTensor, error) {
	steps := g.Steps
	if steps < 1 {
		steps = 1
	}
	h := t / float64(steps)

	x := atLeast2D(b, x0)
	v := atLeast2D(b, v0)
	trajectory := make([]*tensor.RawTensor, 0, steps+1)
	trajectory = append(trajectory, x)

	for step := 0; step < steps; step++ {
		var err error
		x, v, err = g.advance(rhs, x, v, h, step, b)
		if err != nil {
			return nil, err
		}
		trajectory = append(trajectory, x)
	}
	return trajectory, nil
}

// advance moves one base step of size h. The step is integrated with
// substeps of size h/2^halvings, each validated by step-doubling; when any
// substep's error estimate exceeds Tol, the whole base step restarts at
// half the substep size.
func (g *GeodesicIntegrator) advance(rhs CurvatureRHS, x, v *tensor.RawTensor, h float64, step int, b tensor.Backend) (*tensor.RawTensor, *tensor.RawTensor, error) {
	size := h
	halvings := 0

	for {
		cx, cv := x, v
		accepted := true
		var localError float64

		substeps := 1 << halvings
		for i := 0; i < substeps; i++ {
			full, _, err := rk4Step(rhs, cx, cv, size, b)
			if err != nil {
				return nil, nil, err
			}
			halfX, halfV, err := rk4Step(rhs, cx, cv, size/2, b)
			if err != nil {
				return nil, nil, err
			}
			doubleX, doubleV, err := rk4Step(rhs, halfX, halfV, size/2, b)
			if err != nil {
				return nil, nil, err
			}

			localError = maxAbsDiff(b, full, doubleX)
			if localError > g.Tol {
				accepted = false
				break
			}
			cx, cv = doubleX, doubleV
		}
		if accepted {
			return cx, cv, nil
		}

		halvings++
		if halvings > g.MaxHalvings {
			g.logger.Warn("geodesic integration diverged",
				zap.Int("step", step),
				zap.Float64("step_size", size),
				zap.Float64("local_error", localError),
			)
			return nil, nil, &IntegrationDivergedError{
				Step:       step,
				StepSize:   size,
				LocalError: localError,
				Tol:        g.Tol,
			}
		}
		size /= 2
	}
}

// rk4Step is one classical Runge-Kutta step of the system
// x' = v, v' = a(x, v).
func rk4Step(rhs CurvatureRHS, x, v *tensor.RawTensor, h float64, b tensor.Backend) (*tensor.RawTensor, *tensor.RawTensor, error) {
	a1, err := rhs.GeodesicAcceleration(x, v)
	if err != nil {
		return nil, nil, err
	}
	k1x, k1v := v, a1

	x2 := b.Add(x, b.MulScalar(k1x, h/2))
	v2 := b.Add(v, b.MulScalar(k1v, h/2))
	a2, err := rhs.GeodesicAcceleration(x2, v2)
	if err != nil {
		return nil, nil, err
	}
	k2x, k2v := v2, a2

	x3 := b.Add(x, b.MulScalar(k2x, h/2))
	v3 := b.Add(v, b.MulScalar(k2v, h/2))
	a3, err := rhs.GeodesicAcceleration(x3, v3)
	if err != nil {
		return nil, nil, err
	}
	k3x, k3v := v3, a3

	x4 := b.Add(x, b.MulScalar(k3x, h))
	v4 := b.Add(v, b.MulScalar(k3v, h))
	a4, err := rhs.GeodesicAcceleration(x4, v4)
	if err != nil {
		return nil, nil, err
	}
	k4x, k4v := v4, a4

	newX := b.Add(x, b.MulScalar(rk4Combine(b, k1x, k2x, k3x, k4x), h/6))
	newV := b.Add(v, b.MulScalar(rk4Combine(b, k1v, k2v, k3v, k4v), h/6))
	return newX, newV, nil
}

// rk4Combine is k1 + 2 k2 + 2 k3 + k4.
func rk4Combine(b tensor.Backend, k1, k2, k3, k4 *tensor.RawTensor) *tensor.RawTensor {
	return b.Add(b.Add(k1, b.MulScalar(k2, 2)), b.Add(b.MulScalar(k3, 2), k4))
}

// maxAbsDiff is the largest absolute elementwise difference.
func maxAbsDiff(b tensor.Backend, x, y *tensor.RawTensor) float64 {
	diff := b.Abs(b.Sub(x, y))
	var worst float64
	n := diff.NumElements()
	for i := 0; i < n; i++ {
		if v := diff.FloatAt(i); v > worst {
			worst = v
		}
	}
	return worst
}
