// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"

	"github.com/geomstats-ml/geomstats/tensor"
)

// UnsupportedOperationError reports an operation the active engine or
// manifold cannot perform.
type UnsupportedOperationError = tensor.UnsupportedOperationError

// NotOnManifoldError reports an input point that fails the manifold's
// membership test where an operation requires membership.
type NotOnManifoldError struct {
	Manifold string
	Tol      float64
	Detail   string
}

func (e *NotOnManifoldError) Error() string {
	msg := fmt.Sprintf("point does not belong to %s (tol %g)", e.Manifold, e.Tol)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// LogMapConvergenceError reports that the iterative log-map solver exhausted
// its iteration budget before the residual dropped below tolerance.
// FailedIndices identifies which batch elements did not converge, so callers
// with batched inputs can retry or drop individual points.
type LogMapConvergenceError struct {
	Iterations    int
	Tol           float64
	Residual      float64
	FailedIndices []int
}

func (e *LogMapConvergenceError) Error() string {
	return fmt.Sprintf(
		"log map did not converge after %d iterations (residual %g, tol %g, failed batch indices %v)",
		e.Iterations, e.Residual, e.Tol, e.FailedIndices)
}

// IntegrationDivergedError reports that the geodesic integrator could not
// keep the local error below tolerance within its step-halving budget.
type IntegrationDivergedError struct {
	Step       int
	StepSize   float64
	LocalError float64
	Tol        float64
}

func (e *IntegrationDivergedError) Error() string {
	return fmt.Sprintf(
		"geodesic integration diverged at step %d (step size %g, local error %g, tol %g)",
		e.Step, e.StepSize, e.LocalError, e.Tol)
}
