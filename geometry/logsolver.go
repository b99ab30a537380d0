// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"go.uber.org/zap"

	"github.com/geomstats-ml/geomstats/tensor"
)

// LogSolver inverts an exponential map iteratively, for metrics without a
// closed-form log. It runs a damped shooting iteration: starting from the
// ambient difference projected onto the tangent space, each step corrects
// the candidate tangent by the projected residual between the target point
// and where the candidate currently shoots.
//
// The iteration is deterministic for a fixed initial guess. Convergence is
// checked per batch element on the Euclidean residual norm; exhausting
// MaxIter yields a *LogMapConvergenceError naming the batch elements that
// did not converge.
type LogSolver struct {
	// MaxIter bounds the iteration count. MaxIter=0 fails immediately.
	MaxIter int

	// Tol is the residual norm below which an element counts as converged.
	Tol float64

	// Damping scales the correction step. 1 works for the manifolds in
	// this package; reduce it for strongly curved metrics.
	Damping float64

	logger *zap.Logger
}

// Solver defaults. Tol matches the membership tolerance so a solved log
// shoots back onto the target within Belongs precision.
const (
	DefaultLogSolverMaxIter = 32
	DefaultLogSolverTol     = DefaultTol
)

// NewLogSolver creates a solver with the default budgets.
func NewLogSolver() *LogSolver {
	return &LogSolver{
		MaxIter: DefaultLogSolverMaxIter,
		Tol:     DefaultLogSolverTol,
		Damping: 1,
		logger:  zap.NewNop(),
	}
}

// SetLogger installs a logger for convergence diagnostics.
func (s *LogSolver) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Solve computes log(point, basePoint) for the given metric by shooting
// with the metric's Exp. The manifold supplies the tangent projection.
func (s *LogSolver) Solve(metric Metric, manifold Manifold, point, basePoint *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
	p := atLeast2D(b, point)
	base := atLeast2D(b, basePoint)
	batch := p.Shape()[0]

	// Initial guess: the ambient chord projected onto the tangent space.
	candidate, err := manifold.ToTangent(b.Sub(p, base), base)
	if err != nil {
		return nil, err
	}

	if s.MaxIter == 0 {
		return nil, &LogMapConvergenceError{
			Iterations:    0,
			Tol:           s.Tol,
			FailedIndices: allIndices(batch),
		}
	}

	var worst float64
	for iter := 0; iter < s.MaxIter; iter++ {
		shot, err := metric.Exp(candidate, base)
		if err != nil {
			return nil, err
		}
		residual, err := manifold.ToTangent(b.Sub(p, shot), base)
		if err != nil {
			return nil, err
		}

		norms := squeezeScalar(b, rowNorm(b, residual))
		failed := failedIndices(norms, s.Tol)
		worst = maxNorm(norms)
		if len(failed) == 0 {
			if iter > 0 {
				s.logger.Debug("log map converged",
					zap.Int("iterations", iter+1),
					zap.Float64("residual", worst),
				)
			}
			return candidate, nil
		}

		candidate = b.Add(candidate, b.MulScalar(residual, s.Damping))
	}

	// Final check: the last correction may have pushed the residual
	// below tolerance.
	shot, err := metric.Exp(candidate, base)
	if err != nil {
		return nil, err
	}
	residual, err := manifold.ToTangent(b.Sub(p, shot), base)
	if err != nil {
		return nil, err
	}
	norms := squeezeScalar(b, rowNorm(b, residual))
	failed := failedIndices(norms, s.Tol)
	worst = maxNorm(norms)
	if len(failed) == 0 {
		return candidate, nil
	}

	s.logger.Warn("log map did not converge",
		zap.Int("max_iter", s.MaxIter),
		zap.Float64("residual", worst),
		zap.Ints("failed_indices", failed),
	)
	return nil, &LogMapConvergenceError{
		Iterations:    s.MaxIter,
		Tol:           s.Tol,
		Residual:      worst,
		FailedIndices: failed,
	}
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func failedIndices(norms *tensor.RawTensor, tol float64) []int {
	var failed []int
	n := norms.NumElements()
	for i := 0; i < n; i++ {
		if norms.FloatAt(i) > tol {
			failed = append(failed, i)
		}
	}
	return failed
}

func maxNorm(norms *tensor.RawTensor) float64 {
	var worst float64
	n := norms.NumElements()
	for i := 0; i < n; i++ {
		if v := norms.FloatAt(i); v > worst {
			worst = v
		}
	}
	return worst
}
