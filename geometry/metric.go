// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"go.uber.org/zap"

	"github.com/geomstats-ml/geomstats/tensor"
)

// Geodesic is a lazy curve parameterized by time in [0, 1]. Each call
// evaluates one point on demand, so arbitrary time resolutions are
// supported without recomputing the path.
type Geodesic func(t float64) (*tensor.RawTensor, error)

// Metric is a Riemannian metric bound to exactly one manifold. Its
// operations are stateless and reduce to the inner product: squared
// distance is the inner product of the log with itself, distance its
// square root, geodesics evaluate the exponential map at scaled tangents.
//
// Every concrete metric overrides the operations it has closed forms for;
// the Base fallbacks cover the rest.
type Metric interface {
	// InnerProduct evaluates the metric tensor on two tangent vectors at
	// a base point. Bilinear, symmetric and positive-definite in each
	// tangent fiber. Returns one scalar per batch element.
	InnerProduct(tangentVecA, tangentVecB, basePoint *tensor.RawTensor) (*tensor.RawTensor, error)

	// Exp moves basePoint along the geodesic defined by tangentVec.
	Exp(tangentVec, basePoint *tensor.RawTensor) (*tensor.RawTensor, error)

	// Log is the inverse of Exp in a neighborhood of basePoint: it
	// returns the tangent vector at basePoint whose geodesic reaches
	// point at time 1. Metrics without a closed form solve it
	// iteratively and return *LogMapConvergenceError when the solver
	// budget is exhausted.
	Log(point, basePoint *tensor.RawTensor) (*tensor.RawTensor, error)

	// SquaredDist is the squared geodesic distance, one scalar per batch
	// element. Symmetric under argument swap up to numerical tolerance
	// and zero iff the points coincide.
	SquaredDist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error)

	// Dist is the geodesic distance, the square root of SquaredDist.
	Dist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error)

	// Geodesic returns the lazy curve from initialPoint to endPoint.
	Geodesic(initialPoint, endPoint *tensor.RawTensor) (Geodesic, error)

	// GeodesicFromTangent returns the lazy curve leaving initialPoint
	// with velocity initialTangent.
	GeodesicFromTangent(initialPoint, initialTangent *tensor.RawTensor) (Geodesic, error)

	// ParallelTransport moves tangentVec along the geodesic leaving
	// basePoint in the given direction, preserving it with respect to
	// the metric's connection.
	ParallelTransport(tangentVec, basePoint, direction *tensor.RawTensor) (*tensor.RawTensor, error)
}

// DefaultTransportSteps is the default rung count for the Schild's ladder
// parallel transport fallback.
const DefaultTransportSteps = 16

// Base provides the generic fallbacks of the Metric contract, reducing
// every derived operation to InnerProduct, Exp and Log of the concrete
// metric it is embedded in. The back-reference makes the fallbacks pick up
// closed-form overrides: Base.SquaredDist on the sphere calls the sphere's
// Log, not a solver.
//
// Concrete metrics embed Base and must implement InnerProduct, Exp and Log
// themselves (directly or through the numerical solvers).
type Base struct {
	metric   Metric
	manifold Manifold
	backend  tensor.Backend
	logger   *zap.Logger

	// TransportSteps is the rung count of the Schild's ladder fallback.
	// The transport error shrinks as the rung count grows; each rung
	// costs two Exp and two Log evaluations.
	TransportSteps int

	// Solver inverts Exp iteratively for metrics without a closed-form
	// Log. Budgets are caller-overridable through its fields.
	Solver *LogSolver

	// Integrator advances the geodesic equation for metrics without a
	// closed-form Exp; it requires the concrete metric to implement
	// CurvatureRHS.
	Integrator *GeodesicIntegrator
}

// NewBase wires the generic fallbacks to a concrete metric and its
// manifold, pinned to one engine.
func NewBase(metric Metric, manifold Manifold, backend tensor.Backend) Base {
	return Base{
		metric:         metric,
		manifold:       manifold,
		backend:        backend,
		logger:         zap.NewNop(),
		TransportSteps: DefaultTransportSteps,
		Solver:         NewLogSolver(),
		Integrator:     NewGeodesicIntegrator(),
	}
}

// Exp is the numerical fallback: it integrates the geodesic equation when
// the concrete metric supplies its curvature via CurvatureRHS. Metrics
// with a closed form override this.
func (m *Base) Exp(tangentVec, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	rhs, ok := m.metric.(CurvatureRHS)
	if !ok {
		return nil, &UnsupportedOperationError{
			Op:      "exp",
			Backend: m.backend.Name(),
			Reason:  "metric has neither a closed-form exp nor a CurvatureRHS implementation",
		}
	}
	return m.Integrator.Exp(rhs, tangentVec, basePoint, m.backend)
}

// Log is the numerical fallback: it inverts the concrete metric's Exp with
// the iterative solver. Metrics with a closed form override this.
func (m *Base) Log(point, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	return m.Solver.Solve(m.metric, m.manifold, point, basePoint, m.backend)
}

// SetLogger installs a logger for solver diagnostics. Defaults to no-op.
func (m *Base) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Backend returns the engine this metric is pinned to.
func (m *Base) Backend() tensor.Backend {
	return m.backend
}

// Manifold returns the bound manifold.
func (m *Base) Manifold() Manifold {
	return m.manifold
}

// SquaredDist falls back to ⟨log(b, a), log(b, a)⟩ at a.
func (m *Base) SquaredDist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error) {
	logAB, err := m.metric.Log(pointB, pointA)
	if err != nil {
		return nil, err
	}
	return m.metric.InnerProduct(logAB, logAB, pointA)
}

// Dist is the square root of SquaredDist.
func (m *Base) Dist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error) {
	sq, err := m.metric.SquaredDist(pointA, pointB)
	if err != nil {
		return nil, err
	}
	return m.backend.Sqrt(sq), nil
}

// Geodesic connects initialPoint to endPoint by solving the log map once,
// then evaluating Exp at scaled tangents on demand.
func (m *Base) Geodesic(initialPoint, endPoint *tensor.RawTensor) (Geodesic, error) {
	initialTangent, err := m.metric.Log(endPoint, initialPoint)
	if err != nil {
		return nil, err
	}
	return m.metric.GeodesicFromTangent(initialPoint, initialTangent)
}

// GeodesicFromTangent evaluates gamma(t) = Exp(t·v, p) lazily.
func (m *Base) GeodesicFromTangent(initialPoint, initialTangent *tensor.RawTensor) (Geodesic, error) {
	p := atLeast2D(m.backend, initialPoint)
	v := atLeast2D(m.backend, initialTangent)
	return func(t float64) (*tensor.RawTensor, error) {
		return m.metric.Exp(m.backend.MulScalar(v, t), p)
	}, nil
}

// ParallelTransport approximates the connection with a Schild's ladder:
// the geodesic from basePoint in the given direction is discretized into
// TransportSteps rungs, and the vector is carried across each rung by the
// geodesic parallelogram construction. The carried vector is shrunk by the
// rung count so each parallelogram stays small in both directions, then
// rescaled at the end; the error vanishes as TransportSteps grows.
//
// Metrics with a closed-form transport override this.
func (m *Base) ParallelTransport(tangentVec, basePoint, direction *tensor.RawTensor) (*tensor.RawTensor, error) {
	b := m.backend
	steps := m.TransportSteps
	if steps < 1 {
		steps = 1
	}

	gamma, err := m.metric.GeodesicFromTangent(basePoint, direction)
	if err != nil {
		return nil, err
	}

	current := atLeast2D(b, basePoint)
	vec := b.MulScalar(atLeast2D(b, tangentVec), 1/float64(steps))

	for i := 1; i <= steps; i++ {
		next, err := gamma(float64(i) / float64(steps))
		if err != nil {
			return nil, err
		}

		// Parallelogram rung: reflect the tip of the vector through the
		// midpoint of (tip, next), then read the transported vector at next.
		tip, err := m.metric.Exp(vec, current)
		if err != nil {
			return nil, err
		}
		toNext, err := m.metric.Log(next, tip)
		if err != nil {
			return nil, err
		}
		mid, err := m.metric.Exp(b.MulScalar(toNext, 0.5), tip)
		if err != nil {
			return nil, err
		}
		diag, err := m.metric.Log(mid, current)
		if err != nil {
			return nil, err
		}
		opposite, err := m.metric.Exp(b.MulScalar(diag, 2), current)
		if err != nil {
			return nil, err
		}
		vec, err = m.metric.Log(opposite, next)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return b.MulScalar(vec, float64(steps)), nil
}
