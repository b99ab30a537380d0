// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/geomstats-ml/geomstats/tensor"
)

// Taylor coefficients of x/sin(x) and x/tan(x) around 0, used where the
// closed-form log map divides by a vanishing angle.
var (
	invSinTaylor = [4]float64{1.0 / 6.0, 7.0 / 360.0, 31.0 / 15120.0, 127.0 / 604800.0}
	invTanTaylor = [4]float64{-1.0 / 3.0, -1.0 / 45.0, -2.0 / 945.0, -1.0 / 4725.0}
)

// Hypersphere is the unit n-sphere embedded in (n+1)-dimensional Euclidean
// space. Points are represented by their extrinsic (n+1)-coordinates.
type Hypersphere struct {
	dim     int
	backend tensor.Backend
	logger  *zap.Logger
	metric  *HypersphereMetric
}

// NewHypersphere creates the n-dimensional unit sphere on the given engine.
func NewHypersphere(dim int, backend tensor.Backend) (*Hypersphere, error) {
	if dim < 1 {
		return nil, fmt.Errorf("hypersphere: dimension must be positive, got %d", dim)
	}
	sphere := &Hypersphere{dim: dim, backend: backend, logger: zap.NewNop()}
	sphere.metric = newHypersphereMetric(sphere)
	return sphere, nil
}

// Dim is the intrinsic dimension.
func (s *Hypersphere) Dim() int { return s.dim }

// AmbientDim is the embedding dimension, dim+1.
func (s *Hypersphere) AmbientDim() int { return s.dim + 1 }

// Metric returns the round metric bound to this sphere.
func (s *Hypersphere) Metric() *HypersphereMetric { return s.metric }

// SetLogger installs a logger for coordinate warnings. Defaults to no-op.
func (s *Hypersphere) SetLogger(l *zap.Logger) {
	s.logger = l
	s.metric.SetLogger(l)
}

// Belongs reports per batch element whether the squared Euclidean norm of
// the point is 1 within tol. Points with the intrinsic dimension instead of
// the extrinsic one are rejected with a logged warning, since that is
// almost always a caller mixing coordinate systems.
func (s *Hypersphere) Belongs(point *tensor.RawTensor, tol float64) (*tensor.RawTensor, error) {
	shape := point.Shape()
	if len(shape) == 0 {
		return nil, &tensor.ShapeError{Op: "belongs", A: shape, Detail: "scalar input"}
	}
	pointDim := shape[len(shape)-1]
	p := atLeast2D(s.backend, point)
	if pointDim != s.dim+1 {
		if pointDim == s.dim {
			s.logger.Warn("use the extrinsic coordinates to represent points on the hypersphere",
				zap.Int("got_dim", pointDim),
				zap.Int("want_dim", s.dim+1),
			)
		}
		return boolRow(p.Shape()[0], false, s.backend)
	}

	b := s.backend
	sqNorm := rowInner(b, p, p)
	diff := b.Abs(b.SubScalar(sqNorm, 1))
	return squeezeScalar(b, lessEqualScalar(b, diff, tol)), nil
}

// Projection maps a point of the ambient space onto the sphere by
// normalizing it.
func (s *Hypersphere) Projection(point *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("projection", point, s.dim+1); err != nil {
		return nil, err
	}
	b := s.backend
	p := atLeast2D(b, point)
	return b.Div(p, rowNorm(b, p)), nil
}

// ToTangent removes the component of the vector along the base point,
// leaving the projection onto the tangent plane.
func (s *Hypersphere) ToTangent(vector, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("to_tangent", vector, s.dim+1); err != nil {
		return nil, err
	}
	if err := checkAmbient("to_tangent", basePoint, s.dim+1); err != nil {
		return nil, err
	}
	b := s.backend
	v := atLeast2D(b, vector)
	p := atLeast2D(b, basePoint)

	coef := b.Div(rowInner(b, p, v), rowInner(b, p, p))
	return b.Sub(v, b.Mul(coef, p)), nil
}

// IntrinsicToExtrinsic converts intrinsic n-coordinates to extrinsic
// (n+1)-coordinates, reconstructing the first coordinate from the unit
// constraint.
func (s *Hypersphere) IntrinsicToExtrinsic(pointIntrinsic *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("intrinsic_to_extrinsic", pointIntrinsic, s.dim); err != nil {
		return nil, err
	}
	b := s.backend
	p := atLeast2D(b, pointIntrinsic)

	coord0 := b.Sqrt(b.Neg(b.SubScalar(rowInner(b, p, p), 1)))
	return b.Cat([]*tensor.RawTensor{coord0, p}, 1), nil
}

// ExtrinsicToIntrinsic drops the first extrinsic coordinate.
func (s *Hypersphere) ExtrinsicToIntrinsic(pointExtrinsic *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("extrinsic_to_intrinsic", pointExtrinsic, s.dim+1); err != nil {
		return nil, err
	}
	b := s.backend
	p := atLeast2D(b, pointExtrinsic)
	n := p.Shape()[0]

	out, err := tensor.NewRaw(tensor.Shape{n, s.dim}, p.DType(), b.Device())
	if err != nil {
		return nil, err
	}
	width := s.dim + 1
	for i := 0; i < n; i++ {
		for j := 0; j < s.dim; j++ {
			out.SetFloatAt(i*s.dim+j, p.FloatAt(i*width+j+1))
		}
	}
	return out, nil
}

// RandomPoint samples by drawing intrinsic coordinates uniformly from a
// cube scaled to stay inside the unit ball, then lifting them to extrinsic
// coordinates. The resulting distribution is NOT uniform with respect to
// the round measure; use RandomUniform for that.
func (s *Hypersphere) RandomPoint(nSamples int) (*tensor.RawTensor, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("hypersphere: nSamples must be positive, got %d", nSamples)
	}
	b := s.backend

	// Cube half-width 1/(2*sqrt(dim)) keeps the intrinsic norm below 1.
	scale := 1.0 / math.Sqrt(float64(s.dim))
	cube := b.MulScalar(b.SubScalar(b.RandUniform(tensor.Shape{nSamples, s.dim}, tensor.Float64), 0.5), scale)
	return s.IntrinsicToExtrinsic(cube)
}

// RandomUniform samples uniformly with respect to the round measure by
// projecting standard Gaussian vectors onto the sphere.
func (s *Hypersphere) RandomUniform(nSamples int) (*tensor.RawTensor, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("hypersphere: nSamples must be positive, got %d", nSamples)
	}
	gaussian := s.backend.RandNormal(tensor.Shape{nSamples, s.dim + 1}, tensor.Float64)
	return s.Projection(gaussian)
}

// RandomVonMisesFisher samples the 2-sphere from the von Mises-Fisher
// distribution with concentration kappa, centered at the north pole.
// Only implemented for dimension 2.
func (s *Hypersphere) RandomVonMisesFisher(kappa float64, nSamples int) (*tensor.RawTensor, error) {
	if s.dim != 2 {
		return nil, &UnsupportedOperationError{
			Op:      "random_von_mises_fisher",
			Backend: s.backend.Name(),
			Reason:  fmt.Sprintf("only implemented in dimension 2, manifold has dimension %d", s.dim),
		}
	}
	if nSamples < 1 {
		return nil, fmt.Errorf("hypersphere: nSamples must be positive, got %d", nSamples)
	}
	b := s.backend

	angle := b.MulScalar(b.RandUniform(tensor.Shape{nSamples, 1}, tensor.Float64), 2*math.Pi)
	unitVector := b.Cat([]*tensor.RawTensor{b.Cos(angle), b.Sin(angle)}, 1)

	// Inverse-CDF sampling of the z coordinate:
	// z = 1 + log(u + (1-u)exp(-2k)) / k, u uniform in [0, 1).
	u := b.RandUniform(tensor.Shape{nSamples, 1}, tensor.Float64)
	expNeg2Kappa := math.Exp(-2 * kappa)
	inner := b.AddScalar(b.MulScalar(u, 1-expNeg2Kappa), expNeg2Kappa)
	coordZ := b.AddScalar(b.DivScalar(b.Log(inner), kappa), 1)

	radius := b.Sqrt(b.Neg(b.SubScalar(b.Mul(coordZ, coordZ), 1)))
	coordXY := b.Mul(radius, unitVector)
	return b.Cat([]*tensor.RawTensor{coordXY, coordZ}, 1), nil
}

// HypersphereMetric is the round metric induced by the Euclidean embedding.
// Exp, Log, Dist and ParallelTransport have closed forms; Taylor expansions
// guard the log map where the angle between points vanishes.
type HypersphereMetric struct {
	Base
	sphere  *Hypersphere
	backend tensor.Backend
}

func newHypersphereMetric(sphere *Hypersphere) *HypersphereMetric {
	m := &HypersphereMetric{sphere: sphere, backend: sphere.backend}
	m.Base = NewBase(m, sphere, sphere.backend)
	return m
}

// InnerProduct restricts the Euclidean inner product of the embedding to
// the tangent plane.
func (m *HypersphereMetric) InnerProduct(tangentVecA, tangentVecB, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	b := m.backend
	a := atLeast2D(b, tangentVecA)
	c := atLeast2D(b, tangentVecB)
	return squeezeScalar(b, rowInner(b, a, c)), nil
}

// Exp follows the great circle: exp_p(v) = cos(|v|) p + sin(|v|)/|v| v.
func (m *HypersphereMetric) Exp(tangentVec, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("exp", tangentVec, m.sphere.dim+1); err != nil {
		return nil, err
	}
	if err := checkAmbient("exp", basePoint, m.sphere.dim+1); err != nil {
		return nil, err
	}
	b := m.backend
	v := atLeast2D(b, tangentVec)
	p := atLeast2D(b, basePoint)

	norm := b.AddScalar(rowNorm(b, v), epsilon)
	coef1 := b.Cos(norm)
	coef2 := b.Div(b.Sin(norm), norm)
	return b.Add(b.Mul(coef1, p), b.Mul(coef2, v)), nil
}

// Log inverts Exp: log_p(q) = (angle/sin angle) q - (angle/tan angle) p,
// with the angle read off the clipped cosine. Near angle 0 both
// coefficients switch to their Taylor expansions.
func (m *HypersphereMetric) Log(point, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("log", point, m.sphere.dim+1); err != nil {
		return nil, err
	}
	if err := checkAmbient("log", basePoint, m.sphere.dim+1); err != nil {
		return nil, err
	}
	b := m.backend
	q := atLeast2D(b, point)
	p := atLeast2D(b, basePoint)

	angle := m.angleBetween(p, q)
	mask0 := b.Lower(angle, tensor.FullRaw(angle.Shape(), epsilon, angle.DType(), b))

	// Safe denominators: angle is replaced by 1 where the Taylor branch is
	// selected, so the unselected branch never produces NaN.
	ones := tensor.FullRaw(angle.Shape(), 1, angle.DType(), b)
	angleSafe := b.Where(mask0, ones, angle)

	sinAngle := b.Sin(angleSafe)
	tanAngle := b.Div(sinAngle, b.Cos(angleSafe))

	coef1 := b.Where(mask0, taylorSeries(b, angle, invSinTaylor), b.Div(angle, sinAngle))
	coef2 := b.Where(mask0, taylorSeries(b, angle, invTanTaylor), b.Div(angle, tanAngle))

	return b.Sub(b.Mul(coef1, q), b.Mul(coef2, p)), nil
}

// Dist is the arc length: the angle between the two points.
func (m *HypersphereMetric) Dist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("dist", pointA, m.sphere.dim+1); err != nil {
		return nil, err
	}
	if err := checkAmbient("dist", pointB, m.sphere.dim+1); err != nil {
		return nil, err
	}
	b := m.backend
	a := atLeast2D(b, pointA)
	c := atLeast2D(b, pointB)
	return squeezeScalar(b, m.angleBetween(a, c)), nil
}

// SquaredDist is the squared angle.
func (m *HypersphereMetric) SquaredDist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error) {
	d, err := m.Dist(pointA, pointB)
	if err != nil {
		return nil, err
	}
	return m.backend.Mul(d, d), nil
}

// ParallelTransport moves the vector along the great circle leaving
// basePoint in the given direction. Closed form: with u the unit direction
// and theta its length,
//
//	v' = v + <u, v> ((cos theta - 1) u - sin theta p).
func (m *HypersphereMetric) ParallelTransport(tangentVec, basePoint, direction *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("parallel_transport", tangentVec, m.sphere.dim+1); err != nil {
		return nil, err
	}
	b := m.backend
	v := atLeast2D(b, tangentVec)
	p := atLeast2D(b, basePoint)
	w := atLeast2D(b, direction)

	theta := b.AddScalar(rowNorm(b, w), epsilon)
	u := b.Div(w, theta)
	uv := rowInner(b, u, v)

	shift := b.Sub(
		b.Mul(b.SubScalar(b.Cos(theta), 1), u),
		b.Mul(b.Sin(theta), p),
	)
	return b.Add(v, b.Mul(uv, shift)), nil
}

// GeodesicAcceleration supplies the sphere's geodesic equation for the
// numerical integrator: x'' = -<v, v> x on the unit sphere.
func (m *HypersphereMetric) GeodesicAcceleration(x, v *tensor.RawTensor) (*tensor.RawTensor, error) {
	b := m.backend
	position := atLeast2D(b, x)
	velocity := atLeast2D(b, v)
	speedSq := rowInner(b, velocity, velocity)
	return b.Neg(b.Mul(speedSq, position)), nil
}

// angleBetween computes the geodesic angle [n, 1] from the clipped cosine,
// tolerating slightly off-sphere points by normalizing.
func (m *HypersphereMetric) angleBetween(p, q *tensor.RawTensor) *tensor.RawTensor {
	b := m.backend
	cosAngle := b.Div(rowInner(b, p, q), b.Mul(rowNorm(b, p), rowNorm(b, q)))
	return b.Acos(b.Clip(cosAngle, -1, 1))
}

// taylorSeries evaluates 1 + c0 x^2 + c1 x^4 + c2 x^6 + c3 x^8.
func taylorSeries(b tensor.Backend, x *tensor.RawTensor, coeffs [4]float64) *tensor.RawTensor {
	x2 := b.Mul(x, x)
	acc := tensor.FullRaw(x.Shape(), 1, x.DType(), b)
	power := x2
	for _, c := range coeffs {
		acc = b.Add(acc, b.MulScalar(power, c))
		power = b.Mul(power, x2)
	}
	return acc
}
