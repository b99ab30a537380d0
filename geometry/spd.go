// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"
	"math"

	"github.com/geomstats-ml/geomstats/tensor"
)

// SPD is the manifold of symmetric positive-definite n x n matrices,
// defined implicitly by symmetry and eigenvalue positivity. Points are
// [*, n, n] tensors.
type SPD struct {
	n       int
	backend tensor.Backend
	metric  *SPDAffineMetric
}

// NewSPD creates the manifold of n x n SPD matrices on the given engine.
func NewSPD(n int, backend tensor.Backend) (*SPD, error) {
	if n < 1 {
		return nil, fmt.Errorf("spd: matrix size must be positive, got %d", n)
	}
	manifold := &SPD{n: n, backend: backend}
	manifold.metric = newSPDAffineMetric(manifold)
	return manifold, nil
}

// Dim is the intrinsic dimension, n(n+1)/2.
func (s *SPD) Dim() int { return s.n * (s.n + 1) / 2 }

// AmbientDim is the flattened matrix size.
func (s *SPD) AmbientDim() int { return s.n * s.n }

// N is the matrix size.
func (s *SPD) N() int { return s.n }

// Metric returns the affine-invariant metric bound to this manifold.
func (s *SPD) Metric() *SPDAffineMetric { return s.metric }

// Belongs checks symmetry within tol and strict eigenvalue positivity,
// per batch element.
func (s *SPD) Belongs(point *tensor.RawTensor, tol float64) (*tensor.RawTensor, error) {
	if err := checkSquare("belongs", point, s.n); err != nil {
		return nil, err
	}
	b := s.backend
	p := atLeast3D(b, point)
	batch := p.Shape()[0]

	asym := b.Abs(b.Sub(p, transposeLast(b, p)))
	maxAsym := b.MaxDim(b.MaxDim(asym, -1, false), -1, false) // [batch]

	eigenvalues, _ := b.SymEig(symmetrize(b, p))
	minEig := b.Neg(b.MaxDim(b.Neg(eigenvalues), -1, false)) // [batch]

	result, err := boolRow(batch, false, b)
	if err != nil {
		return nil, err
	}
	out := result.AsBool()
	for i := 0; i < batch; i++ {
		out[i] = maxAsym.FloatAt(i) <= tol && minEig.FloatAt(i) > 0
	}
	return result, nil
}

// Projection symmetrizes the matrix and floors its eigenvalues at a small
// positive value, yielding the nearest SPD matrix up to the floor.
func (s *SPD) Projection(point *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("projection", point, s.n); err != nil {
		return nil, err
	}
	b := s.backend
	sym := symmetrize(b, atLeast3D(b, point))
	return symFunc(b, sym, func(vals *tensor.RawTensor) *tensor.RawTensor {
		return b.Clip(vals, epsilon, math.Inf(1))
	}), nil
}

// ToTangent symmetrizes: the tangent space of SPD at any point is the
// space of symmetric matrices.
func (s *SPD) ToTangent(vector, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("to_tangent", vector, s.n); err != nil {
		return nil, err
	}
	return symmetrize(s.backend, atLeast3D(s.backend, vector)), nil
}

// RandomPoint samples as the matrix exponential of a random symmetric
// matrix with Gaussian entries. The distribution is not uniform in any
// canonical sense; it is a convenient full-support sampler.
func (s *SPD) RandomPoint(nSamples int) (*tensor.RawTensor, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("spd: nSamples must be positive, got %d", nSamples)
	}
	b := s.backend
	gaussian := b.RandNormal(tensor.Shape{nSamples, s.n, s.n}, tensor.Float64)
	return symExpm(b, symmetrize(b, gaussian)), nil
}

// SPDAffineMetric is the affine-invariant metric on SPD matrices:
// distances are invariant under congruence by invertible matrices. All
// operations have closed forms through the eigendecomposition.
type SPDAffineMetric struct {
	Base
	manifoldSPD *SPD
	backend     tensor.Backend
}

func newSPDAffineMetric(manifold *SPD) *SPDAffineMetric {
	m := &SPDAffineMetric{manifoldSPD: manifold, backend: manifold.backend}
	m.Base = NewBase(m, manifold, manifold.backend)
	return m
}

// InnerProduct is tr(p^-1 a p^-1 b), computed through the inverse square
// root of the base point.
func (m *SPDAffineMetric) InnerProduct(tangentVecA, tangentVecB, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("inner_product", tangentVecA, m.manifoldSPD.n); err != nil {
		return nil, err
	}
	b := m.backend
	a := atLeast3D(b, tangentVecA)
	c := atLeast3D(b, tangentVecB)
	p := atLeast3D(b, basePoint)

	invSqrt := symPowm(b, p, -0.5)
	ma := b.MatMul(b.MatMul(invSqrt, a), invSqrt)
	mc := b.MatMul(b.MatMul(invSqrt, c), invSqrt)
	return frobeniusInner(b, ma, mc), nil
}

// Exp is p^1/2 expm(p^-1/2 v p^-1/2) p^1/2.
func (m *SPDAffineMetric) Exp(tangentVec, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("exp", tangentVec, m.manifoldSPD.n); err != nil {
		return nil, err
	}
	b := m.backend
	v := atLeast3D(b, tangentVec)
	p := atLeast3D(b, basePoint)

	sqrt := symPowm(b, p, 0.5)
	invSqrt := symPowm(b, p, -0.5)
	middle := symExpm(b, symmetrize(b, b.MatMul(b.MatMul(invSqrt, v), invSqrt)))
	return b.MatMul(b.MatMul(sqrt, middle), sqrt), nil
}

// Log is p^1/2 logm(p^-1/2 q p^-1/2) p^1/2.
func (m *SPDAffineMetric) Log(point, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("log", point, m.manifoldSPD.n); err != nil {
		return nil, err
	}
	// The matrix logarithm is undefined off the manifold; failing early beats
	// returning NaNs from a negative spectrum.
	member, err := m.manifoldSPD.Belongs(point, DefaultTol)
	if err != nil {
		return nil, err
	}
	if !allTrue(member) {
		return nil, &NotOnManifoldError{
			Manifold: fmt.Sprintf("SPD(%d)", m.manifoldSPD.n),
			Tol:      DefaultTol,
			Detail:   "matrix logarithm requires a symmetric positive definite argument",
		}
	}
	b := m.backend
	q := atLeast3D(b, point)
	p := atLeast3D(b, basePoint)

	sqrt := symPowm(b, p, 0.5)
	invSqrt := symPowm(b, p, -0.5)
	middle := symLogm(b, symmetrize(b, b.MatMul(b.MatMul(invSqrt, q), invSqrt)))
	return b.MatMul(b.MatMul(sqrt, middle), sqrt), nil
}

// SquaredDist is the squared Frobenius norm of logm(p^-1/2 q p^-1/2).
func (m *SPDAffineMetric) SquaredDist(pointA, pointB *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("squared_dist", pointA, m.manifoldSPD.n); err != nil {
		return nil, err
	}
	b := m.backend
	p := atLeast3D(b, pointA)
	q := atLeast3D(b, pointB)

	invSqrt := symPowm(b, p, -0.5)
	middle := symLogm(b, symmetrize(b, b.MatMul(b.MatMul(invSqrt, q), invSqrt)))
	return frobeniusInner(b, middle, middle), nil
}

// ParallelTransport has the closed form E v E^T with
// E = p^1/2 (p^-1/2 q p^-1/2)^1/2 p^-1/2, where q is the endpoint of the
// geodesic from basePoint in the given direction.
func (m *SPDAffineMetric) ParallelTransport(tangentVec, basePoint, direction *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("parallel_transport", tangentVec, m.manifoldSPD.n); err != nil {
		return nil, err
	}
	b := m.backend
	v := atLeast3D(b, tangentVec)
	p := atLeast3D(b, basePoint)

	endpoint, err := m.Exp(direction, basePoint)
	if err != nil {
		return nil, err
	}

	sqrt := symPowm(b, p, 0.5)
	invSqrt := symPowm(b, p, -0.5)
	middle := symPowm(b, symmetrize(b, b.MatMul(b.MatMul(invSqrt, endpoint), invSqrt)), 0.5)
	e := b.MatMul(b.MatMul(sqrt, middle), invSqrt)
	return b.MatMul(b.MatMul(e, v), transposeLast(b, e)), nil
}

// Matrix helpers shared by SPD and the rotation group.

// transposeLast swaps the trailing two axes, keeping batch axes in place.
func transposeLast(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	ndim := len(x.Shape())
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = i
	}
	axes[ndim-2], axes[ndim-1] = axes[ndim-1], axes[ndim-2]
	return b.Transpose(x, axes...)
}

// symmetrize returns (x + x^T) / 2.
func symmetrize(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	return b.MulScalar(b.Add(x, transposeLast(b, x)), 0.5)
}

// frobeniusInner sums the elementwise product over the trailing matrix
// dimensions, yielding one scalar per batch element.
func frobeniusInner(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.SumDim(b.SumDim(b.Mul(x, y), -1, false), -1, false)
}

// symFunc applies a spectral function to a batch of symmetric matrices:
// eigendecompose, transform the eigenvalues, reassemble V diag(f(vals)) V^T.
func symFunc(b tensor.Backend, x *tensor.RawTensor, f func(vals *tensor.RawTensor) *tensor.RawTensor) *tensor.RawTensor {
	eigenvalues, eigenvectors := b.SymEig(x)
	transformed := f(eigenvalues)
	diag := embedDiag(b, transformed)
	return b.MatMul(b.MatMul(eigenvectors, diag), transposeLast(b, eigenvectors))
}

// symExpm is the matrix exponential of a symmetric matrix.
func symExpm(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	return symFunc(b, x, func(vals *tensor.RawTensor) *tensor.RawTensor {
		return b.Exp(vals)
	})
}

// symLogm is the matrix logarithm of an SPD matrix.
func symLogm(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	return symFunc(b, x, func(vals *tensor.RawTensor) *tensor.RawTensor {
		return b.Log(vals)
	})
}

// symPowm is the matrix power of an SPD matrix, exp(power * log(vals))
// on the spectrum.
func symPowm(b tensor.Backend, x *tensor.RawTensor, power float64) *tensor.RawTensor {
	return symFunc(b, x, func(vals *tensor.RawTensor) *tensor.RawTensor {
		return b.PowScalar(vals, power)
	})
}

// embedDiag builds [batch, n, n] diagonal matrices from [batch, n]
// eigenvalues.
func embedDiag(b tensor.Backend, vals *tensor.RawTensor) *tensor.RawTensor {
	shape := vals.Shape()
	n := shape[len(shape)-1]
	batch := 1
	for _, d := range shape[:len(shape)-1] {
		batch *= d
	}

	outShape := append(append(tensor.Shape{}, shape...), n)
	out, err := tensor.NewRaw(outShape, vals.DType(), b.Device())
	if err != nil {
		panic(err)
	}
	for i := 0; i < batch; i++ {
		for j := 0; j < n; j++ {
			out.SetFloatAt(i*n*n+j*n+j, vals.FloatAt(i*n+j))
		}
	}
	return out
}
