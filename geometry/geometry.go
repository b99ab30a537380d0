// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package geometry provides differential-geometry primitives over
// non-Euclidean manifolds: membership tests, tangent projections,
// exponential and logarithmic maps, geodesics, distances and parallel
// transport.
//
// All code in this package talks to the compute engine exclusively through
// the tensor.Backend facade, so every manifold runs unmodified on the cpu,
// parallel and autodiff engines. Manifolds and metrics are pinned to the
// engine they are constructed with; they never re-resolve the registry.
//
// Every operation vectorizes over an optional leading batch dimension:
// a single point of shape [d] is treated as a batch [1, d], and outputs are
// always batched ([n, d] for points and tangent vectors, [n] for scalars).
//
// Example:
//
//	engine := backend.Active()
//	sphere, _ := geometry.NewHypersphere(2, engine)
//	metric := sphere.Metric()
//
//	p, _ := tensor.FromFloat64s([]float64{1, 0, 0}, tensor.Shape{3}, engine)
//	v, _ := tensor.FromFloat64s([]float64{0, 1, 0}, tensor.Shape{3}, engine)
//	q, err := metric.Exp(v, p) // (cos 1, sin 1, 0)
package geometry

import (
	"github.com/geomstats-ml/geomstats/tensor"
)

const (
	// DefaultTol is the default tolerance for membership tests and solver
	// convergence checks.
	DefaultTol = 1e-6

	// epsilon guards divisions by vector norms near zero.
	epsilon = 1e-8
)

// atLeast2D promotes a single point [d] to a batch [1, d].
func atLeast2D(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	if len(x.Shape()) == 1 {
		return b.Unsqueeze(x, 0)
	}
	return x
}

// atLeast3D promotes a single matrix [n, n] to a batch [1, n, n].
func atLeast3D(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	if len(x.Shape()) == 2 {
		return b.Unsqueeze(x, 0)
	}
	return x
}

// rowInner computes the Euclidean inner product along the last dimension,
// keeping it as size 1 so the result broadcasts against the operands.
func rowInner(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.SumDim(b.Mul(x, y), -1, true)
}

// rowNorm computes the Euclidean norm along the last dimension, kept.
func rowNorm(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	return b.Sqrt(rowInner(b, x, x))
}

// squeezeScalar drops the kept reduction dimension, turning [n, 1] into [n].
func squeezeScalar(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	return b.Squeeze(x, -1)
}

// lessEqualScalar builds the Bool mask x <= s. The facade exposes strict
// comparisons only, so the mask is the inverted Greater, written into a
// fresh tensor rather than through the engine result's buffer.
func lessEqualScalar(b tensor.Backend, x *tensor.RawTensor, s float64) *tensor.RawTensor {
	greater := b.Greater(x, tensor.FullRaw(x.Shape(), s, x.DType(), b))
	mask, err := tensor.NewRaw(greater.Shape(), tensor.Bool, b.Device())
	if err != nil {
		panic(err)
	}
	src, dst := greater.AsBool(), mask.AsBool()
	for i := range src {
		dst[i] = !src[i]
	}
	return mask
}

// checkAmbient validates that the trailing dimension of a point or tangent
// vector matches the manifold's ambient dimension.
func checkAmbient(op string, x *tensor.RawTensor, ambientDim int) error {
	shape := x.Shape()
	if len(shape) == 0 || shape[len(shape)-1] != ambientDim {
		return &tensor.ShapeError{
			Op:     op,
			A:      shape,
			B:      tensor.Shape{ambientDim},
			Detail: "trailing dimension must match the ambient dimension",
		}
	}
	return nil
}

// checkSquare validates that x is a [..., n, n] stack of square matrices.
func checkSquare(op string, x *tensor.RawTensor, n int) error {
	shape := x.Shape()
	if len(shape) < 2 || shape[len(shape)-1] != n || shape[len(shape)-2] != n {
		return &tensor.ShapeError{
			Op:     op,
			A:      shape,
			B:      tensor.Shape{n, n},
			Detail: "trailing dimensions must be a square matrix of the manifold size",
		}
	}
	return nil
}
