// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"

	"github.com/geomstats-ml/geomstats/tensor"
)

// Euclidean is the flat d-dimensional space. Every geometric operation is
// trivial; it exists so estimator code can treat flat and curved spaces
// uniformly, and it anchors the metric fallbacks in tests.
type Euclidean struct {
	dim     int
	backend tensor.Backend
	metric  *EuclideanMetric
}

// NewEuclidean creates the d-dimensional Euclidean space on the given
// engine.
func NewEuclidean(dim int, backend tensor.Backend) (*Euclidean, error) {
	if dim < 1 {
		return nil, fmt.Errorf("euclidean: dimension must be positive, got %d", dim)
	}
	space := &Euclidean{dim: dim, backend: backend}
	space.metric = newEuclideanMetric(space)
	return space, nil
}

// Dim is the intrinsic dimension.
func (s *Euclidean) Dim() int { return s.dim }

// AmbientDim equals the intrinsic dimension: the space embeds itself.
func (s *Euclidean) AmbientDim() int { return s.dim }

// Metric returns the flat metric bound to this space.
func (s *Euclidean) Metric() *EuclideanMetric { return s.metric }

// Belongs accepts every point of matching dimension.
func (s *Euclidean) Belongs(point *tensor.RawTensor, tol float64) (*tensor.RawTensor, error) {
	if err := checkAmbient("belongs", point, s.dim); err != nil {
		return nil, err
	}
	p := atLeast2D(s.backend, point)
	return boolRow(p.Shape()[0], true, s.backend)
}

// Projection is the identity.
func (s *Euclidean) Projection(point *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("projection", point, s.dim); err != nil {
		return nil, err
	}
	return atLeast2D(s.backend, point), nil
}

// ToTangent is the identity: the tangent space is the space itself.
func (s *Euclidean) ToTangent(vector, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("to_tangent", vector, s.dim); err != nil {
		return nil, err
	}
	return atLeast2D(s.backend, vector), nil
}

// RandomPoint samples from the standard normal distribution.
func (s *Euclidean) RandomPoint(nSamples int) (*tensor.RawTensor, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("euclidean: nSamples must be positive, got %d", nSamples)
	}
	return s.backend.RandNormal(tensor.Shape{nSamples, s.dim}, tensor.Float64), nil
}

// boolRow builds a [n] Bool tensor with every element set to v.
func boolRow(n int, v bool, b tensor.Backend) (*tensor.RawTensor, error) {
	raw, err := tensor.NewRaw(tensor.Shape{n}, tensor.Bool, b.Device())
	if err != nil {
		return nil, err
	}
	data := raw.AsBool()
	for i := range data {
		data[i] = v
	}
	return raw, nil
}

// EuclideanMetric is the flat metric: the exponential map is vector
// addition and geodesics are straight lines.
type EuclideanMetric struct {
	Base
	space   *Euclidean
	backend tensor.Backend
}

func newEuclideanMetric(space *Euclidean) *EuclideanMetric {
	m := &EuclideanMetric{space: space, backend: space.backend}
	m.Base = NewBase(m, space, space.backend)
	return m
}

// InnerProduct is the canonical dot product; the base point is ignored.
func (m *EuclideanMetric) InnerProduct(tangentVecA, tangentVecB, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	b := m.backend
	a := atLeast2D(b, tangentVecA)
	c := atLeast2D(b, tangentVecB)
	return squeezeScalar(b, rowInner(b, a, c)), nil
}

// Exp is vector addition.
func (m *EuclideanMetric) Exp(tangentVec, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("exp", tangentVec, m.space.dim); err != nil {
		return nil, err
	}
	b := m.backend
	return b.Add(atLeast2D(b, basePoint), atLeast2D(b, tangentVec)), nil
}

// Log is vector subtraction.
func (m *EuclideanMetric) Log(point, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("log", point, m.space.dim); err != nil {
		return nil, err
	}
	b := m.backend
	return b.Sub(atLeast2D(b, point), atLeast2D(b, basePoint)), nil
}

// GeodesicAcceleration is identically zero: flat geodesics are straight
// lines.
func (m *EuclideanMetric) GeodesicAcceleration(x, v *tensor.RawTensor) (*tensor.RawTensor, error) {
	p := atLeast2D(m.backend, x)
	return tensor.FullRaw(p.Shape(), 0, p.DType(), m.backend), nil
}

// ParallelTransport is the identity: flat space has trivial holonomy.
func (m *EuclideanMetric) ParallelTransport(tangentVec, basePoint, direction *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("parallel_transport", tangentVec, m.space.dim); err != nil {
		return nil, err
	}
	return atLeast2D(m.backend, tangentVec), nil
}
