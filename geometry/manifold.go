// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"github.com/geomstats-ml/geomstats/tensor"
)

// Manifold is the capability set every manifold implements, independent of
// the compute engine: membership test, projection onto the manifold,
// tangent-space projection and random sampling.
//
// Points and tangent vectors are plain tensors whose trailing dimensions
// match the manifold's embedding shape. A manifold is stateless beyond its
// dimension parameters and is safe for concurrent use after construction.
type Manifold interface {
	// Dim is the intrinsic dimension.
	Dim() int

	// AmbientDim is the dimension of the embedding space. For matrix
	// manifolds this is the flattened matrix size.
	AmbientDim() int

	// Belongs reports per batch element whether the point satisfies the
	// manifold's defining constraint within tol. The result is a Bool
	// tensor with one entry per batch element.
	Belongs(point *tensor.RawTensor, tol float64) (*tensor.RawTensor, error)

	// Projection maps an ambient point onto the manifold.
	Projection(point *tensor.RawTensor) (*tensor.RawTensor, error)

	// ToTangent projects an ambient vector onto the tangent space at
	// basePoint.
	ToTangent(vector, basePoint *tensor.RawTensor) (*tensor.RawTensor, error)

	// RandomPoint samples nSamples points that satisfy Belongs. The
	// sampling distribution is manifold-specific and documented on each
	// implementation; it is not uniform unless stated.
	RandomPoint(nSamples int) (*tensor.RawTensor, error)
}

// allTrue reports whether every element of a Bool tensor is true.
func allTrue(t *tensor.RawTensor) bool {
	for _, v := range t.AsBool() {
		if !v {
			return false
		}
	}
	return true
}
