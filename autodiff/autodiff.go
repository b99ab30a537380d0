// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides the differentiable compute engine.
//
// It implements reverse-mode automatic differentiation using a gradient
// tape, wrapping any other engine to add the capability.
//
// Example:
//
//	import (
//	    "github.com/geomstats-ml/geomstats/autodiff"
//	    "github.com/geomstats-ml/geomstats/backend/cpu"
//	    "github.com/geomstats-ml/geomstats/tensor"
//	)
//
//	func main() {
//	    engine := autodiff.New(cpu.New())
//	    x, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, engine)
//
//	    grad, err := autodiff.Gradient(func(p *tensor.RawTensor) *tensor.RawTensor {
//	        return engine.Sum(engine.Mul(p, p)) // f(p) = sum(p²)
//	    }, x.Raw(), engine)
//	    // grad = 2p
//	    _, _ = grad, err
//	}
package autodiff

import (
	internalautodiff "github.com/geomstats-ml/geomstats/internal/autodiff"
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Backend is the differentiable engine wrapping an inner engine B.
type Backend[B tensor.Backend] = internalautodiff.Backend[B]

// New creates a differentiable engine wrapping the given engine.
//
// Example:
//
//	base := cpu.New()
//	engine := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return internalautodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = internalautodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return internalautodiff.NewGradientTape()
}

// Differentiable is the capability interface satisfied by engines that can
// compute gradients.
type Differentiable = internalautodiff.Differentiable

// Gradient computes df/dx for a scalar-valued f at x. The engine must be
// differentiable; otherwise an UnsupportedOperationError is returned.
func Gradient(f func(*tensor.RawTensor) *tensor.RawTensor, x *tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, error) {
	return internalautodiff.Gradient(f, x, backend)
}
