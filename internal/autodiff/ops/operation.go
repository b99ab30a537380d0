// Package ops defines the recorded operations of the differentiable engine
// and their backward rules.
package ops

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Operation is one recorded step of a forward computation. Backward receives
// the gradient of the loss with respect to the operation's output and
// returns the gradients with respect to each input, in input order.
type Operation interface {
	Inputs() []*tensor.RawTensor
	Output() *tensor.RawTensor
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor
}

// base carries the operands every operation stores.
type base struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func (b *base) Inputs() []*tensor.RawTensor { return b.inputs }
func (b *base) Output() *tensor.RawTensor   { return b.output }

// reduceToShape sums grad over broadcast dimensions so that it matches the
// original operand shape. Required whenever the forward pass broadcast an
// operand: the gradient of a stretched dimension is the sum over it.
func reduceToShape(grad *tensor.RawTensor, shape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	g := grad

	// Collapse extra leading dimensions.
	for len(g.Shape()) > len(shape) {
		g = backend.SumDim(g, 0, false)
	}

	// Sum over stretched size-1 dimensions.
	for i, d := range shape {
		if d == 1 && g.Shape()[i] != 1 {
			g = backend.SumDim(g, i, true)
		}
	}

	if !g.Shape().Equal(shape) {
		g = backend.Reshape(g, shape)
	}
	return g
}

// onesLike returns a tensor of ones with x's shape and dtype.
func onesLike(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return tensor.FullRaw(x.Shape(), 1, x.DType(), backend)
}
