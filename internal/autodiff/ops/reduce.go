package ops

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// SumOp records y = sum(x) over all elements.
type SumOp struct{ base }

// NewSumOp records a full reduction.
func NewSumOp(x, out *tensor.RawTensor) *SumOp {
	return &SumOp{base{inputs: []*tensor.RawTensor{x}, output: out}}
}

// Backward: the scalar gradient spreads uniformly over the input.
func (op *SumOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	return []*tensor.RawTensor{
		backend.Mul(onesLike(x, backend), grad), // broadcast scalar grad
	}
}

// SumDimOp records y = sum(x, dim).
type SumDimOp struct {
	base
	dim     int
	keepDim bool
}

// NewSumDimOp records a dimension reduction.
func NewSumDimOp(x, out *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{base{inputs: []*tensor.RawTensor{x}, output: out}, dim, keepDim}
}

// Backward: restore the reduced dimension, then broadcast the gradient
// along it.
func (op *SumDimOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	g := grad
	if !op.keepDim {
		dim := op.dim
		if dim < 0 {
			dim = len(x.Shape()) + dim
		}
		g = backend.Unsqueeze(g, dim)
	}
	return []*tensor.RawTensor{backend.Mul(onesLike(x, backend), g)}
}

// MeanDimOp records y = mean(x, dim).
type MeanDimOp struct {
	base
	dim     int
	keepDim bool
}

// NewMeanDimOp records a dimension average.
func NewMeanDimOp(x, out *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{base{inputs: []*tensor.RawTensor{x}, output: out}, dim, keepDim}
}

// Backward: like SumDim scaled by 1/size(dim).
func (op *MeanDimOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	dim := op.dim
	if dim < 0 {
		dim = len(x.Shape()) + dim
	}
	g := grad
	if !op.keepDim {
		g = backend.Unsqueeze(g, dim)
	}
	g = backend.DivScalar(g, float64(x.Shape()[dim]))
	return []*tensor.RawTensor{backend.Mul(onesLike(x, backend), g)}
}
