package ops

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// ReshapeOp records y = reshape(x). Also used for Squeeze/Unsqueeze, which
// are reshapes at the memory level.
//
// Reshape creates a new tensor on our engines, so it must be recorded:
// without it, gradients computed for the reshaped view never reach the
// original operand.
type ReshapeOp struct{ base }

// NewReshapeOp records a reshape.
func NewReshapeOp(x, out *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{base{inputs: []*tensor.RawTensor{x}, output: out}}
}

// Backward: reshape the gradient back to the input shape.
func (op *ReshapeOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(grad, op.inputs[0].Shape())}
}

// TransposeOp records y = transpose(x, axes).
type TransposeOp struct {
	base
	axes []int
}

// NewTransposeOp records an axis permutation.
func NewTransposeOp(x, out *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{base{inputs: []*tensor.RawTensor{x}, output: out}, axes}
}

// Backward: apply the inverse permutation to the gradient.
func (op *TransposeOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(grad, inverse...)}
}

// ExpandOp records y = expand(x, shape).
type ExpandOp struct{ base }

// NewExpandOp records a broadcast expansion.
func NewExpandOp(x, out *tensor.RawTensor) *ExpandOp {
	return &ExpandOp{base{inputs: []*tensor.RawTensor{x}, output: out}}
}

// Backward: sum the gradient over the stretched dimensions.
func (op *ExpandOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{reduceToShape(grad, op.inputs[0].Shape(), backend)}
}

// WhereOp records y = where(cond, a, b). The condition itself gets no
// gradient.
type WhereOp struct {
	base
	cond *tensor.RawTensor
}

// NewWhereOp records a conditional selection.
func NewWhereOp(cond, a, b, out *tensor.RawTensor) *WhereOp {
	return &WhereOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}, cond}
}

// Backward: the gradient routes to whichever operand was selected.
func (op *WhereOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	zero := tensor.FullRaw(grad.Shape(), 0, grad.DType(), backend)
	return []*tensor.RawTensor{
		reduceToShape(backend.Where(op.cond, grad, zero), a.Shape(), backend),
		reduceToShape(backend.Where(op.cond, zero, grad), b.Shape(), backend),
	}
}
