package ops

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// MatMulOp records c = a @ b (2D or batched).
type MatMulOp struct{ base }

// NewMatMulOp records a matrix multiplication.
func NewMatMulOp(a, b, out *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

// Backward: ∂L/∂a = ∂L/∂c @ bᵀ, ∂L/∂b = aᵀ @ ∂L/∂c, transposing the last
// two axes so batched operands keep their leading dimensions.
func (op *MatMulOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		backend.MatMul(grad, transposeLast(b, backend)),
		backend.MatMul(transposeLast(a, backend), grad),
	}
}

// transposeLast swaps the trailing two axes, keeping batch axes in place.
func transposeLast(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	ndim := len(t.Shape())
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = i
	}
	axes[ndim-2], axes[ndim-1] = axes[ndim-1], axes[ndim-2]
	return backend.Transpose(t, axes...)
}
