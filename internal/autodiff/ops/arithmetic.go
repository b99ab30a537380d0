package ops

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// AddOp records c = a + b.
type AddOp struct{ base }

// NewAddOp records an element-wise addition.
func NewAddOp(a, b, out *tensor.RawTensor) *AddOp {
	return &AddOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

// Backward: ∂c/∂a = 1, ∂c/∂b = 1 (summed over broadcast dims).
func (op *AddOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceToShape(grad, op.inputs[0].Shape(), backend),
		reduceToShape(grad, op.inputs[1].Shape(), backend),
	}
}

// SubOp records c = a - b.
type SubOp struct{ base }

// NewSubOp records an element-wise subtraction.
func NewSubOp(a, b, out *tensor.RawTensor) *SubOp {
	return &SubOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

// Backward: ∂c/∂a = 1, ∂c/∂b = -1.
func (op *SubOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceToShape(grad, op.inputs[0].Shape(), backend),
		reduceToShape(backend.Neg(grad), op.inputs[1].Shape(), backend),
	}
}

// MulOp records c = a * b.
type MulOp struct{ base }

// NewMulOp records an element-wise multiplication.
func NewMulOp(a, b, out *tensor.RawTensor) *MulOp {
	return &MulOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

// Backward: ∂c/∂a = b, ∂c/∂b = a.
func (op *MulOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		reduceToShape(backend.Mul(grad, b), a.Shape(), backend),
		reduceToShape(backend.Mul(grad, a), b.Shape(), backend),
	}
}

// DivOp records c = a / b.
type DivOp struct{ base }

// NewDivOp records an element-wise division.
func NewDivOp(a, b, out *tensor.RawTensor) *DivOp {
	return &DivOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

// Backward: ∂c/∂a = 1/b, ∂c/∂b = -a/b².
func (op *DivOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	gradA := backend.Div(grad, b)
	gradB := backend.Neg(backend.Div(backend.Mul(grad, a), backend.Mul(b, b)))
	return []*tensor.RawTensor{
		reduceToShape(gradA, a.Shape(), backend),
		reduceToShape(gradB, b.Shape(), backend),
	}
}

// ScalarOp records y = f(x; c) for an elementwise operation with a scalar
// constant, parameterized by its derivative dy/dx.
type ScalarOp struct {
	base
	deriv func(backend tensor.Backend, x, grad *tensor.RawTensor) *tensor.RawTensor
}

func newScalarOp(x, out *tensor.RawTensor, deriv func(tensor.Backend, *tensor.RawTensor, *tensor.RawTensor) *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{
		base:  base{inputs: []*tensor.RawTensor{x}, output: out},
		deriv: deriv,
	}
}

// Backward applies the stored derivative rule.
func (op *ScalarOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{op.deriv(backend, op.inputs[0], grad)}
}

// NewAddScalarOp records y = x + c. ∂y/∂x = 1.
func NewAddScalarOp(x, out *tensor.RawTensor) *ScalarOp {
	return newScalarOp(x, out, func(_ tensor.Backend, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return grad
	})
}

// NewSubScalarOp records y = x - c. ∂y/∂x = 1.
func NewSubScalarOp(x, out *tensor.RawTensor) *ScalarOp {
	return NewAddScalarOp(x, out)
}

// NewMulScalarOp records y = c·x. ∂y/∂x = c.
func NewMulScalarOp(x, out *tensor.RawTensor, scalar float64) *ScalarOp {
	return newScalarOp(x, out, func(b tensor.Backend, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.MulScalar(grad, scalar)
	})
}

// NewDivScalarOp records y = x/c. ∂y/∂x = 1/c.
func NewDivScalarOp(x, out *tensor.RawTensor, scalar float64) *ScalarOp {
	return newScalarOp(x, out, func(b tensor.Backend, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.DivScalar(grad, scalar)
	})
}

// NewPowScalarOp records y = x^p. ∂y/∂x = p·x^(p-1).
func NewPowScalarOp(x, out *tensor.RawTensor, exponent float64) *ScalarOp {
	return newScalarOp(x, out, func(b tensor.Backend, in, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Mul(grad, b.MulScalar(b.PowScalar(in, exponent-1), exponent))
	})
}
