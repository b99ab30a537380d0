package ops

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// UnaryOp records y = f(x) for an elementwise function, parameterized by
// the chain-rule factor ∂y/∂x expressed through facade operations.
type UnaryOp struct {
	base
	deriv func(backend tensor.Backend, x, out, grad *tensor.RawTensor) *tensor.RawTensor
}

func newUnaryOp(x, out *tensor.RawTensor, deriv func(tensor.Backend, *tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor) *tensor.RawTensor) *UnaryOp {
	return &UnaryOp{
		base:  base{inputs: []*tensor.RawTensor{x}, output: out},
		deriv: deriv,
	}
}

// Backward applies the stored derivative rule.
func (op *UnaryOp) Backward(grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{op.deriv(backend, op.inputs[0], op.output, grad)}
}

// NewNegOp records y = -x. ∂y/∂x = -1.
func NewNegOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, _, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Neg(grad)
	})
}

// NewAbsOp records y = |x|. ∂y/∂x = sign(x); the subgradient at 0 is 0.
func NewAbsOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, in, _, grad *tensor.RawTensor) *tensor.RawTensor {
		zero := tensor.FullRaw(in.Shape(), 0, in.DType(), b)
		pos := b.Greater(in, zero)
		neg := b.Lower(in, zero)
		g := b.Where(pos, grad, tensor.FullRaw(grad.Shape(), 0, grad.DType(), b))
		return b.Where(neg, b.Neg(grad), g)
	})
}

// NewExpOp records y = exp(x). ∂y/∂x = exp(x) = y.
func NewExpOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, _, y, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Mul(grad, y)
	})
}

// NewLogOp records y = ln(x). ∂y/∂x = 1/x.
func NewLogOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, in, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Div(grad, in)
	})
}

// NewSqrtOp records y = sqrt(x). ∂y/∂x = 1/(2·sqrt(x)) = 1/(2y).
func NewSqrtOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, _, y, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Div(grad, b.MulScalar(y, 2))
	})
}

// NewSinOp records y = sin(x). ∂y/∂x = cos(x).
func NewSinOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, in, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Mul(grad, b.Cos(in))
	})
}

// NewCosOp records y = cos(x). ∂y/∂x = -sin(x).
func NewCosOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, in, _, grad *tensor.RawTensor) *tensor.RawTensor {
		return b.Neg(b.Mul(grad, b.Sin(in)))
	})
}

// NewAcosOp records y = arccos(x). ∂y/∂x = -1/sqrt(1-x²).
func NewAcosOp(x, out *tensor.RawTensor) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, in, _, grad *tensor.RawTensor) *tensor.RawTensor {
		denom := b.Sqrt(b.SubScalar(b.Neg(b.Mul(in, in)), -1)) // sqrt(1 - x²)
		return b.Neg(b.Div(grad, denom))
	})
}

// NewClipOp records y = clip(x, lo, hi). Gradient passes through where the
// input was strictly inside the clip range and is zero on the clamps.
func NewClipOp(x, out *tensor.RawTensor, lo, hi float64) *UnaryOp {
	return newUnaryOp(x, out, func(b tensor.Backend, in, _, grad *tensor.RawTensor) *tensor.RawTensor {
		loT := tensor.FullRaw(in.Shape(), lo, in.DType(), b)
		hiT := tensor.FullRaw(in.Shape(), hi, in.DType(), b)
		zero := tensor.FullRaw(grad.Shape(), 0, grad.DType(), b)
		inside := b.Mul(
			b.Cast(b.Greater(in, loT), in.DType()),
			b.Cast(b.Lower(in, hiT), in.DType()),
		)
		return b.Where(b.Greater(inside, zero), grad, zero)
	})
}
