// Package autodiff implements the differentiable compute engine as a
// decorator: Backend[B] wraps any other engine, forwards every facade
// operation to it, and records the operations with known backward rules on
// a gradient tape.
//
// Architecture:
//   - Decorator pattern: Backend[B] wraps any facade implementation
//   - GradientTape: records operations during the forward pass
//   - ops.Operation: each recorded op carries its backward rule
//   - Reverse-mode AD: gradients via the chain rule, tape walked backwards
//
// Operations without a backward rule (linear-algebra factorizations,
// comparisons, random sampling, casts) still execute but act as gradient
// barriers: no gradient flows through them. Requesting a gradient from an
// engine that is not this decorator yields an UnsupportedOperationError
// instead of a silently wrong result.
package autodiff

import (
	"github.com/geomstats-ml/geomstats/internal/autodiff/ops"
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Backend wraps a compute engine and adds automatic differentiation.
// It implements the tensor.Backend facade.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a differentiable engine wrapping the given engine.
func New[B tensor.Backend](backend B) *Backend[B] {
	return &Backend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control: starting/stopping
// recording, clearing between iterations, inspecting recorded operations.
func (b *Backend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped engine.
func (b *Backend[B]) Inner() B {
	return b.inner
}

// Name returns the engine name.
func (b *Backend[B]) Name() string {
	return "autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *Backend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Elementwise binary operations.

func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

func (b *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// Scalar operations.

func (b *Backend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.AddScalar(x, scalar)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

func (b *Backend[B]) SubScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.SubScalar(x, scalar)
	b.tape.Record(ops.NewSubScalarOp(x, result))
	return result
}

func (b *Backend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

func (b *Backend[B]) DivScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.DivScalar(x, scalar)
	b.tape.Record(ops.NewDivScalarOp(x, result, scalar))
	return result
}

func (b *Backend[B]) PowScalar(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	result := b.inner.PowScalar(x, exponent)
	b.tape.Record(ops.NewPowScalarOp(x, result, exponent))
	return result
}

// Unary math.

func (b *Backend[B]) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Neg(x)
	b.tape.Record(ops.NewNegOp(x, result))
	return result
}

func (b *Backend[B]) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Abs(x)
	b.tape.Record(ops.NewAbsOp(x, result))
	return result
}

func (b *Backend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, result))
	return result
}

func (b *Backend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Log(x)
	b.tape.Record(ops.NewLogOp(x, result))
	return result
}

func (b *Backend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sqrt(x)
	b.tape.Record(ops.NewSqrtOp(x, result))
	return result
}

func (b *Backend[B]) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sin(x)
	b.tape.Record(ops.NewSinOp(x, result))
	return result
}

func (b *Backend[B]) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Cos(x)
	b.tape.Record(ops.NewCosOp(x, result))
	return result
}

func (b *Backend[B]) Acos(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Acos(x)
	b.tape.Record(ops.NewAcosOp(x, result))
	return result
}

func (b *Backend[B]) Clip(x *tensor.RawTensor, lo, hi float64) *tensor.RawTensor {
	result := b.inner.Clip(x, lo, hi)
	b.tape.Record(ops.NewClipOp(x, result, lo, hi))
	return result
}

// Linear algebra.

func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

func (b *Backend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(t, axes...)
	b.tape.Record(ops.NewTransposeOp(t, result, axes))
	return result
}

// Gradient barriers: executed, never recorded.

func (b *Backend[B]) Solve(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Solve(x, y)
}

func (b *Backend[B]) Cholesky(x *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Cholesky(x)
}

func (b *Backend[B]) SymEig(x *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	return b.inner.SymEig(x)
}

func (b *Backend[B]) SVD(x *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor) {
	return b.inner.SVD(x)
}

// Reductions.

func (b *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

func (b *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.SumDim(x, dim, keepDim)
	b.tape.Record(ops.NewSumDimOp(x, result, dim, keepDim))
	return result
}

func (b *Backend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.MeanDim(x, dim, keepDim)
	b.tape.Record(ops.NewMeanDimOp(x, result, dim, keepDim))
	return result
}

func (b *Backend[B]) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.inner.MaxDim(x, dim, keepDim) // barrier
}

// Comparison and selection.

func (b *Backend[B]) Greater(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Greater(x, y)
}

func (b *Backend[B]) Lower(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Lower(x, y)
}

func (b *Backend[B]) Equal(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Equal(x, y)
}

func (b *Backend[B]) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Where(condition, x, y)
	b.tape.Record(ops.NewWhereOp(condition, x, y, result))
	return result
}

// Shape manipulation. Squeeze/Unsqueeze record as reshapes.

func (b *Backend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	b.tape.Record(ops.NewReshapeOp(t, result))
	return result
}

func (b *Backend[B]) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Expand(x, shape)
	b.tape.Record(ops.NewExpandOp(x, result))
	return result
}

func (b *Backend[B]) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Squeeze(x, dim)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

func (b *Backend[B]) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Unsqueeze(x, dim)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

func (b *Backend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Cat(tensors, dim) // barrier
}

// Random and conversion.

func (b *Backend[B]) RandNormal(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.RandNormal(shape, dtype)
}

func (b *Backend[B]) RandUniform(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.RandUniform(shape, dtype)
}

func (b *Backend[B]) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.inner.Cast(x, dtype) // barrier
}
