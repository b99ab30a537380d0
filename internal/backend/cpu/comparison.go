package cpu

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// compareOp evaluates pred over broadcast operands, producing a Bool tensor.
func (cpu *Backend) compareOp(name string, a, b *tensor.RawTensor, pred func(x, y float64) bool) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}
	result := newResult(outShape, tensor.Bool, cpu.device, name)
	dst := result.AsBool()

	aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
	bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()
	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		ai := computeFlatIndex(i, outStrides, aStrides)
		bi := computeFlatIndex(i, outStrides, bStrides)
		dst[i] = pred(a.FloatAt(ai), b.FloatAt(bi))
	}
	return result
}

// Greater compares element-wise: a > b.
func (cpu *Backend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("greater", a, b, func(x, y float64) bool { return x > y })
}

// Lower compares element-wise: a < b.
func (cpu *Backend) Lower(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("lower", a, b, func(x, y float64) bool { return x < y })
}

// Equal compares element-wise: a == b.
func (cpu *Backend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("equal", a, b, func(x, y float64) bool { return x == y })
}

// Where selects elements: condition ? x : y, with broadcasting across all
// three operands. The condition must be a Bool tensor.
func (cpu *Backend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(&tensor.ShapeError{Op: "where", A: condition.Shape(), Detail: "condition must be a bool tensor"})
	}
	xyShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(err)
	}
	outShape, _, err := tensor.BroadcastShapes(condition.Shape(), xyShape)
	if err != nil {
		panic(err)
	}

	result := newResult(outShape, x.DType(), cpu.device, "where")
	cond := condition.AsBool()
	cStrides := computeBroadcastStridesForShape(condition.Shape(), outShape)
	xStrides := computeBroadcastStridesForShape(x.Shape(), outShape)
	yStrides := computeBroadcastStridesForShape(y.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		ci := computeFlatIndex(i, outStrides, cStrides)
		if cond[ci] {
			result.SetFloatAt(i, x.FloatAt(computeFlatIndex(i, outStrides, xStrides)))
		} else {
			result.SetFloatAt(i, y.FloatAt(computeFlatIndex(i, outStrides, yStrides)))
		}
	}
	return result
}
