package cpu

import (
	"fmt"
	"math"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (cpu *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := newResult(tensor.Shape{1}, x.DType(), cpu.device, "sum")
	total := 0.0
	n := x.NumElements()
	for i := 0; i < n; i++ {
		total += x.FloatAt(i)
	}
	result.SetFloatAt(0, total)
	return result
}

// reduceDim applies a pairwise reduction along dim.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1
func (cpu *Backend) reduceDim(op string, x *tensor.RawTensor, dim int, keepDim bool,
	init float64, merge func(acc, v float64) float64, finish func(acc float64, count int) float64,
) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	dim = normalizeDim(op, dim, ndim, shape)

	outShape := make(tensor.Shape, 0, ndim)
	for i, d := range shape {
		switch {
		case i != dim:
			outShape = append(outShape, d)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result := newResult(outShape, x.DType(), cpu.device, op)

	// Iterate as outer × dim × inner.
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	outer := x.NumElements() / (shape[dim] * inner)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			acc := init
			for d := 0; d < shape[dim]; d++ {
				acc = merge(acc, x.FloatAt(o*shape[dim]*inner+d*inner+in))
			}
			result.SetFloatAt(o*inner+in, finish(acc, shape[dim]))
		}
	}
	return result
}

// SumDim sums tensor elements along the specified dimension.
//
// Example:
//
//	y := engine.SumDim(x, -1, true) // [2, 3, 4] → [2, 3, 1]
func (cpu *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumdim", x, dim, keepDim, 0,
		func(acc, v float64) float64 { return acc + v },
		func(acc float64, _ int) float64 { return acc })
}

// MeanDim averages tensor elements along the specified dimension.
func (cpu *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("meandim", x, dim, keepDim, 0,
		func(acc, v float64) float64 { return acc + v },
		func(acc float64, count int) float64 { return acc / float64(count) })
}

// MaxDim takes the maximum along the specified dimension.
func (cpu *Backend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("maxdim", x, dim, keepDim, math.Inf(-1),
		math.Max,
		func(acc float64, _ int) float64 { return acc })
}

// Cast converts a tensor to a different data type.
func (cpu *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}
	result := newResult(x.Shape(), dtype, cpu.device, "cast")
	n := x.NumElements()

	read := func(i int) float64 {
		switch x.DType() {
		case tensor.Bool:
			if x.AsBool()[i] {
				return 1
			}
			return 0
		case tensor.Int64:
			return float64(x.AsInt64()[i])
		default:
			return x.FloatAt(i)
		}
	}

	switch dtype {
	case tensor.Bool:
		dst := result.AsBool()
		for i := 0; i < n; i++ {
			dst[i] = read(i) != 0
		}
	case tensor.Int64:
		dst := result.AsInt64()
		for i := 0; i < n; i++ {
			dst[i] = int64(read(i))
		}
	case tensor.Float32, tensor.Float64:
		for i := 0; i < n; i++ {
			result.SetFloatAt(i, read(i))
		}
	default:
		panic(fmt.Sprintf("cast: unsupported dtype %s", dtype))
	}
	return result
}
