package cpu

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Reshape returns a tensor with the same data but a different shape.
func (cpu *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(err)
	}
	if t.NumElements() != newShape.NumElements() {
		panic(&tensor.ShapeError{Op: "reshape", A: t.Shape(), B: newShape, Detail: "different number of elements"})
	}

	result := newResult(newShape, t.DType(), t.Device(), "reshape")
	copy(result.Data(), t.Data()[:t.ByteSize()])
	return result
}

// Expand broadcasts a tensor to the given shape. Dimensions of size 1 (and
// missing leading dimensions) are stretched; other dimensions must match.
func (cpu *Backend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), shape)
	if err != nil {
		panic(err)
	}
	if !outShape.Equal(shape) {
		panic(&tensor.ShapeError{Op: "expand", A: x.Shape(), B: shape, Detail: "shape is not a pure broadcast target"})
	}

	result := newResult(shape, x.DType(), cpu.device, "expand")
	inStrides := computeBroadcastStridesForShape(x.Shape(), shape)
	outStrides := shape.ComputeStrides()
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		result.SetFloatAt(i, x.FloatAt(computeFlatIndex(i, outStrides, inStrides)))
	}
	return result
}

// Squeeze removes a dimension of size 1.
func (cpu *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("squeeze", dim, len(shape), shape)
	if shape[dim] != 1 {
		panic(&tensor.ShapeError{Op: "squeeze", A: shape, Detail: "dimension size is not 1"})
	}
	newShape := make(tensor.Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	if len(newShape) == 0 {
		newShape = tensor.Shape{1}
	}
	return cpu.Reshape(x, newShape)
}

// Unsqueeze inserts a dimension of size 1 at position dim.
func (cpu *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim + 1
	}
	if dim < 0 || dim > ndim {
		panic(&tensor.ShapeError{Op: "unsqueeze", A: shape, Detail: "dimension out of range"})
	}
	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return cpu.Reshape(x, newShape)
}

// Cat concatenates tensors along the specified dimension.
// All tensors must share dtype and shape except along dim.
func (cpu *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic(&tensor.ShapeError{Op: "cat", Detail: "at least one tensor required"})
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()
	dim = normalizeDim("cat", dim, ndim, shape)

	totalDim := 0
	for _, t := range tensors {
		ts := t.Shape()
		if len(ts) != ndim || t.DType() != dtype {
			panic(&tensor.ShapeError{Op: "cat", A: shape, B: ts, Detail: "rank or dtype mismatch"})
		}
		for i := range ts {
			if i != dim && ts[i] != shape[i] {
				panic(&tensor.ShapeError{Op: "cat", A: shape, B: ts, Detail: "non-concat dimensions must match"})
			}
		}
		totalDim += ts[dim]
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := newResult(outShape, dtype, cpu.device, "cat")

	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}

	elemSize := dtype.Size()
	outRow := totalDim * inner * elemSize
	dstOff := 0
	for _, t := range tensors {
		rowBytes := t.Shape()[dim] * inner * elemSize
		src := t.Data()
		dst := result.Data()
		for o := 0; o < outer; o++ {
			copy(dst[o*outRow+dstOff:o*outRow+dstOff+rowBytes], src[o*rowBytes:(o+1)*rowBytes])
		}
		dstOff += rowBytes
	}
	return result
}
