// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the array layer.
//
// The package defines the core types of the library:
//   - Tensor[T, B]: high-level generic tensor with type safety
//   - RawTensor: low-level dtype-erased tensor
//   - Backend: the operation facade compute engines implement
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	engine := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, engine)
//	y := tensor.Ones[float64](tensor.Shape{2, 3}, engine)
//	z := x.Add(y)
package tensor

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Type aliases for the public API

// DType is the constraint for tensor element types.
// Supported types: float32, float64, int64, bool.
type DType = tensor.DType

// Float is the constraint for float element types.
type Float = tensor.Float

// DataType identifies the runtime element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int64   DataType = tensor.Int64
	Bool    DataType = tensor.Bool
)

// Device represents where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU         Device = tensor.CPU
	Accelerator Device = tensor.Accelerator
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a generic type-safe tensor.
//
// T is the element type (float32, float64, int64, bool).
// B is the engine implementation (cpu, parallel, autodiff).
//
// Example:
//
//	engine := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, engine)
//	y := tensor.Ones[float64](tensor.Shape{2, 3}, engine)
//	z := x.Add(y)
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Error types.

// ShapeError reports incompatible operand shapes. Engine kernels panic with
// it at the facade boundary; higher layers convert it into returned errors.
type ShapeError = tensor.ShapeError

// UnsupportedOperationError reports an operation the active engine cannot
// perform, such as requesting gradients from a non-differentiable engine.
type UnsupportedOperationError = tensor.UnsupportedOperationError

// Creation functions

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, engine)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full[float64](tensor.Shape{2, 3}, 3.14, engine)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor with samples from the standard normal
// distribution N(0, 1), drawn through the engine.
func Randn[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// Rand creates a tensor with samples uniform in [0, 1), drawn through the
// engine.
func Rand[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Rand[T, B](shape, b)
}

// Eye creates a 2D identity matrix.
//
// Example:
//
//	identity := tensor.Eye[float64](3, engine) // 3x3 identity matrix
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Eye[T, B](n, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float64{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, engine)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions
// like Zeros, Ones, or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw creates a raw tensor with the given shape, dtype, and device.
//
// This is a low-level function for engine and geometry code.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Utility functions

// BroadcastShapes computes the broadcast shape of two shapes following
// NumPy broadcasting rules. The bool result reports whether either operand
// needs stretching.
//
// Example:
//
//	result, needsBroadcast, err := tensor.BroadcastShapes(
//	    tensor.Shape{3, 1},
//	    tensor.Shape{3, 4},
//	)
//	// result = [3, 4], needsBroadcast = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
