// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Type-safe data access via AsFloat64(), AsInt64(), etc.
//   - Buffer sharing with reference counting via Clone()
//
// Most users should use the high-level Tensor[T, B] type instead. Geometry
// code and engine implementations work on RawTensor directly.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float64, tensor.CPU)
//	data := raw.AsFloat64() // type-safe access
//	clone := raw.Clone()    // shares the buffer via reference counting
type RawTensor = tensor.RawTensor

// Raw creation helpers for engine-agnostic code that has no generic type
// parameter, such as the geometry layer.

// EyeRaw creates a 2D identity matrix as a RawTensor of the given float
// dtype.
func EyeRaw(n int, dtype DataType, b Backend) *RawTensor {
	return tensor.EyeRaw(n, dtype, b)
}

// FullRaw creates a RawTensor of the given float dtype filled with value.
func FullRaw(shape Shape, value float64, dtype DataType, b Backend) *RawTensor {
	return tensor.FullRaw(shape, value, dtype, b)
}

// FromFloat64s creates a Float64 RawTensor from a Go slice.
func FromFloat64s(data []float64, shape Shape, b Backend) (*RawTensor, error) {
	return tensor.FromFloat64s(data, shape, b)
}
