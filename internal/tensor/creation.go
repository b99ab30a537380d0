package tensor

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	engine := cpu.New()
//	t := tensor.Zeros[float64](Shape{3, 4}, engine)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	var one T
	switch any(dummy).(type) {
	case float32:
		one = any(float32(1)).(T)
	case float64:
		one = any(float64(1)).(T)
	case int64:
		one = any(int64(1)).(T)
	case bool:
		one = any(true).(T)
	}
	return Full[T, B](shape, one, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with samples from a standard normal distribution,
// drawn through the engine's RandNormal facade operation.
// Only works with float types.
func Randn[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw := b.RandNormal(shape, inferDataType(any(dummy).(T)))
	return New[T, B](raw, b)
}

// Rand creates a tensor with samples uniformly distributed in [0, 1),
// drawn through the engine's RandUniform facade operation.
// Only works with float types.
func Rand[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw := b.RandUniform(shape, inferDataType(any(dummy).(T)))
	return New[T, B](raw, b)
}

// Eye creates a 2D identity matrix.
//
// Example:
//
//	t := tensor.Eye[float64](3, engine) // 3x3 identity matrix
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)

	var dummy T
	var one T
	switch any(dummy).(type) {
	case float32:
		one = any(float32(1)).(T)
	case float64:
		one = any(float64(1)).(T)
	case int64:
		one = any(int64(1)).(T)
	case bool:
		one = any(true).(T)
	}

	for i := 0; i < n; i++ {
		t.Set(one, i, i)
	}
	return t
}

// EyeRaw creates a 2D identity matrix as a RawTensor of the given float dtype.
// Used by engine-agnostic geometry code that has no generic type parameter.
func EyeRaw(n int, dtype DataType, b Backend) *RawTensor {
	raw, err := NewRaw(Shape{n, n}, dtype, b.Device())
	if err != nil {
		panic(err)
	}
	for i := 0; i < n; i++ {
		raw.SetFloatAt(i*n+i, 1)
	}
	return raw
}

// FullRaw creates a RawTensor of the given float dtype filled with value.
func FullRaw(shape Shape, value float64, dtype DataType, b Backend) *RawTensor {
	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err)
	}
	n := raw.NumElements()
	for i := 0; i < n; i++ {
		raw.SetFloatAt(i, value)
	}
	return raw
}

// FromFloat64s creates a Float64 RawTensor from a Go slice.
func FromFloat64s(data []float64, shape Shape, b Backend) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, &ShapeError{Op: "fromfloat64s", A: shape, Detail: "element count mismatch"}
	}
	raw, err := NewRaw(shape, Float64, b.Device())
	if err != nil {
		return nil, err
	}
	copy(raw.AsFloat64(), data)
	return raw, nil
}
