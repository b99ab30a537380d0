package cpu

import (
	"fmt"
	"math"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// unaryOp applies f element-wise. Float dtypes only.
func (cpu *Backend) unaryOp(name string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	result := newResult(x.Shape(), x.DType(), cpu.device, name)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(f(float64(v)))
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = f(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}

	return result
}

// Neg computes element-wise negation: -x.
func (cpu *Backend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("neg", x, func(v float64) float64 { return -v })
}

// Abs computes element-wise absolute value: |x|.
func (cpu *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("abs", x, math.Abs)
}

// Exp computes element-wise exponential: exp(x).
func (cpu *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("exp", x, math.Exp)
}

// Log computes element-wise natural logarithm: ln(x).
// Non-positive input yields -Inf/NaN exactly as math.Log does; manifold code
// guards its arguments before calling.
func (cpu *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("log", x, math.Log)
}

// Sqrt computes element-wise square root: sqrt(x).
func (cpu *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("sqrt", x, math.Sqrt)
}

// Sin computes element-wise sine.
func (cpu *Backend) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("sin", x, math.Sin)
}

// Cos computes element-wise cosine.
func (cpu *Backend) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("cos", x, math.Cos)
}

// Acos computes element-wise arc cosine. Input outside [-1, 1] yields NaN;
// metric code clips cosines before calling, as the geodesic distance
// formulas require.
func (cpu *Backend) Acos(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("acos", x, math.Acos)
}

// Clip limits every element to the range [lo, hi].
func (cpu *Backend) Clip(x *tensor.RawTensor, lo, hi float64) *tensor.RawTensor {
	return cpu.unaryOp("clip", x, func(v float64) float64 {
		return math.Min(math.Max(v, lo), hi)
	})
}

// AddScalar adds a scalar to every element.
func (cpu *Backend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.unaryOp("addscalar", x, func(v float64) float64 { return v + scalar })
}

// SubScalar subtracts a scalar from every element.
func (cpu *Backend) SubScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.unaryOp("subscalar", x, func(v float64) float64 { return v - scalar })
}

// MulScalar multiplies every element by a scalar.
func (cpu *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.unaryOp("mulscalar", x, func(v float64) float64 { return v * scalar })
}

// DivScalar divides every element by a scalar.
func (cpu *Backend) DivScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.unaryOp("divscalar", x, func(v float64) float64 { return v / scalar })
}

// PowScalar raises every element to a scalar power.
func (cpu *Backend) PowScalar(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return cpu.unaryOp("powscalar", x, func(v float64) float64 { return math.Pow(v, exponent) })
}
