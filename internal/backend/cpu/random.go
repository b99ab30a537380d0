package cpu

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// RandNormal samples from the standard normal distribution using the
// Box-Muller transform. Uses math/rand, not crypto/rand: statistical
// sampling wants seedable reproducibility, not secrecy.
func (cpu *Backend) RandNormal(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	if !dtype.IsFloat() {
		panic(fmt.Sprintf("randnormal: unsupported dtype %s", dtype))
	}
	result := newResult(shape, dtype, cpu.device, "randnormal")
	n := result.NumElements()
	for i := 0; i < n; i += 2 {
		u1 := rand.Float64() //nolint:gosec // G404: statistical sampling, reproducibility wanted
		u2 := rand.Float64() //nolint:gosec // G404
		r := math.Sqrt(-2 * math.Log(u1))
		result.SetFloatAt(i, r*math.Cos(2*math.Pi*u2))
		if i+1 < n {
			result.SetFloatAt(i+1, r*math.Sin(2*math.Pi*u2))
		}
	}
	return result
}

// RandUniform samples uniformly from [0, 1).
func (cpu *Backend) RandUniform(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	if !dtype.IsFloat() {
		panic(fmt.Sprintf("randuniform: unsupported dtype %s", dtype))
	}
	result := newResult(shape, dtype, cpu.device, "randuniform")
	n := result.NumElements()
	for i := 0; i < n; i++ {
		result.SetFloatAt(i, rand.Float64()) //nolint:gosec // G404
	}
	return result
}
