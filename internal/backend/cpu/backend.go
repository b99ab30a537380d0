// Package cpu implements the eager single-threaded array engine.
// It is the reference implementation of the operation facade: every other
// engine must agree with it within the parity tolerance.
package cpu

import (
	"fmt"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Backend implements tensor operations eagerly on the host CPU.
type Backend struct {
	device tensor.Device
}

// New creates a new CPU engine.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
	}
}

// Name returns the engine name.
func (cpu *Backend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (cpu *Backend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, func(x, y float64) float64 { return x / y })
}

// binaryOp applies f element-wise over broadcast operands. The result is
// always a fresh tensor; operands are never written to, whatever their
// buffer refcount says. Same-shape operands skip the stride arithmetic.
func (cpu *Backend) binaryOp(name string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(&tensor.ShapeError{Op: name, A: a.Shape(), B: b.Shape(),
			Detail: fmt.Sprintf("dtype mismatch: %s vs %s (use Cast)", a.DType(), b.DType())})
	}
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result := newResult(outShape, a.DType(), cpu.device, name)
	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		applyVectorized(result, a, b, f)
		return result
	}
	applyWithBroadcast(result, a, b, outShape, f)
	return result
}

// newResult allocates an output tensor, panicking on invalid shapes.
func newResult(shape tensor.Shape, dtype tensor.DataType, device tensor.Device, op string) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

func applyVectorized(dst, a, b *tensor.RawTensor, f func(x, y float64) float64) {
	switch a.DType() {
	case tensor.Float32:
		av, bv, dv := a.AsFloat32(), b.AsFloat32(), dst.AsFloat32()
		for i := range av {
			dv[i] = float32(f(float64(av[i]), float64(bv[i])))
		}
	case tensor.Float64:
		av, bv, dv := a.AsFloat64(), b.AsFloat64(), dst.AsFloat64()
		for i := range av {
			dv[i] = f(av[i], bv[i])
		}
	default:
		panic(fmt.Sprintf("binary op: unsupported dtype %s", a.DType()))
	}
}

func applyWithBroadcast(dst, a, b *tensor.RawTensor, outShape tensor.Shape, f func(x, y float64) float64) {
	aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
	bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()
	n := outShape.NumElements()

	for i := 0; i < n; i++ {
		ai := computeFlatIndex(i, outStrides, aStrides)
		bi := computeFlatIndex(i, outStrides, bStrides)
		dst.SetFloatAt(i, f(a.FloatAt(ai), b.FloatAt(bi)))
	}
}
