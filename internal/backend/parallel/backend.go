// Package parallel implements the worker-pool compute engine. Elementwise
// operations fan out over goroutine chunks; structural and linear-algebra
// operations delegate to the eager CPU kernels, which already dominate on
// the small dense matrices geometry produces.
package parallel

import (
	"fmt"
	"math"

	"github.com/geomstats-ml/geomstats/internal/backend/cpu"
	"github.com/geomstats-ml/geomstats/internal/parallel"
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Backend implements the operation facade with chunked goroutine fan-out.
// It must agree with the cpu engine within the parity tolerance; the
// fan-out changes scheduling, never arithmetic.
type Backend struct {
	inner *cpu.Backend
	cfg   parallel.Config
}

// New creates a worker-pool engine with default worker configuration.
func New() *Backend {
	return &Backend{
		inner: cpu.New(),
		cfg:   parallel.DefaultConfig(),
	}
}

// NewWithConfig creates a worker-pool engine with explicit configuration.
func NewWithConfig(cfg parallel.Config) *Backend {
	return &Backend{
		inner: cpu.New(),
		cfg:   cfg,
	}
}

// Name returns the engine name.
func (p *Backend) Name() string {
	return "parallel"
}

// Device returns the compute device.
func (p *Backend) Device() tensor.Device {
	return tensor.CPU
}

// binaryOp applies f element-wise over broadcast operands, chunked across
// workers. No inplace fast path: chunks write disjoint output regions only.
func (p *Backend) binaryOp(name string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(&tensor.ShapeError{Op: name, A: a.Shape(), B: b.Shape(),
			Detail: fmt.Sprintf("dtype mismatch: %s vs %s (use Cast)", a.DType(), b.DType())})
	}
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}
	result, err := tensor.NewRaw(outShape, a.DType(), p.Device())
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	n := outShape.NumElements()
	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		parallel.ForChunks(n, func(start, end int) {
			for i := start; i < end; i++ {
				result.SetFloatAt(i, f(a.FloatAt(i), b.FloatAt(i)))
			}
		}, p.cfg)
		return result
	}

	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()
	parallel.ForChunks(n, func(start, end int) {
		for i := start; i < end; i++ {
			ai := flatIndex(i, outStrides, aStrides)
			bi := flatIndex(i, outStrides, bStrides)
			result.SetFloatAt(i, f(a.FloatAt(ai), b.FloatAt(bi)))
		}
	}, p.cfg)
	return result
}

func (p *Backend) unaryOp(name string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	if !x.DType().IsFloat() {
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}
	result, err := tensor.NewRaw(x.Shape(), x.DType(), p.Device())
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	parallel.ForChunks(x.NumElements(), func(start, end int) {
		for i := start; i < end; i++ {
			result.SetFloatAt(i, f(x.FloatAt(i)))
		}
	}, p.cfg)
	return result
}

// Elementwise binary operations.

func (p *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.binaryOp("add", a, b, func(x, y float64) float64 { return x + y })
}

func (p *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.binaryOp("sub", a, b, func(x, y float64) float64 { return x - y })
}

func (p *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.binaryOp("mul", a, b, func(x, y float64) float64 { return x * y })
}

func (p *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.binaryOp("div", a, b, func(x, y float64) float64 { return x / y })
}

// Scalar operations.

func (p *Backend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return p.unaryOp("addscalar", x, func(v float64) float64 { return v + scalar })
}

func (p *Backend) SubScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return p.unaryOp("subscalar", x, func(v float64) float64 { return v - scalar })
}

func (p *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return p.unaryOp("mulscalar", x, func(v float64) float64 { return v * scalar })
}

func (p *Backend) DivScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return p.unaryOp("divscalar", x, func(v float64) float64 { return v / scalar })
}

func (p *Backend) PowScalar(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return p.unaryOp("powscalar", x, func(v float64) float64 { return math.Pow(v, exponent) })
}

// Unary math.

func (p *Backend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("neg", x, func(v float64) float64 { return -v })
}

func (p *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("abs", x, math.Abs)
}

func (p *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("exp", x, math.Exp)
}

func (p *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("log", x, math.Log)
}

func (p *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("sqrt", x, math.Sqrt)
}

func (p *Backend) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("sin", x, math.Sin)
}

func (p *Backend) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("cos", x, math.Cos)
}

func (p *Backend) Acos(x *tensor.RawTensor) *tensor.RawTensor {
	return p.unaryOp("acos", x, math.Acos)
}

func (p *Backend) Clip(x *tensor.RawTensor, lo, hi float64) *tensor.RawTensor {
	return p.unaryOp("clip", x, func(v float64) float64 {
		return math.Min(math.Max(v, lo), hi)
	})
}

// Structural, linear-algebra, comparison and random operations delegate to
// the eager kernels.

func (p *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.MatMul(a, b)
}

func (p *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return p.inner.Transpose(t, axes...)
}

func (p *Backend) Solve(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Solve(a, b)
}

func (p *Backend) Cholesky(a *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Cholesky(a)
}

func (p *Backend) SymEig(a *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	return p.inner.SymEig(a)
}

func (p *Backend) SVD(a *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor) {
	return p.inner.SVD(a)
}

func (p *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Sum(x)
}

func (p *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return p.inner.SumDim(x, dim, keepDim)
}

func (p *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return p.inner.MeanDim(x, dim, keepDim)
}

func (p *Backend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return p.inner.MaxDim(x, dim, keepDim)
}

func (p *Backend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Greater(a, b)
}

func (p *Backend) Lower(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Lower(a, b)
}

func (p *Backend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Equal(a, b)
}

func (p *Backend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	return p.inner.Where(condition, x, y)
}

func (p *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return p.inner.Reshape(t, newShape)
}

func (p *Backend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return p.inner.Expand(x, shape)
}

func (p *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return p.inner.Squeeze(x, dim)
}

func (p *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return p.inner.Unsqueeze(x, dim)
}

func (p *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return p.inner.Cat(tensors, dim)
}

func (p *Backend) RandNormal(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	return p.inner.RandNormal(shape, dtype)
}

func (p *Backend) RandUniform(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	return p.inner.RandUniform(shape, dtype)
}

func (p *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return p.inner.Cast(x, dtype)
}

// broadcastStrides mirrors the eager engine's broadcast stride computation.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)
	inDim := len(inShape)
	offset := outDim - inDim
	origStrides := inShape.ComputeStrides()
	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}
	return strides
}

func flatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := 0; i < len(outStrides); i++ {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
