package parallel

import (
	"math"
	"testing"

	"go.uber.org/goleak"

	"github.com/geomstats-ml/geomstats/internal/backend/cpu"
	"github.com/geomstats-ml/geomstats/internal/parallel"
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// forcedParallel makes even tiny tensors fan out so the chunked paths are
// actually exercised.
func forcedParallel() *Backend {
	return NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
}

func rawFromFloat64(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat64(), data)
	return raw
}

func TestBackendMetadata(t *testing.T) {
	b := New()
	if b.Name() != "parallel" {
		t.Errorf("Name() = %q, want \"parallel\"", b.Name())
	}
	if b.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", b.Device())
	}
}

// TestParityWithEagerEngine checks that fan-out changes scheduling, not
// arithmetic: every elementwise op must match the eager kernels exactly.
func TestParityWithEagerEngine(t *testing.T) {
	pb := forcedParallel()
	cb := cpu.New()

	x := rawFromFloat64(t, []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5}, tensor.Shape{2, 3})
	y := rawFromFloat64(t, []float64{2, 4, 8, 16, 32, 64}, tensor.Shape{2, 3})

	binary := map[string]func(tensor.Backend) *tensor.RawTensor{
		"add": func(b tensor.Backend) *tensor.RawTensor { return b.Add(x, y) },
		"sub": func(b tensor.Backend) *tensor.RawTensor { return b.Sub(x, y) },
		"mul": func(b tensor.Backend) *tensor.RawTensor { return b.Mul(x, y) },
		"div": func(b tensor.Backend) *tensor.RawTensor { return b.Div(x, y) },
	}
	for name, op := range binary {
		t.Run(name, func(t *testing.T) {
			assertSameValues(t, op(pb), op(cb))
		})
	}

	unary := map[string]func(tensor.Backend) *tensor.RawTensor{
		"neg":       func(b tensor.Backend) *tensor.RawTensor { return b.Neg(x) },
		"abs":       func(b tensor.Backend) *tensor.RawTensor { return b.Abs(x) },
		"exp":       func(b tensor.Backend) *tensor.RawTensor { return b.Exp(x) },
		"log":       func(b tensor.Backend) *tensor.RawTensor { return b.Log(x) },
		"sqrt":      func(b tensor.Backend) *tensor.RawTensor { return b.Sqrt(x) },
		"sin":       func(b tensor.Backend) *tensor.RawTensor { return b.Sin(x) },
		"cos":       func(b tensor.Backend) *tensor.RawTensor { return b.Cos(x) },
		"clip":      func(b tensor.Backend) *tensor.RawTensor { return b.Clip(x, 1, 4) },
		"addscalar": func(b tensor.Backend) *tensor.RawTensor { return b.AddScalar(x, 2.5) },
		"powscalar": func(b tensor.Backend) *tensor.RawTensor { return b.PowScalar(x, 3) },
	}
	for name, op := range unary {
		t.Run(name, func(t *testing.T) {
			assertSameValues(t, op(pb), op(cb))
		})
	}
}

func TestBroadcastFanOut(t *testing.T) {
	pb := forcedParallel()
	x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := rawFromFloat64(t, []float64{10, 20, 30}, tensor.Shape{3})

	got := pb.Add(x, row)
	want := []float64{11, 22, 33, 14, 25, 36}
	for i, w := range want {
		if got.AsFloat64()[i] != w {
			t.Fatalf("element %d = %v, want %v", i, got.AsFloat64()[i], w)
		}
	}
}

func TestOperandsNotMutated(t *testing.T) {
	pb := forcedParallel()
	x := rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{3})
	y := rawFromFloat64(t, []float64{4, 5, 6}, tensor.Shape{3})
	pb.Add(x, y)
	if x.AsFloat64()[0] != 1 || y.AsFloat64()[0] != 4 {
		t.Fatal("operands modified in place")
	}
}

func TestShapeMismatchPanics(t *testing.T) {
	pb := forcedParallel()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("no panic on incompatible shapes")
		}
		if _, ok := r.(*tensor.ShapeError); !ok {
			t.Fatalf("panic value = %T, want *tensor.ShapeError", r)
		}
	}()
	pb.Add(
		rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{3}),
		rawFromFloat64(t, []float64{1, 2, 3, 4}, tensor.Shape{4}),
	)
}

func TestDelegatedOps(t *testing.T) {
	pb := forcedParallel()

	x := rawFromFloat64(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := rawFromFloat64(t, []float64{5, 6, 7, 8}, tensor.Shape{2, 2})

	mm := pb.MatMul(x, y)
	want := []float64{19, 22, 43, 50}
	for i, w := range want {
		if mm.AsFloat64()[i] != w {
			t.Fatalf("MatMul[%d] = %v, want %v", i, mm.AsFloat64()[i], w)
		}
	}

	s := pb.Sum(x)
	if s.AsFloat64()[0] != 10 {
		t.Errorf("Sum = %v, want 10", s.AsFloat64()[0])
	}
}

func assertSameValues(t *testing.T, got, want *tensor.RawTensor) {
	t.Helper()
	if !got.Shape().Equal(want.Shape()) {
		t.Fatalf("shape = %v, want %v", got.Shape(), want.Shape())
	}
	for i := 0; i < got.NumElements(); i++ {
		g, w := got.FloatAt(i), want.FloatAt(i)
		if g != w && !(math.IsNaN(g) && math.IsNaN(w)) {
			t.Fatalf("element %d = %v, want %v", i, g, w)
		}
	}
}
