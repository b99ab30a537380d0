package cpu

import (
	"math"
	"testing"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

func newTestBackend() *Backend {
	return New()
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

func assertFloat64Slice(t *testing.T, got *tensor.RawTensor, want []float64) {
	t.Helper()
	const tolerance = 1e-9
	data := got.AsFloat64()
	if len(data) != len(want) {
		t.Fatalf("length = %d, want %d", len(data), len(want))
	}
	for i := range want {
		if math.Abs(data[i]-want[i]) > tolerance {
			t.Fatalf("element %d = %v, want %v (full: %v)", i, data[i], want[i], data)
		}
	}
}

func TestBackendMetadata(t *testing.T) {
	b := New()
	if b.Name() != "cpu" {
		t.Errorf("Name() = %q, want \"cpu\"", b.Name())
	}
	if b.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", b.Device())
	}
}

func TestAdd(t *testing.T) {
	b := newTestBackend()

	t.Run("SameShape", func(t *testing.T) {
		x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		y := rawFromFloat64(t, []float64{10, 20, 30, 40, 50, 60}, tensor.Shape{2, 3})
		assertFloat64Slice(t, b.Add(x, y), []float64{11, 22, 33, 44, 55, 66})
	})

	t.Run("Broadcast", func(t *testing.T) {
		x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		y := rawFromFloat64(t, []float64{100, 200, 300}, tensor.Shape{3})
		assertFloat64Slice(t, b.Add(x, y), []float64{101, 202, 303, 104, 205, 306})
	})

	t.Run("BroadcastColumn", func(t *testing.T) {
		x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		y := rawFromFloat64(t, []float64{10, 20}, tensor.Shape{2, 1})
		assertFloat64Slice(t, b.Add(x, y), []float64{11, 12, 13, 24, 25, 26})
	})

	t.Run("ShapeMismatchPanics", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("no panic on incompatible shapes")
			}
			if _, ok := r.(*tensor.ShapeError); !ok {
				t.Fatalf("panic value = %T, want *tensor.ShapeError", r)
			}
		}()
		x := rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{3})
		y := rawFromFloat64(t, []float64{1, 2, 3, 4}, tensor.Shape{4})
		b.Add(x, y)
	})
}

func TestSubMulDiv(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{8, 6, 4}, tensor.Shape{3})
	y := rawFromFloat64(t, []float64{2, 3, 4}, tensor.Shape{3})

	assertFloat64Slice(t, b.Sub(x, y), []float64{6, 3, 0})
	assertFloat64Slice(t, b.Mul(x, y), []float64{16, 18, 16})
	assertFloat64Slice(t, b.Div(x, y), []float64{4, 2, 1})
}

func TestScalarOps(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{3})

	assertFloat64Slice(t, b.AddScalar(x, 10), []float64{11, 12, 13})
	assertFloat64Slice(t, b.SubScalar(x, 1), []float64{0, 1, 2})
	assertFloat64Slice(t, b.MulScalar(x, 2), []float64{2, 4, 6})
	assertFloat64Slice(t, b.DivScalar(x, 2), []float64{0.5, 1, 1.5})
	assertFloat64Slice(t, b.PowScalar(x, 2), []float64{1, 4, 9})
}

func TestUnaryOps(t *testing.T) {
	b := newTestBackend()

	x := rawFromFloat64(t, []float64{-1, 0, 2}, tensor.Shape{3})
	assertFloat64Slice(t, b.Neg(x), []float64{1, 0, -2})
	assertFloat64Slice(t, b.Abs(x), []float64{1, 0, 2})

	y := rawFromFloat64(t, []float64{0, 1, 2}, tensor.Shape{3})
	assertFloat64Slice(t, b.Exp(y), []float64{1, math.E, math.E * math.E})

	z := rawFromFloat64(t, []float64{1, math.E}, tensor.Shape{2})
	assertFloat64Slice(t, b.Log(z), []float64{0, 1})

	w := rawFromFloat64(t, []float64{4, 9}, tensor.Shape{2})
	assertFloat64Slice(t, b.Sqrt(w), []float64{2, 3})

	angles := rawFromFloat64(t, []float64{0, math.Pi / 2}, tensor.Shape{2})
	assertFloat64Slice(t, b.Sin(angles), []float64{0, 1})
	got := b.Cos(angles)
	if math.Abs(got.AsFloat64()[0]-1) > 1e-9 || math.Abs(got.AsFloat64()[1]) > 1e-9 {
		t.Errorf("Cos = %v", got.AsFloat64())
	}

	cosines := rawFromFloat64(t, []float64{1, 0, -1}, tensor.Shape{3})
	assertFloat64Slice(t, b.Acos(cosines), []float64{0, math.Pi / 2, math.Pi})
}

func TestClip(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{-2, -0.5, 0.5, 2}, tensor.Shape{4})
	assertFloat64Slice(t, b.Clip(x, -1, 1), []float64{-1, -0.5, 0.5, 1})
}

func TestDTypePreserved(t *testing.T) {
	b := newTestBackend()
	x, _ := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)
	y, _ := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)
	for i := 0; i < 3; i++ {
		x.SetFloatAt(i, float64(i))
		y.SetFloatAt(i, 1)
	}
	sum := b.Add(x, y)
	if sum.DType() != tensor.Float32 {
		t.Errorf("dtype = %v, want Float32", sum.DType())
	}
	if got := sum.AsFloat32(); got[2] != 3 {
		t.Errorf("sum[2] = %v, want 3", got[2])
	}
}

func TestOperandsNeverMutated(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{8, 6, 4}, tensor.Shape{3})
	y := rawFromFloat64(t, []float64{2, 3, 4}, tensor.Shape{3})

	// Fresh tensors hold the only reference to their buffer; results must
	// still land in new storage.
	diff := b.Sub(x, y)
	if diff == x || diff == y {
		t.Fatal("Sub returned an operand")
	}
	assertFloat64Slice(t, x, []float64{8, 6, 4})
	assertFloat64Slice(t, y, []float64{2, 3, 4})

	// Reusing the operands after another op sees the original values.
	assertFloat64Slice(t, b.Mul(x, y), []float64{16, 18, 16})
	assertFloat64Slice(t, x, []float64{8, 6, 4})
}

func TestRandNormal(t *testing.T) {
	b := newTestBackend()
	sample := b.RandNormal(tensor.Shape{10000}, tensor.Float64)

	var mean float64
	for _, v := range sample.AsFloat64() {
		mean += v
	}
	mean /= 10000
	if math.Abs(mean) > 0.1 {
		t.Errorf("sample mean = %v, want near 0", mean)
	}
}

func TestRandUniform(t *testing.T) {
	b := newTestBackend()
	sample := b.RandUniform(tensor.Shape{1000}, tensor.Float64)
	for _, v := range sample.AsFloat64() {
		if v < 0 || v >= 1 {
			t.Fatalf("sample %v outside [0, 1)", v)
		}
	}
}
