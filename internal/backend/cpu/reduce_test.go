package cpu

import (
	"testing"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

func TestSum(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	got := b.Sum(x)
	if !got.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("shape = %v, want [1]", got.Shape())
	}
	assertFloat64Slice(t, got, []float64{10})
}

func TestSumDim(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	t.Run("Rows", func(t *testing.T) {
		got := b.SumDim(x, 1, false)
		if !got.Shape().Equal(tensor.Shape{2}) {
			t.Fatalf("shape = %v, want [2]", got.Shape())
		}
		assertFloat64Slice(t, got, []float64{6, 15})
	})

	t.Run("KeepDim", func(t *testing.T) {
		got := b.SumDim(x, 1, true)
		if !got.Shape().Equal(tensor.Shape{2, 1}) {
			t.Fatalf("shape = %v, want [2 1]", got.Shape())
		}
	})

	t.Run("NegativeDim", func(t *testing.T) {
		assertFloat64Slice(t, b.SumDim(x, -1, false), []float64{6, 15})
	})

	t.Run("Columns", func(t *testing.T) {
		assertFloat64Slice(t, b.SumDim(x, 0, false), []float64{5, 7, 9})
	})
}

func TestMeanDim(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	assertFloat64Slice(t, b.MeanDim(x, 1, false), []float64{2, 5})
}

func TestMaxDim(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 5, 3, 9, 2, 4}, tensor.Shape{2, 3})
	assertFloat64Slice(t, b.MaxDim(x, 1, false), []float64{5, 9})
	assertFloat64Slice(t, b.MaxDim(x, 0, false), []float64{9, 5, 4})
}

func TestComparisons(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 5, 3}, tensor.Shape{3})
	y := rawFromFloat64(t, []float64{2, 2, 3}, tensor.Shape{3})

	assertBools := func(t *testing.T, got *tensor.RawTensor, want []bool) {
		t.Helper()
		if got.DType() != tensor.Bool {
			t.Fatalf("dtype = %v, want Bool", got.DType())
		}
		for i, w := range want {
			if got.AsBool()[i] != w {
				t.Fatalf("element %d = %v, want %v", i, got.AsBool()[i], w)
			}
		}
	}

	assertBools(t, b.Greater(x, y), []bool{false, true, false})
	assertBools(t, b.Lower(x, y), []bool{true, false, false})
	assertBools(t, b.Equal(x, y), []bool{false, false, true})
}

func TestWhere(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 5, 3}, tensor.Shape{3})
	y := rawFromFloat64(t, []float64{2, 2, 3}, tensor.Shape{3})
	cond := b.Greater(x, y)

	assertFloat64Slice(t, b.Where(cond, x, y), []float64{2, 5, 3})
}

func TestReshape(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	got := b.Reshape(x, tensor.Shape{3, 2})
	if !got.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", got.Shape())
	}
	assertFloat64Slice(t, got, []float64{1, 2, 3, 4, 5, 6})
}

func TestExpand(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{1, 3})
	got := b.Expand(x, tensor.Shape{2, 3})
	assertFloat64Slice(t, got, []float64{1, 2, 3, 1, 2, 3})
}

func TestSqueezeUnsqueeze(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{3})

	up := b.Unsqueeze(x, 0)
	if !up.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("Unsqueeze shape = %v, want [1 3]", up.Shape())
	}
	down := b.Squeeze(up, 0)
	if !down.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("Squeeze shape = %v, want [3]", down.Shape())
	}
}

func TestCat(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1, 2}, tensor.Shape{1, 2})
	y := rawFromFloat64(t, []float64{3, 4}, tensor.Shape{1, 2})

	t.Run("Dim0", func(t *testing.T) {
		got := b.Cat([]*tensor.RawTensor{x, y}, 0)
		if !got.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("shape = %v, want [2 2]", got.Shape())
		}
		assertFloat64Slice(t, got, []float64{1, 2, 3, 4})
	})

	t.Run("Dim1", func(t *testing.T) {
		got := b.Cat([]*tensor.RawTensor{x, y}, 1)
		if !got.Shape().Equal(tensor.Shape{1, 4}) {
			t.Fatalf("shape = %v, want [1 4]", got.Shape())
		}
		assertFloat64Slice(t, got, []float64{1, 2, 3, 4})
	})
}

func TestCast(t *testing.T) {
	b := newTestBackend()
	x := rawFromFloat64(t, []float64{1.7, -2.2, 3}, tensor.Shape{3})

	t.Run("ToFloat32", func(t *testing.T) {
		got := b.Cast(x, tensor.Float32)
		if got.DType() != tensor.Float32 {
			t.Fatalf("dtype = %v, want Float32", got.DType())
		}
	})

	t.Run("ToInt64", func(t *testing.T) {
		got := b.Cast(x, tensor.Int64)
		data := got.AsInt64()
		if data[0] != 1 || data[1] != -2 || data[2] != 3 {
			t.Fatalf("Int64 cast = %v", data)
		}
	})

	t.Run("ToBool", func(t *testing.T) {
		zero := rawFromFloat64(t, []float64{0, 2}, tensor.Shape{2})
		got := b.Cast(zero, tensor.Bool)
		if got.AsBool()[0] || !got.AsBool()[1] {
			t.Fatalf("Bool cast = %v", got.AsBool())
		}
	})
}
