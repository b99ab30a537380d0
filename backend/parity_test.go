// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package backend_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/geomstats-ml/geomstats/autodiff"
	"github.com/geomstats-ml/geomstats/backend/cpu"
	"github.com/geomstats-ml/geomstats/backend/parallel"
	"github.com/geomstats-ml/geomstats/tensor"
)

// TestEngineParity runs the same operation catalog on every engine and
// requires the results to agree. The engines differ in scheduling and
// instrumentation only; a numerical divergence here is a bug in one of them.
func TestEngineParity(t *testing.T) {
	engines := map[string]tensor.Backend{
		"cpu":      cpu.New(),
		"parallel": parallel.New(),
		"autodiff": autodiff.New(cpu.New()),
	}

	a := rawFromFloat64(t, []float64{0.2, 0.4, 0.6, 0.8, 1.0, 1.2}, tensor.Shape{2, 3})
	b := rawFromFloat64(t, []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5}, tensor.Shape{2, 3})
	sq := rawFromFloat64(t, []float64{2, 1, 1, 3}, tensor.Shape{2, 2})
	rhs := rawFromFloat64(t, []float64{5, 10}, tensor.Shape{2})
	row := rawFromFloat64(t, []float64{10, 20, 30}, tensor.Shape{3})

	catalog := map[string]func(e tensor.Backend) *tensor.RawTensor{
		"add":           func(e tensor.Backend) *tensor.RawTensor { return e.Add(a, b) },
		"add_broadcast": func(e tensor.Backend) *tensor.RawTensor { return e.Add(a, row) },
		"sub":           func(e tensor.Backend) *tensor.RawTensor { return e.Sub(a, b) },
		"mul":           func(e tensor.Backend) *tensor.RawTensor { return e.Mul(a, b) },
		"div":           func(e tensor.Backend) *tensor.RawTensor { return e.Div(a, b) },
		"mulscalar":     func(e tensor.Backend) *tensor.RawTensor { return e.MulScalar(a, 3.5) },
		"powscalar":     func(e tensor.Backend) *tensor.RawTensor { return e.PowScalar(b, 2) },
		"neg":           func(e tensor.Backend) *tensor.RawTensor { return e.Neg(a) },
		"abs":           func(e tensor.Backend) *tensor.RawTensor { return e.Abs(e.Neg(a)) },
		"exp":           func(e tensor.Backend) *tensor.RawTensor { return e.Exp(a) },
		"log":           func(e tensor.Backend) *tensor.RawTensor { return e.Log(b) },
		"sqrt":          func(e tensor.Backend) *tensor.RawTensor { return e.Sqrt(b) },
		"sin":           func(e tensor.Backend) *tensor.RawTensor { return e.Sin(a) },
		"cos":           func(e tensor.Backend) *tensor.RawTensor { return e.Cos(a) },
		"acos":          func(e tensor.Backend) *tensor.RawTensor { return e.Acos(e.Clip(a, -1, 1)) },
		"clip":          func(e tensor.Backend) *tensor.RawTensor { return e.Clip(b, 2, 5) },
		"matmul":        func(e tensor.Backend) *tensor.RawTensor { return e.MatMul(sq, sq) },
		"transpose":     func(e tensor.Backend) *tensor.RawTensor { return e.Transpose(a) },
		"solve":         func(e tensor.Backend) *tensor.RawTensor { return e.Solve(sq, rhs) },
		"cholesky":      func(e tensor.Backend) *tensor.RawTensor { return e.Cholesky(sq) },
		"sum":           func(e tensor.Backend) *tensor.RawTensor { return e.Sum(a) },
		"sumdim":        func(e tensor.Backend) *tensor.RawTensor { return e.SumDim(a, -1, true) },
		"meandim":       func(e tensor.Backend) *tensor.RawTensor { return e.MeanDim(a, 0, false) },
		"maxdim":        func(e tensor.Backend) *tensor.RawTensor { return e.MaxDim(a, 1, false) },
		"where": func(e tensor.Backend) *tensor.RawTensor {
			return e.Where(e.Greater(a, row), a, row)
		},
		"reshape": func(e tensor.Backend) *tensor.RawTensor { return e.Reshape(a, tensor.Shape{3, 2}) },
		"expand":  func(e tensor.Backend) *tensor.RawTensor { return e.Expand(e.Unsqueeze(row, 0), tensor.Shape{4, 3}) },
		"cat": func(e tensor.Backend) *tensor.RawTensor {
			return e.Cat([]*tensor.RawTensor{a, b}, 0)
		},
	}

	reference := engines["cpu"]
	approx := cmpopts.EquateApprox(1e-6, 1e-12)
	for opName, op := range catalog {
		t.Run(opName, func(t *testing.T) {
			want := op(reference)
			for engineName, engine := range engines {
				got := op(engine)
				if diff := cmp.Diff(want.Shape(), got.Shape()); diff != "" {
					t.Fatalf("%s shape mismatch (-cpu +%s):\n%s", opName, engineName, diff)
				}
				if diff := cmp.Diff(want.AsFloat64(), got.AsFloat64(), approx); diff != "" {
					t.Errorf("%s diverges on %s (-cpu +%s):\n%s", opName, engineName, engineName, diff)
				}
			}
		})
	}
}

// TestSVDParity compares factorizations by reconstruction rather than by
// factor, since sign conventions may legitimately differ.
func TestSVDParity(t *testing.T) {
	engines := map[string]tensor.Backend{
		"cpu":      cpu.New(),
		"parallel": parallel.New(),
		"autodiff": autodiff.New(cpu.New()),
	}
	x := rawFromFloat64(t, []float64{3, 1, 1, 3}, tensor.Shape{2, 2})
	approx := cmpopts.EquateApprox(1e-6, 1e-9)

	for name, e := range engines {
		t.Run(name, func(t *testing.T) {
			u, s, v := e.SVD(x)
			diag := rawFromFloat64(t, []float64{s.AsFloat64()[0], 0, 0, s.AsFloat64()[1]}, tensor.Shape{2, 2})
			recon := e.MatMul(e.MatMul(u, diag), e.Transpose(v))
			if diff := cmp.Diff(x.AsFloat64(), recon.AsFloat64(), approx); diff != "" {
				t.Errorf("SVD reconstruction diverges:\n%s", diff)
			}
		})
	}
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
