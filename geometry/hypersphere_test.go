// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geomstats-ml/geomstats/tensor"
)

func newTestSphere(t *testing.T, dim int) *Hypersphere {
	t.Helper()
	sphere, err := NewHypersphere(dim, testBackend())
	require.NoError(t, err)
	return sphere
}

func TestNewHypersphereRejectsNonPositiveDim(t *testing.T) {
	_, err := NewHypersphere(0, testBackend())
	require.Error(t, err)
}

func TestHypersphereDimensions(t *testing.T) {
	sphere := newTestSphere(t, 2)
	assert.Equal(t, 2, sphere.Dim())
	assert.Equal(t, 3, sphere.AmbientDim())
}

func TestHypersphereExpAlongGreatCircle(t *testing.T) {
	sphere := newTestSphere(t, 2)
	p := rawFromFloat64(t, []float64{1, 0, 0}, tensor.Shape{3})
	v := rawFromFloat64(t, []float64{0, 1, 0}, tensor.Shape{3})

	q, err := sphere.Metric().Exp(v, p)
	require.NoError(t, err)
	assertAllClose(t, q, []float64{math.Cos(1), math.Sin(1), 0}, 1e-6)
}

func TestHypersphereLogExpRoundTrip(t *testing.T) {
	sphere := newTestSphere(t, 2)
	metric := sphere.Metric()
	p := rawFromFloat64(t, []float64{1, 0, 0}, tensor.Shape{3})
	q := rawFromFloat64(t, []float64{0, 0.6, 0.8}, tensor.Shape{3})

	v, err := metric.Log(q, p)
	require.NoError(t, err)
	back, err := metric.Exp(v, p)
	require.NoError(t, err)
	assertAllClose(t, back, []float64{0, 0.6, 0.8}, 1e-6)
}

func TestHypersphereLogCoincidingPoints(t *testing.T) {
	sphere := newTestSphere(t, 2)
	p := rawFromFloat64(t, []float64{0, 1, 0}, tensor.Shape{3})

	// Vanishing angle selects the Taylor branch; the result must be a clean
	// zero, not NaN from the 0/0 in the closed form.
	v, err := sphere.Metric().Log(p, p)
	require.NoError(t, err)
	assertAllClose(t, v, []float64{0, 0, 0}, 1e-6)
}

func TestHypersphereDist(t *testing.T) {
	sphere := newTestSphere(t, 2)
	metric := sphere.Metric()
	p := rawFromFloat64(t, []float64{1, 0, 0}, tensor.Shape{3})
	q := rawFromFloat64(t, []float64{0, 1, 0}, tensor.Shape{3})

	t.Run("OrthogonalPoints", func(t *testing.T) {
		d, err := metric.Dist(p, q)
		require.NoError(t, err)
		assertAllClose(t, d, []float64{math.Pi / 2}, 1e-9)
	})

	t.Run("Symmetry", func(t *testing.T) {
		dpq, err := metric.Dist(p, q)
		require.NoError(t, err)
		dqp, err := metric.Dist(q, p)
		require.NoError(t, err)
		assert.InDelta(t, dpq.FloatAt(0), dqp.FloatAt(0), 1e-12)
	})

	t.Run("SamePoint", func(t *testing.T) {
		d, err := metric.Dist(p, p)
		require.NoError(t, err)
		assertAllClose(t, d, []float64{0}, 1e-9)
	})

	t.Run("SquaredDistConsistent", func(t *testing.T) {
		d, err := metric.Dist(p, q)
		require.NoError(t, err)
		sq, err := metric.SquaredDist(p, q)
		require.NoError(t, err)
		assert.InDelta(t, d.FloatAt(0)*d.FloatAt(0), sq.FloatAt(0), 1e-12)
	})
}

func TestHypersphereTriangleInequality(t *testing.T) {
	sphere := newTestSphere(t, 2)
	metric := sphere.Metric()

	points, err := sphere.RandomUniform(3)
	require.NoError(t, err)
	extract := func(i int) *tensor.RawTensor {
		out := rawFromFloat64(t, []float64{
			points.FloatAt(i * 3), points.FloatAt(i*3 + 1), points.FloatAt(i*3 + 2),
		}, tensor.Shape{3})
		return out
	}
	a, b, c := extract(0), extract(1), extract(2)

	dab, err := metric.Dist(a, b)
	require.NoError(t, err)
	dbc, err := metric.Dist(b, c)
	require.NoError(t, err)
	dac, err := metric.Dist(a, c)
	require.NoError(t, err)
	assert.LessOrEqual(t, dac.FloatAt(0), dab.FloatAt(0)+dbc.FloatAt(0)+1e-9)
}

func TestHypersphereBelongs(t *testing.T) {
	sphere := newTestSphere(t, 2)

	t.Run("UnitPoint", func(t *testing.T) {
		p := rawFromFloat64(t, []float64{0.6, 0.8, 0}, tensor.Shape{3})
		ok, err := sphere.Belongs(p, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{true}, ok.AsBool())
	})

	t.Run("ScaledPoint", func(t *testing.T) {
		p := rawFromFloat64(t, []float64{1.2, 0, 0}, tensor.Shape{3})
		ok, err := sphere.Belongs(p, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{false}, ok.AsBool())
	})

	t.Run("Batch", func(t *testing.T) {
		p := rawFromFloat64(t, []float64{1, 0, 0, 2, 0, 0}, tensor.Shape{2, 3})
		ok, err := sphere.Belongs(p, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, ok.AsBool())
	})

	t.Run("IntrinsicDimRejected", func(t *testing.T) {
		p := rawFromFloat64(t, []float64{1, 0}, tensor.Shape{2})
		ok, err := sphere.Belongs(p, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{false}, ok.AsBool())
	})
}

func TestHypersphereProjection(t *testing.T) {
	sphere := newTestSphere(t, 2)
	p := rawFromFloat64(t, []float64{3, 4, 0}, tensor.Shape{3})

	proj, err := sphere.Projection(p)
	require.NoError(t, err)
	assertAllClose(t, proj, []float64{0.6, 0.8, 0}, 1e-12)
}

func TestHypersphereToTangent(t *testing.T) {
	sphere := newTestSphere(t, 2)
	p := rawFromFloat64(t, []float64{1, 0, 0}, tensor.Shape{3})
	v := rawFromFloat64(t, []float64{5, 1, 2}, tensor.Shape{3})

	tangent, err := sphere.ToTangent(v, p)
	require.NoError(t, err)
	assertAllClose(t, tangent, []float64{0, 1, 2}, 1e-12)
}

func TestHypersphereCoordinateRoundTrip(t *testing.T) {
	sphere := newTestSphere(t, 2)
	intrinsic := rawFromFloat64(t, []float64{0.3, -0.4, 0.1, 0.2}, tensor.Shape{2, 2})

	extrinsic, err := sphere.IntrinsicToExtrinsic(intrinsic)
	require.NoError(t, err)
	ok, err := sphere.Belongs(extrinsic, DefaultTol)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))

	back, err := sphere.ExtrinsicToIntrinsic(extrinsic)
	require.NoError(t, err)
	assertAllClose(t, back, []float64{0.3, -0.4, 0.1, 0.2}, 1e-12)
}

func TestHypersphereRandomPointBelongs(t *testing.T) {
	for _, dim := range []int{2, 4} {
		sphere := newTestSphere(t, dim)
		points, err := sphere.RandomPoint(50)
		require.NoError(t, err)
		ok, err := sphere.Belongs(points, DefaultTol)
		require.NoError(t, err)
		assert.True(t, allTrue(ok), "dim %d", dim)
	}
}

func TestHypersphereRandomUniformBelongs(t *testing.T) {
	sphere := newTestSphere(t, 2)
	points, err := sphere.RandomUniform(100)
	require.NoError(t, err)
	ok, err := sphere.Belongs(points, DefaultTol)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))
}

func TestHypersphereVonMisesFisher(t *testing.T) {
	sphere := newTestSphere(t, 2)

	samples, err := sphere.RandomVonMisesFisher(10, 200)
	require.NoError(t, err)
	ok, err := sphere.Belongs(samples, DefaultTol)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))

	// High concentration at the north pole: the z coordinate clusters near 1.
	var meanZ float64
	for i := 0; i < 200; i++ {
		meanZ += samples.FloatAt(i*3 + 2)
	}
	meanZ /= 200
	assert.Greater(t, meanZ, 0.5)
}

func TestHypersphereVonMisesFisherWrongDim(t *testing.T) {
	sphere := newTestSphere(t, 3)
	_, err := sphere.RandomVonMisesFisher(10, 5)
	var opErr *UnsupportedOperationError
	require.ErrorAs(t, err, &opErr)
}

func TestHypersphereParallelTransportPreservesNorm(t *testing.T) {
	sphere := newTestSphere(t, 2)
	metric := sphere.Metric()
	p := rawFromFloat64(t, []float64{1, 0, 0}, tensor.Shape{3})
	v := rawFromFloat64(t, []float64{0, 0.3, 0.4}, tensor.Shape{3})
	direction := rawFromFloat64(t, []float64{0, 1, 0}, tensor.Shape{3})

	transported, err := metric.ParallelTransport(v, p, direction)
	require.NoError(t, err)

	b := metric.backend
	normBefore := math.Hypot(0.3, 0.4)
	normAfter := rowNorm(b, atLeast2D(b, transported)).FloatAt(0)
	assert.InDelta(t, normBefore, normAfter, 1e-6)
}

func TestHypersphereGeodesicEndpoints(t *testing.T) {
	sphere := newTestSphere(t, 2)
	metric := sphere.Metric()
	p := rawFromFloat64(t, []float64{1, 0, 0}, tensor.Shape{3})
	q := rawFromFloat64(t, []float64{0, 1, 0}, tensor.Shape{3})

	gamma, err := metric.Geodesic(p, q)
	require.NoError(t, err)

	start, err := gamma(0)
	require.NoError(t, err)
	assertAllClose(t, start, []float64{1, 0, 0}, 1e-6)

	end, err := gamma(1)
	require.NoError(t, err)
	assertAllClose(t, end, []float64{0, 1, 0}, 1e-6)

	// Midpoint of the quarter circle.
	mid, err := gamma(0.5)
	require.NoError(t, err)
	s := math.Sqrt(2) / 2
	assertAllClose(t, mid, []float64{s, s, 0}, 1e-6)
}

func TestHypersphereExpStaysOnSphere(t *testing.T) {
	sphere := newTestSphere(t, 3)
	metric := sphere.Metric()

	points, err := sphere.RandomUniform(10)
	require.NoError(t, err)
	ambient := sphere.backend.RandNormal(tensor.Shape{10, 4}, tensor.Float64)
	tangents, err := sphere.ToTangent(ambient, points)
	require.NoError(t, err)

	moved, err := metric.Exp(tangents, points)
	require.NoError(t, err)
	ok, err := sphere.Belongs(moved, 1e-4)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))
}
