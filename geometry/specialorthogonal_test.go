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

func newTestSO3(t *testing.T) *SpecialOrthogonal {
	t.Helper()
	group, err := NewSpecialOrthogonal(3, testBackend())
	require.NoError(t, err)
	return group
}

func TestNewSpecialOrthogonalRejectsOtherSizes(t *testing.T) {
	_, err := NewSpecialOrthogonal(2, testBackend())
	require.Error(t, err)
}

func TestSpecialOrthogonalDimensions(t *testing.T) {
	group := newTestSO3(t)
	assert.Equal(t, 3, group.Dim())
	assert.Equal(t, 9, group.AmbientDim())
}

func TestGroupExpZeroVector(t *testing.T) {
	group := newTestSO3(t)
	zero := rawFromFloat64(t, []float64{0, 0, 0}, tensor.Shape{3})

	r, err := group.GroupExp(zero)
	require.NoError(t, err)
	assertAllClose(t, r, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, 1e-6)
}

func TestGroupExpQuarterTurnAroundZ(t *testing.T) {
	group := newTestSO3(t)
	vec := rawFromFloat64(t, []float64{0, 0, math.Pi / 2}, tensor.Shape{3})

	r, err := group.GroupExp(vec)
	require.NoError(t, err)
	assertAllClose(t, r, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	}, 1e-6)
}

func TestGroupLogQuarterTurnAroundZ(t *testing.T) {
	group := newTestSO3(t)
	r := rawFromFloat64(t, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	}, tensor.Shape{3, 3})

	// The full angle must come back, not a fraction of it.
	vec, err := group.GroupLog(r)
	require.NoError(t, err)
	assertAllClose(t, vec, []float64{0, 0, math.Pi / 2}, 1e-6)
}

func TestGroupExpLogRoundTrip(t *testing.T) {
	group := newTestSO3(t)
	vec := rawFromFloat64(t, []float64{0.1, -0.2, 0.3}, tensor.Shape{3})

	r, err := group.GroupExp(vec)
	require.NoError(t, err)
	back, err := group.GroupLog(r)
	require.NoError(t, err)
	assertAllClose(t, back, []float64{0.1, -0.2, 0.3}, 1e-6)
}

func TestGroupExpBelongs(t *testing.T) {
	group := newTestSO3(t)
	vecs := rawFromFloat64(t, []float64{
		0.5, 0, 0,
		0, 1, 2,
		-0.3, 0.7, 0.1,
	}, tensor.Shape{3, 3})

	rotations, err := group.GroupExp(vecs)
	require.NoError(t, err)
	assert.True(t, rotations.Shape().Equal(tensor.Shape{3, 3, 3}))

	ok, err := group.Belongs(rotations, 1e-6)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))
}

func TestSpecialOrthogonalBelongs(t *testing.T) {
	group := newTestSO3(t)

	t.Run("Identity", func(t *testing.T) {
		eye := rawFromFloat64(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, tensor.Shape{3, 3})
		ok, err := group.Belongs(eye, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{true}, ok.AsBool())
	})

	t.Run("Reflection", func(t *testing.T) {
		// Orthogonal with det -1: not a rotation.
		reflection := rawFromFloat64(t, []float64{-1, 0, 0, 0, 1, 0, 0, 0, 1}, tensor.Shape{3, 3})
		ok, err := group.Belongs(reflection, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{false}, ok.AsBool())
	})

	t.Run("Scaled", func(t *testing.T) {
		scaled := rawFromFloat64(t, []float64{2, 0, 0, 0, 2, 0, 0, 0, 2}, tensor.Shape{3, 3})
		ok, err := group.Belongs(scaled, DefaultTol)
		require.NoError(t, err)
		assert.Equal(t, []bool{false}, ok.AsBool())
	})
}

func TestSpecialOrthogonalProjection(t *testing.T) {
	group := newTestSO3(t)

	// A rotation perturbed off the group projects back onto it.
	vec := rawFromFloat64(t, []float64{0.3, 0.5, -0.2}, tensor.Shape{3})
	r, err := group.GroupExp(vec)
	require.NoError(t, err)
	b := group.backend
	perturbed := b.Add(r, b.MulScalar(b.RandNormal(r.Shape(), tensor.Float64), 0.05))

	proj, err := group.Projection(perturbed)
	require.NoError(t, err)
	ok, err := group.Belongs(proj, 1e-6)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))
}

func TestSpecialOrthogonalToTangentAtIdentity(t *testing.T) {
	group := newTestSO3(t)
	eye := rawFromFloat64(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, tensor.Shape{3, 3})
	v := rawFromFloat64(t, []float64{0, 2, 0, 0, 0, 0, 0, 0, 0}, tensor.Shape{3, 3})

	// At the identity the tangent projection is the skew-symmetric part.
	tangent, err := group.ToTangent(v, eye)
	require.NoError(t, err)
	assertAllClose(t, tangent, []float64{0, 1, 0, -1, 0, 0, 0, 0, 0}, 1e-12)
}

func TestSpecialOrthogonalCompose(t *testing.T) {
	group := newTestSO3(t)
	a := rawFromFloat64(t, []float64{0, 0, math.Pi / 4}, tensor.Shape{3})
	ra, err := group.GroupExp(a)
	require.NoError(t, err)

	// Two eighth turns around the same axis compose to a quarter turn.
	composed, err := group.Compose(ra, ra)
	require.NoError(t, err)
	vec, err := group.GroupLog(composed)
	require.NoError(t, err)
	assertAllClose(t, vec, []float64{0, 0, math.Pi / 2}, 1e-6)
}

func TestSpecialOrthogonalRandomPointBelongs(t *testing.T) {
	group := newTestSO3(t)
	rotations, err := group.RandomPoint(25)
	require.NoError(t, err)
	ok, err := group.Belongs(rotations, 1e-6)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))
}

func TestSkewAxialRoundTrip(t *testing.T) {
	b := testBackend()
	vec := rawFromFloat64(t, []float64{1, -2, 3, 0.5, 0, -0.5}, tensor.Shape{2, 3})

	k := Skew(b, vec)
	assert.True(t, k.Shape().Equal(tensor.Shape{2, 3, 3}))

	// Skew matrices are antisymmetric.
	asym := b.Add(k, transposeLast(b, k))
	for i := 0; i < asym.NumElements(); i++ {
		assert.InDelta(t, 0, asym.FloatAt(i), 1e-12)
	}

	back := Axial(b, k)
	assertAllClose(t, back, []float64{1, -2, 3, 0.5, 0, -0.5}, 1e-12)
}

func TestBCHConvergesWithOrder(t *testing.T) {
	group := newTestSO3(t)
	b := group.backend

	// Elements with norm 1/2 keep the series inside its convergence radius.
	normalize := func(data []float64) *tensor.RawTensor {
		norm := math.Sqrt(data[0]*data[0] + data[1]*data[1] + data[2]*data[2])
		vec := rawFromFloat64(t, []float64{
			data[0] / norm / 2, data[1] / norm / 2, data[2] / norm / 2,
		}, tensor.Shape{3})
		return vec
	}
	va := normalize([]float64{0.2, -0.7, 0.4})
	vb := normalize([]float64{0.5, 0.1, -0.3})

	ra, err := group.GroupExp(va)
	require.NoError(t, err)
	rb, err := group.GroupExp(vb)
	require.NoError(t, err)
	composed, err := group.Compose(ra, rb)
	require.NoError(t, err)
	exactVec, err := group.GroupLog(composed)
	require.NoError(t, err)
	exact := Skew(b, exactVec)

	frobError := func(approx *tensor.RawTensor) float64 {
		diff := b.Sub(approx, exact)
		return math.Sqrt(frobeniusInner(b, diff, diff).FloatAt(0))
	}

	ka, kb := Skew(b, va), Skew(b, vb)
	var errors [4]float64
	for order := 1; order <= 4; order++ {
		approx, err := group.BCH(ka, kb, order)
		require.NoError(t, err)
		errors[order-1] = frobError(approx)
	}

	// The truncation error shrinks as the order grows.
	assert.Less(t, errors[1], errors[0])
	assert.Less(t, errors[2], errors[1])
	assert.LessOrEqual(t, errors[3], errors[2])
	assert.Less(t, errors[3], 1e-3)
}

func TestBCHInvalidOrder(t *testing.T) {
	group := newTestSO3(t)
	k := Skew(group.backend, rawFromFloat64(t, []float64{0.1, 0.1, 0.1}, tensor.Shape{3}))

	for _, order := range []int{0, 5} {
		_, err := group.BCH(k, k, order)
		var opErr *UnsupportedOperationError
		require.ErrorAs(t, err, &opErr, "order %d", order)
	}
}

func TestBiInvariantMetricExpLogRoundTrip(t *testing.T) {
	group := newTestSO3(t)
	metric := group.Metric()
	b := group.backend

	base, err := group.GroupExp(rawFromFloat64(t, []float64{0.2, 0.1, -0.3}, tensor.Shape{3}))
	require.NoError(t, err)
	algebra := Skew(b, rawFromFloat64(t, []float64{0.15, -0.1, 0.2}, tensor.Shape{3}))
	tangent := b.MatMul(base, algebra)

	q, err := metric.Exp(tangent, base)
	require.NoError(t, err)
	ok, err := group.Belongs(q, 1e-6)
	require.NoError(t, err)
	assert.True(t, allTrue(ok))

	back, err := metric.Log(q, base)
	require.NoError(t, err)
	for i := 0; i < tangent.NumElements(); i++ {
		assert.InDelta(t, tangent.FloatAt(i), back.FloatAt(i), 1e-6)
	}
}

func TestBiInvariantMetricDist(t *testing.T) {
	group := newTestSO3(t)
	metric := group.Metric()

	eye := rawFromFloat64(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, tensor.Shape{3, 3})
	r, err := group.GroupExp(rawFromFloat64(t, []float64{0, 0, 0.5}, tensor.Shape{3}))
	require.NoError(t, err)

	// The Frobenius metric on the algebra gives squared distance 2 theta^2
	// for a rotation by angle theta.
	sq, err := metric.SquaredDist(eye, r)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sq.FloatAt(0), 1e-9)

	d, err := metric.Dist(eye, r)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), d.FloatAt(0), 1e-9)
}

func TestBiInvariantMetricSchildLadderTransport(t *testing.T) {
	group := newTestSO3(t)
	metric := group.Metric()
	b := group.backend

	eye := rawFromFloat64(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, tensor.Shape{3, 3})
	vec := b.MatMul(atLeast3D(b, eye), Skew(b, rawFromFloat64(t, []float64{0.2, 0, 0.1}, tensor.Shape{3})))
	direction := b.MatMul(atLeast3D(b, eye), Skew(b, rawFromFloat64(t, []float64{0, 0.4, 0}, tensor.Shape{3})))

	transported, err := metric.ParallelTransport(vec, eye, direction)
	require.NoError(t, err)

	// The ladder is approximate; the bi-invariant norm must survive within
	// the rung discretization error.
	normBefore := math.Sqrt(frobeniusInner(b, vec, vec).FloatAt(0))
	normAfter := math.Sqrt(frobeniusInner(b, transported, transported).FloatAt(0))
	assert.InDelta(t, normBefore, normAfter, 0.05*normBefore)
}
