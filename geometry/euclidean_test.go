// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geomstats-ml/geomstats/tensor"
)

func newTestEuclidean(t *testing.T, dim int) *Euclidean {
	t.Helper()
	space, err := NewEuclidean(dim, testBackend())
	require.NoError(t, err)
	return space
}

func TestNewEuclideanRejectsNonPositiveDim(t *testing.T) {
	_, err := NewEuclidean(0, testBackend())
	require.Error(t, err)
}

func TestEuclideanBelongsAlwaysTrue(t *testing.T) {
	space := newTestEuclidean(t, 3)
	p := rawFromFloat64(t, []float64{1, -50, 0.3, 2, 7, 9}, tensor.Shape{2, 3})
	ok, err := space.Belongs(p, DefaultTol)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, ok.AsBool())
}

func TestEuclideanExpIsTranslation(t *testing.T) {
	space := newTestEuclidean(t, 2)
	p := rawFromFloat64(t, []float64{1, 2}, tensor.Shape{2})
	v := rawFromFloat64(t, []float64{0.5, -1}, tensor.Shape{2})

	q, err := space.Metric().Exp(v, p)
	require.NoError(t, err)
	assertAllClose(t, q, []float64{1.5, 1}, 1e-12)
}

func TestEuclideanLogIsDifference(t *testing.T) {
	space := newTestEuclidean(t, 2)
	p := rawFromFloat64(t, []float64{1, 2}, tensor.Shape{2})
	q := rawFromFloat64(t, []float64{4, 6}, tensor.Shape{2})

	v, err := space.Metric().Log(q, p)
	require.NoError(t, err)
	assertAllClose(t, v, []float64{3, 4}, 1e-12)
}

func TestEuclideanDistIsNorm(t *testing.T) {
	space := newTestEuclidean(t, 2)
	p := rawFromFloat64(t, []float64{1, 2}, tensor.Shape{2})
	q := rawFromFloat64(t, []float64{4, 6}, tensor.Shape{2})

	d, err := space.Metric().Dist(p, q)
	require.NoError(t, err)
	assertAllClose(t, d, []float64{5}, 1e-12)
}

func TestEuclideanParallelTransportIsIdentity(t *testing.T) {
	space := newTestEuclidean(t, 3)
	v := rawFromFloat64(t, []float64{1, 2, 3}, tensor.Shape{3})
	p := rawFromFloat64(t, []float64{0, 0, 0}, tensor.Shape{3})
	w := rawFromFloat64(t, []float64{5, 5, 5}, tensor.Shape{3})

	transported, err := space.Metric().ParallelTransport(v, p, w)
	require.NoError(t, err)
	assertAllClose(t, transported, []float64{1, 2, 3}, 1e-12)
}

func TestEuclideanGeodesicIsLine(t *testing.T) {
	space := newTestEuclidean(t, 2)
	p := rawFromFloat64(t, []float64{0, 0}, tensor.Shape{2})
	q := rawFromFloat64(t, []float64{2, 4}, tensor.Shape{2})

	gamma, err := space.Metric().Geodesic(p, q)
	require.NoError(t, err)
	mid, err := gamma(0.5)
	require.NoError(t, err)
	assertAllClose(t, mid, []float64{1, 2}, 1e-12)
}

func TestEuclideanRandomPointShape(t *testing.T) {
	space := newTestEuclidean(t, 4)
	points, err := space.RandomPoint(7)
	require.NoError(t, err)
	assert.True(t, points.Shape().Equal(tensor.Shape{7, 4}))
}
