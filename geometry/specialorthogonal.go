// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"
	"math"

	"github.com/geomstats-ml/geomstats/tensor"
)

// SpecialOrthogonal is the rotation group SO(3): orthogonal 3 x 3 matrices
// with determinant +1. Points are [*, 3, 3] rotation matrices; the Lie
// algebra so(3) is handled both as rotation vectors [*, 3] and as
// skew-symmetric matrices [*, 3, 3].
type SpecialOrthogonal struct {
	n       int
	backend tensor.Backend
	metric  *BiInvariantMetric
}

// NewSpecialOrthogonal creates the rotation group on the given engine.
// Only n=3 is implemented.
func NewSpecialOrthogonal(n int, backend tensor.Backend) (*SpecialOrthogonal, error) {
	if n != 3 {
		return nil, fmt.Errorf("special orthogonal: only n=3 is implemented, got %d", n)
	}
	group := &SpecialOrthogonal{n: n, backend: backend}
	group.metric = newBiInvariantMetric(group)
	return group, nil
}

// Dim is the intrinsic dimension, n(n-1)/2 = 3.
func (g *SpecialOrthogonal) Dim() int { return g.n * (g.n - 1) / 2 }

// AmbientDim is the flattened matrix size.
func (g *SpecialOrthogonal) AmbientDim() int { return g.n * g.n }

// Metric returns the bi-invariant metric bound to this group.
func (g *SpecialOrthogonal) Metric() *BiInvariantMetric { return g.metric }

// Belongs checks orthogonality (R^T R = I within tol) and det = +1 per
// batch element.
func (g *SpecialOrthogonal) Belongs(point *tensor.RawTensor, tol float64) (*tensor.RawTensor, error) {
	if err := checkSquare("belongs", point, g.n); err != nil {
		return nil, err
	}
	b := g.backend
	p := atLeast3D(b, point)
	batch := p.Shape()[0]

	gram := b.MatMul(transposeLast(b, p), p)
	deviation := b.Abs(b.Sub(gram, identityBatch(b, batch, g.n, p.DType())))
	maxDev := b.MaxDim(b.MaxDim(deviation, -1, false), -1, false) // [batch]

	result, err := boolRow(batch, false, b)
	if err != nil {
		return nil, err
	}
	out := result.AsBool()
	for i := 0; i < batch; i++ {
		out[i] = maxDev.FloatAt(i) <= tol && math.Abs(det3(p, i)-1) <= tol
	}
	return result, nil
}

// Projection maps a matrix to the nearest rotation via its singular value
// decomposition, flipping the last singular direction when the raw
// projection would land on a reflection.
func (g *SpecialOrthogonal) Projection(point *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("projection", point, g.n); err != nil {
		return nil, err
	}
	b := g.backend
	p := atLeast3D(b, point)
	batch := p.Shape()[0]
	n := g.n

	out, err := tensor.NewRaw(p.Shape(), p.DType(), b.Device())
	if err != nil {
		return nil, err
	}
	for i := 0; i < batch; i++ {
		matrix, err := tensor.NewRaw(tensor.Shape{n, n}, p.DType(), b.Device())
		if err != nil {
			return nil, err
		}
		for j := 0; j < n*n; j++ {
			matrix.SetFloatAt(j, p.FloatAt(i*n*n+j))
		}

		u, _, v := b.SVD(matrix)
		rotation := b.MatMul(u, transposeLast(b, v))
		if det3(rotation, 0) < 0 {
			// Flip the last column of U and recompose.
			for row := 0; row < n; row++ {
				u.SetFloatAt(row*n+n-1, -u.FloatAt(row*n+n-1))
			}
			rotation = b.MatMul(u, transposeLast(b, v))
		}
		for j := 0; j < n*n; j++ {
			out.SetFloatAt(i*n*n+j, rotation.FloatAt(j))
		}
	}
	return out, nil
}

// ToTangent projects an ambient matrix onto the tangent space at a
// rotation R: the image under left translation of the skew-symmetric part
// of R^T v.
func (g *SpecialOrthogonal) ToTangent(vector, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("to_tangent", vector, g.n); err != nil {
		return nil, err
	}
	b := g.backend
	v := atLeast3D(b, vector)
	r := atLeast3D(b, basePoint)
	return b.MatMul(r, skewPart(b, b.MatMul(transposeLast(b, r), v))), nil
}

// RandomPoint samples rotations as the group exponential of Gaussian
// rotation vectors. Not uniform with respect to the Haar measure.
func (g *SpecialOrthogonal) RandomPoint(nSamples int) (*tensor.RawTensor, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("special orthogonal: nSamples must be positive, got %d", nSamples)
	}
	vectors := g.backend.RandNormal(tensor.Shape{nSamples, g.Dim()}, tensor.Float64)
	return g.GroupExp(vectors)
}

// Compose is the group operation, matrix multiplication.
func (g *SpecialOrthogonal) Compose(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("compose", a, g.n); err != nil {
		return nil, err
	}
	bk := g.backend
	return bk.MatMul(atLeast3D(bk, a), atLeast3D(bk, b)), nil
}

// GroupExp maps rotation vectors [*, 3] to rotation matrices via the
// Rodrigues formula: R = I + sin(t)/t K + (1-cos(t))/t^2 K^2 with t the
// rotation angle and K the skew matrix of the vector.
func (g *SpecialOrthogonal) GroupExp(rotVec *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkAmbient("group_exp", rotVec, g.Dim()); err != nil {
		return nil, err
	}
	b := g.backend
	vec := atLeast2D(b, rotVec)
	batch := vec.Shape()[0]

	theta := b.AddScalar(rowNorm(b, vec), epsilon) // [batch, 1]
	coef1 := b.Unsqueeze(b.Div(b.Sin(theta), theta), 2)
	coef2 := b.Unsqueeze(b.Div(b.SubScalar(b.Cos(theta), 1), b.Neg(b.Mul(theta, theta))), 2)

	k := Skew(b, vec)
	k2 := b.MatMul(k, k)
	eye := identityBatch(b, batch, g.n, vec.DType())
	return b.Add(eye, b.Add(b.Mul(coef1, k), b.Mul(coef2, k2))), nil
}

// GroupLog maps rotation matrices to rotation vectors: the angle comes
// from the trace, the axis from the skew-symmetric part. Near angle 0 the
// coefficient switches to its Taylor expansion. Rotations with angle near
// pi have an ill-conditioned axis extraction; callers needing those should
// stay within the injectivity radius.
func (g *SpecialOrthogonal) GroupLog(rotMat *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("group_log", rotMat, g.n); err != nil {
		return nil, err
	}
	b := g.backend
	r := atLeast3D(b, rotMat)
	batch := r.Shape()[0]

	trace := frobeniusInner(b, r, identityBatch(b, batch, g.n, r.DType())) // [batch]
	cosTheta := b.Clip(b.MulScalar(b.SubScalar(trace, 1), 0.5), -1, 1)
	theta := b.Unsqueeze(b.Acos(cosTheta), 1) // [batch, 1]

	mask0 := b.Lower(theta, tensor.FullRaw(theta.Shape(), epsilon, theta.DType(), b))
	ones := tensor.FullRaw(theta.Shape(), 1, theta.DType(), b)
	thetaSafe := b.Where(mask0, ones, theta)

	// theta / sin theta, Taylor-guarded at 0. skewPart already carries the
	// 1/2 of log(R) = theta/(2 sin theta) (R - R^T).
	coef := b.Where(mask0,
		taylorSeries(b, theta, invSinTaylor),
		b.Div(theta, b.Sin(thetaSafe)),
	)

	return b.Mul(coef, Axial(b, skewPart(b, r))), nil
}

// BCH truncates the Baker-Campbell-Hausdorff series for
// log(exp(a) exp(b)) on the Lie algebra, with a and b skew-symmetric
// matrices. Orders 1 through 4 are implemented; the series converges when
// the norms of a and b sum below log 2.
func (g *SpecialOrthogonal) BCH(a, b *tensor.RawTensor, order int) (*tensor.RawTensor, error) {
	if order < 1 || order > 4 {
		return nil, &UnsupportedOperationError{
			Op:      "bch",
			Backend: g.backend.Name(),
			Reason:  fmt.Sprintf("truncation order must be in [1, 4], got %d", order),
		}
	}
	if err := checkSquare("bch", a, g.n); err != nil {
		return nil, err
	}
	bk := g.backend
	x := atLeast3D(bk, a)
	y := atLeast3D(bk, b)

	result := bk.Add(x, y)
	if order >= 2 {
		result = bk.Add(result, bk.MulScalar(bracket(bk, x, y), 0.5))
	}
	if order >= 3 {
		xy := bracket(bk, x, y)
		result = bk.Add(result, bk.MulScalar(bracket(bk, x, xy), 1.0/12.0))
		result = bk.Add(result, bk.MulScalar(bracket(bk, y, bracket(bk, y, x)), 1.0/12.0))
	}
	if order >= 4 {
		xy := bracket(bk, x, y)
		result = bk.Sub(result, bk.MulScalar(bracket(bk, y, bracket(bk, x, xy)), 1.0/24.0))
	}
	return result, nil
}

// BiInvariantMetric is the bi-invariant metric on SO(3): the Frobenius
// inner product on the algebra, transported by left translation. Exp and
// Log reduce to the group exponential and logarithm; squared distance,
// geodesics and parallel transport come from the generic fallbacks.
type BiInvariantMetric struct {
	Base
	group   *SpecialOrthogonal
	backend tensor.Backend
}

func newBiInvariantMetric(group *SpecialOrthogonal) *BiInvariantMetric {
	m := &BiInvariantMetric{group: group, backend: group.backend}
	m.Base = NewBase(m, group, group.backend)
	return m
}

// InnerProduct is the Frobenius inner product of the tangent matrices.
func (m *BiInvariantMetric) InnerProduct(tangentVecA, tangentVecB, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("inner_product", tangentVecA, m.group.n); err != nil {
		return nil, err
	}
	b := m.backend
	return frobeniusInner(b, atLeast3D(b, tangentVecA), atLeast3D(b, tangentVecB)), nil
}

// Exp left-translates the tangent to the identity, applies the group
// exponential, and translates back: exp_R(v) = R expm(R^T v).
func (m *BiInvariantMetric) Exp(tangentVec, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("exp", tangentVec, m.group.n); err != nil {
		return nil, err
	}
	b := m.backend
	v := atLeast3D(b, tangentVec)
	r := atLeast3D(b, basePoint)

	algebraVec := Axial(b, skewPart(b, b.MatMul(transposeLast(b, r), v)))
	rotation, err := m.group.GroupExp(algebraVec)
	if err != nil {
		return nil, err
	}
	return b.MatMul(r, rotation), nil
}

// Log is the inverse: log_R(Q) = R skew(group_log(R^T Q)).
func (m *BiInvariantMetric) Log(point, basePoint *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkSquare("log", point, m.group.n); err != nil {
		return nil, err
	}
	b := m.backend
	q := atLeast3D(b, point)
	r := atLeast3D(b, basePoint)

	algebraVec, err := m.group.GroupLog(b.MatMul(transposeLast(b, r), q))
	if err != nil {
		return nil, err
	}
	return b.MatMul(r, Skew(b, algebraVec)), nil
}

// Lie algebra plumbing.

// Skew maps rotation vectors [*, 3] to skew-symmetric matrices [*, 3, 3].
func Skew(b tensor.Backend, vec *tensor.RawTensor) *tensor.RawTensor {
	v := atLeast2D(b, vec)
	batch := v.Shape()[0]

	out, err := tensor.NewRaw(tensor.Shape{batch, 3, 3}, v.DType(), b.Device())
	if err != nil {
		panic(err)
	}
	for i := 0; i < batch; i++ {
		x, y, z := v.FloatAt(i*3), v.FloatAt(i*3+1), v.FloatAt(i*3+2)
		base := i * 9
		out.SetFloatAt(base+1, -z)
		out.SetFloatAt(base+2, y)
		out.SetFloatAt(base+3, z)
		out.SetFloatAt(base+5, -x)
		out.SetFloatAt(base+6, -y)
		out.SetFloatAt(base+7, x)
	}
	return out
}

// Axial inverts Skew, reading the rotation vector off a skew-symmetric
// matrix [*, 3, 3].
func Axial(b tensor.Backend, skew *tensor.RawTensor) *tensor.RawTensor {
	s := atLeast3D(b, skew)
	batch := s.Shape()[0]

	out, err := tensor.NewRaw(tensor.Shape{batch, 3}, s.DType(), b.Device())
	if err != nil {
		panic(err)
	}
	for i := 0; i < batch; i++ {
		base := i * 9
		out.SetFloatAt(i*3, s.FloatAt(base+7))   // K[2][1]
		out.SetFloatAt(i*3+1, s.FloatAt(base+2)) // K[0][2]
		out.SetFloatAt(i*3+2, s.FloatAt(base+3)) // K[1][0]
	}
	return out
}

// skewPart returns (x - x^T) / 2.
func skewPart(b tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor {
	return b.MulScalar(b.Sub(x, transposeLast(b, x)), 0.5)
}

// bracket is the matrix commutator [x, y] = xy - yx.
func bracket(b tensor.Backend, x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.Sub(b.MatMul(x, y), b.MatMul(y, x))
}

// identityBatch builds [batch, n, n] stacked identity matrices.
func identityBatch(b tensor.Backend, batch, n int, dtype tensor.DataType) *tensor.RawTensor {
	eye := tensor.EyeRaw(n, dtype, b)
	return b.Expand(b.Unsqueeze(eye, 0), tensor.Shape{batch, n, n})
}

// det3 computes the determinant of the i-th 3x3 matrix in a batch.
func det3(t *tensor.RawTensor, i int) float64 {
	base := i * 9
	a := t.FloatAt(base)
	b := t.FloatAt(base + 1)
	c := t.FloatAt(base + 2)
	d := t.FloatAt(base + 3)
	e := t.FloatAt(base + 4)
	f := t.FloatAt(base + 5)
	g := t.FloatAt(base + 6)
	h := t.FloatAt(base + 7)
	k := t.FloatAt(base + 8)
	return a*(e*k-f*h) - b*(d*k-f*g) + c*(d*h-e*g)
}
