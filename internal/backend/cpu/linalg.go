package cpu

import (
	"math"

	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// jacobiTol stops the eigenvalue sweeps once the off-diagonal norm falls
// below this fraction of the Frobenius norm.
const jacobiTol = 1e-14

const maxJacobiSweeps = 64

// MatMul performs matrix multiplication on 2D operands or batched operands
// with identical leading dimensions: [..., m, k] @ [..., k, n] → [..., m, n].
func (cpu *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) < 2 || len(bShape) < 2 {
		panic(&tensor.ShapeError{Op: "matmul", A: aShape, B: bShape, Detail: "operands must be at least 2D"})
	}
	if len(aShape) != len(bShape) {
		panic(&tensor.ShapeError{Op: "matmul", A: aShape, B: bShape, Detail: "operand ranks differ"})
	}

	ndim := len(aShape)
	m, k := aShape[ndim-2], aShape[ndim-1]
	k2, n := bShape[ndim-2], bShape[ndim-1]
	if k != k2 {
		panic(&tensor.ShapeError{Op: "matmul", A: aShape, B: bShape, Detail: "inner dimensions do not match"})
	}

	batch := 1
	outShape := make(tensor.Shape, ndim)
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(&tensor.ShapeError{Op: "matmul", A: aShape, B: bShape, Detail: "batch dimensions do not match"})
		}
		batch *= aShape[i]
		outShape[i] = aShape[i]
	}
	outShape[ndim-2], outShape[ndim-1] = m, n

	result := newResult(outShape, a.DType(), cpu.device, "matmul")
	for bi := 0; bi < batch; bi++ {
		aOff, bOff, oOff := bi*m*k, bi*k*n, bi*m*n
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				sum := 0.0
				for p := 0; p < k; p++ {
					sum += a.FloatAt(aOff+i*k+p) * b.FloatAt(bOff+p*n+j)
				}
				result.SetFloatAt(oOff+i*n+j, sum)
			}
		}
	}
	return result
}

// Transpose permutes the tensor's dimensions.
// With no axes, all dimensions are reversed (2D: standard transpose).
func (cpu *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(&tensor.ShapeError{Op: "transpose", A: shape, Detail: "axes length does not match rank"})
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(&tensor.ShapeError{Op: "transpose", A: shape, Detail: "invalid axis permutation"})
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := newResult(newShape, t.DType(), cpu.device, "transpose")
	inStrides := shape.ComputeStrides()
	outStrides := newShape.ComputeStrides()
	n := t.NumElements()

	coords := make([]int, ndim)
	for i := 0; i < n; i++ {
		rem := i
		for d := 0; d < ndim; d++ {
			coords[d] = rem / outStrides[d]
			rem %= outStrides[d]
		}
		src := 0
		for d := 0; d < ndim; d++ {
			src += coords[d] * inStrides[axes[d]]
		}
		result.SetFloatAt(i, t.FloatAt(src))
	}
	return result
}

// Solve solves the linear system a @ x = b for x, with a square [n, n] and
// b of shape [n] or [n, m]. Gaussian elimination with partial pivoting,
// computed in float64 regardless of the operand dtype.
func (cpu *Backend) Solve(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || aShape[0] != aShape[1] {
		panic(&tensor.ShapeError{Op: "solve", A: aShape, Detail: "coefficient matrix must be square 2D"})
	}
	n := aShape[0]
	cols := 1
	if len(bShape) == 2 {
		cols = bShape[1]
	}
	if bShape[0] != n || len(bShape) > 2 {
		panic(&tensor.ShapeError{Op: "solve", A: aShape, B: bShape, Detail: "right-hand side shape does not match"})
	}

	// Augmented working copy in float64.
	m := make([]float64, n*n)
	rhs := make([]float64, n*cols)
	for i := 0; i < n*n; i++ {
		m[i] = a.FloatAt(i)
	}
	for i := 0; i < n*cols; i++ {
		rhs[i] = b.FloatAt(i)
	}

	for col := 0; col < n; col++ {
		pivot := col
		maxVal := math.Abs(m[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(m[r*n+col]); v > maxVal {
				maxVal, pivot = v, r
			}
		}
		if maxVal == 0 {
			panic(&tensor.ShapeError{Op: "solve", A: aShape, Detail: "singular matrix"})
		}
		if pivot != col {
			for c := col; c < n; c++ {
				m[col*n+c], m[pivot*n+c] = m[pivot*n+c], m[col*n+c]
			}
			for c := 0; c < cols; c++ {
				rhs[col*cols+c], rhs[pivot*cols+c] = rhs[pivot*cols+c], rhs[col*cols+c]
			}
		}
		inv := 1.0 / m[col*n+col]
		for r := col + 1; r < n; r++ {
			factor := m[r*n+col] * inv
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				m[r*n+c] -= factor * m[col*n+c]
			}
			for c := 0; c < cols; c++ {
				rhs[r*cols+c] -= factor * rhs[col*cols+c]
			}
		}
	}

	// Back substitution.
	for col := n - 1; col >= 0; col-- {
		inv := 1.0 / m[col*n+col]
		for c := 0; c < cols; c++ {
			sum := rhs[col*cols+c]
			for p := col + 1; p < n; p++ {
				sum -= m[col*n+p] * rhs[p*cols+c]
			}
			rhs[col*cols+c] = sum * inv
		}
	}

	result := newResult(bShape, a.DType(), cpu.device, "solve")
	for i := 0; i < n*cols; i++ {
		result.SetFloatAt(i, rhs[i])
	}
	return result
}

// Cholesky computes the lower-triangular Cholesky factor L of a symmetric
// positive-definite 2D matrix, a = L @ Lᵀ. Panics with *ShapeError if the
// matrix is not positive-definite.
func (cpu *Backend) Cholesky(a *tensor.RawTensor) *tensor.RawTensor {
	shape := a.Shape()
	if len(shape) != 2 || shape[0] != shape[1] {
		panic(&tensor.ShapeError{Op: "cholesky", A: shape, Detail: "matrix must be square 2D"})
	}
	n := shape[0]

	l := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a.FloatAt(i*n + j)
			for p := 0; p < j; p++ {
				sum -= l[i*n+p] * l[j*n+p]
			}
			if i == j {
				if sum <= 0 {
					panic(&tensor.ShapeError{Op: "cholesky", A: shape, Detail: "matrix is not positive-definite"})
				}
				l[i*n+j] = math.Sqrt(sum)
			} else {
				l[i*n+j] = sum / l[j*n+j]
			}
		}
	}

	result := newResult(shape, a.DType(), cpu.device, "cholesky")
	for i := 0; i < n*n; i++ {
		result.SetFloatAt(i, l[i])
	}
	return result
}

// SymEig computes the eigendecomposition of symmetric matrices by cyclic
// Jacobi rotations. Input is [..., n, n]; eigenvalues come back ascending in
// [..., n] with matching eigenvector columns in [..., n, n], so that
// a = V @ diag(w) @ Vᵀ.
func (cpu *Backend) SymEig(a *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	shape := a.Shape()
	ndim := len(shape)
	if ndim < 2 || shape[ndim-2] != shape[ndim-1] {
		panic(&tensor.ShapeError{Op: "symeig", A: shape, Detail: "matrices must be square"})
	}
	n := shape[ndim-1]
	batch := shape[:ndim-2].NumElements()

	valShape := append(shape[:ndim-2].Clone(), n)
	vals := newResult(valShape, a.DType(), cpu.device, "symeig")
	vecs := newResult(shape.Clone(), a.DType(), cpu.device, "symeig")

	w := make([]float64, n)
	m := make([]float64, n*n)
	v := make([]float64, n*n)

	for bi := 0; bi < batch; bi++ {
		off := bi * n * n
		for i := 0; i < n*n; i++ {
			m[i] = a.FloatAt(off + i)
		}
		jacobiEig(m, v, w, n)
		for i := 0; i < n; i++ {
			vals.SetFloatAt(bi*n+i, w[i])
		}
		for i := 0; i < n*n; i++ {
			vecs.SetFloatAt(off+i, v[i])
		}
	}
	return vals, vecs
}

// jacobiEig diagonalizes the symmetric matrix m in place, accumulating the
// rotations in v and the ascending eigenvalues in w.
func jacobiEig(m, v, w []float64, n int) {
	for i := 0; i < n*n; i++ {
		v[i] = 0
	}
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}

	frob := 0.0
	for i := 0; i < n*n; i++ {
		frob += m[i] * m[i]
	}
	frob = math.Sqrt(frob)

	for sweep := 0; sweep < maxJacobiSweeps; sweep++ {
		off := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += m[p*n+q] * m[p*n+q]
			}
		}
		if math.Sqrt(2*off) <= jacobiTol*frob || off == 0 {
			break
		}

		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				apq := m[p*n+q]
				if apq == 0 {
					continue
				}
				app, aqq := m[p*n+p], m[q*n+q]
				theta := (aqq - app) / (2 * apq)
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for k := 0; k < n; k++ {
					mkp, mkq := m[k*n+p], m[k*n+q]
					m[k*n+p] = c*mkp - s*mkq
					m[k*n+q] = s*mkp + c*mkq
				}
				for k := 0; k < n; k++ {
					mpk, mqk := m[p*n+k], m[q*n+k]
					m[p*n+k] = c*mpk - s*mqk
					m[q*n+k] = s*mpk + c*mqk
				}
				for k := 0; k < n; k++ {
					vkp, vkq := v[k*n+p], v[k*n+q]
					v[k*n+p] = c*vkp - s*vkq
					v[k*n+q] = s*vkp + c*vkq
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		w[i] = m[i*n+i]
	}

	// Sort eigenvalues ascending, carrying eigenvector columns along.
	for i := 0; i < n-1; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			if w[j] < w[minIdx] {
				minIdx = j
			}
		}
		if minIdx != i {
			w[i], w[minIdx] = w[minIdx], w[i]
			for k := 0; k < n; k++ {
				v[k*n+i], v[k*n+minIdx] = v[k*n+minIdx], v[k*n+i]
			}
		}
	}
}

// SVD computes the reduced singular value decomposition of a 2D matrix:
// a = U @ diag(s) @ Vᵀ with descending singular values, U of shape
// [m, k], s of shape [k], V of shape [n, k] for k = min(m, n).
//
// Implemented via the symmetric eigendecomposition of aᵀa; adequate for the
// well-conditioned matrices geometry produces, not for near-rank-deficient
// input.
func (cpu *Backend) SVD(a *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor) {
	shape := a.Shape()
	if len(shape) != 2 {
		panic(&tensor.ShapeError{Op: "svd", A: shape, Detail: "input must be 2D"})
	}
	m, n := shape[0], shape[1]
	k := min(m, n)

	// Gram matrix aᵀa in float64.
	gram := newResult(tensor.Shape{n, n}, tensor.Float64, cpu.device, "svd")
	gv := gram.AsFloat64()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for p := 0; p < m; p++ {
				sum += a.FloatAt(p*n+i) * a.FloatAt(p*n+j)
			}
			gv[i*n+j] = sum
		}
	}

	valsT, vecsT := cpu.SymEig(gram)
	vals := valsT.AsFloat64()
	vecs := vecsT.AsFloat64()

	u := newResult(tensor.Shape{m, k}, a.DType(), cpu.device, "svd")
	s := newResult(tensor.Shape{k}, a.DType(), cpu.device, "svd")
	v := newResult(tensor.Shape{n, k}, a.DType(), cpu.device, "svd")

	// Eigenvalues are ascending; singular values descend.
	for col := 0; col < k; col++ {
		ei := n - 1 - col
		sv := math.Sqrt(math.Max(vals[ei], 0))
		s.SetFloatAt(col, sv)
		for i := 0; i < n; i++ {
			v.SetFloatAt(i*k+col, vecs[i*n+ei])
		}
		if sv > 0 {
			inv := 1 / sv
			for i := 0; i < m; i++ {
				sum := 0.0
				for j := 0; j < n; j++ {
					sum += a.FloatAt(i*n+j) * vecs[j*n+ei]
				}
				u.SetFloatAt(i*k+col, sum*inv)
			}
		}
	}
	return u, s, v
}
