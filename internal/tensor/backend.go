package tensor

// Backend is the operation facade: the fixed catalog of numerical operations
// every compute engine must implement with identical semantics.
//
// Contract, uniform across engines:
//
//  1. Binary elementwise operations follow NumPy-style broadcasting (trailing
//     dimensions aligned, size-1 dimensions stretched); incompatible shapes
//     panic with a *ShapeError at the facade boundary, never produce NaN.
//  2. Results preserve the operand dtype unless Cast is called explicitly.
//  3. For identical inputs, engines agree within 1e-6 relative tolerance at
//     Float64 precision. Cross-engine parity is enforced by property tests.
//  4. Differentiation is a capability, not a catalog entry: engines that
//     record gradients additionally implement the Differentiable interface.
//
// Implementations:
//   - cpu: eager single-threaded array engine
//   - parallel: worker-pool engine sharing the cpu kernels
//   - autodiff: differentiable decorator over any other engine
type Backend interface {
	// Elementwise binary operations (broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Elementwise operations with a scalar operand
	AddScalar(x *RawTensor, scalar float64) *RawTensor
	SubScalar(x *RawTensor, scalar float64) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	DivScalar(x *RawTensor, scalar float64) *RawTensor
	PowScalar(x *RawTensor, exponent float64) *RawTensor

	// Elementwise unary math (float dtypes only)
	Neg(x *RawTensor) *RawTensor
	Abs(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Sin(x *RawTensor) *RawTensor
	Cos(x *RawTensor) *RawTensor
	Acos(x *RawTensor) *RawTensor
	Clip(x *RawTensor, lo, hi float64) *RawTensor

	// Linear algebra. MatMul accepts 2D operands or batched operands with
	// matching leading dimensions. SymEig accepts [..., n, n] symmetric
	// input and returns ascending eigenvalues [..., n] and orthonormal
	// eigenvectors [..., n, n] (columns). Solve, Cholesky and SVD are 2D.
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Solve(a, b *RawTensor) *RawTensor
	Cholesky(a *RawTensor) *RawTensor
	SymEig(a *RawTensor) (eigenvalues, eigenvectors *RawTensor)
	SVD(a *RawTensor) (u, s, v *RawTensor)

	// Reductions
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Comparison and selection. Comparisons return Bool tensors.
	Greater(a, b *RawTensor) *RawTensor
	Lower(a, b *RawTensor) *RawTensor
	Equal(a, b *RawTensor) *RawTensor
	Where(condition, x, y *RawTensor) *RawTensor

	// Shape manipulation
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Random sampling (float dtypes only). Sampling uses the engine's own
	// source; determinism across engines is not part of the parity contract.
	RandNormal(shape Shape, dtype DataType) *RawTensor
	RandUniform(shape Shape, dtype DataType) *RawTensor

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
