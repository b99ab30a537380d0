// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/geomstats-ml/geomstats/internal/tensor"

// Backend is the operation facade: the fixed catalog of numerical
// operations every compute engine must implement with identical semantics.
//
// Contract, uniform across engines:
//
//  1. Binary elementwise operations follow NumPy-style broadcasting;
//     incompatible shapes panic with a *ShapeError at the facade boundary.
//  2. Results preserve the operand dtype unless Cast is called explicitly.
//  3. For identical inputs, engines agree within 1e-6 relative tolerance at
//     Float64 precision.
//  4. Differentiation is a capability, not a catalog entry: engines that
//     record gradients additionally satisfy autodiff.Differentiable.
//
// Implementations:
//   - backend/cpu: eager single-threaded array engine
//   - backend/parallel: worker-pool engine sharing the cpu kernels
//   - autodiff: differentiable decorator over any other engine
//
// Example:
//
//	import (
//	    "github.com/geomstats-ml/geomstats/tensor"
//	    "github.com/geomstats-ml/geomstats/backend/cpu"
//	)
//
//	engine := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, engine)
//	y := tensor.Ones[float64](tensor.Shape{2, 3}, engine)
//	z := x.Add(y) // uses engine.Add under the hood
type Backend = tensor.Backend
