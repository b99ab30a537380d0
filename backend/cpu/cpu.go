// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the eager single-threaded compute engine.
//
// This is the default engine: pure Go, no CGO, Float32/Float64/Int64/Bool
// support and NumPy-compatible broadcasting. Every other engine is
// validated against its results.
//
// # Basic Usage
//
//	import (
//	    "github.com/geomstats-ml/geomstats/backend/cpu"
//	    "github.com/geomstats-ml/geomstats/tensor"
//	)
//
//	func main() {
//	    engine := cpu.New()
//	    x := tensor.Zeros[float64](tensor.Shape{2, 3}, engine)
//	    _ = x
//	}
package cpu

import (
	internalcpu "github.com/geomstats-ml/geomstats/internal/backend/cpu"
	"github.com/geomstats-ml/geomstats/tensor"
)

// Backend is the eager CPU engine.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements the facade.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU engine.
func New() *Backend {
	return internalcpu.New()
}
