// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package parallel provides the multi-threaded compute engine.
//
// Elementwise and scalar operations are split across a worker pool;
// linear algebra, reductions and shape operations delegate to the eager
// CPU engine. Results agree with the CPU engine to within 1e-6 at Float64.
//
// # Basic Usage
//
//	import (
//	    "github.com/geomstats-ml/geomstats/backend/parallel"
//	    "github.com/geomstats-ml/geomstats/tensor"
//	)
//
//	func main() {
//	    engine := parallel.New()
//	    x := tensor.Randn[float64](tensor.Shape{4096, 4096}, engine)
//	    _ = x
//	}
package parallel

import (
	internalparallel "github.com/geomstats-ml/geomstats/internal/backend/parallel"
	"github.com/geomstats-ml/geomstats/internal/parallel"
	"github.com/geomstats-ml/geomstats/tensor"
)

// Backend is the worker-pool engine.
type Backend = internalparallel.Backend

// Config controls worker count and chunking thresholds.
type Config = parallel.Config

// DefaultConfig returns the default worker-pool configuration.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// Compile-time check that Backend implements the facade.
var _ tensor.Backend = (*Backend)(nil)

// New creates a parallel engine with the default configuration
// (one worker per logical CPU).
func New() *Backend {
	return internalparallel.New()
}

// NewWithConfig creates a parallel engine with an explicit configuration.
func NewWithConfig(cfg Config) *Backend {
	return internalparallel.NewWithConfig(cfg)
}
