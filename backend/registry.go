// Copyright 2025 The Geomstats Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backend resolves which compute engine the library runs on.
//
// Engines register themselves by name; the active engine is chosen once,
// the first time Active is called, and stays fixed for the lifetime of the
// process. Resolution order:
//
//  1. an explicit Set call
//  2. the GEOMSTATS_BACKEND environment variable
//  3. the default, "cpu"
//
// Example:
//
//	import "github.com/geomstats-ml/geomstats/backend"
//
//	func main() {
//	    if err := backend.Set("parallel"); err != nil {
//	        log.Fatal(err)
//	    }
//	    engine := backend.Active()
//	    // ...
//	}
package backend

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	internalautodiff "github.com/geomstats-ml/geomstats/internal/autodiff"
	internalcpu "github.com/geomstats-ml/geomstats/internal/backend/cpu"
	internalparallel "github.com/geomstats-ml/geomstats/internal/backend/parallel"
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// EnvVar is the environment variable consulted when no engine was chosen
// explicitly.
const EnvVar = "GEOMSTATS_BACKEND"

// Factory builds a fresh engine instance.
type Factory func() tensor.Backend

// UnsupportedBackendError reports a request for an engine name that no
// factory was registered under.
type UnsupportedBackendError struct {
	Name  string
	Known []string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported backend %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

type registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	requested string
	active    tensor.Backend
	resolved  bool
	logger    *zap.Logger
}

var global = &registry{
	factories: map[string]Factory{
		"cpu":      func() tensor.Backend { return internalcpu.New() },
		"parallel": func() tensor.Backend { return internalparallel.New() },
		"autodiff": func() tensor.Backend { return internalautodiff.New(internalcpu.New()) },
	},
	logger: zap.NewNop(),
}

// SetLogger installs a logger for engine selection events. Defaults to a
// no-op logger.
func SetLogger(l *zap.Logger) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.logger = l
}

// Register adds an engine factory under the given name. Registering an
// already-known name replaces the factory; this is how an application swaps
// a builtin engine for an instrumented one.
func Register(name string, factory Factory) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.factories[name] = factory
}

// Names lists the registered engine names, sorted.
func Names() []string {
	global.mu.Lock()
	defer global.mu.Unlock()
	return global.namesLocked()
}

func (r *registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set chooses the engine by name. It must be called before the first call
// to Active; after resolution the choice is frozen and Set returns an
// error. An unknown name fails immediately so misconfiguration surfaces at
// startup rather than mid-computation.
func Set(name string) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.resolved {
		return fmt.Errorf("backend already resolved to %q, Set(%q) must happen before first use", global.active.Name(), name)
	}
	if _, ok := global.factories[name]; !ok {
		return &UnsupportedBackendError{Name: name, Known: global.namesLocked()}
	}
	global.requested = name
	return nil
}

// Active returns the process-wide engine, resolving it on first call.
//
// If the GEOMSTATS_BACKEND variable names an unknown engine, Active panics:
// the environment asked for something that cannot be honored, and falling
// back silently would hide the misconfiguration.
func Active() tensor.Backend {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.resolved {
		global.resolve()
	}
	return global.active
}

func (r *registry) resolve() {
	name := r.requested
	source := "explicit"
	if name == "" {
		if env := os.Getenv(EnvVar); env != "" {
			name, source = env, "environment"
		} else {
			name, source = "cpu", "default"
		}
	}

	factory, ok := r.factories[name]
	if !ok {
		panic(&UnsupportedBackendError{Name: name, Known: r.namesLocked()})
	}

	r.active = factory()
	r.resolved = true
	r.logger.Info("backend selected",
		zap.String("backend", r.active.Name()),
		zap.String("source", source),
	)
}

// Name returns the active engine's name, resolving the engine if needed.
func Name() string {
	return Active().Name()
}
