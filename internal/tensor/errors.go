package tensor

import "fmt"

// UnsupportedOperationError reports a facade capability the active engine
// does not provide, e.g. requesting gradients from an engine that records
// none. Engines return it instead of silently producing a wrong result.
type UnsupportedOperationError struct {
	Op      string // requested operation
	Backend string // engine name
	Reason  string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q not supported on engine %q: %s", e.Op, e.Backend, e.Reason)
}
