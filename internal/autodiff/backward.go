package autodiff

import (
	"github.com/geomstats-ml/geomstats/internal/tensor"
)

// Differentiable is the capability interface for engines that can compute
// gradients. Only the autodiff decorator implements it; asserting against
// it is how callers discover whether differentiation is available.
type Differentiable interface {
	tensor.Backend
	Tape() *GradientTape
}

// Gradient computes df/dx for a scalar-valued function f at the point x.
//
// The engine must be a Differentiable decorator; any other engine yields
// an UnsupportedOperationError rather than a silently detached result.
// The tape is cleared before and after, so the call does not disturb any
// outer recording session.
func Gradient(f func(*tensor.RawTensor) *tensor.RawTensor, x *tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, error) {
	diff, ok := backend.(Differentiable)
	if !ok {
		return nil, &tensor.UnsupportedOperationError{
			Op:      "Gradient",
			Backend: backend.Name(),
			Reason:  "engine does not support differentiation; wrap it with autodiff.New",
		}
	}

	tape := diff.Tape()
	wasRecording := tape.IsRecording()
	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.Clear()
		if !wasRecording {
			tape.StopRecording()
		}
	}()

	output := f(x)
	if output.Shape().NumElements() != 1 {
		return nil, &tensor.UnsupportedOperationError{
			Op:      "Gradient",
			Backend: backend.Name(),
			Reason:  "function output must be a scalar",
		}
	}

	seed := tensor.FullRaw(output.Shape(), 1, output.DType(), diff)
	grads := tape.Backward(seed, diff)

	grad, ok := grads[x]
	if !ok {
		// x never entered a recorded operation: the derivative is zero.
		return tensor.FullRaw(x.Shape(), 0, x.DType(), diff), nil
	}
	return grad, nil
}
