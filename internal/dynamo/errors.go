package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a population with non-finite positions or velocities.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration the engine refuses to seed from.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNonFinite indicates a NaN or infinite parameter.
	ErrNonFinite = errors.New("dynamo: parameter is not finite")

	// ErrUnknownMode indicates an unrecognised simulation mode.
	ErrUnknownMode = errors.New("dynamo: unknown simulation mode")

	// ErrUnknownLaw indicates an unrecognised force-law variant.
	ErrUnknownLaw = errors.New("dynamo: unknown force law")

	// ErrUnknownIntegrator indicates an unregistered integrator name.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownPreset indicates an unrecognised preset name.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrEngineClosed indicates an operation on a torn-down engine.
	ErrEngineClosed = errors.New("dynamo: engine closed")
)

// FieldError reports the configuration field that failed validation.
type FieldError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s = %g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *FieldError) Unwrap() error {
	return e.Wrapped
}

// SimulationError wraps an error with the tick it was detected on.
type SimulationError struct {
	Tick    uint64
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
