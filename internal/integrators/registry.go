package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/kappasim/internal/dynamo"
)

// Default is the integrator used when a configuration names none.
const Default = "semi-implicit"

var constructors = map[string]func(maxSpeed float64) dynamo.Integrator{
	"semi-implicit": func(v float64) dynamo.Integrator { return NewSemiImplicit(v) },
	"euler":         func(v float64) dynamo.Integrator { return NewEuler(v) },
	"leapfrog":      func(v float64) dynamo.Integrator { return NewLeapfrog(v) },
	"rk4":           func(v float64) dynamo.Integrator { return NewRK4(v) },
}

// New returns the named integrator with the given speed clamp.
func New(name string, maxSpeed float64) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(maxSpeed), nil
}

// Names lists the registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
