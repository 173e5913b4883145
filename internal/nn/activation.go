package nn

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Activator is a stateless element-wise nonlinearity.
//
// Implementations must be pure: the same inputs always produce the same
// outputs and no state is kept between calls. A single value is shared by
// every layer that uses it.
type Activator interface {
	// Name returns the registry tag of the activator (e.g., "logistic").
	Name() string

	// Activate applies the nonlinearity to every entry of z.
	Activate(z mat.Matrix) *mat.Dense

	// Gradient returns dA/dZ element-wise.
	//
	// a must be Activate(z). Closed forms use a where possible,
	// e.g. the logistic derivative is a * (1 - a).
	Gradient(z, a mat.Matrix) *mat.Dense
}

// Linear is the identity activation: f(x) = x.
var Linear Activator = linearActivator{}

// Logistic is the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
var Logistic Activator = logisticActivator{}

// ReLU is the rectified linear activation: f(x) = max(0, x).
var ReLU Activator = reluActivator{}

// Tanh is the hyperbolic tangent activation.
var Tanh Activator = tanhActivator{}

type linearActivator struct{}

func (linearActivator) Name() string { return "linear" }

func (linearActivator) Activate(z mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(z)
}

func (linearActivator) Gradient(z, _ mat.Matrix) *mat.Dense {
	r, c := z.Dims()
	g := mat.NewDense(r, c, nil)
	g.Apply(func(_, _ int, _ float64) float64 { return 1 }, g)
	return g
}

type logisticActivator struct{}

func (logisticActivator) Name() string { return "logistic" }

func (logisticActivator) Activate(z mat.Matrix) *mat.Dense {
	var a mat.Dense
	a.Apply(func(_, _ int, v float64) float64 { return sigmoid(v) }, z)
	return &a
}

// Gradient uses σ'(x) = σ(x) * (1 - σ(x)) with σ(x) taken from a.
func (logisticActivator) Gradient(_, a mat.Matrix) *mat.Dense {
	var g mat.Dense
	g.Apply(func(_, _ int, v float64) float64 { return v * (1 - v) }, a)
	return &g
}

// sigmoid avoids overflow of exp for large negative inputs.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

type reluActivator struct{}

func (reluActivator) Name() string { return "relu" }

func (reluActivator) Activate(z mat.Matrix) *mat.Dense {
	var a mat.Dense
	a.Apply(func(_, _ int, v float64) float64 { return math.Max(0, v) }, z)
	return &a
}

// Gradient is 1 for z > 0 and 0 otherwise (subgradient 0 at the kink).
func (reluActivator) Gradient(z, _ mat.Matrix) *mat.Dense {
	var g mat.Dense
	g.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	}, z)
	return &g
}

type tanhActivator struct{}

func (tanhActivator) Name() string { return "tanh" }

func (tanhActivator) Activate(z mat.Matrix) *mat.Dense {
	var a mat.Dense
	a.Apply(func(_, _ int, v float64) float64 { return math.Tanh(v) }, z)
	return &a
}

// Gradient uses tanh'(x) = 1 - tanh(x)².
func (tanhActivator) Gradient(_, a mat.Matrix) *mat.Dense {
	var g mat.Dense
	g.Apply(func(_, _ int, v float64) float64 { return 1 - v*v }, a)
	return &g
}

var (
	activatorsMu sync.RWMutex
	activators   = map[string]func() Activator{
		"linear":   func() Activator { return Linear },
		"identity": func() Activator { return Linear },
		"logistic": func() Activator { return Logistic },
		"sigmoid":  func() Activator { return Logistic },
		"relu":     func() Activator { return ReLU },
		"tanh":     func() Activator { return Tanh },
	}
)

// RegisterActivator makes an activator available under tag.
//
// Registering an existing tag replaces it.
func RegisterActivator(tag string, factory func() Activator) {
	activatorsMu.Lock()
	defer activatorsMu.Unlock()
	activators[tag] = factory
}

// NewActivator returns the activator registered under tag.
func NewActivator(tag string) (Activator, error) {
	activatorsMu.RLock()
	factory, ok := activators[tag]
	activatorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownActivator, tag, ActivatorTags())
	}
	return factory(), nil
}

// ActivatorTags returns the registered activator tags in sorted order.
func ActivatorTags() []string {
	activatorsMu.RLock()
	defer activatorsMu.RUnlock()
	tags := make([]string, 0, len(activators))
	for tag := range activators {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
