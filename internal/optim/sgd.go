package optim

import (
	"gonum.org/v1/gonum/floats"
)

// SGD implements (stochastic) gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Whether the update is full-batch or stochastic is decided by the
// Trainer's batch configuration, not by the rule itself.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	lr       float64
	momentum float64
	velocity []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(params, grad []float64) {
	if s.momentum == 0 {
		// params -= lr * grad
		floats.AddScaled(params, -s.lr, grad)
		return
	}

	if len(s.velocity) != len(params) {
		s.velocity = make([]float64, len(params))
	}

	// velocity = momentum * velocity + grad
	floats.Scale(s.momentum, s.velocity)
	floats.Add(s.velocity, grad)

	// params -= lr * velocity
	floats.AddScaled(params, -s.lr, s.velocity)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Name returns "sgd".
func (s *SGD) Name() string {
	return "sgd"
}

// Velocity returns the momentum buffer, or nil before the first momentum step.
func (s *SGD) Velocity() []float64 {
	return s.velocity
}
