// Package optim implements optimization algorithms for training networks.
//
// This package provides:
//   - Model interface: the flat-parameter contract every optimizer consumes
//   - Optimizer interface: update rules over flat vectors (SGD, Adam)
//   - Trainer: epoch loop with full-batch, mini-batch and multi-worker
//     gradient computation and learning rate decay
//   - NumericalGradient: finite-difference reference gradient
//
// Optimizers never touch layers. They read the parameter vector, ask the
// model for a gradient in the same layout, and write the vector back.
//
// Example usage:
//
//	trainer := optim.NewTrainer(
//	    optim.NewSGD(optim.SGDConfig{LR: 0.001}),
//	    optim.TrainConfig{MaxEpochs: 10, DecayRate: 0.9},
//	)
//	result, err := trainer.Train(net, x, y)
package optim

import (
	"gonum.org/v1/gonum/mat"
)

// Model is the optimizer-facing view of a network.
//
// *nn.Network satisfies it.
type Model interface {
	// Parameters returns a copy of the flat parameter vector.
	Parameters() []float64

	// SetParameters replaces every parameter from a flat vector.
	SetParameters(params []float64) error

	// Objective returns the scalar loss on (x, y).
	Objective(x, y mat.Matrix) (float64, error)

	// Gradient returns the scalar loss and the flat gradient on (x, y).
	//
	// Must not modify parameters: the multi-worker trainer calls it
	// concurrently against one parameter snapshot.
	Gradient(x, y mat.Matrix) (float64, []float64, error)
}

// Optimizer is the base interface for update rules.
//
// All optimizers must implement:
//   - Step: apply one update to params in place
//   - GetLR / SetLR: read and change the learning rate (for decay)
type Optimizer interface {
	// Step updates params in place from grad. Both vectors use the
	// model's flat layout and have the same length.
	Step(params, grad []float64)

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)

	// Name returns a short identifier (e.g., "sgd").
	Name() string
}
