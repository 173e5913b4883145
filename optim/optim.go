// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/deepnet/internal/optim"
	"gonum.org/v1/gonum/mat"
)

// Model is anything with a flat parameter vector and a differentiable objective.
type Model = optim.Model

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// Training

// TrainConfig holds the epoch loop configuration.
type TrainConfig = optim.TrainConfig

// Result summarizes a training run.
type Result = optim.Result

// Trainer runs an Optimizer over a Model.
type Trainer = optim.Trainer

// NewTrainer creates a trainer with defaults filled in.
func NewTrainer(optimizer Optimizer, config TrainConfig) *Trainer {
	return optim.NewTrainer(optimizer, config)
}

// ParallelConfig returns a TrainConfig for multi-threaded SGD.
func ParallelConfig(workers, batchPerWorker, maxEpochs int, decayRate float64) TrainConfig {
	return optim.ParallelConfig(workers, batchPerWorker, maxEpochs, decayRate)
}

// ParallelGradient computes the gradient of m with rows split across workers.
func ParallelGradient(m Model, x, y mat.Matrix, workers int) (float64, []float64, error) {
	return optim.ParallelGradient(m, x, y, workers)
}

// Gradient checking

// DefaultGradientStep is the finite-difference step used when step <= 0.
const DefaultGradientStep = optim.DefaultGradientStep

// NumericalGradient returns the central finite-difference gradient of m.
func NumericalGradient(m Model, x, y mat.Matrix, step float64) ([]float64, error) {
	return optim.NumericalGradient(m, x, y, step)
}

// GradientCheck returns the distance between analytic and numerical gradients.
func GradientCheck(m Model, x, y mat.Matrix, step float64) (float64, error) {
	return optim.GradientCheck(m, x, y, step)
}
