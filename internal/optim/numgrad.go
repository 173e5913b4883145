package optim

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultGradientStep is the finite-difference step used when step <= 0.
const DefaultGradientStep = 1e-6

// NumericalGradient returns the central finite-difference gradient of
// m.Objective(x, y) with respect to the flat parameter vector.
//
// The model's parameters are perturbed during the computation and restored
// before returning, so m must not be used concurrently.
func NumericalGradient(m Model, x, y mat.Matrix, step float64) ([]float64, error) {
	if step <= 0 {
		step = DefaultGradientStep
	}

	params := m.Parameters()
	var evalErr error
	grad := fd.Gradient(nil, func(p []float64) float64 {
		if evalErr != nil {
			return 0
		}
		if err := m.SetParameters(p); err != nil {
			evalErr = err
			return 0
		}
		obj, err := m.Objective(x, y)
		if err != nil {
			evalErr = err
		}
		return obj
	}, params, &fd.Settings{Formula: fd.Central, Step: step})

	if err := m.SetParameters(params); err != nil {
		return nil, fmt.Errorf("restore parameters: %w", err)
	}
	if evalErr != nil {
		return nil, evalErr
	}
	return grad, nil
}

// GradientCheck compares m.Gradient with NumericalGradient and returns the
// Euclidean distance between them.
func GradientCheck(m Model, x, y mat.Matrix, step float64) (float64, error) {
	_, analytic, err := m.Gradient(x, y)
	if err != nil {
		return 0, err
	}
	numerical, err := NumericalGradient(m, x, y, step)
	if err != nil {
		return 0, err
	}
	return floats.Distance(analytic, numerical, 2), nil
}
