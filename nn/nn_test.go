// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/born-ml/deepnet/nn"
	"gonum.org/v1/gonum/mat"
)

// TestPublicAPI verifies that the public facade builds and trains a network.
func TestPublicAPI(t *testing.T) {
	net, err := nn.Build(nn.Architecture{
		LayerSizes: []int{3, 4, 1},
		Activators: []string{"tanh", "logistic"},
		Loss:       "bce",
	}, nn.Xavier(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	x := mat.NewDense(2, 3, []float64{1, 0, -1, 0.5, 0.5, 0.5})
	y := mat.NewDense(2, 1, []float64{1, 0})

	loss, grad, err := net.Gradient(x, y)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}
	if loss <= 0 {
		t.Errorf("Expected positive loss, got %f", loss)
	}
	if len(grad) != net.NumParameters() {
		t.Errorf("Expected %d gradient entries, got %d", net.NumParameters(), len(grad))
	}

	arch := nn.ArchitectureOf(net)
	if arch.Loss != "bce" || arch.Activators[0] != "tanh" {
		t.Errorf("Unexpected architecture %+v", arch)
	}
}

// TestPublicErrors verifies that facade errors match internal ones.
func TestPublicErrors(t *testing.T) {
	net := nn.NewNetwork(nn.NewLayer(2, 1, nn.Linear))
	_, err := net.Objective(mat.NewDense(1, 2, nil), mat.NewDense(1, 1, nil))
	if !errors.Is(err, nn.ErrNoLoss) {
		t.Errorf("Expected ErrNoLoss, got %v", err)
	}

	_, err = net.Predict(mat.NewDense(1, 3, nil))
	var shapeErr *nn.ShapeError
	if !errors.As(err, &shapeErr) || !errors.Is(err, nn.ErrShapeMismatch) {
		t.Errorf("Expected ShapeError, got %v", err)
	}

	if _, err := nn.NewActivator("softmax"); !errors.Is(err, nn.ErrUnknownActivator) {
		t.Errorf("Expected ErrUnknownActivator, got %v", err)
	}
}
