// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides feed-forward networks of dense layers.
//
// # Overview
//
// This package contains:
//   - Layer: a dense affine map followed by an activator
//   - Network: an ordered chain of layers with a loss on the last one
//   - Activators: Linear, Logistic, ReLU, Tanh and a tag registry
//   - Loss functions: MSE, BCE and a tag registry
//   - Architecture: a YAML/JSON description that Build turns into a Network
//   - Initialization: Xavier, Zeros
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/deepnet/nn"
//	)
//
//	func main() {
//	    net, err := nn.Build(nn.Architecture{
//	        LayerSizes: []int{25, 50, 50, 1},
//	        Activators: []string{"logistic", "logistic", "linear"},
//	        Loss:       "mse",
//	    }, nn.Xavier(rand.New(rand.NewSource(1))))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    loss, grad, err := net.Gradient(x, y)
//	    ...
//	}
//
// # Parameter Layout
//
// Parameters() and Gradient() use the same flat layout: for each layer in
// order, the weight matrix (inputs x outputs) in row-major order, then the
// bias vector.
package nn
