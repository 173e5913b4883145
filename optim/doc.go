// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - SGD: gradient descent with optional momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Trainer: the epoch loop with learning rate decay, mini-batches and
//     concurrent gradient workers
//   - NumericalGradient and GradientCheck for verifying gradients
//
// Optimizers work on flat parameter vectors, so anything implementing Model
// can be trained; *nn.Network does.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/deepnet/nn"
//	    "github.com/born-ml/deepnet/optim"
//	)
//
//	func main() {
//	    net, _ := nn.Build(arch, nn.Xavier(rng))
//
//	    // Multi-threaded SGD: 4 workers, 32 rows each
//	    trainer := optim.NewTrainer(
//	        optim.NewSGD(optim.SGDConfig{LR: 0.001}),
//	        optim.ParallelConfig(4, 32, 10, 0.9),
//	    )
//	    result, err := trainer.Train(net, x, y)
//	    ...
//	}
package optim
