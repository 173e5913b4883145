// Package nn implements the feed-forward network core.
//
// This package provides:
//   - Activator: element-wise nonlinearities (linear, logistic, relu, tanh)
//   - LossFunction: scalar objectives (mse, bce)
//   - Layer: dense affine transform followed by an activator
//   - Network: ordered chain of layers with forward pass, backpropagation
//     and a flat parameter vector for optimizers
//   - Architecture/Build: tag-based construction with validated registries
//
// All numerics are float64 on gonum dense matrices, one sample per row.
package nn
