// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/deepnet/internal/nn"
)

// Errors returned by networks and registries.
var (
	ErrNoLoss              = nn.ErrNoLoss
	ErrShapeMismatch       = nn.ErrShapeMismatch
	ErrEmptyNetwork        = nn.ErrEmptyNetwork
	ErrUnknownActivator    = nn.ErrUnknownActivator
	ErrUnknownLoss         = nn.ErrUnknownLoss
	ErrInvalidArchitecture = nn.ErrInvalidArchitecture
)

// ShapeError reports a dimension mismatch. It unwraps to ErrShapeMismatch.
type ShapeError = nn.ShapeError

// Activators

// Activator is an elementwise nonlinearity with its derivative.
type Activator = nn.Activator

// Built-in activators.
var (
	Linear   = nn.Linear
	Logistic = nn.Logistic
	ReLU     = nn.ReLU
	Tanh     = nn.Tanh
)

// RegisterActivator makes an activator available to NewActivator and Build
// under tag.
func RegisterActivator(tag string, factory func() Activator) {
	nn.RegisterActivator(tag, factory)
}

// NewActivator returns the activator registered under tag.
func NewActivator(tag string) (Activator, error) {
	return nn.NewActivator(tag)
}

// ActivatorTags returns the registered activator tags, sorted.
func ActivatorTags() []string {
	return nn.ActivatorTags()
}

// Loss functions

// LossFunction is a scalar objective with its gradient.
type LossFunction = nn.LossFunction

// Built-in loss functions.
var (
	MSE = nn.MSE
	BCE = nn.BCE
)

// RegisterLoss makes a loss available to NewLoss and Build under tag.
func RegisterLoss(tag string, factory func() LossFunction) {
	nn.RegisterLoss(tag, factory)
}

// NewLoss returns the loss registered under tag.
func NewLoss(tag string) (LossFunction, error) {
	return nn.NewLoss(tag)
}

// LossTags returns the registered loss tags, sorted.
func LossTags() []string {
	return nn.LossTags()
}

// Layers and networks

// Layer is a dense layer: act(X @ W + b).
type Layer = nn.Layer

// LayerGradient holds the gradient of one layer's weight and bias.
type LayerGradient = nn.LayerGradient

// NewLayer creates a zero-initialized layer.
//
// Example:
//
//	layer := nn.NewLayer(784, 128, nn.ReLU)
func NewLayer(inputDim, outputDim int, act Activator) *Layer {
	return nn.NewLayer(inputDim, outputDim, act)
}

// Network is an ordered chain of layers.
type Network = nn.Network

// ForwardRecord holds one layer's pre-activation and activation.
type ForwardRecord = nn.ForwardRecord

// NewNetwork creates a network from layers in order.
func NewNetwork(layers ...*Layer) *Network {
	return nn.NewNetwork(layers...)
}

// Configuration

// Architecture describes a network to build.
type Architecture = nn.Architecture

// Build creates the network described by arch.
func Build(arch Architecture, initializer Initializer) (*Network, error) {
	return nn.Build(arch, initializer)
}

// ArchitectureOf describes an existing network.
func ArchitectureOf(net *Network) Architecture {
	return nn.ArchitectureOf(net)
}

// LoadArchitecture reads an architecture from a .yaml, .yml or .json file.
func LoadArchitecture(path string) (Architecture, error) {
	return nn.LoadArchitecture(path)
}

// Initialization

// Initializer sets the parameters of a layer.
type Initializer = nn.Initializer

// InitializerFunc adapts a function to Initializer.
type InitializerFunc = nn.InitializerFunc

// Xavier returns the Glorot uniform initializer.
func Xavier(rng *rand.Rand) Initializer {
	return nn.Xavier(rng)
}

// Zeros returns an initializer that zeroes all parameters.
func Zeros() Initializer {
	return nn.Zeros()
}
