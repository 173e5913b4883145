package nn

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Architecture describes a network to build.
//
// LayerSizes has one entry per layer boundary, so a network with n layers
// has n+1 sizes and n activators. Loss is attached to the last layer.
//
// YAML form:
//
//	layer_sizes: [25, 50, 50, 1]
//	activators: [logistic, logistic, linear]
//	loss: mse
type Architecture struct {
	LayerSizes []int    `yaml:"layer_sizes" json:"layer_sizes"`
	Activators []string `yaml:"activators" json:"activators"`
	Loss       string   `yaml:"loss" json:"loss"`
}

// NumLayers returns the number of layers the architecture describes.
func (a Architecture) NumLayers() int {
	return max(len(a.LayerSizes)-1, 0)
}

// Validate checks sizes and tags without building anything.
func (a Architecture) Validate() error {
	if len(a.LayerSizes) < 2 {
		return fmt.Errorf("%w: need at least 2 layer sizes, got %d", ErrInvalidArchitecture, len(a.LayerSizes))
	}
	for i, size := range a.LayerSizes {
		if size <= 0 {
			return fmt.Errorf("%w: layer size at index %d is %d (must be > 0)", ErrInvalidArchitecture, i, size)
		}
	}
	if len(a.Activators) != a.NumLayers() {
		return fmt.Errorf("%w: %d layers need %d activators, got %d",
			ErrInvalidArchitecture, a.NumLayers(), a.NumLayers(), len(a.Activators))
	}
	for _, tag := range a.Activators {
		if _, err := NewActivator(tag); err != nil {
			return err
		}
	}
	if _, err := NewLoss(a.Loss); err != nil {
		return err
	}
	return nil
}

// Build creates the network described by arch and initializes every layer
// with initializer. A nil initializer leaves all parameters at zero.
func Build(arch Architecture, initializer Initializer) (*Network, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}

	net := NewNetwork()
	for i := 0; i < arch.NumLayers(); i++ {
		act, err := NewActivator(arch.Activators[i])
		if err != nil {
			return nil, err
		}
		layer := NewLayer(arch.LayerSizes[i], arch.LayerSizes[i+1], act)
		if initializer != nil {
			initializer.Init(layer)
		}
		net.AddLayer(layer)
	}

	loss, err := NewLoss(arch.Loss)
	if err != nil {
		return nil, err
	}
	net.Layer(net.NumLayers() - 1).SetLoss(loss)

	return net, nil
}

// ArchitectureOf describes an existing network. Tags are the activator and
// loss names, so Build(ArchitectureOf(net), nil) has the same shape as net.
func ArchitectureOf(net *Network) Architecture {
	var arch Architecture
	for i, l := range net.layers {
		if i == 0 {
			arch.LayerSizes = append(arch.LayerSizes, l.inputDim)
		}
		arch.LayerSizes = append(arch.LayerSizes, l.outputDim)
		arch.Activators = append(arch.Activators, l.activator.Name())
	}
	if len(net.layers) > 0 {
		if loss := net.layers[len(net.layers)-1].loss; loss != nil {
			arch.Loss = loss.Name()
		}
	}
	return arch
}

// LoadArchitecture reads an architecture from a .yaml, .yml or .json file.
func LoadArchitecture(path string) (Architecture, error) {
	//nolint:gosec // G304: architecture path comes from the user
	data, err := os.ReadFile(path)
	if err != nil {
		return Architecture{}, fmt.Errorf("failed to read architecture: %w", err)
	}

	var arch Architecture
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &arch)
	case ".json":
		err = json.Unmarshal(data, &arch)
	default:
		return Architecture{}, fmt.Errorf("unsupported architecture format %q", ext)
	}
	if err != nil {
		return Architecture{}, fmt.Errorf("failed to parse architecture %s: %w", path, err)
	}

	if err := arch.Validate(); err != nil {
		return Architecture{}, err
	}
	return arch, nil
}
