package nn

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchitecture_Validate(t *testing.T) {
	tests := []struct {
		name string
		arch Architecture
		want error
	}{
		{"too few sizes", Architecture{LayerSizes: []int{3}, Loss: "mse"}, ErrInvalidArchitecture},
		{"zero size", Architecture{LayerSizes: []int{3, 0}, Activators: []string{"linear"}, Loss: "mse"}, ErrInvalidArchitecture},
		{"activator count", Architecture{LayerSizes: []int{3, 2, 1}, Activators: []string{"relu"}, Loss: "mse"}, ErrInvalidArchitecture},
		{"unknown activator", Architecture{LayerSizes: []int{3, 1}, Activators: []string{"softmax"}, Loss: "mse"}, ErrUnknownActivator},
		{"unknown loss", Architecture{LayerSizes: []int{3, 1}, Activators: []string{"linear"}, Loss: "hinge"}, ErrUnknownLoss},
		{"missing loss", Architecture{LayerSizes: []int{3, 1}, Activators: []string{"linear"}}, ErrUnknownLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.arch.Validate(), tt.want)

			_, err := Build(tt.arch, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild(t *testing.T) {
	arch := Architecture{
		LayerSizes: []int{4, 3, 2},
		Activators: []string{"sigmoid", "identity"},
		Loss:       "mse",
	}

	net, err := Build(arch, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, net.NumLayers())
	assert.Equal(t, 4, net.InputDim())
	assert.Equal(t, 2, net.OutputDim())
	assert.Equal(t, "logistic", net.Layer(0).Activator().Name())
	assert.Equal(t, "linear", net.Layer(1).Activator().Name())
	assert.False(t, net.Layer(0).IsLossContributor())
	assert.True(t, net.Layer(1).IsLossContributor())
	require.NoError(t, net.Validate())

	// nil initializer leaves every parameter at zero
	for _, p := range net.Parameters() {
		assert.Zero(t, p)
	}

	// Aliases are normalized to canonical names
	assert.Equal(t, Architecture{
		LayerSizes: []int{4, 3, 2},
		Activators: []string{"logistic", "linear"},
		Loss:       "mse",
	}, ArchitectureOf(net))
}

func TestXavier(t *testing.T) {
	layer := NewLayer(30, 20, ReLU)
	layer.Bias().SetVec(0, 5)
	Xavier(rand.New(rand.NewSource(1))).Init(layer)

	bound := math.Sqrt(6.0 / 50.0)
	var nonzero int
	for i := 0; i < 30; i++ {
		for j := 0; j < 20; j++ {
			v := layer.Weight().At(i, j)
			assert.LessOrEqual(t, math.Abs(v), bound)
			if v != 0 {
				nonzero++
			}
		}
	}
	assert.Greater(t, nonzero, 590)
	assert.Zero(t, layer.Bias().AtVec(0))

	// Same seed, same network
	a, err := Build(Architecture{LayerSizes: []int{5, 3, 1}, Activators: []string{"tanh", "linear"}, Loss: "mse"},
		Xavier(rand.New(rand.NewSource(9))))
	require.NoError(t, err)
	b, err := Build(ArchitectureOf(a), Xavier(rand.New(rand.NewSource(9))))
	require.NoError(t, err)
	assert.Equal(t, a.Parameters(), b.Parameters())
}

func TestZeros(t *testing.T) {
	layer := NewLayer(3, 2, Tanh)
	Xavier(rand.New(rand.NewSource(1))).Init(layer)
	Zeros().Init(layer)

	for _, p := range NewNetwork(layer).Parameters() {
		assert.Zero(t, p)
	}
}

func TestLoadArchitecture(t *testing.T) {
	dir := t.TempDir()
	want := Architecture{
		LayerSizes: []int{25, 50, 50, 1},
		Activators: []string{"logistic", "logistic", "linear"},
		Loss:       "mse",
	}

	files := map[string]string{
		"arch.yaml": "layer_sizes: [25, 50, 50, 1]\nactivators: [logistic, logistic, linear]\nloss: mse\n",
		"arch.yml":  "layer_sizes:\n  - 25\n  - 50\n  - 50\n  - 1\nactivators: [logistic, logistic, linear]\nloss: mse\n",
		"arch.json": `{"layer_sizes": [25, 50, 50, 1], "activators": ["logistic", "logistic", "linear"], "loss": "mse"}`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			got, err := LoadArchitecture(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadArchitecture_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	_, err := LoadArchitecture(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadArchitecture(write("arch.toml", "loss = 'mse'"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadArchitecture(write("bad.json", "{"))
	assert.Error(t, err)

	_, err = LoadArchitecture(write("bad.yaml", "layer_sizes: [3, 1]\nactivators: [swish]\nloss: mse\n"))
	assert.ErrorIs(t, err, ErrUnknownActivator)
}
