package nn

import (
	"math"
	"math/rand"
)

// Initializer fills a freshly built layer's weights and biases.
type Initializer interface {
	Init(layer *Layer)
}

// InitializerFunc adapts a function to the Initializer interface.
type InitializerFunc func(layer *Layer)

// Init calls f(layer).
func (f InitializerFunc) Init(layer *Layer) {
	f(layer)
}

// Xavier (Glorot) initialization for weights, zeros for biases.
//
// Weights are drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// rng is used sequentially layer by layer, so a seeded source gives a
// reproducible network.
func Xavier(rng *rand.Rand) Initializer {
	return InitializerFunc(func(l *Layer) {
		bound := math.Sqrt(6.0 / float64(l.inputDim+l.outputDim))
		for i := 0; i < l.inputDim; i++ {
			row := l.weight.RawRowView(i)
			for j := range row {
				row[j] = (rng.Float64()*2.0 - 1.0) * bound
			}
		}
		l.bias.Zero()
	})
}

// Zeros sets every weight and bias to zero.
func Zeros() Initializer {
	return InitializerFunc(func(l *Layer) {
		l.weight.Zero()
		l.bias.Zero()
	})
}
