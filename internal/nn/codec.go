package nn

import "gonum.org/v1/gonum/mat"

// The flat parameter layout is, per layer in chain order, W flattened
// row-major (index r*output_dim + c) followed by b. Gradients are packed
// with the same functions, so both sides always agree on indexing.

// numParameters returns Σ (input_dim + 1) * output_dim over layers.
func numParameters(layers []*Layer) int {
	n := 0
	for _, l := range layers {
		n += l.NumParameters()
	}
	return n
}

// packPair writes w then b into dst starting at offset and returns the new offset.
func packPair(dst []float64, offset int, w *mat.Dense, b *mat.VecDense) int {
	rows, _ := w.Dims()
	for i := 0; i < rows; i++ {
		offset += copy(dst[offset:], w.RawRowView(i))
	}
	for j := 0; j < b.Len(); j++ {
		dst[offset] = b.AtVec(j)
		offset++
	}
	return offset
}

// unpackPair reads w then b from src starting at offset and returns the new offset.
func unpackPair(src []float64, offset int, w *mat.Dense, b *mat.VecDense) int {
	rows, _ := w.Dims()
	for i := 0; i < rows; i++ {
		offset += copy(w.RawRowView(i), src[offset:])
	}
	for j := 0; j < b.Len(); j++ {
		b.SetVec(j, src[offset])
		offset++
	}
	return offset
}

// packParameters flattens every layer's (W, b).
func packParameters(layers []*Layer) []float64 {
	flat := make([]float64, numParameters(layers))
	offset := 0
	for _, l := range layers {
		offset = packPair(flat, offset, l.weight, l.bias)
	}
	return flat
}

// packGradients flattens per-layer gradients in the parameter layout.
func packGradients(layers []*Layer, grads []LayerGradient) []float64 {
	flat := make([]float64, numParameters(layers))
	offset := 0
	for _, g := range grads {
		offset = packPair(flat, offset, g.W, g.B)
	}
	return flat
}

// unpackParameters copies flat into every layer's (W, b). len(flat) must
// equal numParameters(layers).
func unpackParameters(layers []*Layer, flat []float64) {
	offset := 0
	for _, l := range layers {
		offset = unpackPair(flat, offset, l.weight, l.bias)
	}
}
