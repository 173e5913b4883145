package nn

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Network is an ordered chain of layers.
//
// Each layer's output becomes the next layer's input. The last layer
// carries the loss function used by Objective and Gradient.
//
// Example:
//
//	net := nn.NewNetwork(
//	    nn.NewLayer(25, 50, nn.Logistic),
//	    nn.NewLayer(50, 1, nn.Linear),
//	)
//	net.Layer(1).SetLoss(nn.MSE)
//
//	loss, grad, err := net.Gradient(x, y)
//
// Read-only methods (Predict, FeedForward, BackPropagate, Objective,
// Gradient, Parameters) are safe for concurrent use. SetParameters and the
// structural methods must not run concurrently with anything else.
type Network struct {
	layers []*Layer
}

// ForwardRecord is the per-layer result of a forward pass.
type ForwardRecord struct {
	Z *mat.Dense // pre-activation X @ W + b
	A *mat.Dense // post-activation f(Z)
}

// NewNetwork creates a network from layers in execution order. The slice is
// copied; the layers themselves are shared.
func NewNetwork(layers ...*Layer) *Network {
	return &Network{
		layers: slices.Clone(layers),
	}
}

// AddLayer appends a layer to the chain.
//
// The dimension chain is not validated; see Validate.
func (n *Network) AddLayer(layer *Layer) {
	n.layers = append(n.layers, layer)
}

// RemoveLayer removes the layer at index.
func (n *Network) RemoveLayer(index int) error {
	if index < 0 || index >= len(n.layers) {
		return fmt.Errorf("Network.RemoveLayer: index %d out of range [0, %d)", index, len(n.layers))
	}
	n.layers = append(n.layers[:index], n.layers[index+1:]...)
	return nil
}

// Layer returns the layer at index.
//
// Panics if index is out of bounds.
func (n *Network) Layer(index int) *Layer {
	if index < 0 || index >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return n.layers[index]
}

// NumLayers returns the number of layers in the chain.
func (n *Network) NumLayers() int {
	return len(n.layers)
}

// InputDim returns the input dimension of the first layer, or 0 if empty.
func (n *Network) InputDim() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[0].inputDim
}

// OutputDim returns the output dimension of the last layer, or 0 if empty.
func (n *Network) OutputDim() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[len(n.layers)-1].outputDim
}

// Validate checks the structural invariants: a non-empty chain, matching
// dimensions between neighbours and a loss on the last layer only.
func (n *Network) Validate() error {
	if len(n.layers) == 0 {
		return ErrEmptyNetwork
	}
	for i := 1; i < len(n.layers); i++ {
		if prev, cur := n.layers[i-1].outputDim, n.layers[i].inputDim; prev != cur {
			return shapeError("Network.Validate", fmt.Sprintf("layer %d input dim", i), prev, cur)
		}
	}
	for i, l := range n.layers[:len(n.layers)-1] {
		if l.IsLossContributor() {
			return fmt.Errorf("%w: layer %d is not terminal but has a loss", ErrInvalidArchitecture, i)
		}
	}
	if !n.layers[len(n.layers)-1].IsLossContributor() {
		return ErrNoLoss
	}
	return nil
}

// Predict applies every layer to x in order.
func (n *Network) Predict(x mat.Matrix) (*mat.Dense, error) {
	if err := n.checkInput("Network.Predict", x); err != nil {
		return nil, err
	}

	var output mat.Matrix = x
	for i, layer := range n.layers {
		a, err := layer.Predict(output)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		output = a
	}
	return output.(*mat.Dense), nil
}

// PredictVec applies every layer to a single sample.
func (n *Network) PredictVec(x mat.Vector) (*mat.VecDense, error) {
	if len(n.layers) == 0 {
		return nil, ErrEmptyNetwork
	}
	if x.Len() != n.InputDim() {
		return nil, shapeError("Network.PredictVec", "input length", n.InputDim(), x.Len())
	}

	output := x
	for i, layer := range n.layers {
		a, err := layer.PredictVec(output)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		output = a
	}
	return output.(*mat.VecDense), nil
}

// FeedForward runs the chain once and records (Z, A) for every layer.
func (n *Network) FeedForward(x mat.Matrix) ([]ForwardRecord, error) {
	if err := n.checkInput("Network.FeedForward", x); err != nil {
		return nil, err
	}

	records := make([]ForwardRecord, len(n.layers))
	var input mat.Matrix = x
	for i, layer := range n.layers {
		z, a, err := layer.PredictWithActivator(input)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		records[i] = ForwardRecord{Z: z, A: a}
		input = a
	}
	return records, nil
}

// BackPropagate computes the per-layer parameter gradients of the objective.
//
// records must come from FeedForward(x). The fold runs from the last layer
// to the first:
//
//	Δ_last = loss'(A_last, y) ⊙ f'_last(Z_last, A_last)
//	Δ_i    = (Δ_{i+1} @ W_{i+1}ᵀ) ⊙ f'_i(Z_i, A_i)
//	dW_i   = A_{i-1}ᵀ @ Δ_i,  db_i = Σ_rows Δ_i   (A_{-1} = x)
func (n *Network) BackPropagate(x, y mat.Matrix, records []ForwardRecord) ([]LayerGradient, error) {
	if err := n.checkObjective("Network.BackPropagate", x, y); err != nil {
		return nil, err
	}
	if len(records) != len(n.layers) {
		return nil, shapeError("Network.BackPropagate", "forward records", len(n.layers), len(records))
	}
	if err := n.checkRecords("Network.BackPropagate", x, records); err != nil {
		return nil, err
	}

	last := len(n.layers) - 1
	grads := make([]LayerGradient, len(n.layers))

	// upstream is dObjective/dA_i for the layer being processed.
	upstream := n.layers[last].loss.Gradient(records[last].A, y)
	for i := last; i >= 0; i-- {
		layer := n.layers[i]
		delta := layer.ComputeDelta(records[i].Z, records[i].A, upstream)

		var input mat.Matrix = x
		if i > 0 {
			input = records[i-1].A
		}
		grads[i] = layer.ComputeParamGradient(input, delta)

		if i > 0 {
			upstream = layer.BackpropDelta(delta)
		}
	}
	return grads, nil
}

// Objective returns the terminal loss of Predict(x) against y.
func (n *Network) Objective(x, y mat.Matrix) (float64, error) {
	if err := n.checkObjective("Network.Objective", x, y); err != nil {
		return 0, err
	}
	output, err := n.Predict(x)
	if err != nil {
		return 0, err
	}
	return n.layers[len(n.layers)-1].loss.Loss(output, y), nil
}

// Gradient returns the objective and its gradient with respect to the flat
// parameter vector, in the layout of Parameters.
func (n *Network) Gradient(x, y mat.Matrix) (float64, []float64, error) {
	if err := n.checkObjective("Network.Gradient", x, y); err != nil {
		return 0, nil, err
	}

	records, err := n.FeedForward(x)
	if err != nil {
		return 0, nil, err
	}
	grads, err := n.BackPropagate(x, y, records)
	if err != nil {
		return 0, nil, err
	}

	last := len(n.layers) - 1
	loss := n.layers[last].loss.Loss(records[last].A, y)
	return loss, packGradients(n.layers, grads), nil
}

// NumParameters returns the length of the flat parameter vector.
func (n *Network) NumParameters() int {
	return numParameters(n.layers)
}

// Parameters returns a copy of all weights and biases as one flat vector.
func (n *Network) Parameters() []float64 {
	return packParameters(n.layers)
}

// SetParameters copies a flat vector produced by Parameters (or an
// optimizer working in the same layout) into the layers.
func (n *Network) SetParameters(params []float64) error {
	if want := n.NumParameters(); len(params) != want {
		return shapeError("Network.SetParameters", "parameter count", want, len(params))
	}
	unpackParameters(n.layers, params)
	return nil
}

// Clone returns a deep copy of the network. Activators and losses are shared.
func (n *Network) Clone() *Network {
	layers := make([]*Layer, len(n.layers))
	for i, l := range n.layers {
		clone := *l
		clone.weight = mat.DenseCopyOf(l.weight)
		clone.bias = mat.VecDenseCopyOf(l.bias)
		layers[i] = &clone
	}
	return &Network{layers: layers}
}

func (n *Network) checkInput(op string, x mat.Matrix) error {
	if len(n.layers) == 0 {
		return ErrEmptyNetwork
	}
	if _, c := x.Dims(); c != n.InputDim() {
		return shapeError(op, "input columns", n.InputDim(), c)
	}
	return nil
}

// checkRecords verifies that every record has one row per sample of x and
// one column per output of its layer.
func (n *Network) checkRecords(op string, x mat.Matrix, records []ForwardRecord) error {
	rows, _ := x.Dims()
	for i, layer := range n.layers {
		for _, m := range []struct {
			name string
			d    *mat.Dense
		}{{"Z", records[i].Z}, {"A", records[i].A}} {
			var r, c int
			if m.d != nil {
				r, c = m.d.Dims()
			}
			if r != rows {
				return shapeError(op, fmt.Sprintf("layer %d record %s rows", i, m.name), rows, r)
			}
			if c != layer.outputDim {
				return shapeError(op, fmt.Sprintf("layer %d record %s columns", i, m.name), layer.outputDim, c)
			}
		}
	}
	return nil
}

func (n *Network) checkObjective(op string, x, y mat.Matrix) error {
	if err := n.checkInput(op, x); err != nil {
		return err
	}
	if !n.layers[len(n.layers)-1].IsLossContributor() {
		return fmt.Errorf("%s: %w", op, ErrNoLoss)
	}
	xr, _ := x.Dims()
	yr, yc := y.Dims()
	if yr != xr {
		return shapeError(op, "target rows", xr, yr)
	}
	if yc != n.OutputDim() {
		return shapeError(op, "target columns", n.OutputDim(), yc)
	}
	return nil
}
