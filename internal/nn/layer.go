package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Layer is a fully connected layer followed by an element-wise activator.
//
// Performs the transformation: A = f(X @ W + b)
// where:
//   - X is the input with shape [batch_size, input_dim]
//   - W is the weight matrix with shape [input_dim, output_dim]
//   - b is the bias vector with length output_dim, broadcast over rows
//   - f is the activator
//
// The terminal layer of a Network additionally carries the loss function.
//
// Example:
//
//	layer := nn.NewLayer(25, 50, nn.Logistic)
//	output, err := layer.Predict(input) // shape: [batch_size, 50]
type Layer struct {
	inputDim  int
	outputDim int
	weight    *mat.Dense    // [input_dim, output_dim]
	bias      *mat.VecDense // [output_dim]
	activator Activator
	loss      LossFunction
}

// LayerGradient holds dObjective/dW and dObjective/db for one layer.
type LayerGradient struct {
	W *mat.Dense    // [input_dim, output_dim]
	B *mat.VecDense // [output_dim]
}

// NewLayer creates a layer with zero weights and biases.
//
// Panics if a dimension is not positive or act is nil.
func NewLayer(inputDim, outputDim int, act Activator) *Layer {
	if inputDim <= 0 || outputDim <= 0 {
		panic(fmt.Sprintf("NewLayer: dimensions must be positive, got %dx%d", inputDim, outputDim))
	}
	if act == nil {
		panic("NewLayer: activator is nil")
	}
	return &Layer{
		inputDim:  inputDim,
		outputDim: outputDim,
		weight:    mat.NewDense(inputDim, outputDim, nil),
		bias:      mat.NewVecDense(outputDim, nil),
		activator: act,
	}
}

// InputDim returns the number of input features.
func (l *Layer) InputDim() int {
	return l.inputDim
}

// OutputDim returns the number of output features.
func (l *Layer) OutputDim() int {
	return l.outputDim
}

// Weight returns the weight matrix. It is mutable and shared with the layer.
func (l *Layer) Weight() *mat.Dense {
	return l.weight
}

// Bias returns the bias vector. It is mutable and shared with the layer.
func (l *Layer) Bias() *mat.VecDense {
	return l.bias
}

// Activator returns the layer's activator.
func (l *Layer) Activator() Activator {
	return l.activator
}

// Loss returns the attached loss function, or nil.
func (l *Layer) Loss() LossFunction {
	return l.loss
}

// SetLoss attaches the loss function. Only the terminal layer carries one.
func (l *Layer) SetLoss(loss LossFunction) {
	l.loss = loss
}

// IsLossContributor reports whether a loss function is attached.
func (l *Layer) IsLossContributor() bool {
	return l.loss != nil
}

// NumParameters returns (input_dim + 1) * output_dim.
func (l *Layer) NumParameters() int {
	return (l.inputDim + 1) * l.outputDim
}

// Predict computes f(X @ W + b) for a batch.
func (l *Layer) Predict(x mat.Matrix) (*mat.Dense, error) {
	_, a, err := l.PredictWithActivator(x)
	return a, err
}

// PredictVec computes the layer output for a single sample.
//
// The result equals the single row of Predict on a one-row batch.
func (l *Layer) PredictVec(x mat.Vector) (*mat.VecDense, error) {
	if x.Len() != l.inputDim {
		return nil, shapeError("Layer.PredictVec", "input length", l.inputDim, x.Len())
	}
	a, err := l.Predict(rowOf(x))
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(l.outputDim, a.RawRowView(0)), nil
}

// PredictWithActivator returns the pre-activation Z = X @ W + b and A = f(Z).
func (l *Layer) PredictWithActivator(x mat.Matrix) (z, a *mat.Dense, err error) {
	if _, c := x.Dims(); c != l.inputDim {
		return nil, nil, shapeError("Layer.Predict", "input columns", l.inputDim, c)
	}
	z = l.affine(x)
	return z, l.activator.Activate(z), nil
}

// affine computes X @ W + b with b broadcast over rows.
func (l *Layer) affine(x mat.Matrix) *mat.Dense {
	var z mat.Dense
	z.Mul(x, l.weight)

	rows, _ := z.Dims()
	b := l.bias.RawVector()
	for i := 0; i < rows; i++ {
		row := z.RawRowView(i)
		for j := range row {
			row[j] += b.Data[j*b.Inc]
		}
	}
	return &z
}

// ComputeDelta returns upstream ⊙ f'(Z), the error signal at this layer's
// pre-activation. upstream is dObjective/dA for this layer's output.
func (l *Layer) ComputeDelta(z, a, upstream mat.Matrix) *mat.Dense {
	delta := l.activator.Gradient(z, a)
	delta.MulElem(delta, upstream)
	return delta
}

// BackpropDelta returns delta @ Wᵀ, the gradient of the objective with
// respect to this layer's input, i.e. the upstream term of the previous layer.
func (l *Layer) BackpropDelta(delta mat.Matrix) *mat.Dense {
	var prev mat.Dense
	prev.Mul(delta, l.weight.T())
	return &prev
}

// ComputeParamGradient returns dW = inputᵀ @ delta and db = column sums of delta.
func (l *Layer) ComputeParamGradient(input, delta mat.Matrix) LayerGradient {
	dW := mat.NewDense(l.inputDim, l.outputDim, nil)
	dW.Mul(input.T(), delta)

	rows, _ := delta.Dims()
	db := mat.NewVecDense(l.outputDim, nil)
	for j := 0; j < l.outputDim; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += delta.At(i, j)
		}
		db.SetVec(j, sum)
	}

	return LayerGradient{W: dW, B: db}
}

// rowOf returns x as a [1, len(x)] matrix.
func rowOf(x mat.Vector) *mat.Dense {
	n := x.Len()
	data := make([]float64, n)
	for i := range data {
		data[i] = x.AtVec(i)
	}
	return mat.NewDense(1, n, data)
}
