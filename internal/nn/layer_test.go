package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestLayer() *Layer {
	l := NewLayer(3, 2, Linear)
	l.Weight().Copy(mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	}))
	l.Bias().CopyVec(mat.NewVecDense(2, []float64{0.5, -0.5}))
	return l
}

// TestLayer_Creation tests dimensions and zero initialization.
func TestLayer_Creation(t *testing.T) {
	l := NewLayer(10, 5, Logistic)

	if l.InputDim() != 10 || l.OutputDim() != 5 {
		t.Errorf("dims = %dx%d, want 10x5", l.InputDim(), l.OutputDim())
	}
	r, c := l.Weight().Dims()
	if r != 10 || c != 5 {
		t.Errorf("Weight dims = %dx%d, want 10x5", r, c)
	}
	if l.Bias().Len() != 5 {
		t.Errorf("Bias len = %d, want 5", l.Bias().Len())
	}
	if l.NumParameters() != 55 {
		t.Errorf("NumParameters() = %d, want 55", l.NumParameters())
	}
	if l.IsLossContributor() {
		t.Error("new layer should not have a loss")
	}
	assert.Zero(t, mat.Sum(l.Weight()))
}

// TestLayer_InvalidDims tests that non-positive dims panic.
func TestLayer_InvalidDims(t *testing.T) {
	assert.Panics(t, func() { NewLayer(0, 3, Linear) })
	assert.Panics(t, func() { NewLayer(3, -1, Linear) })
	assert.Panics(t, func() { NewLayer(3, 3, nil) })
}

// TestLayer_Predict tests X @ W + b with bias broadcast over rows.
func TestLayer_Predict(t *testing.T) {
	l := newTestLayer()
	x := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		1, 1, 1,
	})

	out, err := l.Predict(x)
	require.NoError(t, err)

	expected := mat.NewDense(2, 2, []float64{
		1.5, 1.5,
		9.5, 11.5,
	})
	assert.True(t, mat.EqualApprox(expected, out, 1e-12), "got %v", mat.Formatted(out))
}

// TestLayer_PredictWithActivator tests that Z is returned before activation.
func TestLayer_PredictWithActivator(t *testing.T) {
	l := NewLayer(2, 2, Logistic)
	x := mat.NewDense(1, 2, []float64{0, 0})

	z, a, err := l.PredictWithActivator(x)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0}, z.RawRowView(0))
	assert.Equal(t, []float64{0.5, 0.5}, a.RawRowView(0))
}

// TestLayer_PredictShapeMismatch tests input column validation.
func TestLayer_PredictShapeMismatch(t *testing.T) {
	l := newTestLayer()

	_, err := l.Predict(mat.NewDense(2, 4, nil))
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 3, shapeErr.Want)
	assert.Equal(t, 4, shapeErr.Got)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = l.PredictVec(mat.NewVecDense(2, nil))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

// TestLayer_PredictVec tests single-sample equivalence with a 1-row batch.
func TestLayer_PredictVec(t *testing.T) {
	l := newTestLayer()
	l.activator = Tanh

	v, err := l.PredictVec(mat.NewVecDense(3, []float64{0.1, -0.2, 0.3}))
	require.NoError(t, err)
	batch, err := l.Predict(mat.NewDense(1, 3, []float64{0.1, -0.2, 0.3}))
	require.NoError(t, err)

	assert.InDeltaSlice(t, batch.RawRowView(0), v.RawVector().Data, 1e-15)
}

// TestLayer_ComputeDelta tests upstream ⊙ f'(Z).
func TestLayer_ComputeDelta(t *testing.T) {
	l := NewLayer(1, 2, Logistic)
	z := mat.NewDense(1, 2, []float64{0, 0})
	a := Logistic.Activate(z)
	upstream := mat.NewDense(1, 2, []float64{2, -4})

	delta := l.ComputeDelta(z, a, upstream)

	// σ'(0) = 0.25
	assert.Equal(t, []float64{0.5, -1}, delta.RawRowView(0))
	assert.Equal(t, []float64{2, -4}, upstream.RawRowView(0), "upstream must not change")
}

// TestLayer_BackpropDelta tests delta @ Wᵀ.
func TestLayer_BackpropDelta(t *testing.T) {
	l := newTestLayer()
	delta := mat.NewDense(1, 2, []float64{1, -1})

	prev := l.BackpropDelta(delta)

	r, c := prev.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 3, c)
	assert.Equal(t, []float64{-1, -1, -1}, prev.RawRowView(0))
}

// TestLayer_ComputeParamGradient tests dW = inputᵀ @ delta, db = Σ_rows delta.
func TestLayer_ComputeParamGradient(t *testing.T) {
	l := newTestLayer()
	input := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	delta := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})

	g := l.ComputeParamGradient(input, delta)

	expectedW := mat.NewDense(3, 2, []float64{
		1, 4,
		2, 5,
		3, 6,
	})
	assert.True(t, mat.Equal(expectedW, g.W))
	assert.Equal(t, []float64{1, 1}, g.B.RawVector().Data)
}

// TestLayer_SetLoss tests loss attachment.
func TestLayer_SetLoss(t *testing.T) {
	l := NewLayer(2, 1, Linear)
	l.SetLoss(MSE)

	assert.True(t, l.IsLossContributor())
	assert.Equal(t, MSE, l.Loss())
}
