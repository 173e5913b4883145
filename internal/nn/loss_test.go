package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestMSELoss tests loss = mean((p - t)²).
func TestMSELoss(t *testing.T) {
	pred := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	target := mat.NewDense(2, 2, []float64{1, 0, 0, 4})

	// (0 + 4 + 9 + 0) / 4
	assert.InDelta(t, 3.25, MSE.Loss(pred, target), 1e-12)
}

// TestMSEGradient tests the (2/N) normalization with N = rows * cols.
func TestMSEGradient(t *testing.T) {
	pred := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	target := mat.NewDense(2, 3, nil)

	grad := MSE.Gradient(pred, target)

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, 2.0/6.0*pred.At(i, j), grad.At(i, j), 1e-12)
		}
	}
}

// TestMSEVectorTarget tests that a VecDense target acts as a column.
func TestMSEVectorTarget(t *testing.T) {
	pred := mat.NewDense(3, 1, []float64{0.5, 0.5, 0.5})
	target := mat.NewVecDense(3, []float64{0.5, 0.5, 0.5})

	assert.InDelta(t, 0.0, MSE.Loss(pred, target), 1e-15)
}

// TestLossGradients compares analytic gradients with central differences.
func TestLossGradients(t *testing.T) {
	pred := mat.NewDense(2, 2, []float64{0.2, 0.7, 0.4, 0.9})
	target := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	const h = 1e-6

	for _, loss := range []LossFunction{MSE, BCE} {
		t.Run(loss.Name(), func(t *testing.T) {
			grad := loss.Gradient(pred, target)
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					p := mat.DenseCopyOf(pred)
					v := p.At(i, j)
					p.Set(i, j, v+h)
					plus := loss.Loss(p, target)
					p.Set(i, j, v-h)
					minus := loss.Loss(p, target)

					assert.InDelta(t, (plus-minus)/(2*h), grad.At(i, j), 1e-5)
				}
			}
		})
	}
}

// TestBCEClamp tests that saturated predictions stay finite.
func TestBCEClamp(t *testing.T) {
	pred := mat.NewDense(1, 2, []float64{0, 1})
	target := mat.NewDense(1, 2, []float64{1, 0})

	loss := BCE.Loss(pred, target)
	assert.Greater(t, loss, 20.0)
	assert.Less(t, loss, 30.0)
}

// TestNewLoss tests the registry lookups.
func TestNewLoss(t *testing.T) {
	loss, err := NewLoss("mse")
	require.NoError(t, err)
	assert.Equal(t, MSE, loss)

	loss, err = NewLoss("bce")
	require.NoError(t, err)
	assert.Equal(t, BCE, loss)

	_, err = NewLoss("hinge")
	if !errors.Is(err, ErrUnknownLoss) {
		t.Errorf("NewLoss(hinge) error = %v, want ErrUnknownLoss", err)
	}
	assert.Equal(t, []string{"bce", "mse"}, LossTags())
}
