package nn

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// LossFunction is a stateless scalar objective over predictions.
//
// Callers guarantee that predictions and targets have the same shape;
// Network checks this before calling in.
type LossFunction interface {
	// Name returns the registry tag of the loss (e.g., "mse").
	Name() string

	// Loss returns the scalar loss of predictions against targets.
	Loss(predictions, targets mat.Matrix) float64

	// Gradient returns dLoss/dPrediction with the shape of predictions.
	Gradient(predictions, targets mat.Matrix) *mat.Dense
}

// MSE is the mean squared error.
//
// Loss = mean((predictions - targets)²) over all N = batch * outputs entries.
// Gradient = (2/N) * (predictions - targets).
var MSE LossFunction = mseLoss{}

// BCE is the binary cross-entropy for outputs in (0, 1).
//
// Loss = -mean(t*log(p) + (1-t)*log(1-p)) with p clamped to [bceEpsilon, 1-bceEpsilon].
var BCE LossFunction = bceLoss{}

const bceEpsilon = 1e-12

type mseLoss struct{}

func (mseLoss) Name() string { return "mse" }

func (mseLoss) Loss(predictions, targets mat.Matrix) float64 {
	var diff mat.Dense
	diff.Sub(predictions, targets)
	r, c := diff.Dims()

	var sum float64
	for i := 0; i < r; i++ {
		for _, v := range diff.RawRowView(i) {
			sum += v * v
		}
	}
	return sum / float64(r*c)
}

func (mseLoss) Gradient(predictions, targets mat.Matrix) *mat.Dense {
	var grad mat.Dense
	grad.Sub(predictions, targets)
	r, c := grad.Dims()
	grad.Scale(2/float64(r*c), &grad)
	return &grad
}

type bceLoss struct{}

func (bceLoss) Name() string { return "bce" }

func (bceLoss) Loss(predictions, targets mat.Matrix) float64 {
	r, c := predictions.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := clampProbability(predictions.At(i, j))
			t := targets.At(i, j)
			sum += t*math.Log(p) + (1-t)*math.Log(1-p)
		}
	}
	return -sum / float64(r*c)
}

func (bceLoss) Gradient(predictions, targets mat.Matrix) *mat.Dense {
	r, c := predictions.Dims()
	n := float64(r * c)
	grad := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := clampProbability(predictions.At(i, j))
			t := targets.At(i, j)
			grad.Set(i, j, (p-t)/(p*(1-p)*n))
		}
	}
	return grad
}

func clampProbability(p float64) float64 {
	return math.Min(math.Max(p, bceEpsilon), 1-bceEpsilon)
}

var (
	lossesMu sync.RWMutex
	losses   = map[string]func() LossFunction{
		"mse": func() LossFunction { return MSE },
		"bce": func() LossFunction { return BCE },
	}
)

// RegisterLoss makes a loss function available under tag.
func RegisterLoss(tag string, factory func() LossFunction) {
	lossesMu.Lock()
	defer lossesMu.Unlock()
	losses[tag] = factory
}

// NewLoss returns the loss function registered under tag.
func NewLoss(tag string) (LossFunction, error) {
	lossesMu.RLock()
	factory, ok := losses[tag]
	lossesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownLoss, tag, LossTags())
	}
	return factory(), nil
}

// LossTags returns the registered loss tags in sorted order.
func LossTags() []string {
	lossesMu.RLock()
	defer lossesMu.RUnlock()
	tags := make([]string, 0, len(losses))
	for tag := range losses {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
