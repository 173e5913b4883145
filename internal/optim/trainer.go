package optim

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/born-ml/deepnet/internal/parallel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TrainConfig holds the epoch loop configuration.
//
// Batching modes:
//   - BatchSize == 0: full-batch gradient descent, one step per epoch
//   - BatchSize > 0: shuffled mini-batches, one step per mini-batch
//   - Workers > 1: every batch is split across Workers goroutines that
//     compute gradients concurrently on the same parameter snapshot;
//     the gradients are averaged and applied in one serialized step
type TrainConfig struct {
	MaxEpochs int     // Number of passes over the data (default: 1)
	DecayRate float64 // Learning rate multiplier applied after each epoch (default: 1, no decay)
	BatchSize int     // Rows per step; 0 means the whole data set
	Workers   int     // Concurrent gradient workers per step (default: 1)
	Seed      int64   // Seed for mini-batch shuffling
}

// ParallelConfig returns a TrainConfig for multi-threaded SGD: every step
// uses workers * batchPerWorker rows, batchPerWorker per worker.
func ParallelConfig(workers, batchPerWorker, maxEpochs int, decayRate float64) TrainConfig {
	return TrainConfig{
		MaxEpochs: maxEpochs,
		DecayRate: decayRate,
		BatchSize: workers * batchPerWorker,
		Workers:   workers,
	}
}

// Result summarizes a training run.
type Result struct {
	Epochs     int       // Epochs completed
	Steps      int       // Parameter updates applied
	Objectives []float64 // Full-data objective before training and after each epoch
	FinalLR    float64   // Learning rate after the last decay
}

// Trainer runs an Optimizer over a Model.
//
// The trainer is the single coordinating goroutine: only it calls
// SetParameters. Gradient workers only read the model.
type Trainer struct {
	optimizer Optimizer
	config    TrainConfig
	rng       *rand.Rand

	// Logger receives one line per epoch when non-nil.
	Logger *log.Logger
}

// NewTrainer creates a trainer with defaults filled in.
func NewTrainer(optimizer Optimizer, config TrainConfig) *Trainer {
	if config.MaxEpochs <= 0 {
		config.MaxEpochs = 1
	}
	if config.DecayRate <= 0 {
		config.DecayRate = 1
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &Trainer{
		optimizer: optimizer,
		config:    config,
		//nolint:gosec // Using math/rand for shuffling (not security-critical)
		rng: rand.New(rand.NewSource(config.Seed)),
	}
}

// Config returns the effective configuration.
func (t *Trainer) Config() TrainConfig {
	return t.config
}

// Optimizer returns the update rule.
func (t *Trainer) Optimizer() Optimizer {
	return t.optimizer
}

// Train runs MaxEpochs epochs on (x, y) and leaves the trained parameters in m.
//
// An error from the model aborts training; parameters keep the value of the
// last completed step.
func (t *Trainer) Train(m Model, x, y mat.Matrix) (Result, error) {
	rows, _ := x.Dims()
	if yRows, _ := y.Dims(); yRows != rows {
		return Result{}, fmt.Errorf("train: x has %d rows, y has %d", rows, yRows)
	}

	obj, err := m.Objective(x, y)
	if err != nil {
		return Result{}, fmt.Errorf("train: initial objective: %w", err)
	}
	result := Result{Objectives: []float64{obj}}

	for epoch := 1; epoch <= t.config.MaxEpochs; epoch++ {
		for _, batch := range t.batches(rows) {
			bx, by := x, y
			if batch != nil {
				bx, by = gatherRows(x, batch), gatherRows(y, batch)
			}
			if err := t.step(m, bx, by); err != nil {
				return result, fmt.Errorf("train: epoch %d: %w", epoch, err)
			}
			result.Steps++
		}

		t.optimizer.SetLR(t.optimizer.GetLR() * t.config.DecayRate)

		obj, err := m.Objective(x, y)
		if err != nil {
			return result, fmt.Errorf("train: epoch %d objective: %w", epoch, err)
		}
		result.Objectives = append(result.Objectives, obj)
		result.Epochs = epoch

		if t.Logger != nil {
			t.Logger.Printf("epoch %d/%d | objective %.6f | lr %.6g | steps %d",
				epoch, t.config.MaxEpochs, obj, t.optimizer.GetLR(), result.Steps)
		}
	}

	result.FinalLR = t.optimizer.GetLR()
	return result, nil
}

// step computes one gradient and applies it.
func (t *Trainer) step(m Model, x, y mat.Matrix) error {
	_, grad, err := ParallelGradient(m, x, y, t.config.Workers)
	if err != nil {
		return err
	}

	params := m.Parameters()
	if len(grad) != len(params) {
		return fmt.Errorf("gradient has %d entries, model has %d parameters", len(grad), len(params))
	}
	t.optimizer.Step(params, grad)
	return m.SetParameters(params)
}

// batches returns the row indices of every step in one epoch. A single nil
// batch means the whole data set.
func (t *Trainer) batches(rows int) [][]int {
	size := t.config.BatchSize
	if size <= 0 || size >= rows {
		return [][]int{nil}
	}

	perm := t.rng.Perm(rows)
	var out [][]int
	for start := 0; start < rows; start += size {
		out = append(out, perm[start:min(start+size, rows)])
	}
	return out
}

// ParallelGradient computes the gradient of m on (x, y) with the rows split
// across workers. Each worker's gradient is weighted by its share of rows,
// which reproduces the whole-batch gradient for losses that average over
// rows. The returned loss is weighted the same way.
func ParallelGradient(m Model, x, y mat.Matrix, workers int) (float64, []float64, error) {
	rows, _ := x.Dims()
	if workers <= 1 || rows < 2 {
		return m.Gradient(x, y)
	}

	ranges := parallel.Split(rows, workers)
	losses := make([]float64, len(ranges))
	grads := make([][]float64, len(ranges))
	errs := make([]error, len(ranges))

	parallel.ForRanges(rows, workers, func(w int, r parallel.Range) {
		idx := make([]int, r.Len())
		for i := range idx {
			idx[i] = r.Start + i
		}
		losses[w], grads[w], errs[w] = m.Gradient(gatherRows(x, idx), gatherRows(y, idx))
	})
	if err := errors.Join(errs...); err != nil {
		return 0, nil, err
	}

	total := make([]float64, len(grads[0]))
	var loss float64
	for w, r := range ranges {
		weight := float64(r.Len()) / float64(rows)
		floats.AddScaled(total, weight, grads[w])
		loss += weight * losses[w]
	}
	return loss, total, nil
}

// gatherRows copies the rows idx of m into a new dense matrix.
func gatherRows(m mat.Matrix, idx []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		mat.Row(out.RawRowView(i), r, m)
	}
	return out
}
