package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/born-ml/deepnet/internal/matio"
	"github.com/born-ml/deepnet/internal/nn"
	"github.com/born-ml/deepnet/internal/optim"
	"github.com/born-ml/deepnet/internal/serialization"
	"gonum.org/v1/gonum/mat"
)

// dataFlags are shared by commands that read a data set.
type dataFlags struct {
	x, y       string
	transposeX bool
}

func (d *dataFlags) register(fs *flag.FlagSet, withY bool) {
	fs.StringVar(&d.x, "x", "", "input matrix, one sample per row")
	if withY {
		fs.StringVar(&d.y, "y", "", "target matrix, one sample per row")
	}
	fs.BoolVar(&d.transposeX, "transpose-x", false, "input matrix stores one sample per column")
}

func (d *dataFlags) load(withY bool) (*mat.Dense, *mat.Dense, error) {
	if d.x == "" {
		return nil, nil, errors.New("-x is required")
	}
	x, err := matio.LoadText(d.x)
	if err != nil {
		return nil, nil, err
	}
	if d.transposeX {
		x = mat.DenseCopyOf(x.T())
	}
	if !withY {
		return x, nil, nil
	}

	if d.y == "" {
		return nil, nil, errors.New("-y is required")
	}
	y, err := matio.LoadText(d.y)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func buildNetwork(archPath string, seed int64) (*nn.Network, error) {
	if archPath == "" {
		return nil, errors.New("-arch is required")
	}
	arch, err := nn.LoadArchitecture(archPath)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	return nn.Build(arch, nn.Xavier(rand.New(rand.NewSource(seed))))
}

func runTrain(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := newFlagSet("train", stdout)
	var data dataFlags
	data.register(fs, true)
	archPath := fs.String("arch", "", "architecture file (.yaml or .json)")
	optimizer := fs.String("optimizer", "gd", "gd, sgd, mtsgd or adam")
	lr := fs.Float64("lr", 0.001, "learning rate")
	momentum := fs.Float64("momentum", 0, "momentum for gd, sgd and mtsgd")
	decay := fs.Float64("decay", 1, "learning rate multiplier applied after each epoch")
	epochs := fs.Int("epochs", 10, "number of epochs")
	batch := fs.Int("batch", 32, "rows per step (per worker for mtsgd)")
	workers := fs.Int("workers", 2, "gradient workers for mtsgd")
	seed := fs.Int64("seed", 1, "seed for initialization and shuffling")
	out := fs.String("out", "model.dnet", "checkpoint output path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	x, y, err := data.load(true)
	if err != nil {
		return err
	}
	net, err := buildNetwork(*archPath, *seed)
	if err != nil {
		return err
	}

	var (
		opt optim.Optimizer
		cfg optim.TrainConfig
	)
	switch *optimizer {
	case "gd":
		opt = optim.NewSGD(optim.SGDConfig{LR: *lr, Momentum: *momentum})
		cfg = optim.TrainConfig{MaxEpochs: *epochs, DecayRate: *decay}
	case "sgd":
		opt = optim.NewSGD(optim.SGDConfig{LR: *lr, Momentum: *momentum})
		cfg = optim.TrainConfig{MaxEpochs: *epochs, DecayRate: *decay, BatchSize: *batch}
	case "mtsgd":
		opt = optim.NewSGD(optim.SGDConfig{LR: *lr, Momentum: *momentum})
		cfg = optim.ParallelConfig(*workers, *batch, *epochs, *decay)
	case "adam":
		opt = optim.NewAdam(optim.AdamConfig{LR: *lr})
		cfg = optim.TrainConfig{MaxEpochs: *epochs, DecayRate: *decay, BatchSize: *batch}
	default:
		return fmt.Errorf("unknown optimizer %q", *optimizer)
	}
	cfg.Seed = *seed

	trainer := optim.NewTrainer(opt, cfg)
	trainer.Logger = logger
	result, err := trainer.Train(net, x, y)
	if err != nil {
		return err
	}

	final := result.Objectives[len(result.Objectives)-1]
	err = serialization.Save(*out, net, serialization.Header{
		Metadata: map[string]string{"x": data.x, "y": data.y},
		Training: &serialization.TrainingMeta{
			Optimizer: *optimizer,
			LR:        result.FinalLR,
			Epochs:    result.Epochs,
			Steps:     result.Steps,
			Objective: final,
			Workers:   trainer.Config().Workers,
			BatchSize: trainer.Config().BatchSize,
		},
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "objective %.6g -> %.6g after %d epochs, saved %s\n",
		result.Objectives[0], final, result.Epochs, *out)
	return err
}

func runPredict(args []string, stdout io.Writer) error {
	fs := newFlagSet("predict", stdout)
	var data dataFlags
	data.register(fs, false)
	model := fs.String("model", "model.dnet", "checkpoint to load")
	out := fs.String("out", "", "output path (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	x, _, err := data.load(false)
	if err != nil {
		return err
	}
	net, _, err := serialization.Load(*model)
	if err != nil {
		return err
	}

	pred, err := net.Predict(x)
	if err != nil {
		return err
	}
	if *out == "" {
		return matio.WriteText(stdout, pred)
	}
	return matio.SaveText(*out, pred)
}

func runGradCheck(args []string, stdout io.Writer) error {
	fs := newFlagSet("gradcheck", stdout)
	var data dataFlags
	data.register(fs, true)
	archPath := fs.String("arch", "", "architecture file (.yaml or .json)")
	seed := fs.Int64("seed", 1, "seed for initialization")
	step := fs.Float64("step", optim.DefaultGradientStep, "finite-difference step")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	x, y, err := data.load(true)
	if err != nil {
		return err
	}
	net, err := buildNetwork(*archPath, *seed)
	if err != nil {
		return err
	}

	dist, err := optim.GradientCheck(net, x, y, *step)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "parameters %d, gradient distance %.3g\n", net.NumParameters(), dist)
	return err
}
