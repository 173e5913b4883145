// Package main provides the deepnet CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

const version = "v0.1.0"

var errUsage = errors.New("usage")

func main() {
	logger := log.New(os.Stderr, "deepnet: ", 0)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		logger.Fatal(err)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		usage(stdout)
		return errUsage
	}

	switch args[0] {
	case "version":
		_, err := fmt.Fprintf(stdout, "deepnet %s\n", version)
		return err
	case "train":
		return runTrain(args[1:], stdout, logger)
	case "predict":
		return runPredict(args[1:], stdout)
	case "gradcheck":
		return runGradCheck(args[1:], stdout)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "deepnet - feed-forward networks trained by gradient descent")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Train a network and save a .dnet checkpoint")
	fmt.Fprintln(w, "  predict    Run a saved network on a text matrix")
	fmt.Fprintln(w, "  gradcheck  Compare analytic and numerical gradients")
	fmt.Fprintln(w, "  version    Show version")
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}
