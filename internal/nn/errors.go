package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNoLoss              = errors.New("terminal layer has no loss function")
	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrEmptyNetwork        = errors.New("network has no layers")
	ErrUnknownActivator    = errors.New("unknown activator")
	ErrUnknownLoss         = errors.New("unknown loss function")
	ErrInvalidArchitecture = errors.New("invalid architecture")
)

// ShapeError provides detailed information about a shape mismatch.
type ShapeError struct {
	Op   string // Operation that detected the mismatch (e.g., "Network.Predict")
	What string // What was checked (e.g., "input columns")
	Want int
	Got  int
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s: expected %d, got %d", e.Op, ErrShapeMismatch, e.What, e.Want, e.Got)
}

// Unwrap makes errors.Is(err, ErrShapeMismatch) hold.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeError(op, what string, want, got int) error {
	return &ShapeError{Op: op, What: what, Want: want, Got: got}
}
