package serialization

import (
	"fmt"
	"time"

	"github.com/born-ml/deepnet/internal/nn"
)

// Format constants.
const (
	MagicBytes    = "DNET"
	FormatVersion = 1
	DataAlignment = 8 // Parameter data starts on a float64 boundary
	MaxHeaderSize = 16 * 1024 * 1024
	MaxParameters = 1 << 28 // 2GB of float64 parameter data

	prefixSize = 4 + 4 + 8 // magic + version + header size
)

// Header represents the JSON header in a .dnet file.
//
// Write fills FormatVersion, Architecture, NumParameters and Checksum from
// the network; callers set Metadata, Training and optionally CreatedAt.
type Header struct {
	FormatVersion int               `json:"format_version"`     // Version of the .dnet format
	CreatedAt     time.Time         `json:"created_at"`         // When the file was created
	Architecture  nn.Architecture   `json:"architecture"`       // Layer sizes, activators and loss
	NumParameters int               `json:"num_parameters"`     // Length of the flat parameter vector
	Checksum      string            `json:"checksum"`           // Hex SHA-256 of the parameter section
	Metadata      map[string]string `json:"metadata"`           // Custom metadata
	Training      *TrainingMeta     `json:"training,omitempty"` // Training state (optional)
}

// TrainingMeta records how the stored parameters were obtained.
type TrainingMeta struct {
	Optimizer string  `json:"optimizer"`  // Optimizer name ("sgd", "adam")
	LR        float64 `json:"lr"`         // Learning rate after the last epoch
	Epochs    int     `json:"epochs"`     // Epochs completed
	Steps     int     `json:"steps"`      // Parameter updates applied
	Objective float64 `json:"objective"`  // Objective on the training data
	Workers   int     `json:"workers"`    // Concurrent gradient workers
	BatchSize int     `json:"batch_size"` // Rows per step, 0 for full batch
}

// padding returns the number of zero bytes between a header of headerSize
// bytes and the parameter data.
func padding(headerSize int64) int64 {
	pos := int64(prefixSize) + headerSize
	return (DataAlignment - pos%DataAlignment) % DataAlignment
}

// parameterCount returns Σ (in+1)*out over consecutive layer sizes, or
// ErrParameterCount if a size is not positive or the total exceeds
// MaxParameters.
func parameterCount(sizes []int) (int, error) {
	var total int64
	for i := 0; i+1 < len(sizes); i++ {
		in, out := int64(sizes[i]), int64(sizes[i+1])
		if in <= 0 || out <= 0 || in >= MaxParameters || out >= MaxParameters {
			return 0, fmt.Errorf("%w: layer %d is %dx%d", ErrParameterCount, i, in, out)
		}
		total += (in + 1) * out
		if total > MaxParameters {
			return 0, fmt.Errorf("%w: more than %d parameters", ErrParameterCount, MaxParameters)
		}
	}
	return int(total), nil
}
