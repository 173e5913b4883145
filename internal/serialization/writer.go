package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/born-ml/deepnet/internal/nn"
)

// Write writes net to w in .dnet format.
//
// The architecture, parameter count and checksum in header are overwritten
// with values computed from net. A zero CreatedAt is set to the current time.
func Write(w io.Writer, net *nn.Network, header Header) error {
	if err := net.Validate(); err != nil {
		return fmt.Errorf("invalid network: %w", err)
	}

	params := net.Parameters()
	data := make([]byte, 8*len(params))
	for i, p := range params {
		binary.LittleEndian.PutUint64(data[8*i:], math.Float64bits(p))
	}

	header.FormatVersion = FormatVersion
	header.Architecture = nn.ArchitectureOf(net)
	header.NumParameters = len(params)
	header.Checksum = ComputeChecksum(data)
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	var buf bytes.Buffer
	buf.Grow(prefixSize + len(headerJSON) + DataAlignment + len(data))

	// Write magic bytes
	buf.WriteString(MagicBytes)

	// Write version
	var word [8]byte
	binary.LittleEndian.PutUint32(word[:4], FormatVersion)
	buf.Write(word[:4])

	// Write header size
	binary.LittleEndian.PutUint64(word[:], uint64(len(headerJSON)))
	buf.Write(word[:])

	// Write header JSON and padding
	buf.Write(headerJSON)
	buf.Write(make([]byte, padding(int64(len(headerJSON)))))

	// Write parameter data
	buf.Write(data)

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// Save writes net to a .dnet file at path.
func Save(path string, net *nn.Network, header Header) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return Write(file, net, header)
}
