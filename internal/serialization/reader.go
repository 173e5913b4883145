package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/deepnet/internal/nn"
)

// ReadHeader reads the magic bytes, version and JSON header from r and
// leaves r positioned at the start of the parameter data.
func ReadHeader(r io.Reader) (Header, error) {
	var prefix [prefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Header{}, fmt.Errorf("failed to read file prefix: %w", err)
	}
	if string(prefix[:4]) != MagicBytes {
		return Header{}, ErrInvalidMagic
	}

	version := binary.LittleEndian.Uint32(prefix[4:8])
	if version != FormatVersion {
		return Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(prefix[8:])
	if headerSize > MaxHeaderSize {
		return Header{}, ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize+uint64(padding(int64(headerSize))))
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return Header{}, fmt.Errorf("failed to read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes[:headerSize], &header); err != nil {
		return Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	return header, nil
}

// Read reads a .dnet checkpoint from r and rebuilds the network it describes.
func Read(r io.Reader) (*nn.Network, Header, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	// Sizes come from the file; check them before allocating anything.
	if err := header.Architecture.Validate(); err != nil {
		return nil, header, fmt.Errorf("invalid architecture: %w", err)
	}
	count, err := parameterCount(header.Architecture.LayerSizes)
	if err != nil {
		return nil, header, err
	}
	if header.NumParameters != count {
		return nil, header, fmt.Errorf("%w: header has %d, architecture needs %d",
			ErrParameterCount, header.NumParameters, count)
	}

	net, err := nn.Build(header.Architecture, nil)
	if err != nil {
		return nil, header, fmt.Errorf("failed to build network: %w", err)
	}

	data := make([]byte, 8*header.NumParameters)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, header, fmt.Errorf("failed to read parameters: %w", err)
	}
	if err := ValidateChecksum(data, header.Checksum); err != nil {
		return nil, header, err
	}

	params := make([]float64, header.NumParameters)
	for i := range params {
		params[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
	}
	if err := net.SetParameters(params); err != nil {
		return nil, header, err
	}

	return net, header, nil
}

// Load reads a .dnet checkpoint from path.
func Load(path string) (*nn.Network, Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Read(file)
}
