// Package matio reads and writes dense matrices as whitespace-separated text.
//
// One row per line. Blank lines and lines starting with '#' are ignored.
package matio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by ReadText.
var (
	ErrEmpty  = errors.New("matio: no rows")
	ErrRagged = errors.New("matio: rows have different lengths")
)

// ReadText parses a text matrix from r.
func ReadText(r io.Reader) (*mat.Dense, error) {
	var (
		data []float64
		cols int
		rows int
		line int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d has %d values, expected %d", ErrRagged, line, len(fields), cols)
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("matio: line %d: %w", line, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("matio: %w", err)
	}
	if rows == 0 {
		return nil, ErrEmpty
	}

	return mat.NewDense(rows, cols, data), nil
}

// LoadText reads a text matrix from the file at path.
func LoadText(path string) (*mat.Dense, error) {
	//nolint:gosec // G304: data path comes from the user
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix: %w", err)
	}
	defer func() { _ = file.Close() }()

	m, err := ReadText(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteText writes m to w, one row per line, values separated by a space.
// Values use the shortest representation that parses back to the same float64.
func WriteText(w io.Writer, m mat.Matrix) error {
	rows, cols := m.Dims()
	bw := bufio.NewWriter(w)

	buf := make([]byte, 0, 32)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, m.At(i, j), 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		buf = buf[:0]
	}
	return bw.Flush()
}

// SaveText writes m to a file at path.
func SaveText(path string, m mat.Matrix) (err error) {
	//nolint:gosec // G304: output path comes from the user
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create matrix file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return WriteText(file, m)
}
