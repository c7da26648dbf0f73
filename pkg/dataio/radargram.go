// Package dataio reads and writes the on-disk products of a surface power run:
// amplitude radargrams, navigation records and power tables.
package dataio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// compressed reports whether a path names a zstd-compressed product
func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// ReadRadargram loads a 2-D float64 NumPy array of amplitudes. Files ending
// in .zst are decompressed on the fly.
func ReadRadargram(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open radargram: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if compressed(path) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var amp mat.Dense
	if err := npyio.Read(r, &amp); err != nil {
		return nil, fmt.Errorf("failed to decode radargram %s: %w", path, err)
	}
	if rows, cols := amp.Dims(); rows == 0 || cols == 0 {
		return nil, fmt.Errorf("radargram %s is empty", path)
	}
	return &amp, nil
}

// WriteRadargram stores an amplitude grid as a NumPy array, compressing it
// when the path ends in .zst
func WriteRadargram(path string, amp mat.Matrix) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create radargram: %w", err)
	}
	defer file.Close()

	if !compressed(path) {
		if err := npyio.Write(file, amp); err != nil {
			return fmt.Errorf("failed to encode radargram: %w", err)
		}
		return file.Close()
	}

	enc, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("failed to open zstd stream: %w", err)
	}
	if err := npyio.Write(enc, amp); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode radargram: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return file.Close()
}
