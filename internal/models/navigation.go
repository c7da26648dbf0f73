package models

import (
	"fmt"
	"strconv"
	"strings"
)

// NavRecord holds the per-trace navigation/geometry table of an observation.
// Fields are kept as text so untouched columns are written back exactly as
// they were read.
type NavRecord struct {
	// Rows holds one entry per trace, each a slice of fields
	Rows [][]string
}

// NewNavRecord creates a navigation record from parsed rows. Every row must
// carry the same number of fields.
func NewNavRecord(rows [][]string) (*NavRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("navigation record has no rows")
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("navigation row %d has %d fields, expected %d", i, len(row), width)
		}
	}
	return &NavRecord{Rows: rows}, nil
}

// Len returns the number of traces in the record
func (n *NavRecord) Len() int {
	return len(n.Rows)
}

// Width returns the number of fields per row
func (n *NavRecord) Width() int {
	if len(n.Rows) == 0 {
		return 0
	}
	return len(n.Rows[0])
}

// Float parses a single field as a float64
func (n *NavRecord) Float(row, field int) (float64, error) {
	if row < 0 || row >= len(n.Rows) {
		return 0, fmt.Errorf("row %d out of range [0, %d)", row, len(n.Rows))
	}
	if field < 0 || field >= len(n.Rows[row]) {
		return 0, fmt.Errorf("field %d out of range [0, %d)", field, len(n.Rows[row]))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Rows[row][field]), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d field %d: %w", row, field, err)
	}
	return v, nil
}

// Column parses one field of every row
func (n *NavRecord) Column(field int) ([]float64, error) {
	out := make([]float64, len(n.Rows))
	for i := range n.Rows {
		v, err := n.Float(i, field)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Clone returns a deep copy of the record
func (n *NavRecord) Clone() *NavRecord {
	rows := make([][]string, len(n.Rows))
	for i, row := range n.Rows {
		rows[i] = append(make([]string, 0, len(row)+1), row...)
	}
	return &NavRecord{Rows: rows}
}
