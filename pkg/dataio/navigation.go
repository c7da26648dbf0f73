package dataio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/whigg/sharad-tools/internal/models"
)

// ReadNavigation parses a comma-delimited navigation record
func ReadNavigation(path string) (*models.NavRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open navigation record: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(bufio.NewReader(file))
	r.TrimLeadingSpace = true
	r.Comment = '#'

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation record %s: %w", path, err)
	}
	nav, err := models.NewNavRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("navigation record %s: %w", path, err)
	}
	return nav, nil
}

// WriteNavigation stores a navigation record as comma-delimited text
func WriteNavigation(path string, nav *models.NavRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create navigation record: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	w := csv.NewWriter(bw)
	if err := w.WriteAll(nav.Rows); err != nil {
		return fmt.Errorf("failed to write navigation record: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush navigation record: %w", err)
	}
	return file.Close()
}

// PowerHeader is the first line of a power table
const PowerHeader = "PDB"

// WritePowerTable stores one surface power value per line under a header
func WritePowerTable(path string, powers []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create power table: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	fmt.Fprintln(bw, PowerHeader)
	for _, p := range powers {
		fmt.Fprintf(bw, "%.8f\n", p)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write power table: %w", err)
	}
	return file.Close()
}

// ReadPowerTable parses a table written by WritePowerTable
func ReadPowerTable(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open power table: %w", err)
	}
	defer file.Close()

	var powers []float64
	sc := bufio.NewScanner(file)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if line == 1 && text == PowerHeader {
			continue
		}
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("power table line %d: %w", line, err)
		}
		powers = append(powers, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read power table: %w", err)
	}
	return powers, nil
}
