package weights

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jvlmdr/fourdcg/volume"
)

// SaveCSV writes the matrix to a file, one row per projection.
func SaveCSV(fname string, w *Matrix) error {
	file, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeCSV(file, w)
}

// LoadCSV reads a matrix written by SaveCSV.
func LoadCSV(fname string) (*Matrix, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeCSV(file)
}

// EncodeCSV writes one record per projection.
// Every row must have the same number of phases.
func EncodeCSV(w io.Writer, m *Matrix) error {
	n := m.Phases()
	for i, row := range m.Rows {
		if len(row) != n {
			return fmt.Errorf("weights row %d has %d columns, want %d: %w", i, len(row), n, volume.ErrDimensionMismatch)
		}
	}
	ww := csv.NewWriter(w)
	for _, row := range m.Rows {
		rec := make([]string, len(row))
		for p, x := range row {
			rec[p] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		if err := ww.Write(rec); err != nil {
			return err
		}
	}
	ww.Flush()
	return ww.Error()
}

// DecodeCSV reads one row of weights per record.
// All records must have the same number of fields.
// The values are not validated.
func DecodeCSV(r io.Reader) (*Matrix, error) {
	rr := csv.NewReader(r)
	rr.TrimLeadingSpace = true
	recs, err := rr.ReadAll()
	if err != nil {
		return nil, err
	}
	m := &Matrix{Rows: make([][]float64, len(recs))}
	for i, rec := range recs {
		row := make([]float64, len(rec))
		for j, s := range rec {
			x, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse weight (%d, %d): %w", i, j, err)
			}
			row[j] = x
		}
		m.Rows[i] = row
	}
	return m, nil
}
