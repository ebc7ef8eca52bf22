package feature

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/turtacn/DiverseMol/pkg/errors"
)

// Matrix is the row-indexed, column-named tabular structure produced by the
// descriptor and fingerprint generators.  Rows correspond to molecules in
// input order; columns are descriptor names or fingerprint bit positions.
//
// Matrix is deliberately a plain dense float64 table: fingerprint bits are
// stored as 0/1 values so that descriptor and fingerprint outputs share one
// shape for downstream selection pipelines.
type Matrix struct {
	// Index holds one label per row (molecule name or canonical SMILES).
	Index []string `json:"index"`

	// Columns holds the ordered column names.
	Columns []string `json:"columns"`

	// Data is row-major: Data[i][j] is the value of Columns[j] for Index[i].
	Data [][]float64 `json:"data"`
}

// NewMatrix validates shape consistency and builds a Matrix.
func NewMatrix(index, columns []string, data [][]float64) (*Matrix, error) {
	if len(data) != len(index) {
		return nil, errors.Newf(errors.CodeMatrixShapeMismatch,
			"row count %d does not match index length %d", len(data), len(index))
	}
	for i, row := range data {
		if len(row) != len(columns) {
			return nil, errors.Newf(errors.CodeMatrixShapeMismatch,
				"row %d has %d values, expected %d columns", i, len(row), len(columns))
		}
	}
	return &Matrix{Index: index, Columns: columns, Data: data}, nil
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.Data) }

// NumColumns returns the number of columns.
func (m *Matrix) NumColumns() int { return len(m.Columns) }

// Row returns the values of the row at position i.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= len(m.Data) {
		return nil
	}
	return m.Data[i]
}

// ColumnIndex returns the position of the named column, or -1.
func (m *Matrix) ColumnIndex(name string) int {
	for j, c := range m.Columns {
		if c == name {
			return j
		}
	}
	return -1
}

// Column returns the values of the named column in row order, or nil when the
// column does not exist.
func (m *Matrix) Column(name string) []float64 {
	j := m.ColumnIndex(name)
	if j < 0 {
		return nil
	}
	col := make([]float64, len(m.Data))
	for i, row := range m.Data {
		col[i] = row[j]
	}
	return col
}

// SelectColumns returns a new Matrix restricted to the named columns, in the
// given order.  Unknown column names yield an error.
func (m *Matrix) SelectColumns(names []string) (*Matrix, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j := m.ColumnIndex(name)
		if j < 0 {
			return nil, errors.NotFound("column not found").WithDetail("column=" + name)
		}
		idx[k] = j
	}
	data := make([][]float64, len(m.Data))
	for i, row := range m.Data {
		sub := make([]float64, len(idx))
		for k, j := range idx {
			sub[k] = row[j]
		}
		data[i] = sub
	}
	return &Matrix{Index: append([]string(nil), m.Index...), Columns: append([]string(nil), names...), Data: data}, nil
}

// WriteCSV writes the matrix in CSV form with a leading name column.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"name"}, m.Columns...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to write csv header")
	}
	record := make([]string, len(m.Columns)+1)
	for i, row := range m.Data {
		record[0] = m.Index[i]
		for j, v := range row {
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.CodeSerialization,
				fmt.Sprintf("failed to write csv row %d", i))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "csv flush failed")
	}
	return nil
}
