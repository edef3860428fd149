package reconcile

import (
	"context"
	"fmt"
)

// memGrid is a sparse in-memory Grid used by the engine tests.
type memGrid struct {
	cells  map[[2]int]string
	writes int
	rowOps int
	failAt int
}

func newMemGrid() *memGrid {
	return &memGrid{cells: make(map[[2]int]string)}
}

func (m *memGrid) GetCell(ctx context.Context, row, col int) (string, error) {
	return m.cells[[2]int{row, col}], nil
}

func (m *memGrid) SetCell(ctx context.Context, row, col int, value string) error {
	if m.failAt != 0 && row == m.failAt {
		return fmt.Errorf("write refused at row %d", row)
	}
	m.writes++
	m.cells[[2]int{row, col}] = value
	return nil
}

func (m *memGrid) GetRowValues(ctx context.Context, row, colStart, colEnd int) ([]string, error) {
	out := make([]string, 0, colEnd-colStart+1)
	for c := colStart; c <= colEnd; c++ {
		out = append(out, m.cells[[2]int{row, c}])
	}
	return out, nil
}

// row is a test helper returning cells [colStart, colEnd] of a row.
func (m *memGrid) row(row, colStart, colEnd int) []string {
	vals, _ := m.GetRowValues(context.Background(), row, colStart, colEnd)
	return vals
}

// put fills a row starting at col.
func (m *memGrid) put(row, col int, values ...string) {
	for i, v := range values {
		m.cells[[2]int{row, col + i}] = v
	}
}

// rowWriterGrid wraps memGrid and counts whole-row writes.
type rowWriterGrid struct {
	*memGrid
}

func (r *rowWriterGrid) WriteRow(ctx context.Context, row, colStart int, values []*string) error {
	r.rowOps++
	for i, v := range values {
		if v != nil {
			r.cells[[2]int{row, colStart + i}] = *v
		}
	}
	return nil
}
