package reconcile

import "context"

// Grid is the cell store a run reads from and writes to.
// Rows and columns are 1-based. Missing cells read as "".
type Grid interface {
	// GetCell returns the value of a single cell.
	GetCell(ctx context.Context, row, col int) (string, error)

	// SetCell writes a single cell.
	SetCell(ctx context.Context, row, col int, value string) error

	// GetRowValues returns the cells of row from colStart to colEnd inclusive,
	// always len == colEnd-colStart+1.
	GetRowValues(ctx context.Context, row, colStart, colEnd int) ([]string, error)
}

// RowWriter is implemented by grids that can write the projected cells of one row in a
// single operation. values[i] belongs to column colStart+i; nil entries are left untouched.
type RowWriter interface {
	WriteRow(ctx context.Context, row, colStart int, values []*string) error
}

// writeRow writes values into row using RowWriter when the grid supports it.
func writeRow(ctx context.Context, g Grid, row, colStart int, values []*string) error {
	if w, ok := g.(RowWriter); ok {
		return w.WriteRow(ctx, row, colStart, values)
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := g.SetCell(ctx, row, colStart+i, *v); err != nil {
			return err
		}
	}
	return nil
}
