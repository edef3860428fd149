package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Reconcile writes every pending record into the grid region below origin.
//
// Starting at the row under the header, each row spanning the effective columns is classified:
//   - empty rows receive the record at the front of the batch (fetch order is preserved);
//   - occupied rows whose key cell matches a pending record are overwritten in place with it;
//   - other occupied rows are left untouched.
//
// The walk ends when the batch is empty. Only cells for fields present on a record are written.
// If the key field is not among the columns, no row can match and the run is append-only.
// Reaching opts.MaxRows with records still pending returns ErrRowLimit; rows already written
// are not rolled back.
func Reconcile(ctx context.Context, batch *Pending, g Grid, origin Origin, columns []string, opts Options, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var summary Summary
	if batch.Len() == 0 {
		return summary, nil
	}

	if len(columns) == 0 {
		summary.Dropped = batch.Len()
		for batch.Len() > 0 {
			batch.PopFront()
		}
		log.Warn("No columns to project, nothing written", zap.Int("dropped", summary.Dropped))
		return summary, nil
	}

	keyCol := indexOf(columns, opts.keyField())
	if keyCol < 0 {
		summary.AppendOnly = true
		log.Info("Key field not projected, running append-only",
			zap.String("key_field", opts.keyField()),
			zap.Strings("columns", columns),
		)
	}

	colStart := origin.Col
	colEnd := origin.Col + len(columns) - 1
	maxRows := opts.maxRows()

	for row := origin.Row + 1; batch.Len() > 0; row++ {
		if row > maxRows {
			return summary, fmt.Errorf("%w: %d record(s) pending at row %d", ErrRowLimit, batch.Len(), maxRows)
		}

		if summary.FirstRow == 0 {
			summary.FirstRow = row
		}
		summary.LastRow = row

		cells, err := g.GetRowValues(ctx, row, colStart, colEnd)
		if err != nil {
			return summary, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		if strings.Join(cells, "") == "" {
			record, _ := batch.PopFront()
			if err := writeRow(ctx, g, row, colStart, record.Project(columns)); err != nil {
				return summary, fmt.Errorf("failed to append row %d: %w", row, err)
			}
			summary.Appended++
			log.Debug("Appended record", zap.Int("row", row), zap.String("key", record.Key(opts.keyField())))
			continue
		}

		if keyCol < 0 {
			summary.SkippedRows++
			continue
		}

		key := strings.TrimSpace(cells[keyCol])
		record, ok := batch.Take(key)
		if !ok {
			summary.SkippedRows++
			log.Debug("Left unmatched row untouched", zap.Int("row", row), zap.String("key", key))
			continue
		}

		if err := writeRow(ctx, g, row, colStart, record.Project(columns)); err != nil {
			return summary, fmt.Errorf("failed to update row %d: %w", row, err)
		}
		summary.Updated++
		log.Debug("Updated record in place", zap.Int("row", row), zap.String("key", key))
	}

	return summary, nil
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
