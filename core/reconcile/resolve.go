package reconcile

import (
	"context"
	"fmt"
	"strings"
)

// Resolve decides which fields are projected and in which column order.
//
// If the header cell at the origin is blank, every field in fields is used in discovery order
// and the names are written into the header row as labels. Otherwise the header row is read
// left to right from the origin, lowercased, until the first blank cell or column
// opts.MaxColumns, and nothing is written. Labels are never written past opts.MaxColumns either.
func Resolve(ctx context.Context, g Grid, origin Origin, fields *FieldSet, opts Options) ([]string, error) {
	first, err := g.GetCell(ctx, origin.Row, origin.Col)
	if err != nil {
		return nil, fmt.Errorf("failed to read header cell %s: %w", origin, err)
	}

	span := opts.maxColumns() - origin.Col + 1
	if span < 1 {
		return nil, fmt.Errorf("origin %s is past the column limit %d", origin, opts.maxColumns())
	}

	if strings.TrimSpace(first) == "" {
		names := fields.Names()
		if len(names) > span {
			names = names[:span]
		}
		for i, name := range names {
			if err := g.SetCell(ctx, origin.Row, origin.Col+i, name); err != nil {
				return nil, fmt.Errorf("failed to write header label %q: %w", name, err)
			}
		}
		return names, nil
	}

	selected := []string{normalize(first)}
	for i := 1; i < span; i++ {
		value, err := g.GetCell(ctx, origin.Row, origin.Col+i)
		if err != nil {
			return nil, fmt.Errorf("failed to read header cell: %w", err)
		}
		if strings.TrimSpace(value) == "" {
			break
		}
		selected = append(selected, normalize(value))
	}
	return selected, nil
}
