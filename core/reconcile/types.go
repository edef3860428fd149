package reconcile

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// KeyField is the identity field used to match a record to an existing row.
const KeyField = "number"

const (
	// DefaultMaxRows bounds the row cursor. It matches the xlsx sheet row limit.
	DefaultMaxRows = excelize.TotalRows
	// DefaultMaxColumns bounds the header scan. It matches the xlsx sheet column limit.
	DefaultMaxColumns = excelize.MaxColumns
)

// ErrRowLimit is returned when the cursor reaches Options.MaxRows with records still pending.
var ErrRowLimit = errors.New("row limit reached before batch was drained")

// Origin is the top-left cell of a grid region. Rows and columns are 1-based.
type Origin struct {
	Row int
	Col int
}

// ParseOrigin converts an A1-style reference (e.g. "B3") into an Origin.
func ParseOrigin(ref string) (Origin, error) {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return Origin{}, fmt.Errorf("invalid origin %q: %w", ref, err)
	}
	return Origin{Row: row, Col: col}, nil
}

// String returns the A1-style reference of the origin.
func (o Origin) String() string {
	name, err := excelize.CoordinatesToCellName(o.Col, o.Row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", o.Row, o.Col)
	}
	return name
}

// Options controls the bounds of a run.
type Options struct {
	// MaxRows is the last row the cursor may visit. Zero means DefaultMaxRows.
	MaxRows int

	// MaxColumns is the last column a header may reach. Zero means DefaultMaxColumns.
	MaxColumns int

	// KeyField overrides the identity field. Empty means KeyField.
	KeyField string
}

func (o Options) maxRows() int {
	if o.MaxRows <= 0 {
		return DefaultMaxRows
	}
	return o.MaxRows
}

func (o Options) maxColumns() int {
	if o.MaxColumns <= 0 {
		return DefaultMaxColumns
	}
	return o.MaxColumns
}

func (o Options) keyField() string {
	if o.KeyField == "" {
		return KeyField
	}
	return normalize(o.KeyField)
}

// Summary describes what a reconciliation run did to the grid.
type Summary struct {
	// Appended counts records written into previously empty rows.
	Appended int `json:"appended" yaml:"appended"`

	// Updated counts records that overwrote an existing row with the same key.
	Updated int `json:"updated" yaml:"updated"`

	// SkippedRows counts occupied rows left untouched because no pending record matched.
	SkippedRows int `json:"skipped_rows" yaml:"skipped_rows"`

	// Dropped counts records that could not be projected because no columns were selected.
	Dropped int `json:"dropped" yaml:"dropped"`

	// FirstRow and LastRow delimit the data rows visited. Both are zero if no row was visited.
	FirstRow int `json:"first_row" yaml:"first_row"`
	LastRow  int `json:"last_row" yaml:"last_row"`

	// AppendOnly is true when the identity field is not one of the projected columns,
	// so existing rows can never be matched.
	AppendOnly bool `json:"append_only" yaml:"append_only"`
}
