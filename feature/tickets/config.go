package tickets

import "refraction/core/reconcile"

// GridConfig selects the grid a run writes to and the region inside it.
type GridConfig struct {
	// Backend is one of xlsx, s3 or sql.
	Backend string `mapstructure:"backend" default:"xlsx"`
	// Path is the local workbook used by the xlsx backend.
	Path string `mapstructure:"path" default:"tickets.xlsx"`
	// Object is the workbook object key used by the s3 backend.
	Object string `mapstructure:"object" default:"tickets.xlsx"`
	// Sheet is the worksheet name (xlsx, s3) or the sheet scope of the cell table (sql).
	Sheet string `mapstructure:"sheet" default:"Tickets"`
	// Origin is the A1 reference of the header cell.
	Origin string `mapstructure:"origin" default:"A1"`
	// KeyField is the field that identifies a ticket row.
	KeyField string `mapstructure:"key_field" default:"number"`
	// MaxRows is the last row a run may visit.
	MaxRows int `mapstructure:"max_rows" default:"1048576"`
	// MaxColumns caps the header scan.
	MaxColumns int `mapstructure:"max_columns" default:"16384"`
}

// Options returns the reconcile bounds for this grid.
func (c GridConfig) Options() reconcile.Options {
	return reconcile.Options{
		MaxRows:    c.MaxRows,
		MaxColumns: c.MaxColumns,
		KeyField:   c.KeyField,
	}
}
