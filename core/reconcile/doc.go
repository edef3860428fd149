// Package reconcile merges a freshly fetched batch of records into a spreadsheet-like grid.
//
// A run converges the grid toward the latest state of each record without duplicating records
// or destroying unrelated rows. Existing rows for the same identity key are rewritten where they
// physically sit; records with no existing row are appended into the first empty rows.
//
// # Components
//
//   - Record: an insertion-ordered bag of lowercase field names to string values.
//   - FieldSet: the run-scoped union of field names in first-discovery order.
//   - Pending: the consumable batch (FIFO for appends, removal by key for matches).
//   - Resolve: reads the header row at the origin and decides the projected columns.
//   - Reconcile: walks the data rows below the origin and appends, updates or skips.
//
// # Grid
//
// The engine only talks to the Grid interface (read cell, read row, write cell). Concrete
// grids live in core/sheet (xlsx workbooks via excelize) and core/cellstore (a gorm cell table).
// Grids that can write a whole row at once implement RowWriter.
//
// # Usage
//
//	fields := reconcile.NewFieldSet()
//	batch := reconcile.NewPending(reconcile.KeyField)
//	for _, item := range items {
//	    batch.PushBack(reconcile.FromParsedFields(item.Pairs(), fields, log))
//	}
//
//	effective, err := reconcile.Resolve(ctx, grid, origin, fields, opts)
//	summary, err := reconcile.Reconcile(ctx, batch, grid, origin, effective, opts, log)
package reconcile
