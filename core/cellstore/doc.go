// Package cellstore keeps a grid in a relational table, one row per non-empty cell.
//
// It is the SQL-backed reconcile.Grid used when grid.backend is "sql". Cells are keyed by
// (sheet, row_num, col_num) in the grid_cells table and written with upserts, so MySQL and
// SQLite behave the same. WriteRow groups the cells of one row in a transaction, which gives
// the reconciler single-row atomicity.
//
// # Usage
//
//	db, _ := database.Connect(cfg.Database)
//	store := cellstore.New(db, "tickets")
//	if err := store.Migrate(ctx); err != nil { ... }
//
//	tx, _ := store.Begin(ctx)
//	summary, err := reconcile.Reconcile(ctx, batch, tx, origin, columns, opts, log)
//	if err != nil { tx.Rollback() } else { tx.Commit() }
package cellstore
