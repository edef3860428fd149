// Package sheet exposes one worksheet of an xlsx workbook as a reconcile.Grid.
//
// It wraps excelize. A Workbook can be created empty, opened from a local file (a missing file
// yields a new workbook) or read from any io.Reader, such as an object downloaded from storage.
// The target worksheet is created when it does not exist.
//
// Cells are written as strings so that identity keys read back exactly as they were fetched.
// SaveFile writes the workbook atomically (temp file + rename) via natefinch/atomic.
//
// # Usage
//
//	wb, err := sheet.Open("tickets.xlsx", "Tickets")
//	defer wb.Close()
//	summary, err := reconcile.Reconcile(ctx, batch, wb, origin, columns, opts, log)
//	err = wb.SaveFile("tickets.xlsx")
package sheet
