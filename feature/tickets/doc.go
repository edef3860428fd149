// Package tickets implements the ticket import feature.
//
// An import fetches the tickets matching a Lighthouse search query, parses them into
// records, resolves the column layout from the grid's header row and reconciles the
// records into the grid: rows with a matching ticket number are updated in place, new
// tickets fill the first empty rows, and unrelated rows are left alone.
//
// # Targets
//
// The grid is selected by grid.backend:
//   - xlsx: a local workbook, saved atomically after the run.
//   - s3: a workbook object in the storage bucket, downloaded and uploaded back.
//   - sql: the grid_cells table, one transaction per row.
//
// A dry run reconciles normally but discards the result.
//
// # Components
//
//   - Service: runs imports; concurrent runs are serialized and identical requests coalesced.
//   - Handler: HTTP endpoints.
//   - Feature: registers the handler with the loader.
//
// # HTTP Endpoints
//
//   - POST /tickets/import : run an import ({"query": "...", "dry_run": false}).
//   - GET /tickets/fields?q= : list the fields discovered for a query.
package tickets
