// Package server holds the HTTP server configuration.
//
// The `start` command serves the import API with Fiber; this package only defines the
// settings it needs (listen port, API key, per-import deadline).
package server
