// Package database opens the relational database used by the SQL grid backend.
//
// It wraps GORM and supports two drivers: MySQL (the default, for shared sheets) and SQLite
// (a local file or ":memory:", used by tests and single-user setups). Connect verifies the
// connection with a ping bounded by the configured timeout.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("failed to connect to database: %w", err)
//	}
package database
