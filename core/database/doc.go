// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// based on the application's configuration. The list and item stores keep their
// records here.
//
// # Connect
//
// Connect establishes a connection and verifies it with a ping bounded by the
// configured timeout. SQLite connections are pinned to a single connection so that
// ":memory:" databases stay coherent across queries.
//
// # Schema Inspection
//
// GetTableColumns reads a table's columns for either dialect. The health check
// compares them with the gorm tags of the list and item models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "lists")
package database
