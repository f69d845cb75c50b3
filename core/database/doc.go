// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL or SQLite connections based on the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// database before returning. MySQL DSNs carry the configured timeout for
// connection setup, reads and writes.
//
// # Schema Inspection
//
// GetTableColumns reads live column definitions (SHOW COLUMNS on MySQL,
// PRAGMA table_info on SQLite). CheckSchema compares them with the tables the
// content store expects and backs the status endpoint's schema report.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	report, err := database.CheckSchema(db, map[string][]string{"posts": {"id", "post_name"}})
package database
