// Package database opens the optional audit database.
//
// Auditing is off by default. Set DATABASE_ENABLED=true to turn it on; the default
// sqlite driver then writes storage-gateway.db in the working directory.
//
// Connect wraps GORM and selects the MySQL or SQLite dialector from Config.Driver.
// The connection is optional: the server logs a warning and runs without an audit
// ledger when it cannot be established.
//
// Columns and MissingColumns inspect a table through the GORM migrator and are used
// to verify the ledger schema after migration.
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Audit database unavailable", zap.Error(err))
//	}
package database
