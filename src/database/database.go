package database

import (
	"database/sql"
	"fmt"

	"github.com/username/opodatkuvayco/backend/src/logger"
	_ "modernc.org/sqlite"
)

const createTableStatement = `
	CREATE TABLE IF NOT EXISTS exchange_rates (
		currency TEXT NOT NULL,
		rate_date TEXT NOT NULL,
		rate REAL NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(currency, rate_date)
	);
	`

// Open opens (creating if needed) the SQLite rate database at databasePath
// and ensures its schema.
func Open(databasePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", databasePath, err)
	}
	// SQLite allows a single writer at a time.
	db.SetMaxOpenConns(1)

	logger.L.Info("Checking database migrations", "databasePath", databasePath)
	if _, err := db.Exec(createTableStatement); err != nil {
		db.Close()
		logger.L.Error("failed to create tables", "error", err)
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := migrateRateTable(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.L.Info("Database tables ensured/created.")
	return db, nil
}

// migrateRateTable adds columns introduced after the first schema.
func migrateRateTable(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(exchange_rates)")
	if err != nil {
		logger.L.Error("Error querying table schema for 'exchange_rates'", "error", err)
		return fmt.Errorf("error querying table schema for 'exchange_rates': %w", err)
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, notnull, pk int
		var name, dataType string
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("error scanning column info for 'exchange_rates': %w", err)
		}
		columnExists[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over column info for 'exchange_rates': %w", err)
	}

	if !columnExists["source"] {
		if _, err := db.Exec("ALTER TABLE exchange_rates ADD COLUMN source TEXT NOT NULL DEFAULT 'nbu'"); err != nil {
			logger.L.Error("Error adding 'source' column to 'exchange_rates' table", "error", err)
			return fmt.Errorf("error adding 'source' column: %w", err)
		}
		logger.L.Info("Added 'source' column to 'exchange_rates' table")
	}
	return nil
}
