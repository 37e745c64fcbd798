package store

import (
	"database/sql"
	"fmt"
)

// A migration adds columns or tables, never removes or renames them. Each
// entry runs in its own transaction together with the schema_info bump, so
// an interrupted run re-applies cleanly from the first unapplied version.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create drinks table",
		stmts: []string{`
			CREATE TABLE IF NOT EXISTS drinks (
				id            TEXT PRIMARY KEY,
				flavor        TEXT NOT NULL DEFAULT '',
				store         TEXT NOT NULL DEFAULT '',
				price         REAL NOT NULL DEFAULT 0,
				rating        INTEGER NOT NULL DEFAULT 0,
				date          TEXT NOT NULL DEFAULT '',
				photo_url     TEXT NOT NULL DEFAULT '',
				s3_key        TEXT NOT NULL DEFAULT '',
				user_id       TEXT NOT NULL DEFAULT '',
				synced        INTEGER NOT NULL DEFAULT 0,
				last_modified INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_drinks_user ON drinks(user_id)`,
		},
	},
	{
		version: 2,
		name:    "add occasion",
		stmts: []string{
			`ALTER TABLE drinks ADD COLUMN occasion TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		version: 3,
		name:    "add store location",
		stmts: []string{
			`ALTER TABLE drinks ADD COLUMN latitude REAL`,
			`ALTER TABLE drinks ADD COLUMN longitude REAL`,
			`ALTER TABLE drinks ADD COLUMN place_id TEXT NOT NULL DEFAULT ''`,
		},
	},
}

// CurrentSchemaVersion is the version a fully migrated store reports.
const CurrentSchemaVersion = 3

// migrate applies all pending migrations in increasing version order.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_info (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_info: %w", err)
	}

	var current sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_info`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && m.version <= int(current.Int64) {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}

		if _, err := tx.Exec(`INSERT INTO schema_info (version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_info`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}
