package export

import (
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 2

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCoreTables(db); err != nil {
		return fmt.Errorf("create core tables: %w", err)
	}
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}

// createCoreTables creates the states, members and votes tables.
func createCoreTables(db *sql.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"states", `
			CREATE TABLE IF NOT EXISTS states (
				name TEXT PRIMARY KEY,
				abbrev TEXT,
				class TEXT NOT NULL,
				fill TEXT NOT NULL,
				agreement REAL,
				base_agreement REAL,
				draw_order INTEGER NOT NULL
			)
		`},
		{"members", `
			CREATE TABLE IF NOT EXISTS members (
				id TEXT PRIMARY KEY,
				name TEXT,
				party TEXT NOT NULL,
				state TEXT NOT NULL,
				seat INTEGER NOT NULL,
				agreement REAL,
				base_agreement REAL,
				selected INTEGER NOT NULL DEFAULT 0
			)
		`},
		{"votes", `
			CREATE TABLE IF NOT EXISTS votes (
				member_id TEXT NOT NULL,
				roll_call TEXT NOT NULL,
				position TEXT NOT NULL,
				PRIMARY KEY (member_id, roll_call),
				FOREIGN KEY (member_id) REFERENCES members(id)
			)
		`},
	}
	for _, s := range statements {
		if _, err := db.Exec(s.sql); err != nil {
			return fmt.Errorf("create %s table: %w", s.name, err)
		}
	}
	return nil
}

func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_states_abbrev ON states(abbrev)`,
		`CREATE INDEX IF NOT EXISTS idx_members_state ON members(state)`,
		`CREATE INDEX IF NOT EXISTS idx_members_party ON members(party)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_roll_call ON votes(roll_call)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// createMetaTable creates the export metadata table.
func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create export_meta table: %w", err)
	}
	return nil
}

// OptimizeDatabase compacts the file. Call it as the final step before
// closing the database.
func OptimizeDatabase(db *sql.DB) error {
	for _, pragma := range []string{`PRAGMA journal_mode=DELETE`, `ANALYZE`, `PRAGMA optimize`} {
		// Some pragmas may fail depending on state, continue
		_, _ = db.Exec(pragma)
	}
	// VACUUM must be last and outside transaction
	if _, err := db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// InsertMetaValue inserts or updates a metadata key-value pair.
func InsertMetaValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`, key, value)
	return err
}
