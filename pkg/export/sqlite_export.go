package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/mapview"
	"github.com/vanderheijden86/congressmap/pkg/version"

	_ "modernc.org/sqlite"
)

// SQLiteExporter writes a map snapshot to a SQLite database.
type SQLiteExporter struct {
	View   *mapview.View
	Source Source
	Votes  map[string]map[string]congress.Position // optional roll-call records
	now    func() time.Time
}

// NewSQLiteExporter creates an exporter for the view and its congress.
func NewSQLiteExporter(v *mapview.View, src Source) *SQLiteExporter {
	return &SQLiteExporter{View: v, Source: src, now: time.Now}
}

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	states := StateRecords(e.View, e.Source)
	members := MemberRecords(e.Source)

	if err := e.insertStates(db, states); err != nil {
		return fmt.Errorf("insert states: %w", err)
	}
	if err := e.insertMembers(db, members); err != nil {
		return fmt.Errorf("insert members: %w", err)
	}
	if err := e.insertVotes(db); err != nil {
		return fmt.Errorf("insert votes: %w", err)
	}
	if err := e.insertMeta(db, len(states), len(members)); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	if err := OptimizeDatabase(db); err != nil {
		return fmt.Errorf("optimize database: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

func (e *SQLiteExporter) insertStates(db *sql.DB, states []StateRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO states (name, abbrev, class, fill, agreement, base_agreement, draw_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range states {
		var abbrev *string
		if s.Abbrev != "" {
			abbrev = &s.Abbrev
		}
		if _, err := stmt.Exec(s.Name, abbrev, s.Class, s.Fill, s.Agreement, s.BaseAgreement, s.DrawOrder); err != nil {
			return fmt.Errorf("insert state %s: %w", s.Name, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertMembers(db *sql.DB, members []MemberRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO members (id, name, party, state, seat, agreement, base_agreement, selected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range members {
		selected := 0
		if m.Selected {
			selected = 1
		}
		if _, err := stmt.Exec(m.ID, m.Name, m.Party, m.State, m.Seat, m.Agreement, m.BaseAgreement, selected); err != nil {
			return fmt.Errorf("insert member %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertVotes(db *sql.DB) error {
	if len(e.Votes) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO votes (member_id, roll_call, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(e.Votes))
	for id := range e.Votes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for rc, pos := range e.Votes[id] {
			if _, err := stmt.Exec(id, rc, string(pos)); err != nil {
				return fmt.Errorf("insert vote %s/%s: %w", id, rc, err)
			}
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB, stateCount, memberCount int) error {
	selected, err := json.Marshal(e.Source.SelectedMembers())
	if err != nil {
		return err
	}
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	meta := [][2]string{
		{"schema_version", strconv.Itoa(SchemaVersion)},
		{"version", version.Version},
		{"generated_at", now().UTC().Format(time.RFC3339)},
		{"state_count", strconv.Itoa(stateCount)},
		{"member_count", strconv.Itoa(memberCount)},
		{"selected", string(selected)},
	}
	for _, kv := range meta {
		if err := InsertMetaValue(db, kv[0], kv[1]); err != nil {
			return fmt.Errorf("meta %s: %w", kv[0], err)
		}
	}
	return nil
}
