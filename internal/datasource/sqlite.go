package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/debug"
)

// SQLiteReader provides read access to a congress database in the export
// schema (states, members and optional votes tables). Agreement is read from
// the base_agreement columns; the agreement columns hold scores for the
// selection at export time and are recomputed on load.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA temp_store = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("datasource: %s: %v", pragma, err)
		}
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadData reads the congress tables into serialized form.
func (r *SQLiteReader) LoadData() (congress.Data, error) {
	d := congress.Data{
		Members:         make(map[string]congress.Legislator),
		Delegations:     make(map[string][]string),
		StateFullAbbrev: make(map[string]string),
		MemberAgreement: make(map[string]float64),
		StateAgreement:  make(map[string]float64),
	}

	if err := r.loadMembers(&d); err != nil {
		return congress.Data{}, fmt.Errorf("load members: %w", err)
	}
	if len(d.Members) == 0 {
		return congress.Data{}, fmt.Errorf("%s: no members", r.path)
	}
	if err := r.loadStates(&d); err != nil {
		return congress.Data{}, fmt.Errorf("load states: %w", err)
	}
	if err := r.loadVotes(&d); err != nil {
		return congress.Data{}, fmt.Errorf("load votes: %w", err)
	}
	return d, nil
}

// LoadCongress reads the database into a congress model.
func (r *SQLiteReader) LoadCongress() (*congress.Congress, error) {
	d, err := r.LoadData()
	if err != nil {
		return nil, err
	}
	c := congress.New(d)
	c.RecomputeAgreement()
	return c, nil
}

func (r *SQLiteReader) loadMembers(d *congress.Data) error {
	rows, err := r.db.Query(`
		SELECT id, name, party, state, base_agreement, selected
		FROM members
		ORDER BY state, seat, id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, party, state string
			name             sql.NullString
			agreement        sql.NullFloat64
			selected         int
		)
		if err := rows.Scan(&id, &name, &party, &state, &agreement, &selected); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		d.Members[id] = congress.Legislator{
			Name:  name.String,
			Party: congress.ParseParty(party),
			State: state,
		}
		d.Delegations[state] = append(d.Delegations[state], id)
		if agreement.Valid {
			d.MemberAgreement[id] = agreement.Float64
		}
		if selected != 0 {
			d.Selected = append(d.Selected, id)
		}
	}
	return rows.Err()
}

func (r *SQLiteReader) loadStates(d *congress.Data) error {
	rows, err := r.db.Query(`SELECT name, abbrev, base_agreement FROM states WHERE abbrev IS NOT NULL`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, abbrev string
			agreement    sql.NullFloat64
		)
		if err := rows.Scan(&name, &abbrev, &agreement); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		d.StateFullAbbrev[name] = abbrev
		if agreement.Valid {
			d.StateAgreement[abbrev] = agreement.Float64
		}
	}
	return rows.Err()
}

func (r *SQLiteReader) loadVotes(d *congress.Data) error {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'votes'`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	rows, err := r.db.Query(`SELECT member_id, roll_call, position FROM votes`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, rc, pos string
		if err := rows.Scan(&id, &rc, &pos); err != nil {
			return fmt.Errorf("scan vote: %w", err)
		}
		if d.Votes == nil {
			d.Votes = make(map[string]map[string]congress.Position)
		}
		if d.Votes[id] == nil {
			d.Votes[id] = make(map[string]congress.Position)
		}
		d.Votes[id][rc] = congress.ParsePosition(pos)
	}
	return rows.Err()
}
