// Package mirror keeps a SQLite copy of the dossier store for ad-hoc
// querying. The JSON document stays the source of truth: every Sync
// rewrites the mirror from scratch in one transaction.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ftthdesk/internal/dossier"
	"ftthdesk/internal/logging"
)

// Source is the store surface the mirror copies.
type Source interface {
	Dossiers() []dossier.Dossier
	Teams() []string
	TeamLedger(team string) (dossier.TeamLedger, bool)
	GlobalStats() dossier.GlobalStats
}

// Mirror is a SQLite database holding the same content as the store.
type Mirror struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// SyncResult counts the rows written by Sync.
type SyncResult struct {
	Dossiers    int
	Assignments int
	Teams       int
}

// ClientHit is one assignment matched by Search.
type ClientHit struct {
	Date        string
	Team        string
	Key         string
	ClientName  string
	Contact     string
	TechnicalID string
}

const schema = `
CREATE TABLE IF NOT EXISTS dossiers (
	date TEXT PRIMARY KEY,
	output_tag TEXT NOT NULL,
	position INTEGER NOT NULL,
	total INTEGER NOT NULL,
	import_id TEXT,
	created_at TEXT,
	updated_at TEXT
);
CREATE TABLE IF NOT EXISTS assignments (
	date TEXT NOT NULL REFERENCES dossiers(date),
	team TEXT NOT NULL,
	position INTEGER NOT NULL,
	artifact_key TEXT NOT NULL,
	client_name TEXT,
	contact TEXT,
	second_contact TEXT,
	city TEXT,
	neighborhood TEXT,
	provenance TEXT,
	ticket TEXT,
	plan TEXT,
	technical_id TEXT,
	transmission_date TEXT,
	record_json TEXT NOT NULL,
	PRIMARY KEY (date, team, position)
);
CREATE INDEX IF NOT EXISTS idx_assignments_key ON assignments(date, artifact_key);
CREATE INDEX IF NOT EXISTS idx_assignments_team ON assignments(team);
CREATE TABLE IF NOT EXISTS teams (
	team TEXT PRIMARY KEY,
	total_clients INTEGER NOT NULL,
	dates_json TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stats (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	total_dossiers INTEGER NOT NULL,
	total_clients INTEGER NOT NULL,
	total_teams INTEGER NOT NULL,
	synced_at TEXT NOT NULL
);`

// Open opens or creates the mirror database at path.
func Open(path string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps the single-writer model of SQLite simple.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Mirror{db: db, dbPath: path}, nil
}

// Path returns the database file.
func (m *Mirror) Path() string { return m.dbPath }

// Close closes the database.
func (m *Mirror) Close() error { return m.db.Close() }

// Sync replaces the whole mirror content with src.
func (m *Mirror) Sync(ctx context.Context, src Source) (SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res SyncResult
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"assignments", "dossiers", "teams", "stats"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return res, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pos, d := range src.Dossiers() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dossiers (date, output_tag, position, total, import_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.Date, d.OutputTag, pos, d.Total(), d.ImportID, formatTime(d.CreatedAt.Time), formatTime(d.UpdatedAt.Time),
		)
		if err != nil {
			return res, fmt.Errorf("failed to insert dossier %s: %w", d.Date, err)
		}
		res.Dossiers++

		for team, as := range d.Teams {
			// Legacy dossiers may repeat a key within a team, so rows are
			// identified by their place in the team list.
			for i, a := range as {
				raw, err := json.Marshal(a.Record)
				if err != nil {
					return res, fmt.Errorf("failed to encode record %s: %w", a.Key, err)
				}
				r := a.Record
				_, err = tx.ExecContext(ctx,
					`INSERT INTO assignments (date, team, position, artifact_key, client_name, contact, second_contact, city,
					 neighborhood, provenance, ticket, plan, technical_id, transmission_date, record_json)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					d.Date, team, i, a.Key, r.ClientName, r.Contact, r.SecondContact, r.City,
					r.Neighborhood, r.Provenance, r.Ticket, r.Plan, r.TechnicalID, r.TransmissionDate, string(raw),
				)
				if err != nil {
					return res, fmt.Errorf("failed to insert assignment %s: %w", a.Key, err)
				}
				res.Assignments++
			}
		}
	}

	for _, team := range src.Teams() {
		l, _ := src.TeamLedger(team)
		dates, err := json.Marshal(l.Dates)
		if err != nil {
			return res, fmt.Errorf("failed to encode ledger %s: %w", team, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO teams (team, total_clients, dates_json) VALUES (?, ?, ?)`,
			team, l.TotalClients, string(dates),
		); err != nil {
			return res, fmt.Errorf("failed to insert team %s: %w", team, err)
		}
		res.Teams++
	}

	st := src.GlobalStats()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stats (id, total_dossiers, total_clients, total_teams, synced_at) VALUES (1, ?, ?, ?, ?)`,
		st.TotalDossiers, st.TotalClients, st.TotalTeams, formatTime(time.Now()),
	); err != nil {
		return res, fmt.Errorf("failed to insert stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit mirror: %w", err)
	}
	logging.Mirror("mirror synced: %d dossiers, %d assignments, %d teams", res.Dossiers, res.Assignments, res.Teams)
	return res, nil
}

// Stats reads the mirrored global stats. ok is false before the first Sync.
func (m *Mirror) Stats(ctx context.Context) (st dossier.GlobalStats, ok bool, err error) {
	row := m.db.QueryRowContext(ctx, `SELECT total_dossiers, total_clients, total_teams FROM stats WHERE id = 1`)
	if err := row.Scan(&st.TotalDossiers, &st.TotalClients, &st.TotalTeams); err != nil {
		if err == sql.ErrNoRows {
			return st, false, nil
		}
		return st, false, fmt.Errorf("failed to read stats: %w", err)
	}
	return st, true, nil
}

// TeamTotals recounts assignments per team from the assignments table.
func (m *Mirror) TeamTotals(ctx context.Context) (map[string]int, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT team, COUNT(*) FROM assignments GROUP BY team`)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var team string
		var n int
		if err := rows.Scan(&team, &n); err != nil {
			return nil, fmt.Errorf("failed to scan team count: %w", err)
		}
		out[team] = n
	}
	return out, rows.Err()
}

// Search finds assignments whose client name, contact or TN contains term.
func (m *Mirror) Search(ctx context.Context, term string) ([]ClientHit, error) {
	like := "%" + term + "%"
	rows, err := m.db.QueryContext(ctx,
		`SELECT a.date, a.team, a.artifact_key, a.client_name, a.contact, a.technical_id
		 FROM assignments a JOIN dossiers d ON d.date = a.date
		 WHERE a.client_name LIKE ? OR a.contact LIKE ? OR a.technical_id LIKE ?
		 ORDER BY d.position, a.team, a.position`,
		like, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	defer rows.Close()

	var hits []ClientHit
	for rows.Next() {
		var h ClientHit
		if err := rows.Scan(&h.Date, &h.Team, &h.Key, &h.ClientName, &h.Contact, &h.TechnicalID); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
