// Package dossier is the consolidated record store: every import batch keyed
// by installation date, plus team and global ledgers that are always a pure
// reduction over the current batches.
package dossier

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ftthdesk/internal/record"
)

// Dossier is one day's batch of assignments.
type Dossier struct {
	Date      string                         `json:"date"`
	OutputTag string                         `json:"base_dir"`
	Teams     map[string][]record.Assignment `json:"equipes"`
	CreatedAt Timestamp                      `json:"created_at"`
	UpdatedAt Timestamp                      `json:"updated_at"`
	ImportID  string                         `json:"import_id,omitempty"`
}

// Total returns the number of assignments across all teams.
func (d Dossier) Total() int {
	n := 0
	for _, as := range d.Teams {
		n += len(as)
	}
	return n
}

func (d Dossier) clone() Dossier {
	out := d
	out.Teams = make(map[string][]record.Assignment, len(d.Teams))
	for team, as := range d.Teams {
		out.Teams[team] = append([]record.Assignment(nil), as...)
	}
	return out
}

// TeamLedger is the derived per-team total.
type TeamLedger struct {
	TotalClients int `json:"total_clients"`
	// Dates is sorted with DateKeyLess.
	Dates []string `json:"dossiers_participes"`
}

// GlobalStats is the derived store-wide total.
type GlobalStats struct {
	TotalDossiers int `json:"total_dossiers"`
	TotalClients  int `json:"total_clients"`
	TotalTeams    int `json:"total_equipes"`
}

// TeamDossier is one dossier seen through a single team.
type TeamDossier struct {
	Date        string
	OutputTag   string
	CreatedAt   Timestamp
	Assignments []record.Assignment
}

// DayActivity is what happened on one date key: assignment counts per team.
type DayActivity struct {
	Date  string
	Teams map[string]int
	Total int
}

// Timestamp is a time that also reads the zone-less ISO form older stores
// were written with.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if string(data) == "null" {
			*t = Timestamp{}
			return nil
		}
		return fmt.Errorf("timestamp: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = Timestamp{parsed}
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}
