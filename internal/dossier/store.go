package dossier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"ftthdesk/internal/logging"
	"ftthdesk/internal/record"

	"github.com/google/uuid"
)

// document is the persisted layout. Only dossiers are read back; the ledgers
// are written for downstream readers and recomputed on every load.
type document struct {
	Dossiers []Dossier             `json:"dossiers"`
	Teams    map[string]TeamLedger `json:"equipes"`
	Stats    GlobalStats           `json:"statistiques"`
}

// Store holds every dossier of one store file. It is loaded once per run,
// changed only through Upsert and written back after every change. It
// assumes a single writer and does no locking.
type Store struct {
	path     string
	dossiers []Dossier
	ledgers  map[string]TeamLedger
	stats    GlobalStats

	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the import ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Open loads the store at path. A missing or unreadable document yields an
// empty store; the file on disk is left untouched so it can be recovered
// by hand.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("dossier: store path is required")
	}
	s := &Store{
		path:  path,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	dossiers, err := readDocument(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Store("No store at %s, starting empty", path)
	case err != nil:
		logging.StoreWarn("Store %s is unreadable, starting empty (file kept): %v", path, err)
	}
	s.dossiers = dossiers
	s.ledgers, s.stats = recompute(s.dossiers)
	logging.Store("Loaded %d dossiers, %d assignments, %d teams from %s",
		s.stats.TotalDossiers, s.stats.TotalClients, s.stats.TotalTeams, path)
	return s, nil
}

func readDocument(path string) ([]Dossier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Dossier{}, err
	}
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return []Dossier{}, fmt.Errorf("decode store: %w", err)
	}
	return canonicalize(doc.Dossiers), nil
}

// canonicalize restores what the JSON form leaves implicit: each assignment's
// team, non-nil maps, and a single dossier per date key. When a date appears
// twice the later entry wins in the position of the first.
func canonicalize(in []Dossier) []Dossier {
	out := make([]Dossier, 0, len(in))
	index := make(map[string]int, len(in))
	for _, d := range in {
		d.Date = strings.TrimSpace(d.Date)
		if d.Date == "" {
			logging.StoreWarn("Skipping stored dossier without a date key")
			continue
		}
		teams := make(map[string][]record.Assignment, len(d.Teams))
		keys := make(map[string]int)
		for team, as := range d.Teams {
			if len(as) == 0 {
				continue
			}
			if safe := record.SafeTeamName(team); safe != team {
				logging.StoreWarn("Stored team %q of dossier %s renamed to %q", team, d.Date, safe)
				team = safe
			}
			fixed := make([]record.Assignment, len(as))
			for i, a := range as {
				a.Team = team
				a.Key = record.SafeTeamName(a.Key)
				fixed[i] = a
				keys[a.Key]++
			}
			teams[team] = append(teams[team], fixed...)
		}
		d.Teams = teams
		// Older imports did not check keys. Such rows are kept and counted;
		// their artifacts share one file and the last row renders.
		dups := make([]string, 0)
		for key, n := range keys {
			if n > 1 {
				dups = append(dups, key)
			}
		}
		sort.Strings(dups)
		for _, key := range dups {
			logging.StoreWarn("Stored dossier %s holds key %s %d times", d.Date, key, keys[key])
		}
		if i, dup := index[d.Date]; dup {
			logging.StoreWarn("Stored dossier %s appears twice, keeping the later one", d.Date)
			out[i] = d
			continue
		}
		index[d.Date] = len(out)
		out = append(out, d)
	}
	return out
}

// Path returns the store file location.
func (s *Store) Path() string { return s.path }

// UpsertResult describes what an Upsert did.
type UpsertResult struct {
	Dossier  Dossier
	Replaced bool
}

// Upsert installs the batch for dateKey. An existing dossier for the same key
// loses its previous teams entirely; nothing is merged. Ledgers and stats are
// then recomputed from the full dossier list and the store is persisted. The
// store is unchanged if validation or persistence fails.
func (s *Store) Upsert(dateKey, outputTag string, teams map[string][]record.Assignment) (UpsertResult, error) {
	dateKey = strings.TrimSpace(dateKey)
	if dateKey == "" {
		return UpsertResult{}, ErrEmptyDateKey
	}
	batch, err := prepareBatch(dateKey, teams)
	if err != nil {
		return UpsertResult{}, err
	}

	now := s.now()
	next := make([]Dossier, len(s.dossiers))
	copy(next, s.dossiers)

	d := Dossier{
		Date:      dateKey,
		OutputTag: outputTag,
		Teams:     batch,
		CreatedAt: Timestamp{now},
		UpdatedAt: Timestamp{now},
		ImportID:  s.newID(),
	}
	replaced := false
	for i := range next {
		if next[i].Date == dateKey {
			d.CreatedAt = next[i].CreatedAt
			next[i] = d
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, d)
	}

	ledgers, stats := recompute(next)
	if err := s.persist(next, ledgers, stats); err != nil {
		return UpsertResult{}, fmt.Errorf("persist store: %w", err)
	}
	s.dossiers, s.ledgers, s.stats = next, ledgers, stats

	logging.Store("Upserted dossier %s (replaced=%v, %d assignments, import %s); totals: %d dossiers, %d assignments",
		dateKey, replaced, d.Total(), d.ImportID, stats.TotalDossiers, stats.TotalClients)
	return UpsertResult{Dossier: d.clone(), Replaced: replaced}, nil
}

// prepareBatch copies the batch, binds assignments to their team, drops
// empty teams and rejects duplicate artifact keys.
func prepareBatch(dateKey string, teams map[string][]record.Assignment) (map[string][]record.Assignment, error) {
	out := make(map[string][]record.Assignment, len(teams))
	type owner struct {
		team  string
		count int
	}
	seen := make(map[string]*owner)

	names := make([]string, 0, len(teams))
	for team := range teams {
		names = append(names, team)
	}
	sort.Strings(names)

	for _, team := range names {
		as := teams[team]
		clean := strings.TrimSpace(team)
		if clean == "" {
			return nil, ErrEmptyTeam
		}
		if strings.ContainsAny(clean, `/\`) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTeam, clean)
		}
		if len(as) == 0 {
			continue
		}
		batch := make([]record.Assignment, len(as))
		for i, a := range as {
			a.Team = clean
			batch[i] = a
			if o, dup := seen[a.Key]; dup {
				o.count++
				continue
			}
			seen[a.Key] = &owner{team: clean, count: 1}
		}
		out[clean] = append(out[clean], batch...)
	}

	var collisions []Collision
	for key, o := range seen {
		if o.count > 1 {
			collisions = append(collisions, Collision{Team: o.team, Key: key, Count: o.count})
		}
	}
	if len(collisions) > 0 {
		sort.Slice(collisions, func(i, j int) bool { return collisions[i].Key < collisions[j].Key })
		return nil, &CollisionError{Date: dateKey, Collisions: collisions}
	}
	return out, nil
}

func (s *Store) persist(dossiers []Dossier, ledgers map[string]TeamLedger, stats GlobalStats) error {
	doc := document{Dossiers: dossiers, Teams: ledgers, Stats: stats}
	if doc.Dossiers == nil {
		doc.Dossiers = []Dossier{}
	}
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	logging.StoreDebug("Writing %s (%d bytes, %d dossiers)", s.path, len(data), len(doc.Dossiers))
	return writeFileAtomic(s.path, data, 0o644)
}

// Save writes the current state without changing it. Upsert already saves;
// this exists to materialize the empty skeleton or a canonicalized legacy
// document.
func (s *Store) Save() error {
	return s.persist(s.dossiers, s.ledgers, s.stats)
}
