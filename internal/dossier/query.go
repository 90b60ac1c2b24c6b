package dossier

import (
	"sort"

	"ftthdesk/internal/record"
)

// Dossiers returns every dossier in insertion order.
func (s *Store) Dossiers() []Dossier {
	out := make([]Dossier, len(s.dossiers))
	for i, d := range s.dossiers {
		out[i] = d.clone()
	}
	return out
}

// AllDossiers returns every dossier most recent date first. Keys naming the
// same day keep the later insertion first.
func (s *Store) AllDossiers() []Dossier {
	type indexed struct {
		d   Dossier
		pos int
	}
	items := make([]indexed, len(s.dossiers))
	for i, d := range s.dossiers {
		items[i] = indexed{d: d.clone(), pos: i}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if c := newestFirst(items[i].d.Date, items[j].d.Date); c != 0 {
			return c < 0
		}
		return items[i].pos > items[j].pos
	})
	out := make([]Dossier, len(items))
	for i, it := range items {
		out[i] = it.d
	}
	return out
}

// Dossier returns the dossier stored under dateKey.
func (s *Store) Dossier(dateKey string) (Dossier, bool) {
	for _, d := range s.dossiers {
		if d.Date == dateKey {
			return d.clone(), true
		}
	}
	return Dossier{}, false
}

// DossiersForTeam returns, most recent first, the dossiers where team has at
// least one assignment, each carrying only that team's assignments.
func (s *Store) DossiersForTeam(team string) []TeamDossier {
	var out []TeamDossier
	for _, d := range s.AllDossiers() {
		as := d.Teams[team]
		if len(as) == 0 {
			continue
		}
		out = append(out, TeamDossier{
			Date:        d.Date,
			OutputTag:   d.OutputTag,
			CreatedAt:   d.CreatedAt,
			Assignments: append([]record.Assignment(nil), as...),
		})
	}
	return out
}

// TeamLedger returns the derived totals of team as of the last upsert.
func (s *Store) TeamLedger(team string) (TeamLedger, bool) {
	l, ok := s.ledgers[team]
	if !ok {
		return TeamLedger{Dates: []string{}}, false
	}
	l.Dates = append([]string(nil), l.Dates...)
	return l, true
}

// Teams returns every team with at least one assignment, sorted by name.
func (s *Store) Teams() []string {
	names := make([]string, 0, len(s.ledgers))
	for team := range s.ledgers {
		names = append(names, team)
	}
	sort.Strings(names)
	return names
}

// GlobalStats returns the derived store-wide totals as of the last upsert.
func (s *Store) GlobalStats() GlobalStats {
	return s.stats
}

// DossiersGroupedByDate maps each date key to the teams active that day and
// their assignment counts.
func (s *Store) DossiersGroupedByDate() map[string]DayActivity {
	out := make(map[string]DayActivity, len(s.dossiers))
	for _, d := range s.dossiers {
		day, ok := out[d.Date]
		if !ok {
			day = DayActivity{Date: d.Date, Teams: make(map[string]int)}
		}
		for team, as := range d.Teams {
			day.Teams[team] += len(as)
			day.Total += len(as)
		}
		out[d.Date] = day
	}
	return out
}
