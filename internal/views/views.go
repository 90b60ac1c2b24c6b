// Package views derives dashboard and calendar aggregates from the dossier
// store. Every function reads the store's query surface only and keeps no
// state, so the same store content always yields the same view.
package views

import (
	"sort"
	"time"

	"ftthdesk/internal/dossier"
	"ftthdesk/internal/record"
)

// Source is the read-only store surface the views need.
type Source interface {
	AllDossiers() []dossier.Dossier
	DossiersForTeam(team string) []dossier.TeamDossier
	TeamLedger(team string) (dossier.TeamLedger, bool)
	Teams() []string
	GlobalStats() dossier.GlobalStats
	DossiersGroupedByDate() map[string]dossier.DayActivity
}

// TeamDashboard is everything a team page shows.
type TeamDashboard struct {
	Team        string
	Ledger      dossier.TeamLedger
	Days        []dossier.TeamDossier
	Total       int
	Provisioned int
}

// ForTeam builds the dashboard of one team, most recent dossier first.
func ForTeam(src Source, team string) TeamDashboard {
	ledger, _ := src.TeamLedger(team)
	v := TeamDashboard{Team: team, Ledger: ledger, Days: src.DossiersForTeam(team)}
	for _, d := range v.Days {
		v.Total += len(d.Assignments)
		for _, a := range d.Assignments {
			if a.Record.Provisioned() {
				v.Provisioned++
			}
		}
	}
	return v
}

// TeamCount is one team's count inside a larger aggregate.
type TeamCount struct {
	Team  string
	Count int
}

// DaySummary is one date key of the admin view.
type DaySummary struct {
	Date  string
	Total int
	Teams []TeamCount
}

// Latest identifies the most recently created dossier.
type Latest struct {
	Date      string
	CreatedAt time.Time
}

// Overview is the admin dashboard aggregate.
type Overview struct {
	Stats      dossier.GlobalStats
	Teams      []TeamCount
	Days       []DaySummary
	Latest     *Latest
	TodayCount int
}

// Admin builds the admin overview. today is formatted with dateLayout to
// count the dossiers scheduled for the current day.
func Admin(src Source, today time.Time, dateLayout string) Overview {
	o := Overview{Stats: src.GlobalStats()}
	for _, team := range src.Teams() {
		l, _ := src.TeamLedger(team)
		o.Teams = append(o.Teams, TeamCount{Team: team, Count: l.TotalClients})
	}

	todayKey := today.Format(dateLayout)
	grouped := src.DossiersGroupedByDate()
	for _, d := range src.AllDossiers() {
		day := grouped[d.Date]
		o.Days = append(o.Days, DaySummary{Date: d.Date, Total: day.Total, Teams: sortedCounts(day.Teams)})
		if d.Date == todayKey {
			o.TodayCount++
		}
		if o.Latest == nil || d.CreatedAt.After(o.Latest.CreatedAt) {
			o.Latest = &Latest{Date: d.Date, CreatedAt: d.CreatedAt.Time}
		}
	}
	return o
}

func sortedCounts(m map[string]int) []TeamCount {
	out := make([]TeamCount, 0, len(m))
	for team, n := range m {
		out = append(out, TeamCount{Team: team, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// Summary is a compact line about one dossier.
type Summary struct {
	Date      string
	OutputTag string
	Total     int
	Teams     []TeamCount
}

// Recent returns at most n dossiers, most recent date first.
func Recent(src Source, n int) []Summary {
	all := src.AllDossiers()
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	out := make([]Summary, len(all))
	for i, d := range all {
		counts := make(map[string]int, len(d.Teams))
		for team, as := range d.Teams {
			counts[team] = len(as)
		}
		out[i] = Summary{Date: d.Date, OutputTag: d.OutputTag, Total: d.Total(), Teams: sortedCounts(counts)}
	}
	return out
}

// Assignments flattens one dossier into assignments ordered by team then
// artifact key.
func Assignments(d dossier.Dossier) []record.Assignment {
	var out []record.Assignment
	for _, as := range d.Teams {
		out = append(out, as...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Key < out[j].Key
	})
	return out
}
