package views

import (
	"sort"

	"ftthdesk/internal/dossier"
)

// calendarPreviewLimit caps how many clients a calendar cell previews.
const calendarPreviewLimit = 3

// CalendarEntry is one team's activity on a calendar day.
type CalendarEntry struct {
	Team    string `json:"team"`
	Count   int    `json:"count"`
	Preview int    `json:"clients"`
}

// CalendarIndex maps ISO dates (2006-01-02) to the teams working that day.
type CalendarIndex map[string][]CalendarEntry

// Calendar builds the calendar index. Date keys that do not parse as a
// day-month-year date have no calendar cell and are left out.
func Calendar(src Source) CalendarIndex {
	idx := make(CalendarIndex)
	for key, day := range src.DossiersGroupedByDate() {
		t, ok := dossier.ParseDateKey(key)
		if !ok {
			continue
		}
		iso := t.Format("2006-01-02")
		merged := make(map[string]int)
		for _, e := range idx[iso] {
			merged[e.Team] += e.Count
		}
		for team, n := range day.Teams {
			merged[team] += n
		}
		entries := make([]CalendarEntry, 0, len(merged))
		for team, n := range merged {
			entries = append(entries, CalendarEntry{Team: team, Count: n, Preview: min(n, calendarPreviewLimit)})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Team < entries[j].Team })
		idx[iso] = entries
	}
	return idx
}

// Dates returns the index keys in ascending order.
func (c CalendarIndex) Dates() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
