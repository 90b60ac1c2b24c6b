package ingest

import (
	"sort"
	"strings"
	"time"

	"ftthdesk/internal/logging"
	"ftthdesk/internal/record"
)

// AllCities disables the city filter.
const AllCities = "TOUTES"

// Options controls how a sheet becomes a batch.
type Options struct {
	// City keeps rows whose city contains it, case-insensitively.
	City string
	// DefaultTeam is used until a row names a team.
	DefaultTeam string
	// DateLayout formats the installation date key.
	DateLayout string
	// Date, when set, is used as the date key verbatim.
	Date string
	Now  func() time.Time
}

// Batch is one import ready for the store.
type Batch struct {
	DateKey   string
	OutputTag string
	Teams     map[string][]record.Assignment
	// Ordered lists the assignments in sheet order after filtering and sorting.
	Ordered []record.Assignment
}

// OutputTag names the output directory of a date key.
func OutputTag(dateKey string) string {
	return "dossier_" + dateKey
}

// Cities lists the distinct non-empty cities of the sheet, upper-cased and
// sorted.
func Cities(sheet Sheet) []string {
	set := make(map[string]struct{})
	for _, r := range sheet.Rows {
		if c := strings.ToUpper(r.City()); c != "" {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FilterCity keeps the rows whose city contains city. An empty filter or
// AllCities keeps everything.
func FilterCity(rows []record.Row, city string) []record.Row {
	city = strings.TrimSpace(city)
	if city == "" || strings.EqualFold(city, AllCities) {
		return rows
	}
	needle := strings.ToLower(city)
	var out []record.Row
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.City()), needle) {
			out = append(out, r)
		}
	}
	return out
}

// sortByCity orders rows by city, rows without a city last. The sort is
// stable so rows of one city keep their sheet order.
func sortByCity(rows []record.Row) []record.Row {
	out := append([]record.Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].City(), out[j].City()
		if (ci == "") != (cj == "") {
			return cj == ""
		}
		return ci < cj
	})
	return out
}

// Plan filters, sorts and assigns the sheet. A row takes the team named in
// its team column, otherwise the team of the row before it.
func Plan(sheet Sheet, opts Options) Batch {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = "02-01-2006"
	}

	rows := sortByCity(FilterCity(sheet.Rows, opts.City))
	b := Batch{Teams: make(map[string][]record.Assignment)}

	team := strings.TrimSpace(opts.DefaultTeam)
	for _, r := range rows {
		if t := r.Team(); t != "" {
			team = t
		}
		a := record.Normalize(r, team)
		b.Teams[a.Team] = append(b.Teams[a.Team], a)
		b.Ordered = append(b.Ordered, a)
	}

	b.DateKey = strings.TrimSpace(opts.Date)
	if b.DateKey == "" {
		first := ""
		if len(rows) > 0 {
			first = rows[0].Timestamp()
		}
		b.DateKey = DateKey(first, layout, now())
	}
	b.OutputTag = OutputTag(b.DateKey)

	logging.Ingest("Planned batch %s: %d of %d rows kept (city=%q), %d teams",
		b.DateKey, len(rows), len(sheet.Rows), opts.City, len(b.Teams))
	return b
}

// timestampLayouts are the forms a form-response timestamp arrives in. Day
// comes before month in the slash forms.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006",
}

// DateKey formats the installation day from a timestamp cell, falling back
// to now when the cell is empty or unreadable.
func DateKey(timestamp, layout string, now time.Time) string {
	timestamp = strings.TrimSpace(timestamp)
	if timestamp != "" {
		for _, l := range timestampLayouts {
			if t, err := time.Parse(l, timestamp); err == nil {
				return t.Format(layout)
			}
		}
		logging.IngestDebug("Unreadable timestamp %q, using current date", timestamp)
	}
	return now.Format(layout)
}
