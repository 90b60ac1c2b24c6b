package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ftthdesk/internal/record"
	"ftthdesk/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"teamHref":     TeamDashboardName,
	"adminHref":    func() string { return AdminDashboardName },
	"calendarHref": func() string { return CalendarName },
}).ParseFS(templateFS, "templates/*.html"))

// palette carries the theme into page CSS.
type palette struct {
	Accent     template.CSS
	Background template.CSS
	Head       template.CSS
}

// page holds what every template's head and footer use.
type page struct {
	Title     string
	Palette   palette
	Generated string
}

func newPage(title string, th Theme, now time.Time) page {
	return page{
		Title: pageTitle(title),
		Palette: palette{
			Accent:     template.CSS(cssHex(th.Accent)),
			Background: template.CSS(cssHex(th.Background)),
			Head:       template.CSS(cssHex(th.Head)),
		},
		Generated: now.Format("02/01/2006 à 15:04"),
	}
}

type clientPage struct {
	page
	Date        string
	Team        string
	Fields      []cardField
	Provisioned bool
	QR          string
}

type clientTile struct {
	Name     string
	Location string
	Plan     string
	Contact  string
	TN       string
	Page     string
	Card     string
}

type teamSection struct {
	Date    string
	Clients []clientTile
}

type teamPage struct {
	page
	Team        string
	Total       int
	Provisioned int
	LedgerTotal int
	Sections    []teamSection
}

type adminDossier struct {
	Date  string
	Total int
	PDF   string
	Teams []views.TeamCount
}

type adminPage struct {
	page
	views.Overview
	Dossiers []adminDossier
}

type calendarDay struct {
	Date    string
	Entries []views.CalendarEntry
}

type calendarPage struct {
	page
	Index views.CalendarIndex
	Days  []calendarDay
	Teams []string
}

// clientFields is the card field list plus the TN line.
func clientFields(a record.Assignment) []cardField {
	fields := cardFields(a)
	tn := cardField{Label: "Numéro TN (Identifiant)", Value: a.Record.DisplayTechnicalID()}
	return append(fields[:6:6], append([]cardField{tn}, fields[6:]...)...)
}

func writeClientPage(path string, a record.Assignment, date string, th Theme, now time.Time) error {
	data := clientPage{
		page:        newPage("Fiche Client FTTH - "+a.Record.DisplayName(), th, now),
		Date:        date,
		Team:        a.Team,
		Fields:      clientFields(a),
		Provisioned: a.Record.Provisioned(),
		QR:          QRName(a.Key),
	}
	return executeTo(path, "client", data)
}

func writeTeamPage(path string, v views.TeamDashboard, th Theme, now time.Time) error {
	data := teamPage{
		page:        newPage("Dashboard Équipe "+v.Team, th, now),
		Team:        v.Team,
		Total:       v.Total,
		Provisioned: v.Provisioned,
		LedgerTotal: v.Ledger.TotalClients,
	}
	for _, d := range v.Days {
		sec := teamSection{Date: d.Date}
		as := append([]record.Assignment(nil), d.Assignments...)
		sort.SliceStable(as, func(i, j int) bool { return as[i].Key < as[j].Key })
		for _, a := range as {
			r := a.Record
			sec.Clients = append(sec.Clients, clientTile{
				Name:     r.DisplayName(),
				Location: r.DisplayLocation(),
				Plan:     r.DisplayPlan(),
				Contact:  r.Contact,
				TN:       r.DisplayTechnicalID(),
				Page:     clientHref(d.OutputTag, a.Key),
				Card:     cardHref(d.OutputTag, a.Key),
			})
		}
		data.Sections = append(data.Sections, sec)
	}
	return executeTo(path, "team", data)
}

func writeAdminPage(path string, o views.Overview, recent []views.Summary, th Theme, now time.Time) error {
	data := adminPage{page: newPage("Dashboard Administrateur", th, now), Overview: o}
	for _, s := range recent {
		data.Dossiers = append(data.Dossiers, adminDossier{
			Date:  s.Date,
			Total: s.Total,
			PDF:   s.OutputTag + "/" + PDFName(s.Date),
			Teams: s.Teams,
		})
	}
	return executeTo(path, "admin", data)
}

func writeCalendarPage(path string, idx views.CalendarIndex, teams []string, th Theme, now time.Time) error {
	data := calendarPage{page: newPage("Calendrier FTTH", th, now), Index: idx, Teams: teams}
	for _, d := range idx.Dates() {
		data.Days = append(data.Days, calendarDay{Date: d, Entries: idx[d]})
	}
	return executeTo(path, "calendar", data)
}

func executeTo(path, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s page: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// pageTitle keeps the <title> single-line.
func pageTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
