// Package render turns store content into the artifacts field teams use:
// installation cards, QR codes, client pages, the printable PDF, team and
// admin dashboards and the calendar. It only reads the store.
package render

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"ftthdesk/internal/dossier"
	"ftthdesk/internal/logging"
	"ftthdesk/internal/record"
	"ftthdesk/internal/views"
)

// Options configures a Renderer.
type Options struct {
	Root        string // output root
	SiteBaseURL string
	Theme       string
	FontPath    string // empty uses the embedded Go fonts
	LogoPath    string // optional, skipped when missing
	Workers     int
	DateLayout  string // layout of date keys, for the admin "today" count
	Now         func() time.Time
}

// Renderer writes artifacts under Options.Root.
type Renderer struct {
	opts   Options
	layout Layout
	theme  Theme
	fonts  *fontSet
}

// DossierReport describes what RenderDossier wrote.
type DossierReport struct {
	Date  string
	Cards []string // card paths in artifact-key order
	PDF   string
	Teams map[string]int
}

// New validates opts and loads the fonts.
func New(opts Options) (*Renderer, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DateLayout == "" {
		opts.DateLayout = "02-01-2006"
	}
	theme, ok := LookupTheme(opts.Theme)
	if !ok {
		logging.Get(logging.CategoryRender).Warn("unknown theme %q, using %s", opts.Theme, DefaultTheme)
	}
	fonts, err := loadFonts(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, layout: Layout{Root: opts.Root}, theme: theme, fonts: fonts}, nil
}

// Layout exposes the artifact locations.
func (r *Renderer) Layout() Layout { return r.layout }

// Theme returns the palette in use.
func (r *Renderer) Theme() Theme { return r.theme }

// RenderDossier writes the card, QR code and client page of every assignment
// of d, then the dossier PDF. The first failure cancels the remaining work.
func (r *Renderer) RenderDossier(ctx context.Context, d dossier.Dossier) (DossierReport, error) {
	report := DossierReport{Date: d.Date, Teams: make(map[string]int, len(d.Teams))}
	if err := os.MkdirAll(r.layout.SiteDir(d.OutputTag), 0755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	all := views.Assignments(d)
	for _, a := range all {
		report.Teams[a.Team]++
	}
	assignments := lastByKey(all)
	if n := len(all) - len(assignments); n > 0 {
		logging.RenderWarn("dossier %s repeats %d artifact keys, rendering the last of each", d.Date, n)
	}
	now := r.opts.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, a := range assignments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.renderAssignment(d, a, now)
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	byKey := append([]record.Assignment(nil), assignments...)
	sort.SliceStable(byKey, func(i, j int) bool { return byKey[i].Key < byKey[j].Key })
	for _, a := range byKey {
		report.Cards = append(report.Cards, r.layout.Card(d.OutputTag, a.Key))
	}

	report.PDF = r.layout.PDF(d.OutputTag, d.Date)
	if err := writePDF(report.PDF, d.Date, report.Cards, r.opts.LogoPath); err != nil {
		return report, err
	}
	logging.Render("dossier %s rendered: %d cards, pdf %s", d.Date, len(report.Cards), report.PDF)
	return report, nil
}

// lastByKey keeps one assignment per artifact key, in first-seen order.
// A later assignment replaces an earlier one with the same key.
func lastByKey(as []record.Assignment) []record.Assignment {
	index := make(map[string]int, len(as))
	out := make([]record.Assignment, 0, len(as))
	for _, a := range as {
		if i, dup := index[a.Key]; dup {
			out[i] = a
			continue
		}
		index[a.Key] = len(out)
		out = append(out, a)
	}
	return out
}

func (r *Renderer) renderAssignment(d dossier.Dossier, a record.Assignment, now time.Time) error {
	logging.Get(logging.CategoryRender).
		WithContext(map[string]interface{}{"date": d.Date, "team": a.Team}).
		Debug("rendering %s", a.Key)
	if err := writeClientPage(r.layout.ClientPage(d.OutputTag, a.Key), a, d.Date, r.theme, now); err != nil {
		return err
	}
	url := ClientURL(r.opts.SiteBaseURL, d.OutputTag, a.Key)
	if err := writeQR(r.layout.QR(d.OutputTag, a.Key), url); err != nil {
		return err
	}
	return writeCard(r.layout.Card(d.OutputTag, a.Key), a, d.Date, r.theme, r.fonts)
}

// RenderDashboards writes one dashboard per known team, the admin dashboard
// and the calendar, all from the views over src.
func (r *Renderer) RenderDashboards(ctx context.Context, src views.Source) error {
	if err := os.MkdirAll(r.opts.Root, 0755); err != nil {
		return fmt.Errorf("failed to create output root: %w", err)
	}
	now := r.opts.Now()
	teams := src.Teams()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, team := range teams {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logging.RenderDebug("rendering dashboard of team %s", team)
			return writeTeamPage(r.layout.TeamDashboard(team), views.ForTeam(src, team), r.theme, now)
		})
	}
	g.Go(func() error {
		o := views.Admin(src, now, r.opts.DateLayout)
		return writeAdminPage(r.layout.AdminDashboard(), o, views.Recent(src, -1), r.theme, now)
	})
	g.Go(func() error {
		return writeCalendarPage(r.layout.Calendar(), views.Calendar(src), teams, r.theme, now)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logging.Render("dashboards rendered for %d teams", len(teams))
	return nil
}

// RenderAll re-renders every dossier and then the dashboards.
func (r *Renderer) RenderAll(ctx context.Context, src views.Source) ([]DossierReport, error) {
	var reports []DossierReport
	for _, d := range src.AllDossiers() {
		rep, err := r.RenderDossier(ctx, d)
		if err != nil {
			return reports, fmt.Errorf("dossier %s: %w", d.Date, err)
		}
		reports = append(reports, rep)
	}
	return reports, r.RenderDashboards(ctx, src)
}
