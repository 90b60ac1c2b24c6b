package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ftthdesk/internal/dossier"
	"ftthdesk/internal/ingest"
)

var (
	importCity     string
	importTeam     string
	importDate     string
	importNoRender bool
)

// runImport loads the store once, turns the sheet into one batch, upserts it
// and renders the dossier plus every dashboard.
func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	d, err := openDesk()
	if err != nil {
		return err
	}

	sheet, err := ingest.ReadFile(args[0])
	if err != nil {
		return err
	}
	logger.Debug("Sheet read", zap.String("file", args[0]), zap.Int("rows", len(sheet.Rows)),
		zap.Strings("cities", ingest.Cities(sheet)))

	team := importTeam
	if team == "" {
		team = d.cfg.Intake.DefaultTeam
	}
	batch := ingest.Plan(sheet, ingest.Options{
		City:        importCity,
		DefaultTeam: team,
		DateLayout:  d.cfg.Intake.DateLayout,
		Date:        importDate,
	})
	if len(batch.Ordered) == 0 {
		return fmt.Errorf("no rows left for city %q", importCity)
	}

	res, err := d.store.Upsert(batch.DateKey, batch.OutputTag, batch.Teams)
	if err != nil {
		var ce *dossier.CollisionError
		if errors.As(err, &ce) {
			for _, c := range ce.Collisions {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(
					fmt.Sprintf("✗ %s: key %s used by %d clients", c.Team, c.Key, c.Count)))
			}
		}
		return err
	}
	logger.Info("Dossier stored",
		zap.String("date", batch.DateKey),
		zap.Int("clients", res.Dossier.Total()),
		zap.Bool("replaced", res.Replaced))

	if !importNoRender {
		r, err := d.renderer()
		if err != nil {
			return err
		}
		report, err := r.RenderDossier(ctx, res.Dossier)
		if err != nil {
			return fmt.Errorf("render dossier %s: %w", res.Dossier.Date, err)
		}
		if err := r.RenderDashboards(ctx, d.store); err != nil {
			return fmt.Errorf("render dashboards: %w", err)
		}
		logger.Info("Artifacts rendered", zap.String("pdf", report.PDF), zap.Int("cards", len(report.Cards)))
	}

	fmt.Fprintln(cmd.OutOrStdout(), importRecap(res))
	return nil
}

func importRecap(res dossier.UpsertResult) string {
	verb := "created"
	if res.Replaced {
		verb = "replaced"
	}
	lines := []string{
		titleStyle.Render("Dossier " + res.Dossier.Date + " " + verb),
		kv("output", res.Dossier.OutputTag),
		kv("clients", res.Dossier.Total()),
	}
	teams := make([]string, 0, len(res.Dossier.Teams))
	for t := range res.Dossier.Teams {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	for _, t := range teams {
		names := make([]string, 0, len(res.Dossier.Teams[t]))
		for _, a := range res.Dossier.Teams[t] {
			names = append(names, a.Record.DisplayName())
		}
		lines = append(lines, kv("  "+t, fmt.Sprintf("%d  %s", len(names), strings.Join(names, ", "))))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
