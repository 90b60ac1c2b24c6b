package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderDate string

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	d, err := openDesk()
	if err != nil {
		return err
	}
	r, err := d.renderer()
	if err != nil {
		return err
	}

	if renderDate == "" {
		reports, err := r.RenderAll(ctx, d.store)
		if err != nil {
			return err
		}
		logger.Info("All dossiers rendered", zap.Int("dossiers", len(reports)))
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ %d dossiers rendered", len(reports))))
		return nil
	}

	dos, ok := d.store.Dossier(renderDate)
	if !ok {
		return fmt.Errorf("no dossier for date %q", renderDate)
	}
	report, err := r.RenderDossier(ctx, dos)
	if err != nil {
		return err
	}
	if err := r.RenderDashboards(ctx, d.store); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ %d cards, %s", len(report.Cards), report.PDF)))
	return nil
}
