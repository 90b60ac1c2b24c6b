package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ftthdesk/internal/config"
	"ftthdesk/internal/mirror"
)

var mirrorSearch string

func runMirror(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	d, err := openDesk()
	if err != nil {
		return err
	}

	path := config.Resolve(d.ws, d.cfg.Mirror.Path)
	if len(args) == 1 {
		path = args[0]
	}
	m, err := mirror.Open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	res, err := m.Sync(ctx, d.store)
	if err != nil {
		return err
	}
	logger.Info("Mirror synced", zap.String("path", path), zap.Int("assignments", res.Assignments))
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
		fmt.Sprintf("✓ %s: %d dossiers, %d assignments, %d teams", path, res.Dossiers, res.Assignments, res.Teams)))

	if mirrorSearch == "" {
		return nil
	}
	hits, err := m.Search(ctx, mirrorSearch)
	if err != nil {
		return err
	}
	for _, h := range hits {
		fmt.Fprintln(cmd.OutOrStdout(), kv(h.Date+" "+h.Team, fmt.Sprintf("%s  %s  %s", h.ClientName, h.Contact, h.TechnicalID)))
	}
	return nil
}
