package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ftthdesk/internal/config"
)

// runInit writes the default configuration unless one already exists.
func runInit(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	path := config.DefaultPath(ws)

	if _, err := os.Stat(path); err == nil {
		logger.Info("Config already present", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render("config already exists: "+path))
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return err
	}
	logger.Info("Config written", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ config written: "+path))
	return nil
}
