package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"ftthdesk/internal/config"
	"ftthdesk/internal/dossier"
	"ftthdesk/internal/logging"
	"ftthdesk/internal/render"
)

// desk bundles what every command needs: the resolved workspace, its
// configuration and the store loaded once.
type desk struct {
	ws    string
	cfg   *config.Config
	store *dossier.Store
}

func resolveWorkspace() (string, error) {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}
	return filepath.Abs(ws)
}

func openDesk() (*desk, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.DefaultPath(ws))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Initialize(ws, cfg.Logging.Settings()); err != nil {
		logger.Warn("File logging disabled", zap.Error(err))
	}

	storePath := config.Resolve(ws, cfg.Store.Path)
	logging.Boot("Workspace %s, store %s, theme %s", ws, storePath, cfg.Output.Theme)
	logger.Debug("Opening store", zap.String("path", storePath))
	store, err := dossier.Open(storePath)
	if err != nil {
		return nil, err
	}
	return &desk{ws: ws, cfg: cfg, store: store}, nil
}

func (d *desk) renderer() (*render.Renderer, error) {
	out := d.cfg.Output
	return render.New(render.Options{
		Root:        config.Resolve(d.ws, out.Root),
		SiteBaseURL: out.SiteBaseURL,
		Theme:       out.Theme,
		FontPath:    config.Resolve(d.ws, out.FontPath),
		LogoPath:    config.Resolve(d.ws, out.LogoPath),
		Workers:     out.Workers,
		DateLayout:  d.cfg.Intake.DateLayout,
	})
}

// commandContext bounds a command by --timeout and cancels it on SIGINT or
// SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
