// Package daemon wires and runs the settings service.
package daemon

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/config"
	"github.com/OpticaApp/OpticaApp/internal/settings/seed"
	"github.com/OpticaApp/OpticaApp/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	*Components
	webService *web.Service
}

// New opens the components, seeds the default settings and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	components, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if _, err = seed.Run(ctx, components.DB, components.Settings); err != nil {
		_ = components.Close()

		return nil, err //nolint:wrapcheck
	}

	webService, err := web.New(cfg, components.Deps())
	if err != nil {
		_ = components.Close()

		return nil, err //nolint:wrapcheck
	}

	return &Daemon{
		Components: components,
		webService: webService,
	}, nil
}

// Start serves until SIGINT or SIGTERM and releases the components afterwards.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start()

	if cerr := d.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close components")
	}

	return err //nolint:wrapcheck
}
