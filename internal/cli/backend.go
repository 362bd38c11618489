package cli

import (
	"context"
	"fmt"
	"log/slog"

	"tasker/internal/backend/googletasks"
	"tasker/internal/backend/rest"
	"tasker/internal/config"
	"tasker/internal/service"
	"tasker/internal/transport"
)

// NewBackend builds the Backend described by cfg: the configured remote
// wrapped in a transport client that falls back to the in-memory store when
// the remote is unreachable. With cfg.Offline no remote is used at all.
func NewBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Backend, error) {
	remote, err := newRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return transport.New(remote, nil, transport.Options{
		StrictAuth: cfg.StrictAuth,
		Logger:     log,
	}), nil
}

func newRemote(ctx context.Context, cfg *config.Config) (service.Backend, error) {
	if cfg.Offline {
		return nil, nil
	}
	switch cfg.Backend {
	case config.BackendGoogle:
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, &service.AuthError{Message: err.Error()}
		}
		return c, nil
	case config.BackendREST, "":
		return rest.New(cfg.APIURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
