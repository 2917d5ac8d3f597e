package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/safebike-web/config"
	"github.com/Temutjin2k/safebike-web/internal/app/microservices"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
)

var (
	ErrInvalidMode           = errors.New("invalid mode")
	ErrServiceNotInitialized = errors.New("service not initialized")
)

// Service runs until it is told to stop or fails.
type Service interface {
	Start(ctx context.Context) error
}

type App struct {
	mode    types.ServiceMode
	service Service
	log     logger.Logger
}

// NewApplication builds the service selected by cfg.Mode.
func NewApplication(ctx context.Context, cfg config.Config, version string, log logger.Logger) (*App, error) {
	service, err := newService(ctx, cfg, version, log)
	if err != nil {
		return nil, err
	}

	return &App{
		mode:    cfg.Mode,
		service: service,
		log:     log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}
	return a.service.Start(ctx)
}

func newService(ctx context.Context, cfg config.Config, version string, log logger.Logger) (Service, error) {
	switch cfg.Mode {
	case types.WebClient:
		web, err := microservices.NewWeb(ctx, cfg, version, log)
		if err != nil {
			return nil, fmt.Errorf("failed to init %s: %w", cfg.Mode, err)
		}
		return web, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Mode)
	}
}
