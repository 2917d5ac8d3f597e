package microservices

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Temutjin2k/safebike-web/config"
	"github.com/Temutjin2k/safebike-web/internal/adapter/backend"
	"github.com/Temutjin2k/safebike-web/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/safebike-web/internal/adapter/http/ws"
	repo "github.com/Temutjin2k/safebike-web/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/safebike-web/internal/adapter/rabbit"
	redisadapter "github.com/Temutjin2k/safebike-web/internal/adapter/redis"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/service/screens"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/postgres"
	"github.com/Temutjin2k/safebike-web/pkg/rabbit"
	pkgredis "github.com/Temutjin2k/safebike-web/pkg/redis"
	"github.com/Temutjin2k/safebike-web/pkg/trm"
	ws "github.com/Temutjin2k/safebike-web/pkg/wsHub"
)

const purgeInterval = 10 * time.Minute

// WebService serves the courier screens. Sessions live in the configured
// storage and tab updates go through RabbitMQ when it is enabled.
type WebService struct {
	httpServer *server.API
	hub        *ws.ConnectionHub
	broker     *rabbitadapter.TabBroker

	postgresDB  *postgres.PostgreDB
	sessions    *repo.SessionStorage
	redisClient *goredis.Client
	rabbitMQ    *rabbit.RabbitMQ

	cfg config.Config
	log logger.Logger
}

func NewWeb(ctx context.Context, cfg config.Config, version string, log logger.Logger) (*WebService, error) {
	s := &WebService{
		cfg: cfg,
		log: log,
	}

	storage, err := s.openStorage(ctx)
	if err != nil {
		s.close(ctx)
		return nil, err
	}

	service := string(cfg.Mode)
	s.hub = ws.NewConnHub(service, log)

	var notifier screens.Notifier = wshandler.NewHubNotifier(s.hub, log)
	if cfg.RabbitMQ.Enabled {
		s.rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "Failed to connect to RabbitMQ", err)
			s.close(ctx)
			return nil, err
		}
		s.broker = rabbitadapter.NewTabBroker(s.rabbitMQ, notifier, service, log)
		notifier = s.broker
	}

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	bind := func(ts screens.TokenSource) screens.Gateway {
		return client.With(ts)
	}

	s.httpServer, err = server.New(cfg, server.Screens{
		Auth:      screens.NewAuth(bind, notifier, log),
		Passenger: screens.NewPassenger(bind, notifier, log),
		Rider:     screens.NewRider(bind, notifier, log),
		Admin:     screens.NewAdmin(bind, log),
	}, storage, s.hub, version, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		s.close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *WebService) openStorage(ctx context.Context) (session.Storage, error) {
	ttl := s.cfg.Session.TTL

	switch s.cfg.Session.Storage {
	case types.MemoryStorage:
		return session.NewMemoryStorage(ttl), nil

	case types.RedisStorage:
		client, err := pkgredis.Open(ctx, s.cfg.Redis)
		if err != nil {
			s.log.Error(ctx, "Failed to setup redis", err)
			return nil, err
		}
		s.redisClient = client
		return redisadapter.NewSessionStorage(client, ttl), nil

	case types.PostgresStorage:
		db, err := postgres.New(ctx, s.cfg.Database)
		if err != nil {
			s.log.Error(ctx, "Failed to setup database", err)
			return nil, err
		}
		s.postgresDB = db
		s.sessions = repo.NewSessionStorage(db.Pool, trm.New(db.Pool), ttl)
		if err = s.sessions.EnsureSchema(ctx); err != nil {
			s.log.Error(ctx, "Failed to create session schema", err)
			return nil, err
		}
		return s.sessions, nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrInvalidStorage, s.cfg.Session.Storage)
}

func (s *WebService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	bgCtx, cancel := context.WithCancel(ctx)
	g, bgCtx := errgroup.WithContext(bgCtx)
	if s.broker != nil {
		g.Go(func() error {
			return s.broker.Consume(bgCtx)
		})
	}
	if s.sessions != nil {
		g.Go(func() error {
			s.purgeSessions(bgCtx)
			return nil
		})
	}

	s.httpServer.Run(ctx, errCh)
	defer func() {
		cancel()
		if err := g.Wait(); err != nil {
			s.log.Warn(ctx, "background worker stopped with error", "error", err.Error())
		}
		s.close(ctx)
		s.log.Info(ctx, "web client closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "Web client has been started", "storage", string(s.cfg.Session.Storage), "tab_broker", s.broker != nil)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

// purgeSessions drops expired session rows until ctx is done.
func (s *WebService) purgeSessions(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "purge_expired_sessions")
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.PurgeExpired(ctx)
			if err != nil {
				s.log.Error(ctx, "failed to purge expired sessions", err)
				continue
			}
			if n > 0 {
				s.log.Debug(ctx, "purged expired sessions", "rows", n)
			}
		}
	}
}

func (s *WebService) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.hub != nil {
		s.hub.Close()
	}

	if s.rabbitMQ != nil {
		closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.rabbitMQ.Close(closeCtx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitMQ", "error", err.Error())
		}
		cancel()
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close redis", "error", err.Error())
		}
	}

	s.postgresDB.Close()
}
