package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Temutjin2k/safebike-web/config"
	"github.com/Temutjin2k/safebike-web/internal/adapter/http/handler"
	"github.com/Temutjin2k/safebike-web/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/safebike-web/internal/adapter/http/ws"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/safebike-web/pkg/wsHub"
)

const serverIPAddress = "%s:%s"

// Screens are the controllers behind the HTML handlers.
type Screens struct {
	Auth      handler.AuthScreens
	Passenger handler.PassengerScreens
	Rider     handler.RiderScreens
	Admin     handler.AdminScreens
}

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	pages     *handler.Pages
	auth      *handler.Auth
	passenger *handler.Passenger
	rider     *handler.Rider
	admin     *handler.Admin
	session   *handler.Session
	health    *handler.Health
	tabs      *wshandler.TabSync
}

func New(
	cfg config.Config,
	screens Screens,
	storage session.Storage,
	hub *ws.ConnectionHub,
	version string,
	logger logger.Logger,
) (*API, error) {
	if screens.Auth == nil || screens.Passenger == nil || screens.Rider == nil || screens.Admin == nil {
		return nil, errors.New("all screen controllers are required")
	}
	if cfg.Mode != types.WebClient {
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	views, err := handler.NewViews()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	base := handler.NewBase(views, screens.Auth, logger)

	routes := &handlers{
		pages:     handler.NewPages(base),
		auth:      handler.NewAuth(base),
		passenger: handler.NewPassenger(base, screens.Passenger),
		rider:     handler.NewRider(base, screens.Rider),
		admin:     handler.NewAdmin(base, screens.Admin),
		session:   handler.NewSession(logger),
		health:    handler.NewHealth(string(cfg.Mode), version, logger),
		tabs:      wshandler.NewTabSync(hub, logger),
	}

	mid := middleware.NewMiddleware(storage, middleware.SessionOptions{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, logger)

	api := &API{
		mode: cfg.Mode,

		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.HTTP.Port),
		cfg:    cfg,
		log:    logger,
	}

	setupRoutes(api.mux, api.routes, api.m, api.mode, logger)

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.withMiddleware(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return api, nil
}

// Handler returns the full middleware chain around the routes.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	csrf := a.m.CSRF([]byte(a.cfg.CSRF.AuthKey), a.cfg.CSRF.Secure)

	return a.m.Recover(
		a.m.RequestID(
			a.m.Logging(
				a.m.Metrics(string(a.mode))(
					a.m.Session(
						csrf(a.mux),
					),
				),
			),
		),
	)
}
