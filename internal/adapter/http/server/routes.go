package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/safebike-web/docs"
	"github.com/Temutjin2k/safebike-web/internal/adapter/http/middleware"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware, mode types.ServiceMode, log logger.Logger) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)
	mux.HandleFunc("GET /api/session", routes.session.Current)
	mux.Handle("GET /ws/session", routes.tabs)

	setupSwaggerRoutes(mux, mode, log)
	setupMetricsRoute(mux)

	setupPublicRoutes(mux, routes)
	setupPassengerRoutes(mux, routes, m)
	setupRiderRoutes(mux, routes, m)
	setupAdminRoutes(mux, routes, m)

	mux.HandleFunc("/", routes.pages.NotFound)
}

func setupPublicRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("GET /{$}", routes.pages.Home)
	mux.HandleFunc("GET /auth/login", routes.auth.LoginForm)
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("GET /auth/register/passenger", routes.auth.RegisterPassengerForm)
	mux.HandleFunc("POST /auth/register/passenger", routes.auth.RegisterPassenger)
	mux.HandleFunc("GET /auth/register/rider", routes.auth.RegisterRiderForm)
	mux.HandleFunc("POST /auth/register/rider", routes.auth.RegisterRider)
	mux.HandleFunc("POST /auth/logout", routes.auth.Logout)
}

func setupPassengerRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	passenger := func(h http.HandlerFunc) http.Handler {
		return m.RequireRoles(h, types.RolePassenger)
	}

	mux.Handle("GET /passenger", passenger(routes.passenger.Dashboard))
	mux.Handle("GET /passenger/packages", passenger(routes.passenger.Packages))
	mux.Handle("GET /passenger/packages/new", passenger(routes.passenger.NewPackageForm))
	mux.Handle("POST /passenger/packages/new", passenger(routes.passenger.CreatePackage))
	mux.Handle("GET /passenger/packages/{id}", passenger(routes.passenger.Package))
	mux.Handle("POST /passenger/packages/{id}/cancel", passenger(routes.passenger.Cancel))
	mux.Handle("POST /passenger/packages/{id}/confirm-receipt", passenger(routes.passenger.ConfirmReceipt))
}

func setupRiderRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	rider := func(h http.HandlerFunc) http.Handler {
		return m.RequireRoles(h, types.RoleRider)
	}

	mux.Handle("GET /rider", rider(routes.rider.Dashboard))
	mux.Handle("GET /rider/packages/available", rider(routes.rider.Available))
	mux.Handle("POST /rider/packages/{id}/accept", rider(routes.rider.Accept))
	mux.Handle("GET /rider/deliveries", rider(routes.rider.Deliveries))
	mux.Handle("POST /rider/deliveries/{id}/pickup", rider(routes.rider.ConfirmPickup))
	mux.Handle("POST /rider/deliveries/{id}/deliver", rider(routes.rider.ConfirmDelivery))
}

// setupAdminRoutes setups routes for admin screens
func setupAdminRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	admin := func(h http.HandlerFunc) http.Handler {
		return m.RequireRoles(h, types.RoleAdmin)
	}

	mux.Handle("GET /admin", admin(routes.admin.Dashboard))
	mux.Handle("GET /admin/packages", admin(routes.admin.Packages))
	mux.Handle("GET /admin/users", admin(routes.admin.Users))
}

// setupSwaggerRoutes serves the Swagger UI of the JSON endpoints
func setupSwaggerRoutes(mux *http.ServeMux, mode types.ServiceMode, log logger.Logger) {
	if mode != types.WebClient {
		log.Warn(wrap.WithAction(context.Background(), "setup swagger routes"), "unknown service mode for swagger setup", "mode", mode)
		return
	}

	swaggerURL := httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
