package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/car-maintenance-tracker/internal/auth"
	"github.com/ukydev/car-maintenance-tracker/internal/db"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/middleware"
	"github.com/ukydev/car-maintenance-tracker/internal/services"
)

const unmatchedRoute = "unmatched"

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	BasePath       string
	AllowedOrigins []string
	// LoginRateLimit caps login attempts per client per minute. Zero disables it.
	LoginRateLimit int
	// SeparateMetrics keeps /metrics off this router; NewMetricsRouter
	// serves it on its own listener instead.
	SeparateMetrics bool

	Auth        *auth.Service
	Cars        db.CarCollection
	Maintenance *services.MaintenanceService
	Metrics     *metrics.Metrics
	Log         logrus.FieldLogger
}

// NewRouter builds the HTTP handler: API routes under BasePath, health and
// metrics at the root, wrapped in request id, logging, panic recovery and
// CORS handling.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth, cfg.Metrics, cfg.Log.WithField("handler", "auth"))
	carHandler := NewCarHandler(cfg.Cars, cfg.Metrics, cfg.Log.WithField("handler", metrics.EntityCar))
	maintenanceHandler := NewMaintenanceHandler(cfg.Maintenance, cfg.Metrics, cfg.Log.WithField("handler", metrics.EntityMaintenance))
	limiter := middleware.NewRateLimiter()

	router := mux.NewRouter()
	router.HandleFunc("/healthz", Healthz).Methods(http.MethodGet)
	if cfg.Metrics != nil && !cfg.SeparateMetrics {
		router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := router
	if cfg.BasePath != "" {
		api = router.PathPrefix(cfg.BasePath).Subrouter()
	}

	api.Handle("/auth/login", limiter.Limit(cfg.LoginRateLimit, time.Minute)(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	api.HandleFunc("/cars", carHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/cars", carHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/cars/{id}", carHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id}", carHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/cars/{id}", carHandler.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/maintenance/calculate", maintenanceHandler.Calculate).Methods(http.MethodPost)
	api.HandleFunc("/maintenance", maintenanceHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/maintenance", maintenanceHandler.Save).Methods(http.MethodPost)
	api.HandleFunc("/maintenance/car/{carId}", maintenanceHandler.ListByCar).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id}", maintenanceHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id}", maintenanceHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/maintenance/{id}", maintenanceHandler.Delete).Methods(http.MethodDelete)

	var handler http.Handler = router
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Recover(cfg.Log)(handler)
	handler = middleware.Logging(cfg.Log, cfg.Metrics, routeTemplate(router))(handler)
	handler = middleware.RequestID(handler)
	return handler
}

// NewMetricsRouter serves only /metrics and /healthz, for a dedicated
// metrics listener.
func NewMetricsRouter(m *metrics.Metrics) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", Healthz).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	return router
}

// Healthz is the liveness check
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// routeTemplate labels requests by the route pattern they match so metric
// cardinality stays bounded.
func routeTemplate(router *mux.Router) middleware.RouteFunc {
	return func(r *http.Request) string {
		var match mux.RouteMatch
		if !router.Match(r, &match) || match.Route == nil {
			return unmatchedRoute
		}
		tpl, err := match.Route.GetPathTemplate()
		if err != nil {
			return unmatchedRoute
		}
		return tpl
	}
}
