package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/services"
	"github.com/SscSPs/ledger_backend/internal/middleware"
	"github.com/SscSPs/ledger_backend/internal/platform/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RouterConfig carries what the HTTP layer needs beyond the services.
type RouterConfig struct {
	Logger             *slog.Logger
	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimiter        *limiter.Limiter
	Metrics            *metrics.LedgerMetrics
	// MetricsHandler is served at /metrics when non-nil.
	MetricsHandler http.Handler
}

// NewRouter builds the gin engine with global middleware and every route.
func NewRouter(cfg RouterConfig, svc *services.ServiceContainer) *gin.Engine {
	registerValidators()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(metrics.GinMiddleware(cfg.Metrics))
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
			corsCfg.AllowCredentials = true
		}
		r.Use(cors.New(corsCfg))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	RegisterRoutes(r, cfg, svc)
	return r
}

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, cfg RouterConfig, svc *services.ServiceContainer) {
	registerHealthRoutes(r)
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	registerAccountRoutes(v1, svc.Account)
	registerJournalRoutes(v1, svc.Journal, svc.Posting)
	registerReportingRoutes(v1, svc.Reporting)
	registerVoucherRoutes(v1, svc.Voucher)
	registerInvoiceRoutes(v1, svc.Invoice)
}
