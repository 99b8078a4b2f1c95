// Package httpapi exposes the query pipeline and the dashboard read surface
// over HTTP using echo.
package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"GovAI/internal/config"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Deps are the use cases served over HTTP.
type Deps struct {
	Resolver  QueryResolver
	Dashboard Dashboard
	Logger    *slog.Logger
}

// Server owns the echo instance and its middleware state.
type Server struct {
	echo    *echo.Echo
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewServer registers routes and middleware. The admin API is mounted only
// when adminToken is non-empty.
func NewServer(cfg config.ServerConfig, adminToken string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.Validator = newRequestValidator()
	e.IPExtractor = ipExtractor(cfg.TrustedProxies, logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	limiter := NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	h := &handlers{resolver: deps.Resolver, dashboard: deps.Dashboard}

	e.GET("/", h.root)
	e.GET("/health", h.health)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	if deps.Resolver != nil {
		e.POST("/query", h.query, limiter.Middleware())
	}

	if adminToken != "" && deps.Dashboard != nil {
		admin := e.Group("/admin/api", middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup:  "header:" + echo.HeaderAuthorization,
			AuthScheme: "Bearer",
			Validator: func(key string, _ echo.Context) (bool, error) {
				return subtle.ConstantTimeCompare([]byte(key), []byte(adminToken)) == 1, nil
			},
			ErrorHandler: func(error, echo.Context) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin token")
			},
		}))
		admin.GET("/stats", h.stats)
		admin.GET("/recent", h.recent)
		admin.GET("/logs", h.logs)
	} else {
		logger.Info("admin api disabled", "hint", "set ADMIN_TOKEN to enable /admin/api")
	}

	return &Server{echo: e, limiter: limiter, logger: logger}
}

// ipExtractor uses the peer address unless the peer is a configured proxy,
// in which case X-Forwarded-For is walked back to the first untrusted hop.
func ipExtractor(trustedProxies []string, logger *slog.Logger) echo.IPExtractor {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	trusted := 0
	for _, cidr := range trustedProxies {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.Warn("ignoring invalid trusted proxy", "cidr", cidr, "error", err)
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
		trusted++
	}
	if trusted == 0 {
		return echo.ExtractIPDirect()
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"remote_ip", v.RemoteIP,
				"latency_ms", v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			logger.Info("request completed", attrs...)
			return nil
		},
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Close()
	return s.echo.Shutdown(ctx)
}
