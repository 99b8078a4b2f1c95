package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"GovAI/internal/domain"
	"GovAI/internal/usecase"
)

// QueryResolver is the pipeline driver consumed by POST /query.
type QueryResolver interface {
	Resolve(ctx context.Context, req usecase.ResolveRequest) (domain.Outcome, error)
}

// Dashboard is the read surface consumed by the admin API.
type Dashboard interface {
	Stats() domain.StatsSnapshot
	Recent(limit int) []domain.LogRecord
	All(limit int) []domain.LogRecord
}

const (
	defaultRecentLimit = 20
	defaultLogsLimit   = 500
	maxListLimit       = 1000
)

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query          string `json:"query" validate:"max=2000"`
	IncludeSources *bool  `json:"include_sources,omitempty"`
	UserID         string `json:"user_id,omitempty" validate:"omitempty,max=128,printascii"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type handlers struct {
	resolver  QueryResolver
	dashboard Dashboard
}

func (h *handlers) query(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	includeSources := true
	if req.IncludeSources != nil {
		includeSources = *req.IncludeSources
	}

	outcome, err := h.resolver.Resolve(c.Request().Context(), usecase.ResolveRequest{
		Query:          req.Query,
		IncludeSources: includeSources,
		ClientIP:       c.RealIP(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outcome)
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "GovAI Bangladesh API is running",
	})
}

func (h *handlers) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "GovAI Bangladesh API",
		"version":     Version,
		"description": "AI-powered government information assistant for Bangladesh",
		"endpoints": map[string]string{
			"health": "/health",
			"query":  "/query (POST)",
		},
		"message": "স্বাগতম GovAI Bangladesh এ - আপনার সরকারি তথ্য সহায়ক",
	})
}

func (h *handlers) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.Stats())
}

func (h *handlers) recent(c echo.Context) error {
	limit, err := limitParam(c, defaultRecentLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.dashboard.Recent(limit))
}

func (h *handlers) logs(c echo.Context) error {
	limit, err := limitParam(c, defaultLogsLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.dashboard.All(limit))
}

func limitParam(c echo.Context, def int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
	}
	return min(n, maxListLimit), nil
}
