// Package handler exposes the statistics over HTTP.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-wrapped/internal/domain"
	"github.com/naka-gawa/github-wrapped/internal/usecase"
)

// StatsService computes statistics for a user.
type StatsService interface {
	Yearly(ctx context.Context, req usecase.YearlyRequest) (domain.YearlyStats, error)
	Monthly(ctx context.Context, req usecase.MonthlyRequest) (domain.MonthlyStats, error)
	Calendar(ctx context.Context, user string, year int) ([]domain.HeatmapDay, error)
}

// ServiceFactory builds a StatsService acting with token. token is empty for anonymous requests.
type ServiceFactory func(token string) (StatsService, error)

type StatsHandler struct {
	newService ServiceFactory
	logger     *logrus.Logger
}

func NewStatsHandler(newService ServiceFactory, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		newService: newService,
		logger:     logger,
	}
}

// NewRouter returns the echo instance serving h.
func NewRouter(h *StatsHandler, logger *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(LoggingMiddleware(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/api/stats/:user/:year", h.GetYearly)
	e.GET("/api/stats/:user/:year/:month", h.GetMonthly)
	e.GET("/api/calendar/:user/:year", h.GetCalendar)
	return e
}

// GET /api/stats/:user/:year
func (h *StatsHandler) GetYearly(c echo.Context) error {
	year, err := intParam(c, "year")
	if err != nil {
		return writeError(c, err)
	}
	svc, err := h.service(c)
	if err != nil {
		return writeError(c, err)
	}

	stats, err := svc.Yearly(c.Request().Context(), usecase.YearlyRequest{User: c.Param("user"), Year: year})
	if err != nil {
		h.logRequest(c, "GetYearly").WithError(err).Warn("Failed to aggregate stats")
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /api/stats/:user/:year/:month
func (h *StatsHandler) GetMonthly(c echo.Context) error {
	year, err := intParam(c, "year")
	if err != nil {
		return writeError(c, err)
	}
	month, err := intParam(c, "month")
	if err != nil {
		return writeError(c, err)
	}
	svc, err := h.service(c)
	if err != nil {
		return writeError(c, err)
	}

	stats, err := svc.Monthly(c.Request().Context(), usecase.MonthlyRequest{User: c.Param("user"), Year: year, Month: month})
	if err != nil {
		h.logRequest(c, "GetMonthly").WithError(err).Warn("Failed to aggregate stats")
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /api/calendar/:user/:year
func (h *StatsHandler) GetCalendar(c echo.Context) error {
	year, err := intParam(c, "year")
	if err != nil {
		return writeError(c, err)
	}
	svc, err := h.service(c)
	if err != nil {
		return writeError(c, err)
	}

	days, err := svc.Calendar(c.Request().Context(), c.Param("user"), year)
	if err != nil {
		h.logRequest(c, "GetCalendar").WithError(err).Warn("Failed to fetch contribution calendar")
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, days)
}

// service builds a StatsService with the request's bearer token.
func (h *StatsHandler) service(c echo.Context) (StatsService, error) {
	svc, err := h.newService(bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}
	return svc, nil
}

// bearerToken returns the credentials of a Bearer authorization header. The scheme
// is case-insensitive; any other scheme yields an empty token.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *StatsHandler) logRequest(c echo.Context, operation string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"operation": operation,
		"method":    c.Request().Method,
		"path":      c.Request().URL.Path,
		"user":      c.Param("user"),
	})
}

func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidArgument, name, c.Param(name))
	}
	return v, nil
}
