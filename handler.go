package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Handler holds shared dependencies (db pool, config, logger) for all route
// handlers. The pool is the only long-lived state in the process; everything
// else is reconstructed per request.
type Handler struct {
	db  *pgxpool.Pool
	cfg Config
	log *zap.Logger
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Query and scan errors (e.g. struct/column mismatches) are logged at debug
// level; classification into HTTP status codes happens in dbError.
func queryOne[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.log.Debug("query error", zap.Error(err))
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		h.log.Debug("scan error", zap.Error(err))
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.log.Debug("query error", zap.Error(err))
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		h.log.Debug("scan error", zap.Error(err))
	}
	return results, err
}

// pathID parses the :id route param. Non-numeric ids get a 400 before any
// query runs.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		apiError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

/* ─── Error translation ──────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// validationError renders binding failures as a 400 with field-level detail:
// {"error": "Validation error", "details": [{"path": ..., "message": ...}]}.
// Non-validator errors (malformed JSON, wrong types) get a generic 400.
func validationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	details := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, gin.H{
			"path":    fe.Field(),
			"message": fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "details": details})
}

// dbError maps persistence failures onto the HTTP error taxonomy: missing rows
// and broken foreign-key references are 404, unique violations 409, other
// database errors 400 with the SQLSTATE code, anything else a logged 500.
func (h *Handler) dbError(c *gin.Context, err error, notFoundMsg string) {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		apiError(c, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		apiError(c, http.StatusConflict, "Resource already exists")
	case errors.As(err, &pgErr) && pgErr.Code == "23503":
		apiError(c, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &pgErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Database error", "code": pgErr.Code})
	default:
		h.log.Error("unhandled error",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()))
		apiError(c, http.StatusInternalServerError, "Internal server error")
	}
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. A pool (not a single conn) so that
// serverless Postgres providers closing idle connections don't kill the app.
func getDBPool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return pool, nil
}

// health reports liveness. GET /health (public).
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// registerRoutes registers all API routes on the router. Everything outside
// /health, /auth/register, /auth/login and /public requires a bearer token.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/health", h.health)

	auth := router.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.GET("/me", h.authMiddleware(), h.me)
	auth.PUT("/profile", h.authMiddleware(), h.updateProfile)

	pub := router.Group("/public")
	pub.GET("/kpi", h.publicKPI)
	pub.GET("/weight", h.publicWeightLog)
	pub.GET("/sessions", h.publicSessions)
	pub.GET("/calendar/:year/:month", h.publicCalendar)

	api := router.Group("", h.authMiddleware())

	api.POST("/weight", h.createWeightEntry)
	api.GET("/weight", h.getWeightLog)
	api.GET("/weight/latest", h.getLatestWeight)
	api.DELETE("/weight/:id", h.deleteWeightEntry)

	api.POST("/food", h.createFoodEntry)
	api.GET("/food", h.getFoodLog)
	api.GET("/food/today", h.getTodayFood)
	api.GET("/food/totals/:date", h.getFoodTotals)
	api.DELETE("/food/:id", h.deleteFoodEntry)

	api.POST("/saved-foods", h.createSavedFood)
	api.GET("/saved-foods", h.getSavedFoods)
	api.DELETE("/saved-foods/:id", h.deleteSavedFood)
	api.POST("/saved-foods/:id/add-to-today", h.addSavedFoodToToday)

	api.POST("/sessions/start", h.startSession)
	api.POST("/sessions/:id/exercise", h.addExercise)
	api.POST("/sessions/:id/complete", h.completeSession)
	api.GET("/sessions", h.getSessions)
	api.GET("/sessions/latest", h.getLatestSession)
	api.GET("/sessions/active", h.getActiveSession)
	api.GET("/sessions/stats/week", h.getWeekStats)
	api.DELETE("/sessions/:id", h.deleteSession)

	api.GET("/dashboard/kpi", h.getKPI)
	api.GET("/dashboard/calendar/:year/:month", h.getCalendar)
}
