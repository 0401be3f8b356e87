package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// publicKPI is the unauthenticated KPI view. Same figures as the dashboard
// minus protein detail.
// GET /public/kpi.
func (h *Handler) publicKPI(c *gin.Context) {
	currentWeight, err := h.latestWeightValue(c)
	if err != nil {
		h.dbError(c, err, "weight entries not found")
		return
	}

	calories, _, err := h.todayFoodTotals(c)
	if err != nil {
		h.dbError(c, err, "food entries not found")
		return
	}

	weekSessions, err := h.weekSessionCount(c)
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	c.JSON(http.StatusOK, publicKPIResponse{
		CurrentWeight:    currentWeight,
		TodayCalories:    calories,
		WeekSessionCount: weekSessions,
	})
}

// publicWeightLog lists all weight entries oldest-first, id/weight/date only.
// GET /public/weight.
func (h *Handler) publicWeightLog(c *gin.Context) {
	entries, err := queryMany[publicWeightEntry](h, c,
		"SELECT id, weight, date FROM weight_entries ORDER BY date ASC",
		pgx.NamedArgs{})
	if err != nil {
		h.dbError(c, err, "weight entries not found")
		return
	}
	if entries == nil {
		entries = []publicWeightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// publicSessions lists completed sessions newest-first with nested
// exercises/sets, paginated like GET /sessions.
// GET /public/sessions?page=1&limit=10.
func (h *Handler) publicSessions(c *gin.Context) {
	page, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	var total int
	if err := h.db.QueryRow(c,
		"SELECT COUNT(*) FROM gym_sessions WHERE status = 'completed'").Scan(&total); err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	sessions, err := queryMany[gymSession](h, c,
		`SELECT * FROM gym_sessions
		 WHERE status = 'completed'
		 ORDER BY started_at DESC
		 LIMIT @limit OFFSET @offset`,
		pgx.NamedArgs{"limit": limit, "offset": offset})
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	sessions, err = h.attachExercises(c, sessions)
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}
	if sessions == nil {
		sessions = []gymSession{}
	}

	c.JSON(http.StatusOK, sessionPage{Data: sessions, Page: page, Limit: limit, Total: total})
}

// publicCalendar is the month view without food detail.
// GET /public/calendar/:year/:month.
func (h *Handler) publicCalendar(c *gin.Context) {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}
	start, end := monthRange(year, month)

	weights, err := h.monthWeights(c, start, end)
	if err != nil {
		h.dbError(c, err, "weight entries not found")
		return
	}

	sessions, err := h.monthSessions(c, start, sessionRangeEnd(year, month))
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	c.JSON(http.StatusOK, publicCalendarResponse{
		Year:     year,
		Month:    month,
		Weights:  mapCalendarWeights(weights),
		Sessions: mapCalendarSessions(sessions),
	})
}
