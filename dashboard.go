package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// monthRange returns the first and last calendar day of (year, month).
// Day 0 of the following month normalizes to the last day of the target month,
// so February and December roll over correctly.
func monthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// sessionRangeEnd extends the month end to 23:59:59 so sessions started any
// time on the last day still fall inside the range filter.
func sessionRangeEnd(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
}

// parseYearMonth validates the :year/:month path params.
func parseYearMonth(c *gin.Context) (year, month int, ok bool) {
	year, errY := strconv.Atoi(c.Param("year"))
	month, errM := strconv.Atoi(c.Param("month"))
	if errY != nil || errM != nil || year < 1 || month < 1 || month > 12 {
		apiError(c, http.StatusBadRequest, "invalid year or month")
		return 0, 0, false
	}
	return year, month, true
}

/* ─── Calendar assembly ──────────────────────────────────────────────── */

func mapCalendarWeights(rows []weightDayRow) []calendarWeight {
	out := make([]calendarWeight, len(rows))
	for i, r := range rows {
		out[i] = calendarWeight{Date: r.Date.Format("2006-01-02"), Weight: r.Weight}
	}
	return out
}

func mapCalendarFood(rows []foodDayRow) []calendarFoodDay {
	out := make([]calendarFoodDay, len(rows))
	for i, r := range rows {
		out[i] = calendarFoodDay{
			Date:          r.Date.Format("2006-01-02"),
			TotalCalories: r.TotalCalories,
			TotalProtein:  r.TotalProtein,
			EntryCount:    r.EntryCount,
		}
	}
	return out
}

func mapCalendarSessions(rows []sessionDayRow) []calendarSession {
	out := make([]calendarSession, len(rows))
	for i, r := range rows {
		out[i] = calendarSession{
			Date:    r.StartedAt.UTC().Format("2006-01-02"),
			Plan:    r.Plan,
			DayType: r.DayType,
		}
	}
	return out
}

/* ─── Query building blocks shared with the public variants ──────────── */

// latestWeightValue returns the most recent logged weight, or nil if nothing
// has ever been logged.
func (h *Handler) latestWeightValue(c *gin.Context) (*float64, error) {
	row, err := queryOne[weightDayRow](h, c,
		"SELECT date, weight FROM weight_entries ORDER BY date DESC, id DESC LIMIT 1",
		pgx.NamedArgs{})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row.Weight, nil
}

// todayFoodTotals sums today's calories and protein.
func (h *Handler) todayFoodTotals(c *gin.Context) (calories int, protein float64, err error) {
	today := time.Now().Format("2006-01-02")
	row, err := queryOne[struct {
		TotalCalories int     `db:"total_calories"`
		TotalProtein  float64 `db:"total_protein"`
	}](h, c,
		`SELECT
			COALESCE(SUM(calories), 0) AS total_calories,
			COALESCE(SUM(protein), 0)  AS total_protein
		 FROM food_entries
		 WHERE date = @date::date`,
		pgx.NamedArgs{"date": today})
	if err != nil {
		return 0, 0, err
	}
	return row.TotalCalories, row.TotalProtein, nil
}

// weekSessionCount counts completed sessions started in the trailing 7 days.
func (h *Handler) weekSessionCount(c *gin.Context) (int, error) {
	var count int
	err := h.db.QueryRow(c,
		"SELECT COUNT(*) FROM gym_sessions WHERE status = 'completed' AND started_at >= @from",
		pgx.NamedArgs{"from": time.Now().AddDate(0, 0, -7)}).Scan(&count)
	return count, err
}

// monthWeights lists weight entries within a calendar month.
func (h *Handler) monthWeights(c *gin.Context, start, end time.Time) ([]weightDayRow, error) {
	return queryMany[weightDayRow](h, c,
		`SELECT date, weight FROM weight_entries
		 WHERE date >= @start::date AND date <= @end::date
		 ORDER BY date ASC`,
		pgx.NamedArgs{"start": start.Format("2006-01-02"), "end": end.Format("2006-01-02")})
}

// monthSessions lists completed sessions started within a calendar month.
func (h *Handler) monthSessions(c *gin.Context, start, end time.Time) ([]sessionDayRow, error) {
	return queryMany[sessionDayRow](h, c,
		`SELECT started_at, plan, day_type FROM gym_sessions
		 WHERE status = 'completed' AND started_at >= @start AND started_at <= @end
		 ORDER BY started_at ASC`,
		pgx.NamedArgs{"start": start, "end": end})
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getKPI returns the dashboard headline figures: latest weight, today's food
// totals, and the completed-session count for the trailing week.
// GET /dashboard/kpi.
func (h *Handler) getKPI(c *gin.Context) {
	currentWeight, err := h.latestWeightValue(c)
	if err != nil {
		h.dbError(c, err, "weight entries not found")
		return
	}

	calories, protein, err := h.todayFoodTotals(c)
	if err != nil {
		h.dbError(c, err, "food entries not found")
		return
	}

	weekSessions, err := h.weekSessionCount(c)
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	c.JSON(http.StatusOK, kpiResponse{
		CurrentWeight:    currentWeight,
		TodayCalories:    calories,
		TodayProtein:     protein,
		WeekSessionCount: weekSessions,
	})
}

// getCalendar returns per-day weight entries, food totals, and completed
// session summaries for a month, keyed by date string.
// GET /dashboard/calendar/:year/:month.
func (h *Handler) getCalendar(c *gin.Context) {
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

	foodDays, err := queryMany[foodDayRow](h, c,
		`SELECT
			date,
			COALESCE(SUM(calories), 0) AS total_calories,
			COALESCE(SUM(protein), 0)  AS total_protein,
			COUNT(*)                   AS entry_count
		 FROM food_entries
		 WHERE date >= @start::date AND date <= @end::date
		 GROUP BY date
		 ORDER BY date ASC`,
		pgx.NamedArgs{"start": start.Format("2006-01-02"), "end": end.Format("2006-01-02")})
	if err != nil {
		h.dbError(c, err, "food entries not found")
		return
	}

	sessions, err := h.monthSessions(c, start, sessionRangeEnd(year, month))
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	c.JSON(http.StatusOK, calendarResponse{
		Year:     year,
		Month:    month,
		Weights:  mapCalendarWeights(weights),
		Food:     mapCalendarFood(foodDays),
		Sessions: mapCalendarSessions(sessions),
	})
}
