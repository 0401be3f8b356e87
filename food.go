package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// createFoodEntry logs a food entry.
// POST /food. Body: { name, calories, protein, date, time }.
func (h *Handler) createFoodEntry(c *gin.Context) {
	var body createFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	entry, err := queryOne[foodEntry](h, c,
		`INSERT INTO food_entries (name, calories, protein, date, time)
		 VALUES (@name, @calories, @protein, @date, @time)
		 RETURNING *`,
		pgx.NamedArgs{
			"name": body.Name, "calories": body.Calories, "protein": body.Protein,
			"date": body.Date, "time": body.Time,
		})
	if err != nil {
		h.dbError(c, err, "food entry not found")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// getFoodLog lists food entries, newest first.
// GET /food?date=YYYY-MM-DD. The date filter is optional.
func (h *Handler) getFoodLog(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	entries, err := queryMany[foodEntry](h, c,
		`SELECT * FROM food_entries
		 WHERE (@date = '' OR date = NULLIF(@date, '')::date)
		 ORDER BY created_at DESC`,
		pgx.NamedArgs{"date": date})
	if err != nil {
		h.dbError(c, err, "food entries not found")
		return
	}
	if entries == nil {
		entries = []foodEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getTodayFood lists today's food entries in the order they were eaten.
// GET /food/today.
func (h *Handler) getTodayFood(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	entries, err := queryMany[foodEntry](h, c,
		`SELECT * FROM food_entries
		 WHERE date = @date::date
		 ORDER BY time ASC`,
		pgx.NamedArgs{"date": today})
	if err != nil {
		h.dbError(c, err, "food entries not found")
		return
	}
	if entries == nil {
		entries = []foodEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getFoodTotals returns summed calories/protein and the entry count for a date.
// GET /food/totals/:date. A day with no entries returns zero totals, not 404.
func (h *Handler) getFoodTotals(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	row, err := queryOne[struct {
		TotalCalories int     `db:"total_calories"`
		TotalProtein  float64 `db:"total_protein"`
		EntryCount    int     `db:"entry_count"`
	}](h, c,
		`SELECT
			COALESCE(SUM(calories), 0) AS total_calories,
			COALESCE(SUM(protein), 0)  AS total_protein,
			COUNT(*)                   AS entry_count
		 FROM food_entries
		 WHERE date = @date::date`,
		pgx.NamedArgs{"date": date})
	if err != nil {
		h.dbError(c, err, "food entries not found")
		return
	}

	c.JSON(http.StatusOK, foodTotalsResponse{
		Date:          date,
		TotalCalories: row.TotalCalories,
		TotalProtein:  row.TotalProtein,
		EntryCount:    row.EntryCount,
	})
}

// deleteFoodEntry removes a food entry by ID.
// DELETE /food/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteFoodEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM food_entries WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		h.dbError(c, err, "food entry not found")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "food entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
