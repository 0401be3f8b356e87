package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// createWeightEntry logs a weight entry.
// POST /weight. Body: { "weight": 82.5, "date": "YYYY-MM-DD" }.
func (h *Handler) createWeightEntry(c *gin.Context) {
	var body createWeightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	entry, err := queryOne[weightEntry](h, c,
		`INSERT INTO weight_entries (weight, date)
		 VALUES (@weight, @date)
		 RETURNING *`,
		pgx.NamedArgs{"weight": body.Weight, "date": body.Date})
	if err != nil {
		h.dbError(c, err, "weight entry not found")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// getWeightLog lists weight entries, most recent first.
// GET /weight?from=YYYY-MM-DD&to=YYYY-MM-DD. Both filters optional.
// Returns an empty array (not null) when nothing matches.
func (h *Handler) getWeightLog(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	if from != "" {
		if _, err := time.Parse("2006-01-02", from); err != nil {
			apiError(c, http.StatusBadRequest, "invalid from, expected YYYY-MM-DD")
			return
		}
	}
	if to != "" {
		if _, err := time.Parse("2006-01-02", to); err != nil {
			apiError(c, http.StatusBadRequest, "invalid to, expected YYYY-MM-DD")
			return
		}
	}

	entries, err := queryMany[weightEntry](h, c,
		`SELECT * FROM weight_entries
		 WHERE (@from = '' OR date >= NULLIF(@from, '')::date)
		   AND (@to   = '' OR date <= NULLIF(@to, '')::date)
		 ORDER BY date DESC`,
		pgx.NamedArgs{"from": from, "to": to})
	if err != nil {
		h.dbError(c, err, "weight entries not found")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getLatestWeight returns the most recent weight entry.
// GET /weight/latest. 404 when nothing has been logged yet.
func (h *Handler) getLatestWeight(c *gin.Context) {
	entry, err := queryOne[weightEntry](h, c,
		"SELECT * FROM weight_entries ORDER BY date DESC, id DESC LIMIT 1", pgx.NamedArgs{})
	if err != nil {
		h.dbError(c, err, "No weight entries found")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteWeightEntry removes a weight entry by ID.
// DELETE /weight/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM weight_entries WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		h.dbError(c, err, "weight entry not found")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
