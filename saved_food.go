package main

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// createSavedFood creates a reusable food template.
// POST /saved-foods.
func (h *Handler) createSavedFood(c *gin.Context) {
	var body createSavedFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	sf, err := queryOne[savedFood](h, c,
		`INSERT INTO saved_foods (name, calories, protein)
		 VALUES (@name, @calories, @protein)
		 RETURNING *`,
		pgx.NamedArgs{"name": body.Name, "calories": body.Calories, "protein": body.Protein})
	if err != nil {
		h.dbError(c, err, "saved food not found")
		return
	}

	c.JSON(http.StatusCreated, sf)
}

// getSavedFoods lists all templates alphabetically.
// GET /saved-foods.
func (h *Handler) getSavedFoods(c *gin.Context) {
	foods, err := queryMany[savedFood](h, c,
		"SELECT * FROM saved_foods ORDER BY name ASC", pgx.NamedArgs{})
	if err != nil {
		h.dbError(c, err, "saved foods not found")
		return
	}
	if foods == nil {
		foods = []savedFood{}
	}

	c.JSON(http.StatusOK, foods)
}

// deleteSavedFood removes a template. Entries already created from it stay.
// DELETE /saved-foods/:id.
func (h *Handler) deleteSavedFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM saved_foods WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		h.dbError(c, err, "saved food not found")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "saved food not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// addSavedFoodToToday materializes a template into a food entry stamped with
// today's date and either the caller-supplied time or the current wall clock.
// POST /saved-foods/:id/add-to-today.
func (h *Handler) addSavedFoodToToday(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// An empty request body means "use the current time".
	var body addToTodayRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		validationError(c, err)
		return
	}

	sf, err := queryOne[savedFood](h, c,
		"SELECT * FROM saved_foods WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		h.dbError(c, err, "saved food not found")
		return
	}

	now := time.Now()
	entryTime := now.Format("15:04")
	if body.Time != nil {
		entryTime = *body.Time
	}

	entry, err := queryOne[foodEntry](h, c,
		`INSERT INTO food_entries (name, calories, protein, date, time)
		 VALUES (@name, @calories, @protein, @date, @time)
		 RETURNING *`,
		pgx.NamedArgs{
			"name": sf.Name, "calories": sf.Calories, "protein": sf.Protein,
			"date": now.Format("2006-01-02"), "time": entryTime,
		})
	if err != nil {
		h.dbError(c, err, "food entry not found")
		return
	}

	c.JSON(http.StatusCreated, entry)
}
