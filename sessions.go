package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// parsePagination turns ?page= and ?limit= strings into a sane page, limit and
// row offset. page floors at 1; limit is clamped to [1, 50] and defaults to 10.
func parsePagination(pageStr, limitStr string) (page, limit, offset int) {
	page = 1
	if n, err := strconv.Atoi(pageStr); err == nil && n > 1 {
		page = n
	}
	limit = defaultPageLimit
	if n, err := strconv.Atoi(limitStr); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// nestSessions groups exercises under their sessions and sets under their
// exercises, preserving the input order of each slice. Empty child collections
// come back as empty arrays, never null.
func nestSessions(sessions []gymSession, exercises []exercise, sets []exerciseSet) []gymSession {
	setsByExercise := make(map[int][]exerciseSet, len(exercises))
	for _, s := range sets {
		setsByExercise[s.ExerciseID] = append(setsByExercise[s.ExerciseID], s)
	}

	exercisesBySession := make(map[int][]exercise, len(sessions))
	for _, e := range exercises {
		e.Sets = setsByExercise[e.ID]
		if e.Sets == nil {
			e.Sets = []exerciseSet{}
		}
		exercisesBySession[e.SessionID] = append(exercisesBySession[e.SessionID], e)
	}

	for i := range sessions {
		sessions[i].Exercises = exercisesBySession[sessions[i].ID]
		if sessions[i].Exercises == nil {
			sessions[i].Exercises = []exercise{}
		}
	}
	return sessions
}

// attachExercises loads the exercises and sets belonging to the given sessions
// and nests them. Sets come back in set_number order.
func (h *Handler) attachExercises(c *gin.Context, sessions []gymSession) ([]gymSession, error) {
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]int, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}

	exercises, err := queryMany[exercise](h, c,
		"SELECT * FROM exercises WHERE session_id = ANY(@ids) ORDER BY id ASC",
		pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, err
	}

	exerciseIDs := make([]int, len(exercises))
	for i, e := range exercises {
		exerciseIDs[i] = e.ID
	}

	var sets []exerciseSet
	if len(exerciseIDs) > 0 {
		sets, err = queryMany[exerciseSet](h, c,
			"SELECT * FROM exercise_sets WHERE exercise_id = ANY(@ids) ORDER BY set_number ASC, id ASC",
			pgx.NamedArgs{"ids": exerciseIDs})
		if err != nil {
			return nil, err
		}
	}

	return nestSessions(sessions, exercises, sets), nil
}

// startSession starts a new gym session. The partial unique index on
// gym_sessions allows only one active row, so starting while another session
// is active returns 409.
// POST /sessions/start.
func (h *Handler) startSession(c *gin.Context) {
	var body startSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	session, err := queryOne[gymSession](h, c,
		`INSERT INTO gym_sessions (plan, day_type, status)
		 VALUES (@plan, @dayType, @status)
		 RETURNING *`,
		pgx.NamedArgs{"plan": body.Plan, "dayType": body.DayType, "status": sessionActive})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			apiError(c, http.StatusConflict, "A session is already active")
			return
		}
		h.dbError(c, err, "session not found")
		return
	}

	session.Exercises = []exercise{}
	c.JSON(http.StatusCreated, session)
}

// addExercise adds an exercise with its sets to a session. The exercise and
// set inserts run in one transaction so a failed set insert never leaves a
// half-written exercise behind.
// POST /sessions/:id/exercise.
func (h *Handler) addExercise(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}

	var body addExerciseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}
	defer tx.Rollback(c)

	rows, err := tx.Query(c,
		`INSERT INTO exercises (session_id, name)
		 VALUES (@sessionID, @name)
		 RETURNING *`,
		pgx.NamedArgs{"sessionID": sessionID, "name": body.Name})
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}
	ex, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[exercise])
	if err != nil {
		// A broken session_id reference surfaces here as a FK violation → 404.
		h.dbError(c, err, "session not found")
		return
	}

	ex.Sets = make([]exerciseSet, 0, len(body.Sets))
	for _, s := range body.Sets {
		rows, err := tx.Query(c,
			`INSERT INTO exercise_sets (exercise_id, weight, reps, set_number)
			 VALUES (@exerciseID, @weight, @reps, @setNumber)
			 RETURNING *`,
			pgx.NamedArgs{"exerciseID": ex.ID, "weight": s.Weight, "reps": s.Reps, "setNumber": s.SetNumber})
		if err != nil {
			h.dbError(c, err, "session not found")
			return
		}
		set, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[exerciseSet])
		if err != nil {
			h.dbError(c, err, "session not found")
			return
		}
		ex.Sets = append(ex.Sets, set)
	}

	if err := tx.Commit(c); err != nil {
		h.dbError(c, err, "session not found")
		return
	}

	c.JSON(http.StatusCreated, ex)
}

// completeSession marks a session completed and stamps completedAt.
// POST /sessions/:id/complete. Returns the full session detail.
func (h *Handler) completeSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := queryOne[gymSession](h, c,
		`UPDATE gym_sessions
		 SET status = @status, completed_at = now()
		 WHERE id = @id
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "status": sessionCompleted})
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}

	detail, err := h.attachExercises(c, []gymSession{session})
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}

	c.JSON(http.StatusOK, detail[0])
}

// getSessions lists sessions newest-first with nested exercises and sets.
// GET /sessions?page=1&limit=10. Responds {data, page, limit, total}.
func (h *Handler) getSessions(c *gin.Context) {
	page, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	var total int
	if err := h.db.QueryRow(c, "SELECT COUNT(*) FROM gym_sessions").Scan(&total); err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	sessions, err := queryMany[gymSession](h, c,
		`SELECT * FROM gym_sessions
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

// getLatestSession returns the most recently completed session.
// GET /sessions/latest. 404 when no session has been completed yet.
func (h *Handler) getLatestSession(c *gin.Context) {
	session, err := queryOne[gymSession](h, c,
		`SELECT * FROM gym_sessions
		 WHERE status = 'completed'
		 ORDER BY completed_at DESC
		 LIMIT 1`, pgx.NamedArgs{})
	if err != nil {
		h.dbError(c, err, "No completed sessions found")
		return
	}

	detail, err := h.attachExercises(c, []gymSession{session})
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}

	c.JSON(http.StatusOK, detail[0])
}

// getActiveSession returns the currently active session.
// GET /sessions/active. 404 when nothing is in progress.
func (h *Handler) getActiveSession(c *gin.Context) {
	session, err := queryOne[gymSession](h, c,
		`SELECT * FROM gym_sessions
		 WHERE status = 'active'
		 ORDER BY started_at DESC
		 LIMIT 1`, pgx.NamedArgs{})
	if err != nil {
		h.dbError(c, err, "No active session")
		return
	}

	detail, err := h.attachExercises(c, []gymSession{session})
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}

	c.JSON(http.StatusOK, detail[0])
}

// getWeekStats counts completed sessions started in the trailing 7 days and
// the exercises logged across them.
// GET /sessions/stats/week.
func (h *Handler) getWeekStats(c *gin.Context) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	row, err := queryOne[struct {
		SessionCount   int `db:"session_count"`
		TotalExercises int `db:"total_exercises"`
	}](h, c,
		`SELECT
			COUNT(DISTINCT s.id) AS session_count,
			COUNT(e.id)          AS total_exercises
		 FROM gym_sessions s
		 LEFT JOIN exercises e ON e.session_id = s.id
		 WHERE s.status = 'completed' AND s.started_at >= @from`,
		pgx.NamedArgs{"from": weekAgo})
	if err != nil {
		h.dbError(c, err, "sessions not found")
		return
	}

	c.JSON(http.StatusOK, weekStatsResponse{
		SessionCount:   row.SessionCount,
		TotalExercises: row.TotalExercises,
		Period:         periodRange{From: weekAgo, To: now},
	})
}

// deleteSession removes a session; its exercises and their sets go with it
// via the ON DELETE CASCADE foreign keys.
// DELETE /sessions/:id.
func (h *Handler) deleteSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM gym_sessions WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		h.dbError(c, err, "session not found")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "session not found")
		return
	}

	c.Status(http.StatusNoContent)
}
