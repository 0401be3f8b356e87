package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Pagination tests ───────────────────────────────────────────────── */

// TestParsePagination verifies page flooring, limit clamping to [1, 50], the
// defaults, and the derived row offset.
func TestParsePagination(t *testing.T) {
	cases := []struct {
		name                          string
		page, limit                   string
		wantPage, wantLimit, wantOffset int
	}{
		{"defaults", "", "", 1, 10, 0},
		{"explicit", "3", "20", 3, 20, 40},
		{"page below one", "0", "10", 1, 10, 0},
		{"negative page", "-2", "10", 1, 10, 0},
		{"limit above cap", "1", "500", 1, 50, 0},
		{"limit below one", "1", "0", 1, 1, 0},
		{"garbage values", "abc", "xyz", 1, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit, offset := parsePagination(tc.page, tc.limit)
			if page != tc.wantPage || limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("parsePagination(%q, %q) = (%d, %d, %d), want (%d, %d, %d)",
					tc.page, tc.limit, page, limit, offset,
					tc.wantPage, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

/* ─── Nesting tests ──────────────────────────────────────────────────── */

// TestNestSessions verifies that exercises land under their session and sets
// under their exercise, preserving the set_number order of the input.
func TestNestSessions(t *testing.T) {
	sessions := []gymSession{
		{ID: 1, Plan: "PPL", DayType: "Push", StartedAt: time.Now(), Status: sessionCompleted},
		{ID: 2, Plan: "PPL", DayType: "Pull", StartedAt: time.Now(), Status: sessionActive},
	}
	exercises := []exercise{
		{ID: 10, SessionID: 1, Name: "Bench Press"},
		{ID: 11, SessionID: 1, Name: "Overhead Press"},
	}
	sets := []exerciseSet{
		{ID: 100, ExerciseID: 10, Weight: 80, Reps: 8, SetNumber: 1},
		{ID: 101, ExerciseID: 10, Weight: 85, Reps: 6, SetNumber: 2},
		{ID: 102, ExerciseID: 10, Weight: 85, Reps: 5, SetNumber: 3},
		{ID: 103, ExerciseID: 11, Weight: 50, Reps: 10, SetNumber: 1},
	}

	nested := nestSessions(sessions, exercises, sets)

	if len(nested[0].Exercises) != 2 {
		t.Fatalf("session 1 has %d exercises, want 2", len(nested[0].Exercises))
	}
	bench := nested[0].Exercises[0]
	if bench.Name != "Bench Press" || len(bench.Sets) != 3 {
		t.Fatalf("first exercise = %q with %d sets, want Bench Press with 3", bench.Name, len(bench.Sets))
	}
	for i, set := range bench.Sets {
		if set.SetNumber != i+1 {
			t.Errorf("set %d has setNumber %d, want %d", i, set.SetNumber, i+1)
		}
	}

	// The session with no exercises gets an empty array, not nil.
	if nested[1].Exercises == nil || len(nested[1].Exercises) != 0 {
		t.Errorf("session 2 exercises = %v, want empty slice", nested[1].Exercises)
	}
}

// TestNestSessions_ExerciseWithoutSets verifies an exercise with no sets comes
// back with an empty (non-nil) sets array.
func TestNestSessions_ExerciseWithoutSets(t *testing.T) {
	sessions := []gymSession{{ID: 1}}
	exercises := []exercise{{ID: 10, SessionID: 1, Name: "Plank"}}

	nested := nestSessions(sessions, exercises, nil)

	if got := nested[0].Exercises[0].Sets; got == nil || len(got) != 0 {
		t.Errorf("sets = %v, want empty slice", got)
	}
}

/* ─── Validation tests ───────────────────────────────────────────────── */

// setupSessionValidationTest returns a router wired straight to the session
// handlers. Requests in these tests fail binding before any query, so the
// handler needs no DB.
func setupSessionValidationTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/sessions/start", h.startSession)
	router.POST("/sessions/:id/exercise", h.addExercise)
	return router
}

func doJSONRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestStartSession_Validation verifies the 400 paths for session start.
func TestStartSession_Validation(t *testing.T) {
	router := setupSessionValidationTest()

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing dayType", `{"plan":"PPL"}`},
		{"plan too long", `{"plan":"` + strings.Repeat("x", 51) + `","dayType":"Push"}`},
		{"malformed json", `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSONRequest(router, "POST", "/sessions/start", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// TestAddExercise_Validation verifies the 400 paths for adding an exercise,
// including per-set field rules (dive validation) and non-numeric session ids.
func TestAddExercise_Validation(t *testing.T) {
	router := setupSessionValidationTest()

	cases := []struct {
		name string
		path string
		body string
	}{
		{"missing name", "/sessions/1/exercise", `{"sets":[]}`},
		{"zero reps", "/sessions/1/exercise", `{"name":"Bench","sets":[{"weight":80,"reps":0,"setNumber":1}]}`},
		{"zero setNumber", "/sessions/1/exercise", `{"name":"Bench","sets":[{"weight":80,"reps":8,"setNumber":0}]}`},
		{"negative weight", "/sessions/1/exercise", `{"name":"Bench","sets":[{"weight":-1,"reps":8,"setNumber":1}]}`},
		{"non-numeric id", "/sessions/abc/exercise", `{"name":"Bench","sets":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSONRequest(router, "POST", tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
