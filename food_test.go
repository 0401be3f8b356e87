package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupFoodValidationTest wires the food and saved-food handlers directly;
// every request in these tests fails validation before any query runs.
func setupFoodValidationTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/food", h.createFoodEntry)
	router.GET("/food/totals/:date", h.getFoodTotals)
	router.POST("/saved-foods", h.createSavedFood)
	router.POST("/saved-foods/:id/add-to-today", h.addSavedFoodToToday)
	return router
}

// TestCreateFood_Validation verifies the payload rules: name required,
// calories/protein non-negative with protein capped at 999, date a calendar
// date, time an HH:MM 24-hour string.
func TestCreateFood_Validation(t *testing.T) {
	router := setupFoodValidationTest()

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"calories":350,"protein":12,"date":"2026-08-30","time":"08:00"}`},
		{"name too long", `{"name":"` + strings.Repeat("x", 201) + `","calories":1,"protein":1,"date":"2026-08-30","time":"08:00"}`},
		{"negative calories", `{"name":"Oats","calories":-1,"protein":12,"date":"2026-08-30","time":"08:00"}`},
		{"protein above cap", `{"name":"Oats","calories":350,"protein":1000,"date":"2026-08-30","time":"08:00"}`},
		{"bad time", `{"name":"Oats","calories":350,"protein":12,"date":"2026-08-30","time":"8am"}`},
		{"hour out of range", `{"name":"Oats","calories":350,"protein":12,"date":"2026-08-30","time":"25:00"}`},
		{"missing date", `{"name":"Oats","calories":350,"protein":12,"time":"08:00"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSONRequest(router, "POST", "/food", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// TestCreateFood_ValidationDetails verifies the error body carries field-level
// detail: {"error": "Validation error", "details": [{path, message}]}.
func TestCreateFood_ValidationDetails(t *testing.T) {
	router := setupFoodValidationTest()

	w := doJSONRequest(router, "POST", "/food", `{"calories":350,"protein":12,"date":"2026-08-30","time":"08:00"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != "Validation error" {
		t.Errorf("error = %q, want \"Validation error\"", resp.Error)
	}
	if len(resp.Details) == 0 {
		t.Fatal("expected at least one detail entry")
	}
	if resp.Details[0].Path != "Name" {
		t.Errorf("detail path = %q, want \"Name\"", resp.Details[0].Path)
	}
}

// TestFoodTotals_BadDate verifies a malformed :date path param is a 400.
func TestFoodTotals_BadDate(t *testing.T) {
	router := setupFoodValidationTest()

	w := doJSONRequest(router, "GET", "/food/totals/yesterday", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// TestCreateSavedFood_Validation covers the template payload rules.
func TestCreateSavedFood_Validation(t *testing.T) {
	router := setupFoodValidationTest()

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"calories":200,"protein":30}`},
		{"negative calories", `{"name":"Shake","calories":-10,"protein":30}`},
		{"negative protein", `{"name":"Shake","calories":200,"protein":-1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSONRequest(router, "POST", "/saved-foods", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// TestAddToToday_Validation verifies a malformed override time is rejected and
// a non-numeric template id is a 400.
func TestAddToToday_Validation(t *testing.T) {
	router := setupFoodValidationTest()

	w := doJSONRequest(router, "POST", "/saved-foods/1/add-to-today", `{"time":"9pm"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad time: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSONRequest(router, "POST", "/saved-foods/abc/add-to-today", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}
