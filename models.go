package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// Session status values. The partial unique index on gym_sessions enforces
// at most one active row, so a concurrent second start fails with 23505.
const (
	sessionActive    = "active"
	sessionCompleted = "completed"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. The password hash is hidden from JSON responses.
type user struct {
	ID               int        `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Role             string     `json:"role" db:"role"`
	DailyCalorieGoal *int       `json:"dailyCalorieGoal" db:"daily_calorie_goal"`
	DailyProteinGoal *int       `json:"dailyProteinGoal" db:"daily_protein_goal"`
	CreatedAt        *time.Time `json:"createdAt" db:"created_at"`
}

// weightEntry maps to weight_entries. Weight is kilograms.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	Weight    float64    `json:"weight" db:"weight"`
	Date      DateOnly   `json:"date" db:"date"`
	CreatedAt *time.Time `json:"createdAt" db:"created_at"`
}

// foodEntry maps to food_entries. Time is an "HH:MM" 24-hour string; the date
// column is day-granular so entries group cleanly by calendar day.
type foodEntry struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Calories  int        `json:"calories" db:"calories"`
	Protein   float64    `json:"protein" db:"protein"`
	Date      DateOnly   `json:"date" db:"date"`
	Time      string     `json:"time" db:"time"`
	CreatedAt *time.Time `json:"createdAt" db:"created_at"`
}

// savedFood is a reusable template for quick-logging food entries. Deleting one
// never touches entries already created from it.
type savedFood struct {
	ID       int     `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Calories int     `json:"calories" db:"calories"`
	Protein  float64 `json:"protein" db:"protein"`
}

// gymSession maps to gym_sessions. Exercises are loaded separately and nested
// in Go; db:"-" tells RowToStructByName to skip the field during scanning.
type gymSession struct {
	ID          int        `json:"id" db:"id"`
	Plan        string     `json:"plan" db:"plan"`
	DayType     string     `json:"dayType" db:"day_type"`
	StartedAt   time.Time  `json:"startedAt" db:"started_at"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
	Status      string     `json:"status" db:"status"`
	Exercises   []exercise `json:"exercises" db:"-"`
}

// exercise belongs to a gym session and owns its sets (cascade on delete).
type exercise struct {
	ID        int           `json:"id" db:"id"`
	SessionID int           `json:"sessionId" db:"session_id"`
	Name      string        `json:"name" db:"name"`
	Sets      []exerciseSet `json:"sets" db:"-"`
}

type exerciseSet struct {
	ID         int     `json:"id" db:"id"`
	ExerciseID int     `json:"exerciseId" db:"exercise_id"`
	Weight     float64 `json:"weight" db:"weight"`
	Reps       int     `json:"reps" db:"reps"`
	SetNumber  int     `json:"setNumber" db:"set_number"`
}

/* ─── Request shapes ─────────────────────────────────────────────────── */

type createWeightRequest struct {
	Weight float64 `json:"weight" binding:"required,gt=0,lte=999"`
	Date   string  `json:"date" binding:"required,datetime=2006-01-02"`
}

type createFoodRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	Calories int     `json:"calories" binding:"min=0"`
	Protein  float64 `json:"protein" binding:"gte=0,lte=999"`
	Date     string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string  `json:"time" binding:"required,datetime=15:04"`
}

type createSavedFoodRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	Calories int     `json:"calories" binding:"min=0"`
	Protein  float64 `json:"protein" binding:"gte=0,lte=999"`
}

// addToTodayRequest carries an optional override time; when nil the entry is
// stamped with the current wall-clock HH:MM.
type addToTodayRequest struct {
	Time *string `json:"time" binding:"omitempty,datetime=15:04"`
}

type startSessionRequest struct {
	Plan    string `json:"plan" binding:"required,max=50"`
	DayType string `json:"dayType" binding:"required,max=50"`
}

type setInput struct {
	Weight    float64 `json:"weight" binding:"gte=0,lte=9999"`
	Reps      int     `json:"reps" binding:"required,gt=0"`
	SetNumber int     `json:"setNumber" binding:"required,gt=0"`
}

type addExerciseRequest struct {
	Name string     `json:"name" binding:"required,max=200"`
	Sets []setInput `json:"sets" binding:"dive"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// updateProfileRequest replaces both goal fields; an explicit null (or an
// omitted field) clears the stored goal.
type updateProfileRequest struct {
	DailyCalorieGoal *int `json:"dailyCalorieGoal" binding:"omitempty,gte=0"`
	DailyProteinGoal *int `json:"dailyProteinGoal" binding:"omitempty,gte=0"`
}

/* ─── Response shapes ────────────────────────────────────────────────── */

type userInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

type foodTotalsResponse struct {
	Date          string  `json:"date"`
	TotalCalories int     `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	EntryCount    int     `json:"entryCount"`
}

type sessionPage struct {
	Data  []gymSession `json:"data"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int          `json:"total"`
}

type periodRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type weekStatsResponse struct {
	SessionCount   int         `json:"sessionCount"`
	TotalExercises int         `json:"totalExercises"`
	Period         periodRange `json:"period"`
}

// kpiResponse is the authenticated dashboard KPI view. CurrentWeight is nil
// when no weight has ever been logged.
type kpiResponse struct {
	CurrentWeight    *float64 `json:"currentWeight"`
	TodayCalories    int      `json:"todayCalories"`
	TodayProtein     float64  `json:"todayProtein"`
	WeekSessionCount int      `json:"weekSessionCount"`
}

// publicKPIResponse omits protein detail for unauthenticated consumption.
type publicKPIResponse struct {
	CurrentWeight    *float64 `json:"currentWeight"`
	TodayCalories    int      `json:"todayCalories"`
	WeekSessionCount int      `json:"weekSessionCount"`
}

type calendarWeight struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type calendarFoodDay struct {
	Date          string  `json:"date"`
	TotalCalories int     `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	EntryCount    int     `json:"entryCount"`
}

type calendarSession struct {
	Date    string `json:"date"`
	Plan    string `json:"plan"`
	DayType string `json:"dayType"`
}

type calendarResponse struct {
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Weights  []calendarWeight  `json:"weights"`
	Food     []calendarFoodDay `json:"food"`
	Sessions []calendarSession `json:"sessions"`
}

type publicCalendarResponse struct {
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Weights  []calendarWeight  `json:"weights"`
	Sessions []calendarSession `json:"sessions"`
}

// publicWeightEntry is the reduced public projection of a weight entry.
type publicWeightEntry struct {
	ID     int      `json:"id" db:"id"`
	Weight float64  `json:"weight" db:"weight"`
	Date   DateOnly `json:"date" db:"date"`
}

/* ─── Aggregation scan rows ──────────────────────────────────────────── */

// foodDayRow is the shape of each row returned by the per-day food GROUP BY.
type foodDayRow struct {
	Date          DateOnly `db:"date"`
	TotalCalories int      `db:"total_calories"`
	TotalProtein  float64  `db:"total_protein"`
	EntryCount    int      `db:"entry_count"`
}

// sessionDayRow is one completed session inside a calendar month.
type sessionDayRow struct {
	StartedAt time.Time `db:"started_at"`
	Plan      string    `db:"plan"`
	DayType   string    `db:"day_type"`
}

// weightDayRow is one weight entry inside a calendar month.
type weightDayRow struct {
	Date   DateOnly `db:"date"`
	Weight float64  `db:"weight"`
}
