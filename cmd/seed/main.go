// CLI tool to load a demo dataset: one user, a week of weight entries, a day
// of food entries, a couple of saved-food templates, and a completed gym
// session with exercises and sets. Wipes tracking data first, so only run it
// against a development database.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	godotenv.Load()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fatalf("Unable to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	// Clear existing tracking data. Session children go via cascade.
	for _, table := range []string{"gym_sessions", "food_entries", "weight_entries", "saved_foods"} {
		if _, err := conn.Exec(ctx, "DELETE FROM "+table); err != nil {
			fatalf("Error clearing %s: %v", table, err)
		}
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "demo1234"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fatalf("Error hashing password: %v", err)
	}

	if _, err := conn.Exec(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING`,
		"demo", "demo@example.com", string(hash)); err != nil {
		fatalf("Error creating demo user: %v", err)
	}

	// Weight entries for the past 7 days.
	today := time.Now()
	for i := 6; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		weight := 82.5 - float64(i)*0.1
		if _, err := conn.Exec(ctx,
			"INSERT INTO weight_entries (weight, date) VALUES ($1, $2)",
			weight, date); err != nil {
			fatalf("Error seeding weight entry: %v", err)
		}
	}

	// Today's food entries.
	todayStr := today.Format("2006-01-02")
	foods := []struct {
		name     string
		calories int
		protein  float64
		time     string
	}{
		{"Oatmeal with banana", 350, 12, "08:00"},
		{"Chicken breast with rice", 550, 45, "12:30"},
		{"Protein shake", 200, 30, "15:00"},
		{"Salmon with vegetables", 480, 38, "19:00"},
	}
	for _, f := range foods {
		if _, err := conn.Exec(ctx,
			"INSERT INTO food_entries (name, calories, protein, date, time) VALUES ($1, $2, $3, $4, $5)",
			f.name, f.calories, f.protein, todayStr, f.time); err != nil {
			fatalf("Error seeding food entry: %v", err)
		}
	}

	// Saved-food templates for quick logging.
	for _, f := range foods[:2] {
		if _, err := conn.Exec(ctx,
			"INSERT INTO saved_foods (name, calories, protein) VALUES ($1, $2, $3)",
			f.name, f.calories, f.protein); err != nil {
			fatalf("Error seeding saved food: %v", err)
		}
	}

	// One completed gym session, started 2 hours ago and finished 30 min ago.
	var sessionID int
	if err := conn.QueryRow(ctx,
		`INSERT INTO gym_sessions (plan, day_type, started_at, completed_at, status)
		 VALUES ($1, $2, $3, $4, 'completed')
		 RETURNING id`,
		"PPL", "Push",
		time.Now().Add(-2*time.Hour), time.Now().Add(-30*time.Minute)).Scan(&sessionID); err != nil {
		fatalf("Error seeding session: %v", err)
	}

	exercises := []struct {
		name string
		sets [3][2]float64 // weight, reps
	}{
		{"Bench Press", [3][2]float64{{80, 8}, {85, 6}, {85, 5}}},
		{"Overhead Press", [3][2]float64{{50, 10}, {55, 8}, {55, 7}}},
		{"Tricep Pushdown", [3][2]float64{{25, 12}, {27.5, 10}, {27.5, 10}}},
	}
	for _, ex := range exercises {
		var exerciseID int
		if err := conn.QueryRow(ctx,
			"INSERT INTO exercises (session_id, name) VALUES ($1, $2) RETURNING id",
			sessionID, ex.name).Scan(&exerciseID); err != nil {
			fatalf("Error seeding exercise: %v", err)
		}
		for i, s := range ex.sets {
			if _, err := conn.Exec(ctx,
				"INSERT INTO exercise_sets (exercise_id, weight, reps, set_number) VALUES ($1, $2, $3, $4)",
				exerciseID, s[0], int(s[1]), i+1); err != nil {
				fatalf("Error seeding set: %v", err)
			}
		}
	}

	fmt.Println("Seed complete:")
	fmt.Println("  user:       demo")
	fmt.Println("  weights:    7")
	fmt.Println("  foods:      4 (+2 saved)")
	fmt.Printf("  session id: %d\n", sessionID)
}
