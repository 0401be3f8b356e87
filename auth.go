package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long issued tokens stay valid.
const tokenTTL = 7 * 24 * time.Hour

// authClaims is the payload carried by every issued token.
type authClaims struct {
	UserID int    `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// signToken issues an HS256 token carrying {userId, role} with a 7-day expiry.
func signToken(secret string, userID int, role string) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseToken verifies signature and expiry and returns the decoded claims.
func parseToken(secret, tokenString string) (*authClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// register creates a new user and returns a token for it.
// POST /auth/register (public). 409 when the username or email is taken.
func (h *Handler) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	_, err := queryOne[user](h, c,
		"SELECT * FROM users WHERE username = @username OR email = @email",
		pgx.NamedArgs{"username": body.Username, "email": body.Email})
	if err == nil {
		apiError(c, http.StatusConflict, "Username or email already taken")
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		h.dbError(c, err, "user not found")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		h.dbError(c, err, "")
		return
	}

	u, err := queryOne[user](h, c,
		`INSERT INTO users (username, email, password_hash)
		 VALUES (@username, @email, @passwordHash)
		 RETURNING *`,
		pgx.NamedArgs{"username": body.Username, "email": body.Email, "passwordHash": string(hash)})
	if err != nil {
		// The unique constraints backstop the existence check above; a racing
		// duplicate insert still surfaces as 409 through dbError.
		h.dbError(c, err, "user not found")
		return
	}

	token, err := signToken(h.cfg.JWTSecret, u.ID, u.Role)
	if err != nil {
		h.dbError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token: token,
		User:  userInfo{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role},
	})
}

// login verifies username/password and returns a fresh token.
// POST /auth/login (public). The failure body never says whether the username
// exists or the password was wrong.
func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	u, lookupErr := queryOne[user](h, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found — prevents timing-based username enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := signToken(h.cfg.JWTSecret, u.ID, u.Role)
	if err != nil {
		h.dbError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token: token,
		User:  userInfo{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role},
	})
}

// me returns the authenticated user's stored profile, goals included.
// GET /auth/me.
func (h *Handler) me(c *gin.Context) {
	userID := c.GetInt("user_id")

	u, err := queryOne[user](h, c,
		"SELECT * FROM users WHERE id = @id", pgx.NamedArgs{"id": userID})
	if err != nil {
		h.dbError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusOK, u)
}

// updateProfile sets or clears the daily calorie/protein goals. A null or
// omitted field clears the stored goal (PUT replaces both).
// PUT /auth/profile.
func (h *Handler) updateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	u, err := queryOne[user](h, c,
		`UPDATE users SET
			daily_calorie_goal = @calorieGoal,
			daily_protein_goal = @proteinGoal
		 WHERE id = @id
		 RETURNING *`,
		pgx.NamedArgs{"id": userID, "calorieGoal": body.DailyCalorieGoal, "proteinGoal": body.DailyProteinGoal})
	if err != nil {
		h.dbError(c, err, "user not found")
		return
	}

	c.JSON(http.StatusOK, u)
}

// authMiddleware validates the Bearer token and sets user_id and role on the
// context for downstream handlers.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "Missing or invalid token")
			c.Abort()
			return
		}

		claims, err := parseToken(h.cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apiError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
