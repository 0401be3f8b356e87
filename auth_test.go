package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

// makeToken signs a token with an arbitrary expiry, used to build expired
// tokens that signToken itself would never issue.
func makeToken(t *testing.T, secret string, userID int, role string, expiresAt time.Time) string {
	t.Helper()
	claims := authClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return s
}

// setupAuthTest returns a router with a protected route that echoes the
// identity the middleware attached. No DB involved — the middleware only
// parses the token.
func setupAuthTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{cfg: Config{JWTSecret: testSecret}}
	router := gin.New()
	router.GET("/protected", h.authMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id"), "role": c.GetString("role")})
	})
	return router
}

func doProtectedRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

/* ─── Token round-trip tests ─────────────────────────────────────────── */

// TestSignToken_RoundTrip verifies that a signed token decodes back to the
// same {userId, role} and carries a 7-day expiry.
func TestSignToken_RoundTrip(t *testing.T) {
	token, err := signToken(testSecret, 42, "user")
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}

	claims, err := parseToken(testSecret, token)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want \"user\"", claims.Role)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < tokenTTL-time.Minute || remaining > tokenTTL {
		t.Errorf("token expiry %v from now, want ~%v", remaining, tokenTTL)
	}
}

// TestParseToken_WrongSecret verifies that a token signed with a different
// secret is rejected.
func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := signToken("other-secret", 1, "user")
	if _, err := parseToken(testSecret, token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

// TestParseToken_Tampered verifies that flipping a signature byte invalidates
// the token.
func TestParseToken_Tampered(t *testing.T) {
	token, _ := signToken(testSecret, 1, "user")
	last := token[len(token)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)
	if _, err := parseToken(testSecret, tampered); err == nil {
		t.Error("expected error for tampered token")
	}
}

// TestParseToken_Expired verifies that an expired token is rejected.
func TestParseToken_Expired(t *testing.T) {
	token := makeToken(t, testSecret, 1, "user", time.Now().Add(-time.Hour))
	if _, err := parseToken(testSecret, token); err == nil {
		t.Error("expected error for expired token")
	}
}

/* ─── Request validation tests ───────────────────────────────────────── */

// TestRegister_Validation verifies the 400 paths for registration: username
// length, email shape, password length. Binding fails before any query, so the
// handler needs no DB.
func TestRegister_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	cases := []struct {
		name string
		path string
		body string
	}{
		{"short username", "/auth/register", `{"username":"ab","email":"a@b.com","password":"secret1"}`},
		{"bad email", "/auth/register", `{"username":"demo","email":"not-an-email","password":"secret1"}`},
		{"short password", "/auth/register", `{"username":"demo","email":"a@b.com","password":"abc"}`},
		{"login missing password", "/auth/login", `{"username":"demo"}`},
		{"login missing username", "/auth/login", `{"password":"secret1"}`},
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

/* ─── Middleware tests ───────────────────────────────────────────────── */

// TestAuthMiddleware_ValidToken verifies that a good token reaches the handler
// with the decoded identity on the context.
func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := setupAuthTest()
	token, _ := signToken(testSecret, 7, "admin")

	w := doProtectedRequest(router, "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		UserID int    `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.UserID != 7 || resp.Role != "admin" {
		t.Errorf("context identity = {%d %q}, want {7 \"admin\"}", resp.UserID, resp.Role)
	}
}

// TestAuthMiddleware_Rejections verifies the 401 paths: no header, a header
// without the Bearer scheme, garbage, and an expired token.
func TestAuthMiddleware_Rejections(t *testing.T) {
	router := setupAuthTest()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + makeToken(t, testSecret, 1, "user", time.Now().Add(-time.Minute))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doProtectedRequest(router, tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}
