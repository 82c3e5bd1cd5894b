package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]*models.SessionClaims

func (s stubVerifier) Verify(token string) (*models.SessionClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var verifier = stubVerifier{
	"admin-token":   {UserID: "a1", Role: models.RoleAdmin},
	"student-token": {UserID: "s1", Role: models.RoleStudent},
}

func serve(r *gin.Engine, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func whoAmI(c *gin.Context) {
	claims, ok := Session(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, claims.UserID)
}

func TestJWTRequiresValidToken(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWT(verifier), whoAmI)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "bogus").Code)

	rec := serve(r, http.MethodGet, "/me", "student-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", rec.Body.String())
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	r := gin.New()
	r.GET("/me", OptionalJWT(verifier), whoAmI)

	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/me", "bogus").Body.String())
	assert.Equal(t, "a1", serve(r, http.MethodGet, "/me", "admin-token").Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.POST("/enrollments", JWT(verifier), RequireRoles(models.RoleAdmin, models.RoleTeacher), whoAmI)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/enrollments", "admin-token").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/enrollments", "student-token").Code)
}

type memoryCounter struct {
	counts map[string]int64
	err    error
}

func (m *memoryCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.counts[key]++
	return m.counts[key], 30 * time.Second, nil
}

func TestRateLimitByRole(t *testing.T) {
	counter := &memoryCounter{counts: map[string]int64{}}
	r := gin.New()
	r.Use(OptionalJWT(verifier), RateLimit(counter, time.Minute, nil, nil))
	r.GET("/ping", whoAmI)

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
	}
	rec := serve(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Guest request limit exceeded")

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "admin-token").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/ping", "admin-token").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(&memoryCounter{err: errors.New("redis down")}, time.Minute, nil, nil))
	r.GET("/ping", whoAmI)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)

	r = gin.New()
	r.Use(RateLimit(nil, time.Minute, nil, nil))
	r.GET("/ping", whoAmI)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", "").Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", whoAmI)

	rec := serve(r, http.MethodGet, "/ping", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
