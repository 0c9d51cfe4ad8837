package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/practice-scheduler/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}

	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})

	tests := map[string]struct {
		header string
		want   int
	}{
		"missing":      {"", http.StatusUnauthorized},
		"not bearer":   {"Basic abc", http.StatusUnauthorized},
		"wrong secret": {"Bearer " + signed(t, "other", jwt.MapClaims{"sub": 1, "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		"expired":      {"Bearer " + signed(t, "s3cret", jwt.MapClaims{"sub": 1, "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		"no subject":   {"Bearer " + signed(t, "s3cret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized},
		"valid":        {"Bearer " + signed(t, "s3cret", jwt.MapClaims{"sub": 7, "exp": time.Now().Add(time.Hour).Unix()}), http.StatusOK},
	}

	for name, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d (%s)", name, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatal("origin not echoed")
	}
}

type memLocker struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memLocker) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return redis.NewBoolResult(false, nil)
	}
	m.keys[key] = true
	return redis.NewBoolResult(true, nil)
}

func (m *memLocker) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.keys, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestSubmitGuard(t *testing.T) {
	locker := &memLocker{keys: map[string]bool{}}

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextUserID, uint(1)); c.Next() })
	r.Use(SubmitGuard(locker, time.Minute))
	r.POST("/appointments", func(c *gin.Context) { c.Status(http.StatusCreated) })

	// a request from the same user is still in flight
	locker.keys["submit:1:POST:/appointments"] = true

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/appointments", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	delete(locker.keys, "submit:1:POST:/appointments")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/appointments", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if len(locker.keys) != 0 {
		t.Fatal("lock must be released after the request")
	}
}

func TestSubmitGuard_FailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(SubmitGuard(failingLocker{}, time.Minute))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

type failingLocker struct{}

func (failingLocker) SetNX(context.Context, string, interface{}, time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(false, redis.ErrClosed)
}

func (failingLocker) Del(context.Context, ...string) *redis.IntCmd {
	return redis.NewIntResult(0, nil)
}
