package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
)

// Locker is the subset of the redis client the guard needs.
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SubmitGuard rejects a second mutation on the same route while the first one
// from the same user is still running. Without Redis every request passes;
// Redis errors fail open.
func SubmitGuard(locker Locker, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if locker == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("submit:%d:%s:%s", UserID(c), c.Request.Method, c.Request.URL.Path)

		ok, err := locker.SetNX(ctx, key, 1, ttl).Result()
		if err != nil {
			logging.FromContext(ctx).Warn("submit guard unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			httperr.Conflict(c, "submission_in_progress", "Aguarde, sua solicitação anterior ainda está sendo processada.")
			c.Abort()
			return
		}

		defer func() {
			// the request context may already be cancelled
			_ = locker.Del(context.Background(), key).Err()
		}()

		c.Next()
	}
}
