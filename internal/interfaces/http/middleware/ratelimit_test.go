package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter on a clock the test advances.
func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(limit, window)
	t.Cleanup(rl.Stop)
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests beyond the limit", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("ip:10.0.0.1"), "request %d", i+1)
		}
		assert.False(t, rl.Allow("ip:10.0.0.1"))
		assert.Equal(t, 0, rl.Remaining("ip:10.0.0.1"))
	})

	t.Run("keeps a separate budget per key", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 1, time.Minute)
		assert.True(t, rl.Allow("user:u-1"))
		assert.False(t, rl.Allow("user:u-1"))
		assert.True(t, rl.Allow("user:u-2"))
		assert.Equal(t, 1, rl.Remaining("user:u-3"))
	})

	t.Run("refills when the window passes", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 2, time.Minute)
		assert.True(t, rl.Allow("k"))
		assert.True(t, rl.Allow("k"))
		assert.False(t, rl.Allow("k"))

		*clock = clock.Add(time.Minute)
		assert.Equal(t, 2, rl.Remaining("k"))
		assert.True(t, rl.Allow("k"))
		assert.Equal(t, 1, rl.Remaining("k"))
	})

	t.Run("evicts keys idle for two windows", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 2, time.Minute)
		rl.Allow("stale")
		*clock = clock.Add(90 * time.Second)
		rl.Allow("fresh")
		*clock = clock.Add(45 * time.Second)

		rl.evictIdle()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.NotContains(t, rl.clients, "stale")
		assert.Contains(t, rl.clients, "fresh")
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 50, time.Minute)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("sets budget headers and rejects with the error envelope", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 2, time.Minute)
		router := okRouter(RequestID(), RateLimit(rl))

		for remaining := 1; remaining >= 0; remaining-- {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, strconv.Itoa(remaining), w.Header().Get("X-RateLimit-Remaining"))
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, w))
	})

	t.Run("keys authenticated callers by user", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 1, time.Minute)
		asUser := func(id string) gin.HandlerFunc {
			return func(c *gin.Context) {
				if id != "" {
					c.Set(JWTUserIDKey, id)
				}
				c.Next()
			}
		}

		for _, tc := range []struct {
			user string
			want int
		}{
			{"u-1", http.StatusOK},
			{"u-1", http.StatusTooManyRequests},
			{"u-2", http.StatusOK},
			{"", http.StatusOK},
			{"", http.StatusTooManyRequests},
		} {
			w := httptest.NewRecorder()
			okRouter(RequestID(), asUser(tc.user), RateLimit(rl)).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, tc.want, w.Code, "user %q", tc.user)
		}
	})
}
