package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"property-backoffice/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCache_ServesRepeatedGets(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.GET("/report", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/report", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.PUT("/broken", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	first := perform(r, http.MethodGet, "/report")
	second := perform(r, http.MethodGet, "/report")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	// A failed write keeps the cache.
	perform(r, http.MethodPut, "/broken")
	perform(r, http.MethodGet, "/report")
	assert.Equal(t, 1, calls)

	// A successful write flushes it.
	perform(r, http.MethodPost, "/report")
	third := perform(r, http.MethodGet, "/report")
	assert.Equal(t, 2, calls)
	assert.JSONEq(t, `{"calls":2}`, third.Body.String())
}

func TestCache_SkipsErrors(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.GET("/missing", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})

	perform(r, http.MethodGet, "/missing")
	perform(r, http.MethodGet, "/missing")
	assert.Equal(t, 2, calls)
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
	blocked := perform(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))

	// Other clients have their own budget.
	other := perform(r, http.MethodGet, "/", func(req *http.Request) { req.RemoteAddr = "10.0.0.9:1234" })
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestIPRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	l.GetLimiter("10.0.0.1")
	l.GetLimiter("10.0.0.2")
	assert.Equal(t, 2, l.Len())

	now = now.Add(idleLimiterTTL + time.Second)
	l.GetLimiter("10.0.0.2")
	assert.Equal(t, 1, l.Len())
}

func TestRequireSession(t *testing.T) {
	sessions := auth.NewSessions("test-secret", time.Hour)
	token, err := sessions.Issue("owner-1", "owner@example.com", "Owner")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequireSession(sessions, "sid"))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(OwnerIDKey), "email": c.GetString(OwnerEmailKey)})
	})

	testCases := []struct {
		name     string
		mutate   func(*http.Request)
		expected int
	}{
		{name: "no credentials", mutate: func(*http.Request) {}, expected: http.StatusUnauthorized},
		{name: "bearer header", mutate: func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, expected: http.StatusOK},
		{name: "session cookie", mutate: func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "sid", Value: token}) }, expected: http.StatusOK},
		{name: "tampered token", mutate: func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token+"x") }, expected: http.StatusUnauthorized},
		{name: "wrong scheme", mutate: func(req *http.Request) { req.Header.Set("Authorization", "Basic "+token) }, expected: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(r, http.MethodGet, "/me", tc.mutate)
			assert.Equal(t, tc.expected, w.Code)
			if tc.expected == http.StatusOK {
				assert.JSONEq(t, `{"id":"owner-1","email":"owner@example.com"}`, w.Body.String())
			}
		})
	}
}

func TestRequestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	perform(r, http.MethodGet, "/ok")
	perform(r, http.MethodGet, "/bad")
	perform(r, http.MethodGet, "/boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
}
