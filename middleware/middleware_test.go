package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/bookclub-server/config"
	"github.com/vnkhanh/bookclub-server/models"
	"github.com/vnkhanh/bookclub-server/testutil"
	"github.com/vnkhanh/bookclub-server/utils"
)

type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func setup(t *testing.T) models.User {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	config.DB = testutil.NewDB(t)
	return testutil.CreateUser(t, config.DB, "alice")
}

func whoAmI(c *gin.Context) {
	u := CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Username})
}

func bearer(t *testing.T, userID uint) string {
	tok, err := utils.GenerateToken(userID)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthRequired(t *testing.T) {
	alice := setup(t)
	r := gin.New()
	r.GET("/me", AuthRequired(), whoAmI)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no credentials", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"unknown user", bearer(t, 999), http.StatusUnauthorized},
		{"valid", bearer(t, alice.ID), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	alice := setup(t)
	r := gin.New()
	r.GET("/me", OptionalAuth(), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer broken")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, alice.ID))
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user":"alice"}`, w.Body.String())
}

func TestSessionLogin(t *testing.T) {
	alice := setup(t)
	r := gin.New()
	SetUpSessions(r, "session-secret", false)
	r.POST("/login", func(c *gin.Context) {
		require.NoError(t, StartSession(c, alice.ID))
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		require.NoError(t, EndSession(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", AuthRequired(), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"alice"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cleared {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	alice := setup(t)
	deny := &memoryDenylist{revoked: map[string]time.Duration{}}
	Denylist = deny
	t.Cleanup(func() { Denylist = nil })

	r := gin.New()
	r.GET("/me", AuthRequired(), whoAmI)
	r.POST("/logout", AuthRequired(), func(c *gin.Context) {
		require.NoError(t, RevokeCurrentToken(c))
		c.Status(http.StatusNoContent)
	})

	token := bearer(t, alice.ID)
	send := func(method, path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/me"))
	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "/logout"))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "/me"))

	require.Len(t, deny.revoked, 1)
	for _, ttl := range deny.revoked {
		assert.True(t, ttl > 23*time.Hour && ttl <= utils.TokenTTL)
	}
}

func TestCheckRoomHost(t *testing.T) {
	alice := setup(t)
	bob := testutil.CreateUser(t, config.DB, "bob")
	room := models.Room{HostID: &alice.ID, Name: "r"}
	require.NoError(t, config.DB.Create(&room).Error)

	r := gin.New()
	r.PUT("/rooms/:id", AuthRequired(), CheckRoomHost(), func(c *gin.Context) {
		loaded := c.MustGet(CtxRoom).(models.Room)
		c.JSON(http.StatusOK, gin.H{"id": loaded.ID})
	})

	send := func(path string, userID uint) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, path, nil)
		req.Header.Set("Authorization", bearer(t, userID))
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/rooms/1", alice.ID))
	assert.Equal(t, http.StatusForbidden, send("/rooms/1", bob.ID))
	assert.Equal(t, http.StatusNotFound, send("/rooms/77", alice.ID))
	assert.Equal(t, http.StatusBadRequest, send("/rooms/abc", alice.ID))
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewIPRateLimiter(1, 2, time.Minute)
	t.Cleanup(rl.Close)

	r := gin.New()
	r.POST("/login", RateLimitByIP(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimitNilLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimitByIP(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestEvictIdle(t *testing.T) {
	rl := NewIPRateLimiter(10, 1, time.Minute)
	t.Cleanup(rl.Close)

	rl.Allow("10.0.0.1")
	rl.evictIdle(time.Now())
	assert.Len(t, rl.visitors, 1)

	rl.evictIdle(time.Now().Add(2 * time.Minute))
	assert.Empty(t, rl.visitors)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
}
