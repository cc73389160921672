package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/policy"
	"github.com/yeremiapane/foodhub/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, userID uint, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, string(role))
	require.NoError(t, err)
	return token
}

func principalHandler(c *gin.Context) {
	userID, role, ok := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role, "ok": ok})
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), principalHandler)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/me", "not-a-token").Code)

	w := serve(r, "GET", "/me", tokenFor(t, 7, models.RoleCustomer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"CUSTOMER"`)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), principalHandler)

	token := tokenFor(t, 8, models.RoleCustomer)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/me", token).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/cart", OptionalAuth(), principalHandler)

	w := serve(r, "GET", "/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	w = serve(r, "GET", "/cart", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	w = serve(r, "GET", "/cart", tokenFor(t, 3, models.RoleStaff))
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestAuthorize(t *testing.T) {
	r := gin.New()
	r.PATCH("/orders/:id/status", AuthMiddleware(), Authorize(policy.ResourceOrderStatus, policy.ActionUpdate), principalHandler)

	tests := []struct {
		name string
		role models.Role
		want int
	}{
		{"customer is unauthorized", models.RoleCustomer, http.StatusUnauthorized},
		{"staff allowed", models.RoleStaff, http.StatusOK},
		{"admin allowed", models.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, "PATCH", "/orders/1/status", tokenFor(t, 1, tt.role))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	bare := gin.New()
	bare.GET("/x", Authorize(policy.ResourceOrder, policy.ActionRead), principalHandler)
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "GET", "/x", "").Code)
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/ws", WebSocketAuthMiddleware(), principalHandler)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/ws", "").Code)
	w := serve(r, "GET", "/ws?token="+tokenFor(t, 4, models.RoleCustomer), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":4`)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, 60)
	r := gin.New()
	r.Use(limiter.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	assert.Equal(t, http.StatusOK, serve(r, "GET", "/ping", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/ping", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "GET", "/ping", "").Code)
}

func TestStrictRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewStrictRateLimiter().RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, serve(r, "POST", "/login", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "POST", "/login", "").Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "GET", "/ping", "")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "plain http")
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w = serve(r, "GET", "/cart", "")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = serve(r, "GET", "/ping", "some-token")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}

func TestCORSMiddlewares(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddlewares([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSMiddlewaresOriginLists(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{"empty list falls back to default", nil, "http://localhost:3000", true},
		{"blank entries fall back to default", []string{"", "  "}, "http://localhost:3000", true},
		{"default does not allow others", nil, "http://evil.example", false},
		{"malformed entry is skipped", []string{"localhost:4000", "https://app.example"}, "https://app.example", true},
		{"wildcard allows any origin", []string{"*"}, "https://anything.example", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r *gin.Engine
			require.NotPanics(t, func() {
				r = gin.New()
				r.Use(CORSMiddlewares(tt.origins))
				r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
			})

			w := preflight(r, tt.origin)
			if tt.allowed {
				assert.Equal(t, http.StatusNoContent, w.Code)
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code)
			}
		})
	}
}
