package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront_api/internal/cache"
	"github.com/GTDGit/storefront_api/internal/handler"
	"github.com/GTDGit/storefront_api/internal/middleware"
	"github.com/GTDGit/storefront_api/internal/service"
	"github.com/GTDGit/storefront_api/internal/utils"
)

type testServer struct {
	router *gin.Engine
	tokens *utils.TokenIssuer
}

// newTestServer wires the real router, JWT middleware and Redis-backed auth
// pieces. Services behind the handlers are left nil, so only requests that
// are rejected before reaching a service may be sent.
func newTestServer(t *testing.T, loginLimit int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewRedisClientFromClient(client)

	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	authSvc := service.NewAuthService(nil, tokens, cache.NewTokenDenylist(rc))

	handlers := &Handlers{
		Health:        handler.NewHealthHandler(map[string]handler.Pinger{"redis": rc}),
		Product:       handler.NewProductHandler(nil),
		Configuration: handler.NewConfigurationHandler(nil),
		Auth:          handler.NewAuthHandler(authSvc),
		Favorite:      handler.NewFavoriteHandler(nil),
		Cart:          handler.NewCartHandler(nil),
	}

	router := newRouter([]string{"http://localhost:3000"})
	setupRoutes(router, handlers, middleware.NewJWTMiddleware(authSvc), cache.NewLoginLimiter(rc, loginLimit, time.Minute))
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "192.0.2.10:4000"
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestSetupRoutes_RegistersAPI(t *testing.T) {
	s := newTestServer(t, 5)

	registered := map[string]bool{}
	for _, r := range s.router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /v1/health",
		"POST /v1/auth/register",
		"POST /v1/auth/register/business",
		"POST /v1/auth/login",
		"POST /v1/auth/logout",
		"GET /v1/auth/me",
		"GET /v1/products",
		"GET /v1/products/:id",
		"GET /v1/products/:id/variants",
		"GET /v1/categories",
		"GET /v1/configurations",
		"POST /v1/configurations",
		"POST /v1/configurations/calculate-price",
		"GET /v1/configurations/product/:productId",
		"GET /v1/configurations/:id",
		"PUT /v1/configurations/:id",
		"DELETE /v1/configurations/:id",
		"GET /v1/favorites",
		"POST /v1/favorites",
		"DELETE /v1/favorites/:productId",
		"GET /v1/cart",
		"DELETE /v1/cart",
		"POST /v1/cart/items",
		"PUT /v1/cart/items/:id",
		"DELETE /v1/cart/items/:id",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t, 5)

	for _, path := range []string{"/v1/configurations", "/v1/favorites", "/v1/cart", "/v1/auth/me"} {
		w := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, 401, w.Code, path)
	}
	w := s.do(http.MethodGet, "/v1/cart", "garbage", "")
	assert.Equal(t, 401, w.Code)
}

func TestLogout_RevokedTokenRejected(t *testing.T) {
	s := newTestServer(t, 5)

	token, _, err := s.tokens.GenerateJWT(7, "ana@example.com", "customer")
	require.NoError(t, err)

	w := s.do(http.MethodPost, "/v1/auth/logout", token, "")
	require.Equal(t, 200, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/configurations", token, "")
	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestLogin_RateLimitedPerIP(t *testing.T) {
	s := newTestServer(t, 2)

	// Invalid bodies never reach the service but still count as attempts.
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/v1/auth/login", "", `{}`)
		assert.Equal(t, 400, w.Code)
	}
	w := s.do(http.MethodPost, "/v1/auth/login", "", `{}`)
	assert.Equal(t, 429, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 5)

	w := s.do(http.MethodGet, "/v1/health", "", "")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"connected"`)
}
