package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/taskmate/internal/auth"
	"github.com/sakif/taskmate/internal/config"
)

func newTestServer(t *testing.T, env string) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Env = env
	cfg.Database.Path = ":memory:"
	cfg.Auth.JWTSecret = "server-test-secret-0123456789"
	cfg.Auth.BcryptCost = 4
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := New(&cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, "test")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestServer_RoutesMounted(t *testing.T) {
	s := newTestServer(t, "test")

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/services/categories", http.StatusOK},
		{http.MethodGet, "/api/services/categories/1/subcategories", http.StatusOK},
		{http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/auth/logout", http.StatusOK},
		{http.MethodGet, "/api/auth/login", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/bookings", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestServer_CookieSecureInProduction(t *testing.T) {
	for env, secure := range map[string]bool{"production": true, "development": false} {
		t.Run(env, func(t *testing.T) {
			s := newTestServer(t, env)

			body := bytes.NewBufferString(`{"name":"Sec","email":"sec@x.com","password":"pw"}`)
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register/customer", body))
			require.Equal(t, http.StatusCreated, rr.Code)

			var token *http.Cookie
			for _, c := range rr.Result().Cookies() {
				if c.Name == auth.CookieName {
					token = c
				}
			}
			require.NotNil(t, token)
			assert.Equal(t, secure, token.Secure)
			assert.True(t, token.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, token.SameSite)
		})
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t, "test")

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestNew_BadSecret(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	cfg.Auth.JWTSecret = "short"

	_, err := New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
