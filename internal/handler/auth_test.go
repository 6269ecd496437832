package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/taskmate/internal/auth"
	"github.com/sakif/taskmate/internal/handler"
	sqliteRepo "github.com/sakif/taskmate/internal/repository/sqlite"
	"github.com/sakif/taskmate/internal/service"
)

// testApp is the API wired to an in-memory database, served over a real
// listener so cookies round-trip through a jar like in a browser.
type testApp struct {
	srv    *httptest.Server
	client *http.Client
	db     *sqliteRepo.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789", 0)
	require.NoError(t, err)

	authSvc := service.NewAuthService(db, db, db, tokens, auth.NewPasswordServiceForTest(4), logger)
	taxSvc := service.NewTaxonomyService(db, logger)

	authH := handler.NewAuthHandler(authSvc, auth.NewCookieManager(false, tokens.TTL()), logger)
	taxH := handler.NewTaxonomyHandler(taxSvc, logger)
	healthH := handler.NewHealthHandler(db, logger)

	r := chi.NewRouter()
	r.Get("/healthz", healthH.HandleHealth)
	r.Mount("/api/auth", authH.Routes(auth.RequireAuth(tokens)))
	r.Mount("/api/services", taxH.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{srv: srv, client: &http.Client{Jar: jar}, db: db}
}

func (a *testApp) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := a.client.Post(a.srv.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

const janeBody = `{
	"name": "Jane",
	"email": "jane@x.com",
	"password": "pw123456",
	"serviceCategory": "1",
	"serviceSubCategory": "5",
	"yearsOfExperience": "3",
	"workingDays": "weekdays",
	"preferredTime": "",
	"consultationIncluded": true
}`

func TestRegisterCustomer(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/auth/register/customer", `{"name":"Sam","email":"sam@x.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie, "session cookie must be set")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "body: %v", body)
	assert.Equal(t, "sam@x.com", user["email"])
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password")
}

func TestRegisterAliasCreatesCustomer(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/auth/register", `{"name":"Al","email":"al@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	user := decodeBody(t, resp)["user"].(map[string]any)
	assert.Equal(t, "customer", user["role"])
}

func TestRegisterCustomer_Failures(t *testing.T) {
	app := newTestApp(t)
	app.post(t, "/api/auth/register/customer", `{"name":"Dup","email":"dup@x.com","password":"pw"}`)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing password", `{"name":"A","email":"a@x.com"}`, "Please provide all required fields"},
		{"empty body", ``, "Please provide all required fields"},
		{"existing user", `{"name":"Dup","email":"dup@x.com","password":"pw"}`, "User already exists"},
		{"malformed json", `{"name":`, "Invalid request body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := app.post(t, "/api/auth/register/customer", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Nil(t, tokenCookie(resp), "no cookie on failure")
			assert.Equal(t, tc.message, decodeBody(t, resp)["message"])
		})
	}
}

func TestRegisterProvider_StringNumbersFromForm(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/auth/register/provider", janeBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, tokenCookie(resp))

	user := decodeBody(t, resp)["user"].(map[string]any)
	assert.Equal(t, "provider", user["role"])
	assert.Equal(t, "Jane", user["name"])
	assert.Greater(t, user["providerId"].(float64), float64(0))

	again := app.post(t, "/api/auth/register/provider", janeBody)
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
	assert.Equal(t, "User already exists", decodeBody(t, again)["message"])
}

func TestRegisterProvider_JSONNumbers(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/auth/register/provider",
		`{"name":"Num","email":"num@x.com","password":"pw","serviceCategory":2,"serviceSubCategory":6,"yearsOfExperience":null}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRegisterProvider_Rejections(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"no category", `{"name":"P","email":"p@x.com","password":"pw","serviceSubCategory":"5"}`},
		{"blank category", `{"name":"P","email":"p@x.com","password":"pw","serviceCategory":"","serviceSubCategory":"5"}`},
		{"non-numeric category", `{"name":"P","email":"p@x.com","password":"pw","serviceCategory":"plumbing","serviceSubCategory":"5"}`},
		{"subcategory of another category", `{"name":"P","email":"p@x.com","password":"pw","serviceCategory":"1","serviceSubCategory":"6"}`},
		{"negative experience", `{"name":"P","email":"p@x.com","password":"pw","serviceCategory":"1","serviceSubCategory":"5","yearsOfExperience":"-2"}`},
		{"unknown working days", `{"name":"P","email":"p@x.com","password":"pw","serviceCategory":"1","serviceSubCategory":"5","workingDays":"sundays"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := app.post(t, "/api/auth/register/provider", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Nil(t, tokenCookie(resp))
			assert.NotEmpty(t, decodeBody(t, resp)["message"])
		})
	}

	// Nothing above may have left an account behind.
	login := app.post(t, "/api/auth/login", `{"email":"p@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, login.StatusCode)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	reg := app.post(t, "/api/auth/register/customer", `{"name":"Lo","email":"lo@x.com","password":"right"}`)
	regUser := decodeBody(t, reg)["user"].(map[string]any)

	t.Run("success", func(t *testing.T) {
		resp := app.post(t, "/api/auth/login", `{"email":"lo@x.com","password":"right"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, tokenCookie(resp))

		user := decodeBody(t, resp)["user"].(map[string]any)
		assert.Equal(t, regUser["id"], user["id"])
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := app.post(t, "/api/auth/login", `{"email":"lo@x.com","password":"nope"}`)
		unknown := app.post(t, "/api/auth/login", `{"email":"ghost@x.com","password":"right"}`)

		assert.Equal(t, http.StatusBadRequest, wrong.StatusCode)
		assert.Equal(t, wrong.StatusCode, unknown.StatusCode)

		wrongBody, unknownBody := decodeBody(t, wrong), decodeBody(t, unknown)
		assert.Equal(t, "Invalid credentials", wrongBody["message"])
		assert.Equal(t, wrongBody, unknownBody)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := app.post(t, "/api/auth/login", `{"email":"lo@x.com"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Please provide all required fields", decodeBody(t, resp)["message"])
	})
}

func TestMe_RequiresCookie(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, no token", decodeBody(t, resp)["message"])
}

func TestMe_ForgedCookie(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not.a.jwt"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, token failed", decodeBody(t, resp)["message"])
}

func TestSessionLifecycle_Provider(t *testing.T) {
	app := newTestApp(t)

	reg := app.post(t, "/api/auth/register/provider", janeBody)
	require.Equal(t, http.StatusCreated, reg.StatusCode)

	me := app.get(t, "/api/auth/me")
	require.Equal(t, http.StatusOK, me.StatusCode)

	body := decodeBody(t, me)
	assert.Equal(t, "jane@x.com", body["email"])
	assert.Equal(t, "provider", body["role"])
	assert.NotContains(t, body, "passwordHash")

	profile, ok := body["providerProfile"].(map[string]any)
	require.True(t, ok, "body: %v", body)
	assert.Equal(t, float64(3), profile["yearsOfExperience"])
	assert.Equal(t, "weekdays", profile["workingDays"])
	assert.NotContains(t, profile, "preferredTime", "blank select is stored as null")
	assert.Equal(t, "Furniture Assembly", profile["subcategoryName"])
	assert.Equal(t, true, profile["consultationIncluded"])

	out := app.post(t, "/api/auth/logout", ``)
	require.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, "Logged out successfully", decodeBody(t, out)["message"])

	cleared := tokenCookie(out)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	after := app.get(t, "/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestMe_CustomerHasNoProfile(t *testing.T) {
	app := newTestApp(t)
	app.post(t, "/api/auth/register/customer", `{"name":"Cu","email":"cu@x.com","password":"pw"}`)

	me := app.get(t, "/api/auth/me")
	require.Equal(t, http.StatusOK, me.StatusCode)

	body := decodeBody(t, me)
	assert.Equal(t, "customer", body["role"])
	assert.NotContains(t, body, "providerProfile")
}

func TestLogoutWithoutSession(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/api/auth/logout", ``)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
