package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-address-dispatch/config"
	"github.com/oksasatya/go-address-dispatch/internal/container"
	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/infrastructure/memory"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
	"github.com/oksasatya/go-address-dispatch/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type testApp struct {
	t         *testing.T
	engine    *gin.Engine
	addresses *memory.AddressRepository
}

func newTestApp(t *testing.T, prefix string) *testApp {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	addresses := memory.NewAddressRepository(
		entity.Address{ID: "a1", Street: "Karl-Marx-Allee", City: "Berlin", Flats: 48, CreatedAt: base},
		entity.Address{ID: "a2", Street: "Reeperbahn", City: "Hamburg", Flats: 12, CreatedAt: base.Add(time.Hour)},
		entity.Address{ID: "a3", Street: "Zeil", City: "Frankfurt am Main", Flats: 40, CreatedAt: base.Add(2 * time.Hour)},
	)
	c := &container.Container{
		Config: &config.Config{
			APIPrefix:          prefix,
			CORSAllowedOrigins: "*",
			MetricsEnabled:     true,
		},
		Logger:    helpers.NewNopLogger(),
		JWT:       helpers.NewJWTManager("test-secret", time.Hour),
		Users:     memory.NewUserRepository(),
		Addresses: addresses,
	}
	c.Wire()
	return &testApp{t: t, engine: NewEngine(c), addresses: addresses}
}

func (a *testApp) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *testApp) login(email, password string, isAdmin bool) string {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/register", "", map[string]any{"name": "x", "email": email, "password": password, "is_admin": isAdmin})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	w, body := a.do(http.MethodPost, "/login", "", map[string]any{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestScenario_RegisterLogin(t *testing.T) {
	app := newTestApp(t, "")

	w, body := app.do(http.MethodPost, "/register", "", map[string]any{"name": "Alice", "email": "alice@example.com", "password": "s3cret-pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true}, body)

	w, body = app.do(http.MethodPost, "/login", "", map[string]any{"email": "alice@example.com", "password": "s3cret-pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password")

	w, body = app.do(http.MethodPost, "/login", "", map[string]any{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "token")

	w, body = app.do(http.MethodPost, "/login", "", map[string]any{"email": "nobody@example.com", "password": "s3cret-pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, body, "token")

	w, body = app.do(http.MethodGet, "/addresses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no credential supplied", body["error"])
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t, "")

	w, body := app.do(http.MethodPost, "/register", "", map[string]any{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := body["details"].(map[string]any)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "is required", details["password"])

	app.login("dup@example.com", "pw", false)
	w, _ = app.do(http.MethodPost, "/register", "", map[string]any{"email": "dup@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddresses_ListAndTransition(t *testing.T) {
	app := newTestApp(t, "")
	admin := app.login("admin@example.com", "pw", true)
	worker := app.login("worker@example.com", "pw", false)

	w, body := app.do(http.MethodGet, "/addresses", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["total"])
	assert.Len(t, body["data"], 3)

	w, body = app.do(http.MethodGet, "/addresses", worker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["total"])
	assert.Equal(t, []any{}, body["data"])

	w, body = app.do(http.MethodPut, "/addresses/a2", worker, map[string]any{"status": "assigned"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, body["assigned_to"])
	assert.NotNil(t, body["assigned_at"])
	assert.Nil(t, body["completed_at"])

	w, body = app.do(http.MethodGet, "/addresses?status=assigned", worker, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])

	w, body = app.do(http.MethodPut, "/addresses/a2", worker, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, body["completed_at"])
	assert.NotNil(t, body["assigned_to"])

	w, _ = app.do(http.MethodPut, "/addresses/a2", worker, map[string]any{"status": "pending"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(http.MethodPut, "/addresses/a1", admin, map[string]any{"status": "assigned"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodPut, "/addresses/a1", worker, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(http.MethodPut, "/addresses/missing", admin, map[string]any{"status": "assigned"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddresses_TransitionEmptyBody(t *testing.T) {
	app := newTestApp(t, "")
	admin := app.login("admin@example.com", "pw", true)

	w, _ := app.do(http.MethodPut, "/addresses/a1", admin, map[string]any{"status": "assigned"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := app.do(http.MethodPut, "/addresses/a1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, body["assigned_to"])
	assert.Nil(t, body["assigned_at"])
	assert.Nil(t, body["completed_at"])

	req := httptest.NewRequest(http.MethodPut, "/addresses/a1", strings.NewReader(`{"status":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "truncated json is still rejected")
}

func TestAddresses_QueryValidation(t *testing.T) {
	app := newTestApp(t, "")
	tok := app.login("q@example.com", "pw", true)

	for _, q := range []string{"min_flats=abc", "page=-1", "limit=x", "status=archived", "min_flats=-1"} {
		w, body := app.do(http.MethodGet, "/addresses?"+q, tok, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.NotEmpty(t, body["error"], q)
	}

	w, body := app.do(http.MethodGet, "/addresses?city=Berlin&min_flats=48&page=1&limit=1", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])
}

func TestStats(t *testing.T) {
	app := newTestApp(t, "")
	tok := app.login("s@example.com", "pw", true)

	w, body := app.do(http.MethodGet, "/stats", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["total"])
	assert.Equal(t, map[string]any{"Berlin": 1.0, "Hamburg": 1.0, "Frankfurt am Main": 1.0}, body["byCity"])
	assert.Equal(t, map[string]any{"pending": 3.0, "assigned": 0.0, "completed": 0.0}, body["statusCounts"])

	w, _ = app.do(http.MethodGet, "/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicFeed(t *testing.T) {
	app := newTestApp(t, "")

	req := httptest.NewRequest(http.MethodGet, "/public/addresses", nil)
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []entity.Address
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a3", "a2", "a1"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})

	req = httptest.NewRequest(http.MethodGet, "/public/addresses?city=Nowhere", nil)
	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSearchAndExport_Degraded(t *testing.T) {
	app := newTestApp(t, "")
	admin := app.login("e@example.com", "pw", true)
	user := app.login("u@example.com", "pw", false)

	w, _ := app.do(http.MethodGet, "/addresses/search", user, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(http.MethodGet, "/addresses/search?q=allee", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w, _ = app.do(http.MethodPost, "/addresses/export", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(http.MethodPost, "/addresses/export", admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, "")

	for _, path := range []string{"/health", "/test"} {
		w, body := app.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"status": "ok"}, body)
	}

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "address_dispatch_http_requests_total")
}

func TestAPIPrefix(t *testing.T) {
	app := newTestApp(t, "/api/")

	w, _ := app.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route not found", body["error"])
}
