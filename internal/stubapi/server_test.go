package stubapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dastanbekov/jumushtap1/internal/config"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	app, err := New(config.StubConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLDays:   30,
		BcryptCost:            bcrypt.MinCost,
		SeedDemoUsers:         true,
	}, zap.NewNop())
	require.NoError(t, err)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestStub_HealthLive(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStub_LoginIssuesPair(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	resp, raw := postJSON(t, app, "/api/v1/auth/login/", `{"email":"worker@example.com","password":"pass"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body["access"])
	require.NotEmpty(t, body["refresh"])
}

func TestStub_LoginFailureUsesDetail(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	resp, raw := postJSON(t, app, "/api/v1/auth/login/", `{"email":"worker@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Login failed"}`, string(raw))
}

func TestStub_RegisterValidation(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	resp, raw := postJSON(t, app, "/api/v1/auth/register/", `{"email":"x@example.com"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var fieldErrors map[string][]string
	require.NoError(t, json.Unmarshal(raw, &fieldErrors))
	require.Contains(t, fieldErrors, "password")
	require.Contains(t, fieldErrors, "phone")
	require.Contains(t, fieldErrors, "user_type")
}

func TestStub_RegisterWorkerRequiresFullName(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	resp, raw := postJSON(t, app, "/api/v1/auth/register/",
		`{"email":"w2@example.com","password":"pass","phone":"+77010000020","user_type":"worker","profile":{}}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var fieldErrors map[string][]string
	require.NoError(t, json.Unmarshal(raw, &fieldErrors))
	require.Contains(t, fieldErrors, "full_name")
}

func TestStub_MeRequiresBearer(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStub_RefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	app := newApp(t)
	_, raw := postJSON(t, app, "/api/v1/auth/login/", `{"email":"worker@example.com","password":"pass"}`)

	var pair map[string]string
	require.NoError(t, json.Unmarshal(raw, &pair))

	// An access token must not pass the refresh endpoint's type check.
	resp, _ := postJSON(t, app, "/api/v1/auth/token/refresh/", `{"refresh":"`+pair["access"]+`"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
