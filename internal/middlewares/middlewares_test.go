package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(debug bool) (*fiber.App, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", "unionhub", time.Hour)
	authn := NewAuthenticator(tokens)
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(debug)})

	echo := func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"id": SubjectID(ctx), "role": GetClaims(ctx).Role})
	}
	app.Get("/admin", authn.RequireAdmin(), echo)
	app.Get("/super", authn.RequireAdmin(model.AdminRoleSuperAdmin), echo)
	app.Get("/member", authn.RequireMember(), echo)
	app.Get("/conflict", func(ctx *fiber.Ctx) error {
		return NewHTTPError(fiber.StatusConflict, "Already done.", errors.New("row exists"))
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("dial tcp: connection refused")
	})
	app.Get("/locked", func(ctx *fiber.Ctx) error {
		return &security.LockedError{Until: time.Now().Add(90 * time.Second)}
	})
	return app, tokens
}

func doRequest(t *testing.T, app *fiber.App, path, token string) (*http.Response, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestRequireAdmin(t *testing.T) {
	app, tokens := newTestApp(false)
	adminToken, _, err := tokens.Issue(auth.KindAdmin, 7, string(model.AdminRoleStaff))
	require.NoError(t, err)
	memberToken, _, err := tokens.Issue(auth.KindMember, 3, "member")
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 7, body["id"])

	resp, _ = doRequest(t, app, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "/admin", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "/admin", memberToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, "/super", adminToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	superToken, _, err := tokens.Issue(auth.KindAdmin, 1, string(model.AdminRoleSuperAdmin))
	require.NoError(t, err)
	resp, _ = doRequest(t, app, "/super", superToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireMember(t *testing.T) {
	app, tokens := newTestApp(false)
	memberToken, _, err := tokens.Issue(auth.KindMember, 3, "member")
	require.NoError(t, err)
	adminToken, _, err := tokens.Issue(auth.KindAdmin, 7, string(model.AdminRoleAdmin))
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/member", memberToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["id"])

	resp, _ = doRequest(t, app, "/member", adminToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app, _ := newTestApp(false)

	resp, body := doRequest(t, app, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error.", body["message"])
	assert.Equal(t, "Internal Server Error", body["error"])

	resp, body = doRequest(t, app, "/conflict", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Already done.", body["message"])
	assert.Equal(t, "Conflict", body["error"])
}

func TestErrorHandlerDebugExposesCause(t *testing.T) {
	app, _ := newTestApp(true)
	_, body := doRequest(t, app, "/boom", "")
	assert.Equal(t, "dial tcp: connection refused", body["error"])
}

func TestErrorHandlerLocked(t *testing.T) {
	app, _ := newTestApp(false)
	resp, body := doRequest(t, app, "/locked", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, "Too many failed login attempts. Please try again later.", body["message"])
}

func TestErrorHandlerNotFoundRoute(t *testing.T) {
	app, _ := newTestApp(false)
	resp, body := doRequest(t, app, "/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Cannot GET /missing", body["message"])
}
