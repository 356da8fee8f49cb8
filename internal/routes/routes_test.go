package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/Kenyi45/seventec-reto/internal/handlers"
	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	stores := repository.NewMemoryStores()
	authSvc := services.NewAuthService(stores.Users, "test-secret", time.Hour)
	postSvc := services.NewPostService(stores, nil)
	storySvc := services.NewStoryService(stores, nil)

	app := fiber.New()
	Register(app, Deps{
		AuthSvc: authSvc,
		Auth:    handlers.NewAuthHandler(authSvc),
		Posts:   handlers.NewPostHandler(postSvc),
		Stories: handlers.NewStoryHandler(storySvc),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, name, email, role string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "supersecret", "role": role,
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func errCode(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	code, _ := e["code"].(string)
	return code
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	status, body := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "Ana Torres", "ana@example.com", "organizer")

	status, body := doJSON(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ana@example.com", body["email"])
	_, exposed := body["password_hash"]
	require.False(t, exposed)

	status, body = doJSON(t, app, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHORIZED", errCode(t, body))

	status, body = doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHORIZED", errCode(t, body))

	status, body = doJSON(t, app, http.MethodPost, "/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["token"])
}

func TestPostRoutesEnforceRoles(t *testing.T) {
	app := newTestApp(t)
	orgToken := register(t, app, "Orla", "orla@example.com", "organizer")
	parToken := register(t, app, "Pablo", "pablo@example.com", "participant")

	status, body := doJSON(t, app, http.MethodPost, "/posts/", parToken, map[string]any{
		"title": "t", "content": "c",
	})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "FORBIDDEN", errCode(t, body))

	status, body = doJSON(t, app, http.MethodPost, "/posts/", orgToken, map[string]any{
		"title": "Keynote", "content": "Doors at 9",
	})
	require.Equal(t, http.StatusCreated, status)
	postID, _ := body["id"].(string)
	require.NotEmpty(t, postID)

	status, body = doJSON(t, app, http.MethodPost, "/posts/"+postID+"/like", orgToken, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodPost, "/posts/"+postID+"/like", parToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["liked"])
	require.Equal(t, float64(1), body["like_count"])

	status, body = doJSON(t, app, http.MethodGet, "/posts/"+postID+"/likes", orgToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodDelete, "/posts/"+postID+"/like", parToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, body["liked"])
	require.Equal(t, float64(0), body["like_count"])

	status, body = doJSON(t, app, http.MethodGet, "/posts/not-an-id", parToken, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_ERROR", errCode(t, body))
}

func TestStoryRoutes(t *testing.T) {
	app := newTestApp(t)
	orgToken := register(t, app, "Orla", "orla2@example.com", "organizer")
	parToken := register(t, app, "Pablo", "pablo2@example.com", "participant")

	status, body := doJSON(t, app, http.MethodPost, "/stories/", orgToken, map[string]any{
		"content": "backstage",
	})
	require.Equal(t, http.StatusCreated, status)
	storyID, _ := body["id"].(string)
	require.NotEmpty(t, storyID)

	status, body = doJSON(t, app, http.MethodGet, "/stories/"+storyID, parToken, nil)
	require.Equal(t, http.StatusOK, status)
	story, _ := body["story"].(map[string]any)
	require.NotNil(t, story)
	require.Equal(t, float64(1), story["views_count"])
	require.Equal(t, float64(23), body["time_remaining_hours"])

	// Editing is author-only and returns the updated story.
	status, body = doJSON(t, app, http.MethodPut, "/stories/"+storyID, parToken, map[string]any{
		"content": "hijacked",
	})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "FORBIDDEN", errCode(t, body))

	status, body = doJSON(t, app, http.MethodPut, "/stories/"+storyID, orgToken, map[string]any{
		"content": "backstage, door B",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "backstage, door B", body["content"])
	authorID, _ := body["author_id"].(string)
	require.NotEmpty(t, authorID)

	status, _ = doJSON(t, app, http.MethodGet, "/stories/author/"+authorID, parToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Viewer listing is author-only.
	status, body = doJSON(t, app, http.MethodGet, "/stories/"+storyID+"/views", parToken, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodGet, "/stories/"+storyID+"/views", orgToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/stories/"+storyID, orgToken, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = doJSON(t, app, http.MethodGet, "/stories/"+storyID, parToken, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", errCode(t, body))
}
