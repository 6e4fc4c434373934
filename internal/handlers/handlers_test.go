package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/super-gamer/apiserver/config"
	"github.com/super-gamer/apiserver/internal/kv"
	"github.com/super-gamer/apiserver/internal/seed"
	"github.com/super-gamer/apiserver/internal/services"
	"github.com/super-gamer/apiserver/internal/store/local"
	"github.com/super-gamer/apiserver/types"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	memStore := kv.NewMemStore()
	userService := services.NewUserService(local.NewUserRepository(memStore))
	itemRepo := local.NewItemRepository(memStore)
	itemService := services.NewItemService(itemRepo)
	commentService := services.NewCommentService(local.NewCommentRepository(memStore), itemRepo)

	require.NoError(t, seed.Admin(context.Background(), userService, config.AdminConfig{
		Email:    "admin@supergamer.com",
		Password: "admin",
		Name:     "Administrator",
	}))

	logger := zap.NewNop()
	authMiddleware := RequireAuth(testSecret)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testSecret)
	})
	router.Route("/items", func(r chi.Router) {
		ItemRouter(r, itemService, userService, nil, nil, logger, authMiddleware)
	})
	router.Route("/comments", func(r chi.Router) {
		CommentRouter(r, commentService, userService, nil, logger, authMiddleware)
	})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func loginAs(t *testing.T, router http.Handler, email, password string) (string, types.User) {
	t.Helper()

	status, body := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.User
}

func registerUser(t *testing.T, router http.Handler, email, password, name string) (string, types.User) {
	t.Helper()

	status, body := doRequest(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.AccessToken, resp.User
}

func TestRegisterLoginMe(t *testing.T) {
	router := newTestRouter(t)

	token, user := registerUser(t, router, "alex@example.com", "hunter2", "Alex")
	require.Equal(t, types.RoleUser, user.Role)
	require.NotEmpty(t, user.ID)

	status, body := doRequest(t, router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var me types.User
	require.NoError(t, json.Unmarshal(body, &me))
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "alex@example.com", me.Email)

	// The password hash never leaves the server.
	require.NotContains(t, string(body), "password")

	loginToken, _ := loginAs(t, router, "alex@example.com", "hunter2")
	require.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "alex@example.com", "hunter2", "Alex")

	status, _ := doRequest(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "alex@example.com",
		"password": "other",
		"name":     "Impostor",
	})
	require.Equal(t, http.StatusConflict, status)

	// The original registration still logs in.
	loginAs(t, router, "alex@example.com", "hunter2")
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@supergamer.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := issueToken("user-123", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	subject, err := parseTokenSubject(token, []byte(testSecret))
	require.NoError(t, err)
	require.Equal(t, "user-123", subject)

	_, err = parseTokenSubject(token, []byte("other-secret"))
	require.Error(t, err)

	_, err = parseTokenSubject("not-a-token", []byte(testSecret))
	require.Error(t, err)
}

func TestInvalidTokenRejected(t *testing.T) {
	router := newTestRouter(t)

	for _, token := range []string{"garbage", "", "eyJhbGciOiJub25lIn0.e30."} {
		status, _ := doRequest(t, router, http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	}

	// A token signed with the right secret but an unknown subject
	// resolves to no user.
	forged, err := issueToken("no-such-user", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	status, _ := doRequest(t, router, http.MethodGet, "/auth/me", forged, nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestItemMutationsRequireAdmin(t *testing.T) {
	router := newTestRouter(t)

	userToken, _ := registerUser(t, router, "alex@example.com", "hunter2", "Alex")
	payload := map[string]string{"title": "Halo", "category": types.CategoryGames}

	status, _ := doRequest(t, router, http.MethodPost, "/items", userToken, payload)
	require.Equal(t, http.StatusForbidden, status)
	status, _ = doRequest(t, router, http.MethodPut, "/items/some-id", userToken, payload)
	require.Equal(t, http.StatusForbidden, status)
	status, _ = doRequest(t, router, http.MethodDelete, "/items/some-id", userToken, nil)
	require.Equal(t, http.StatusForbidden, status)

	// Anonymous callers are rejected before the role check.
	status, _ = doRequest(t, router, http.MethodPost, "/items", "", payload)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestListItemsRejectsUnknownCategory(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/items", "/items?category=movies"} {
		status, _ := doRequest(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusBadRequest, status)
	}
}

func TestAdminItemLifecycle(t *testing.T) {
	router := newTestRouter(t)

	adminToken, admin := loginAs(t, router, "admin@supergamer.com", "admin")
	require.Equal(t, types.RoleAdmin, admin.Role)

	status, body := doRequest(t, router, http.MethodPost, "/items", adminToken, map[string]string{
		"title":         "Halo",
		"description":   "Sci-fi FPS",
		"official_link": "https://halo.example",
		"category":      types.CategoryGames,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var item types.Item
	require.NoError(t, json.Unmarshal(body, &item))
	require.NotEmpty(t, item.ID)

	// The item lists under its own category only.
	status, body = doRequest(t, router, http.MethodGet, "/items?category=games", "", nil)
	require.Equal(t, http.StatusOK, status)
	var games []types.Item
	require.NoError(t, json.Unmarshal(body, &games))
	require.Len(t, games, 1)
	require.Equal(t, "Halo", games[0].Title)

	status, body = doRequest(t, router, http.MethodGet, "/items?category=heroes", "", nil)
	require.Equal(t, http.StatusOK, status)
	var heroes []types.Item
	require.NoError(t, json.Unmarshal(body, &heroes))
	require.Empty(t, heroes)

	// Shallow merge keeps fields the patch leaves out.
	status, body = doRequest(t, router, http.MethodPut, "/items/"+item.ID, adminToken, map[string]string{
		"description": "Sci-fi FPS series",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var updated types.Item
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "Halo", updated.Title)
	require.Equal(t, "Sci-fi FPS series", updated.Description)

	// Comments list newest-first.
	commentsURL := fmt.Sprintf("/comments?item_id=%s&category=games", item.ID)
	for _, text := range []string{"Great game", "Still great"} {
		status, body = doRequest(t, router, http.MethodPost, "/comments", adminToken, map[string]string{
			"item_id": item.ID,
			"text":    text,
		})
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body = doRequest(t, router, http.MethodGet, commentsURL, "", nil)
	require.Equal(t, http.StatusOK, status)
	var comments []types.Comment
	require.NoError(t, json.Unmarshal(body, &comments))
	require.Len(t, comments, 2)
	require.Equal(t, "Still great", comments[0].Text)
	require.Equal(t, "Great game", comments[1].Text)
	require.Equal(t, admin.Name, comments[0].UserName)

	// Delete cascades to the comments.
	status, _ = doRequest(t, router, http.MethodDelete, "/items/"+item.ID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = doRequest(t, router, http.MethodGet, "/items/"+item.ID, "", nil)
	require.Equal(t, http.StatusNotFound, status)

	status, body = doRequest(t, router, http.MethodGet, "/items?category=games", "", nil)
	require.Equal(t, http.StatusOK, status)
	games = nil
	require.NoError(t, json.Unmarshal(body, &games))
	require.Empty(t, games)

	status, body = doRequest(t, router, http.MethodGet, commentsURL, "", nil)
	require.Equal(t, http.StatusOK, status)
	comments = nil
	require.NoError(t, json.Unmarshal(body, &comments))
	require.Empty(t, comments)
}

func TestCreateCommentValidation(t *testing.T) {
	router := newTestRouter(t)

	adminToken, _ := loginAs(t, router, "admin@supergamer.com", "admin")

	status, body := doRequest(t, router, http.MethodPost, "/items", adminToken, map[string]string{
		"title":    "Halo",
		"category": types.CategoryGames,
	})
	require.Equal(t, http.StatusCreated, status)
	var item types.Item
	require.NoError(t, json.Unmarshal(body, &item))

	// Whitespace-only text is rejected server-side, not just in the UI.
	status, _ = doRequest(t, router, http.MethodPost, "/comments", adminToken, map[string]string{
		"item_id": item.ID,
		"text":    "   ",
	})
	require.Equal(t, http.StatusBadRequest, status)

	// Commenting on a missing item fails cleanly.
	status, _ = doRequest(t, router, http.MethodPost, "/comments", adminToken, map[string]string{
		"item_id": "no-such-item",
		"text":    "hello",
	})
	require.Equal(t, http.StatusNotFound, status)

	// Anonymous users cannot comment.
	status, _ = doRequest(t, router, http.MethodPost, "/comments", "", map[string]string{
		"item_id": item.ID,
		"text":    "hello",
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestUploadImageUnconfigured(t *testing.T) {
	router := newTestRouter(t)

	adminToken, _ := loginAs(t, router, "admin@supergamer.com", "admin")

	status, body := doRequest(t, router, http.MethodPost, "/items", adminToken, map[string]string{
		"title":    "Halo",
		"category": types.CategoryGames,
	})
	require.Equal(t, http.StatusCreated, status)
	var item types.Item
	require.NoError(t, json.Unmarshal(body, &item))

	req := httptest.NewRequest(http.MethodPost, "/items/"+item.ID+"/image", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
