//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/super-gamer/apiserver/config"
	"github.com/super-gamer/apiserver/internal/server"
	"github.com/super-gamer/apiserver/types"
	"go.uber.org/zap"
)

const serverPort = 18080

var baseURL = fmt.Sprintf("http://localhost:%d", serverPort)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dataDir, err := os.MkdirTemp("", "supergamer-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create data dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dataDir)

	os.Setenv("STORE_BACKEND", config.StoreBackendLocal)
	os.Setenv("STORE_LOCAL_PATH", dataDir)
	os.Setenv("JWT_SECRET", "e2e-secret")
	os.Setenv("SERVER_PORT", fmt.Sprint(serverPort))

	cfg := config.LoadConfig()
	srv, err := server.New(ctx, cfg, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		}
	}()

	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		_ = srv.Shutdown()
		os.Exit(1)
	}

	code := m.Run()

	_ = srv.Shutdown()
	os.Exit(code)
}

func TestItemLifecycle(t *testing.T) {
	adminToken := login(t, "admin@supergamer.com", "admin")

	item := struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
	}{}
	status, body := call(t, http.MethodPost, "/items", adminToken, map[string]string{
		"title":         "Halo",
		"description":   "Sci-fi FPS",
		"official_link": "https://halo.example",
		"category":      types.CategoryGames,
	})
	if status != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d: %s", status, body)
	}
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.ID == "" {
		t.Fatalf("expected item ID to be set")
	}

	status, body = call(t, http.MethodGet, "/items?category=games", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list games: expected 200, got %d", status)
	}
	var games []json.RawMessage
	if err := json.Unmarshal(body, &games); err != nil {
		t.Fatalf("decode games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	status, _ = call(t, http.MethodPost, "/comments", adminToken, map[string]string{
		"item_id": item.ID,
		"text":    "Great game",
	})
	if status != http.StatusCreated {
		t.Fatalf("create comment: expected 201, got %d", status)
	}

	status, _ = call(t, http.MethodDelete, "/items/"+item.ID, adminToken, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete item: expected 204, got %d", status)
	}

	status, body = call(t, http.MethodGet, fmt.Sprintf("/comments?item_id=%s&category=games", item.ID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d", status)
	}
	var comments []json.RawMessage
	if err := json.Unmarshal(body, &comments); err != nil {
		t.Fatalf("decode comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected comments to cascade with the item, got %d", len(comments))
	}
}

func TestNonAdminForbidden(t *testing.T) {
	status, body := call(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    fmt.Sprintf("user_%d@example.com", time.Now().UnixNano()),
		"password": "testpass123!",
		"name":     "Test User",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", status, body)
	}
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("decode auth: %v", err)
	}

	status, _ = call(t, http.MethodPost, "/items", auth.AccessToken, map[string]string{
		"title":    "Nope",
		"category": types.CategoryGames,
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin create, got %d", status)
	}
}

func login(t *testing.T, email, password string) string {
	t.Helper()

	status, body := call(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", status, body)
	}
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("decode auth: %v", err)
	}
	return auth.AccessToken
}

func call(t *testing.T, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}

func waitForHealth(ctx context.Context, url string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			resp, err := http.Get(url)
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
	}
}
