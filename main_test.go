package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/status"
	"github.com/taskflow/taskflow-api/internal/tasks"
)

func newTestRouter() http.Handler {
	cfg := config.Config{
		RequestTimeout: 15 * time.Second,
		CORSOrigins:    []string{"*"},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{}))
	return newRouter(cfg, logger, tasks.NewMemoryStore(), status.NewMemoryStore())
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status":"healthy"`) || !strings.Contains(body, `"service":"TaskFlow API"`) {
		t.Errorf("unexpected health body: %s", body)
	}
}

func TestWelcomeEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/api/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Welcome to TaskFlow API") {
		t.Errorf("unexpected welcome body: %s", w.Body.String())
	}
}

func TestTasksMountedUnderAPIPrefix(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(`{"title":"wired"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	// the same route without the prefix must not exist
	req = httptest.NewRequest("GET", "/tasks", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 outside /api, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/tasks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("expected CORS allow-origin header, got none (status %d)", w.Code)
	}
}
