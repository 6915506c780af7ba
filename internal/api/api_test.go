package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/wellnessd/internal/engine"
)

type fakeBridge struct {
	mu      sync.Mutex
	snap    engine.Snapshot
	actions []string
}

func (f *fakeBridge) Latest() engine.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeBridge) Send(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeBridge) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

func serve(t *testing.T, bridge Bridge, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	NewRouter(bridge, nil).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeBridge{}, http.MethodGet, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK\n" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestStatusReturnsLatestSnapshot(t *testing.T) {
	bridge := &fakeBridge{}
	bridge.snap.Day = "2026-03-10"
	bridge.snap.At = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bridge.snap.Hydration.Glasses = 3

	rec := serve(t, bridge, http.MethodGet, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got engine.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Day != "2026-03-10" || got.Hydration.Glasses != 3 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestMachineActionsAreQueued(t *testing.T) {
	bridge := &fakeBridge{}
	paths := map[string]string{
		"/api/screen/start":  "screen.start",
		"/api/screen/pause":  "screen.pause",
		"/api/breaks/now":    "breaks.now",
		"/api/breaks/cancel": "breaks.cancel",
		"/api/water":         "water",
	}
	for path, want := range paths {
		rec := serve(t, bridge, http.MethodPost, path)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("%s: expected 202, got %d", path, rec.Code)
		}
		var body acceptedResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body.Action != want {
			t.Fatalf("%s: expected action %q, got %q", path, want, body.Action)
		}
	}
	if got := len(bridge.sent()); got != len(paths) {
		t.Fatalf("expected %d actions sent, got %d", len(paths), got)
	}
}

func TestUnknownActionsAreRejected(t *testing.T) {
	bridge := &fakeBridge{}
	if rec := serve(t, bridge, http.MethodPost, "/api/lamp/start"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown timer, got %d", rec.Code)
	}
	if rec := serve(t, bridge, http.MethodPost, "/api/screen/explode"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown op, got %d", rec.Code)
	}
	if rec := serve(t, bridge, http.MethodGet, "/api/water"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET water, got %d", rec.Code)
	}
	if len(bridge.sent()) != 0 {
		t.Fatalf("expected nothing sent, got %v", bridge.sent())
	}
}

func TestServerStartAndShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0", BridgeFuncs{
		LatestFunc: func() engine.Snapshot { return engine.Snapshot{} },
		SendFunc:   func(string) {},
	}, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := srv.Shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
