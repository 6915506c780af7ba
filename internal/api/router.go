package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sandeepkv93/wellnessd/internal/engine"
)

// Bridge connects the HTTP surface to the running dashboard. Latest must be
// safe to call from any goroutine; Send hands an action to the UI loop,
// which is the only place timer state is mutated.
type Bridge interface {
	Latest() engine.Snapshot
	Send(action string)
}

// BridgeFuncs adapts two plain functions to Bridge.
type BridgeFuncs struct {
	LatestFunc func() engine.Snapshot
	SendFunc   func(action string)
}

func (b BridgeFuncs) Latest() engine.Snapshot { return b.LatestFunc() }

func (b BridgeFuncs) Send(action string) { b.SendFunc(action) }

var machineActions = map[string]map[string]string{
	"screen": {
		"start": "screen.start",
		"pause": "screen.pause",
		"reset": "screen.reset",
	},
	"breaks": {
		"start":  "breaks.start",
		"stop":   "breaks.stop",
		"now":    "breaks.now",
		"cancel": "breaks.cancel",
	},
}

func NewRouter(bridge Bridge, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{bridge: bridge, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			logger.Debug("health write failed", "error", err)
		}
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", h.status).Methods(http.MethodGet)
	api.HandleFunc("/water", h.water).Methods(http.MethodPost)
	api.HandleFunc("/{machine}/{op}", h.machine).Methods(http.MethodPost)
	api.Use(h.logRequests)
	return r
}
