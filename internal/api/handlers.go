package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type handlers struct {
	bridge Bridge
	logger *slog.Logger
}

type acceptedResponse struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bridge.Latest())
}

func (h *handlers) water(w http.ResponseWriter, r *http.Request) {
	h.accept(w, "water")
}

func (h *handlers) machine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ops, ok := machineActions[vars["machine"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown timer " + vars["machine"]})
		return
	}
	action, ok := ops[vars["op"]]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unsupported operation " + vars["op"]})
		return
	}
	h.accept(w, action)
}

// accept queues the action. The UI loop applies it, so the response only
// confirms delivery; the outcome shows up in the next status.
func (h *handlers) accept(w http.ResponseWriter, action string) {
	h.bridge.Send(action)
	writeJSON(w, http.StatusAccepted, acceptedResponse{Action: action, Status: "queued"})
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("api request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
