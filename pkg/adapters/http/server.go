// Package http serves the bench state over HTTP.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewHandler creates the read-only status API:
//
//	GET /nodes              every node with its activation
//	GET /parameters         every watched parameter
//	GET /parameters/{name}  one parameter
//	GET /metrics            metrics, when a metrics handler is given
func NewHandler(snap *Snapshot, metrics http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/nodes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, snap.Nodes())
	})
	r.Get("/parameters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, snap.Readings())
	})
	r.Get("/parameters/{name}", func(w http.ResponseWriter, r *http.Request) {
		reading, ok := snap.Reading(chi.URLParam(r, "name"))
		if !ok {
			http.Error(w, "Parameter not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, reading)
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	return enableCORS(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
