// Package api serves the heat map over HTTP.
// GET endpoints are public (read-only observation for the renderer).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talgya/rackheat/internal/engine"
	"github.com/talgya/rackheat/internal/persistence"
	"github.com/talgya/rackheat/internal/thermal"
)

// Server serves the floor layout and thermal snapshots over HTTP.
type Server struct {
	Mon      *engine.Monitor
	Eng      *engine.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string          // Bearer token for POST endpoints. Empty = POST disabled.
	Mapping  thermal.Mapping // Color mapping family for rendered payloads.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.routes()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// routes builds the handler tree. Split out of Start so tests can serve it
// through httptest.
func (s *Server) routes() http.Handler {
	// The floor snapshot is the big payload (thousands of vertices) — cap
	// how often a single client can pull it.
	floorLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/racks", s.handleRacks)
	mux.HandleFunc("/api/v1/heatmap/racks", s.handleHeatmapRacks)
	mux.HandleFunc("/api/v1/heatmap/floor", RateLimitMiddleware(floorLimiter, s.handleHeatmapFloor))
	mux.HandleFunc("/api/v1/legend", s.handleLegend)

	// Mixed and admin endpoints: GET passes through, POST needs the token.
	mux.HandleFunc("/api/v1/emitters", s.adminOnly(s.handleEmitters))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	// Prometheus.
	mux.Handle("/metrics", promhttp.Handler())

	return corsMiddleware(mux)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no RACKHEAT_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":     "rackheat",
		"tick":     s.Eng.Tick,
		"speed":    s.Eng.Speed,
		"running":  s.Eng.Running,
		"racks":    len(s.Mon.Racks()),
		"emitters": len(s.Mon.Emitters()),
		"floor":    s.Mon.Floor,
		"mapping":  s.Mapping.String(),
	}
	if !s.Mon.LastComputed().IsZero() {
		status["computed_at"] = s.Mon.LastComputed()
		status["snapshot_age_ms"] = time.Since(s.Mon.LastComputed()).Milliseconds()
	}
	writeJSON(w, status)
}

// handleRacks returns the rack layout joined with the latest normalized
// heat — one entry per rack, same order as the layout.
func (s *Server) handleRacks(w http.ResponseWriter, r *http.Request) {
	type rackEntry struct {
		ID    string    `json:"id"`
		Name  string    `json:"name"`
		Row   int       `json:"row"`
		Col   int       `json:"col"`
		Pos   r3.Vector `json:"position"`
		Heat  float64   `json:"heat"`
		Color string    `json:"color"`
	}

	racks := s.Mon.Racks()
	snap := s.Mon.RackSnapshot()

	entries := make([]rackEntry, 0, len(racks))
	for i, rk := range racks {
		entry := rackEntry{
			ID:   rk.ID.String(),
			Name: rk.Name,
			Row:  rk.Row,
			Col:  rk.Col,
			Pos:  rk.Position,
		}
		if snap != nil && i < len(snap.Samples) {
			entry.Heat = snap.Samples[i].Value
			entry.Color = thermal.HexRGB(thermal.Colorize(s.Mapping, entry.Heat))
		}
		entries = append(entries, entry)
	}
	writeJSON(w, entries)
}

// handleEmitters serves the current emitter set on GET and replaces it on
// POST (admin). Invalid emitters are rejected whole — no partial update.
func (s *Server) handleEmitters(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req []thermal.Emitter
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := s.Mon.SetEmitters(req); err != nil {
			if errors.Is(err, thermal.ErrInvalidEmitter) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			slog.Error("emitter update failed", "error", err)
			http.Error(w, "emitter update failed", http.StatusInternalServerError)
			return
		}

		if s.DB != nil {
			if err := s.DB.SaveEmitters(req); err != nil {
				slog.Error("emitter persist failed", "error", err)
			}
		}
		slog.Info("emitter set replaced", "emitters", len(req))
	}

	writeJSON(w, s.Mon.Emitters())
}

// snapshotPayload is the wire form of a FieldSnapshot: normalized values
// plus pre-mapped colors, one entry per query point in input order.
func (s *Server) snapshotPayload(snap *thermal.FieldSnapshot) map[string]any {
	type samplePayload struct {
		Point r3.Vector `json:"point"`
		Value float64   `json:"value"`
		Color string    `json:"color"`
	}

	samples := make([]samplePayload, len(snap.Samples))
	for i, smp := range snap.Samples {
		samples[i] = samplePayload{
			Point: smp.Point,
			Value: smp.Value,
			Color: thermal.HexRGB(thermal.Colorize(s.Mapping, smp.Value)),
		}
	}

	return map[string]any{
		"id":          snap.ID,
		"computed_at": snap.Computed,
		"policy":      snap.Policy.String(),
		"divisor":     snap.Divisor,
		"samples":     samples,
	}
}

func (s *Server) handleHeatmapRacks(w http.ResponseWriter, r *http.Request) {
	snap := s.Mon.RackSnapshot()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s.snapshotPayload(snap))
}

func (s *Server) handleHeatmapFloor(w http.ResponseWriter, r *http.Request) {
	snap := s.Mon.FloorSnapshot()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}

	payload := s.snapshotPayload(snap)
	payload["floor"] = s.Mon.Floor
	writeJSON(w, payload)
}

// handleLegend returns the gradient control points so the frontend legend
// matches whatever mapping the server renders with.
func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	type stopEntry struct {
		At    float64 `json:"at"`
		Color string  `json:"color"`
	}

	var stops []stopEntry
	switch s.Mapping {
	case thermal.MappingGradient:
		for _, st := range thermal.GradientStops() {
			stops = append(stops, stopEntry{At: st.At, Color: thermal.HexRGB(st.Color)})
		}
	default:
		// Sample the continuous sweep at the same positions the gradient
		// pins, so both legends read identically.
		for _, at := range []float64{0, 0.25, 0.5, 0.75, 1} {
			stops = append(stops, stopEntry{
				At:    at,
				Color: thermal.HexRGB(thermal.Colorize(thermal.MappingHSLSweep, at)),
			})
		}
	}

	writeJSON(w, map[string]any{
		"mapping": s.Mapping.String(),
		"stops":   stops,
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}
