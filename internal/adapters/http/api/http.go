// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/radar/internal/adapters/render"
	"github.com/okian/radar/internal/domain/radar"
	"github.com/okian/radar/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SelectionDependencies
	RadarDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	selectionHandler *SelectionHandler
	radarHandler     *RadarHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	logger logger.Logger
}

// WithLogger sets the logger used for failed requests. Without it failures
// are not logged.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		selectionHandler: NewSelectionHandler(deps, cfg.logger),
		radarHandler:     NewRadarHandler(deps, cfg.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/api/leagues", "leagues", s.selectionHandler.HandleLeagues)
	route("/api/teams", "teams", s.selectionHandler.HandleTeams)
	route("/api/players", "players", s.selectionHandler.HandlePlayers)
	route("/api/metrics", "metrics", s.selectionHandler.HandleMetrics)
	route("/api/defaults", "defaults", s.selectionHandler.HandleDefaults)
	route("/api/radar", "radar", s.radarHandler.HandleRadar)
	route("/api/radar.png", "radar_png", s.radarHandler.HandleImage(render.PNG))
	route("/api/radar.svg", "radar_svg", s.radarHandler.HandleImage(render.SVG))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error to a status and error code. Chart
// validation errors keep their kind as the code.
func writeFailure(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	if kind, ok := radar.KindOf(err); ok {
		writeError(w, http.StatusBadRequest, string(kind), unwrapOp(err))
		return
	}
	if errors.Is(err, render.ErrUnsupportedFormat) {
		writeError(w, http.StatusBadRequest, "unsupported_format", unwrapOp(err))
		return
	}
	if errors.Is(err, ErrBadRequest) {
		writeError(w, http.StatusBadRequest, "bad_request", unwrapOp(err))
		return
	}
	log.Error(r.Context(), "request failed",
		logger.String("op", op),
		logger.String("requestID", RequestIDFrom(r.Context())),
		logger.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
}

// unwrapOp strips the operation prefix so clients see the domain message.
func unwrapOp(err error) error {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Err
	}
	return err
}

// queryValues returns the non-blank values of a repeated query parameter.
func queryValues(r *http.Request, key string) []string {
	raw := r.URL.Query()[key]
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
