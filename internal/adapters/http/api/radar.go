package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/radar/internal/adapters/render"
	"github.com/okian/radar/internal/domain/radar"
	"github.com/okian/radar/pkg/logger"
)

// RadarDependencies defines the chart operations.
type RadarDependencies interface {
	Radar(ctx context.Context, players, metrics []string) (radar.Chart, error)
	RenderRadar(ctx context.Context, w io.Writer, players, metrics []string, f render.Format) error
}

// RadarHandler handles chart requests.
type RadarHandler struct {
	deps RadarDependencies
	log  logger.Logger
}

// NewRadarHandler creates a new radar handler.
func NewRadarHandler(deps RadarDependencies, log logger.Logger) *RadarHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &RadarHandler{deps: deps, log: log}
}

// HandleRadar handles GET /api/radar?player=A&metric=M requests.
func (h *RadarHandler) HandleRadar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_radar"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	chart, err := h.deps.Radar(r.Context(), queryValues(r, "player"), queryValues(r, "metric"))
	if err != nil {
		writeFailure(w, r, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// HandleImage returns a handler for GET /api/radar.{png,svg} requests. The
// image is rendered to memory first so failures still produce a JSON error.
func (h *RadarHandler) HandleImage(f render.Format) http.HandlerFunc {
	op := "api.get_radar_" + string(f)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		var buf bytes.Buffer
		err := h.deps.RenderRadar(r.Context(), &buf, queryValues(r, "player"), queryValues(r, "metric"), f)
		if err != nil {
			writeFailure(w, r, h.log, op, Wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set("Content-Disposition", `inline; filename="radar.`+string(f)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
