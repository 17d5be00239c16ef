package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/radar/internal/domain/types"
	"github.com/okian/radar/pkg/logger"
)

// SelectionDependencies defines the option queries behind the cascading
// selection lists.
type SelectionDependencies interface {
	Leagues(ctx context.Context) ([]types.Option, error)
	Teams(ctx context.Context, leagues []string, all bool) ([]types.Option, error)
	Players(ctx context.Context, teams []string) ([]types.Option, error)
	Metrics(ctx context.Context) ([]types.Option, error)
	Defaults(ctx context.Context) (types.Selection, error)
}

// SelectionHandler handles option list requests.
type SelectionHandler struct {
	deps SelectionDependencies
	log  logger.Logger
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(deps SelectionDependencies, log logger.Logger) *SelectionHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &SelectionHandler{deps: deps, log: log}
}

// HandleLeagues handles GET /api/leagues requests.
func (h *SelectionHandler) HandleLeagues(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leagues"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Leagues(r.Context())
	if err != nil {
		writeFailure(w, r, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleTeams handles GET /api/teams?league=A&league=B requests. Without a
// league the list is empty unless all=true asks for every team.
func (h *SelectionHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	all := false
	if s := r.URL.Query().Get("all"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeFailure(w, r, h.log, op, NewKind(op, fmt.Errorf("%w: all must be a boolean", ErrBadRequest)))
			return
		}
		all = v
	}
	opts, err := h.deps.Teams(r.Context(), queryValues(r, "league"), all)
	if err != nil {
		writeFailure(w, r, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandlePlayers handles GET /api/players?team=A&team=B requests.
func (h *SelectionHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Players(r.Context(), queryValues(r, "team"))
	if err != nil {
		writeFailure(w, r, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleMetrics handles GET /api/metrics requests.
func (h *SelectionHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_metrics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Metrics(r.Context())
	if err != nil {
		writeFailure(w, r, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleDefaults handles GET /api/defaults requests.
func (h *SelectionHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_defaults"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := h.deps.Defaults(r.Context())
	if err != nil {
		writeFailure(w, r, h.log, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
