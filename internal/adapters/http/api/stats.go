package api

import "net/http"

// StatsProvider exposes the dataset and load summary served at /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the summary of the loaded dataset.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats requests. The summary changes only when the
// process restarts, but clients must not cache it across restarts.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
