// Package repository holds the read-only dataset the service answers from.
package repository

import "github.com/okian/radar/internal/domain/model"

// Summary describes the loaded dataset.
type Summary struct {
	Players         int `json:"players"`
	Teams           int `json:"teams"`
	Leagues         int `json:"leagues"`
	Metrics         int `json:"metrics"`
	UnresolvedTeams int `json:"unresolved_teams"`
}

// Store provides read access to the player dataset. Implementations are
// immutable after construction and safe for concurrent use.
type Store interface {
	// Player returns the record of a player.
	// Returns ErrPlayerNotFound if the player is unknown.
	Player(name string) (model.PlayerRecord, error)

	// MaxOf returns the largest value of metric over all players.
	// Returns ErrMetricNotFound if the metric is not in the catalog.
	MaxOf(metric string) (float64, error)

	// Metrics returns the metric catalog in ascending order.
	Metrics() []string

	// Teams returns every team that has at least one player, ascending.
	Teams() []string

	// Leagues returns the leagues of the lookup table, ascending.
	Leagues() []string

	// League resolves the league of team.
	League(team string) (string, bool)

	// Roster returns the players of team, ascending.
	Roster(team string) []string

	// Summary reports dataset counts.
	Summary() Summary
}
