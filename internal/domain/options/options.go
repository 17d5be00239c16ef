// Package options derives the selection lists of the comparison page from
// the loaded dataset. Every function is pure over its Source.
package options

import (
	"sort"

	"github.com/okian/radar/internal/domain/types"
)

// Source is the part of the dataset the deriver reads.
type Source interface {
	Metrics() []string
	Teams() []string
	Leagues() []string
	League(team string) (string, bool)
	Roster(team string) []string
}

// LeagueOptions lists every league, ascending.
func LeagueOptions(src Source) []types.Option {
	return types.OptionsOf(src.Leagues())
}

// TeamOptions lists every team that has players, ascending.
func TeamOptions(src Source) []types.Option {
	return types.OptionsOf(src.Teams())
}

// MetricOptions lists the metric catalog, ascending, without the excluded names.
func MetricOptions(src Source, exclude ...string) []types.Option {
	skip := set(exclude)
	metrics := src.Metrics()
	kept := metrics[:0]
	for _, m := range metrics {
		if _, ok := skip[m]; !ok {
			kept = append(kept, m)
		}
	}
	sort.Strings(kept)
	return types.OptionsOf(kept)
}

// TeamsForLeagues lists the teams with at least one loaded player whose
// league is one of leagues, ascending. Lookup teams without players are not
// listed, and teams missing from the league lookup never match.
func TeamsForLeagues(src Source, leagues []string) []types.Option {
	if len(leagues) == 0 {
		return types.OptionsOf(nil)
	}
	wanted := set(leagues)
	var teams []string
	for _, team := range src.Teams() {
		league, ok := src.League(team)
		if !ok {
			continue
		}
		if _, ok := wanted[league]; ok {
			teams = append(teams, team)
		}
	}
	sort.Strings(teams)
	return types.OptionsOf(teams)
}

// PlayersForTeams lists the players of teams, ascending.
func PlayersForTeams(src Source, teams []string) []types.Option {
	if len(teams) == 0 {
		return types.OptionsOf(nil)
	}
	var players []string
	for team := range set(teams) {
		players = append(players, src.Roster(team)...)
	}
	sort.Strings(players)
	return types.OptionsOf(players)
}

func set(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
