package options

import "github.com/okian/radar/internal/domain/types"

const fallbackPicks = 2

// Defaults returns the initial page selection. Preferred values missing from
// the dataset are dropped. When no preferred team or player survives, the
// first two players of the first two teams are used; likewise the first two
// metrics. Without preferred leagues, the leagues of the chosen teams are
// selected so the team list shows them.
func Defaults(src Source, preferred types.Selection) types.Selection {
	leagues := keep(preferred.Leagues, src.Leagues())
	teams := keep(preferred.Teams, src.Teams())
	if len(teams) == 0 && len(leagues) > 0 {
		teams = types.Values(TeamsForLeagues(src, leagues))
	}
	if len(teams) == 0 {
		teams = head(src.Teams(), fallbackPicks)
	}

	roster := types.Values(PlayersForTeams(src, teams))
	players := keep(preferred.Players, roster)
	if len(players) == 0 {
		var pool []string
		for _, team := range teams {
			pool = append(pool, src.Roster(team)...)
		}
		players = head(pool, fallbackPicks)
	}
	if len(leagues) == 0 {
		leagues = leaguesOf(src, teams)
	}

	metrics := keep(preferred.Metrics, src.Metrics())
	if len(metrics) == 0 {
		metrics = head(src.Metrics(), fallbackPicks)
	}

	return types.Selection{
		Leagues: nonNil(leagues),
		Teams:   nonNil(teams),
		Players: nonNil(players),
		Metrics: nonNil(metrics),
	}
}

// leaguesOf returns the distinct resolvable leagues of teams, ascending.
func leaguesOf(src Source, teams []string) []string {
	seen := make(map[string]struct{})
	for _, team := range teams {
		if league, ok := src.League(team); ok {
			seen[league] = struct{}{}
		}
	}
	return keep(src.Leagues(), keysOf(seen))
}

func keysOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// keep returns the wanted values present in available, in wanted order.
func keep(wanted, available []string) []string {
	have := set(available)
	var out []string
	for _, w := range wanted {
		if _, ok := have[w]; ok {
			out = append(out, w)
		}
	}
	return out
}

func head(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
