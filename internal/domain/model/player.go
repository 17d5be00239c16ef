// Package model contains domain models passed between layers.
package model

import (
	"maps"
	"sort"
)

// PlayerRecord is one cleaned row of the player statistics table.
type PlayerRecord struct {
	Name    string             // player identifier as printed in the source table
	Team    string             // team the player belongs to
	Minutes float64            // minutes played, used by the load filter
	Metrics map[string]float64 // metric name -> non-negative value
}

// Value returns the player's value for metric and whether the metric exists.
func (p PlayerRecord) Value(metric string) (float64, bool) {
	v, ok := p.Metrics[metric]
	return v, ok
}

// Clone returns a copy whose metric map can be mutated freely.
func (p PlayerRecord) Clone() PlayerRecord {
	p.Metrics = maps.Clone(p.Metrics)
	return p
}

// LeagueTeamLookup maps a team name to its league name.
type LeagueTeamLookup map[string]string

// League resolves the league of team.
func (l LeagueTeamLookup) League(team string) (string, bool) {
	league, ok := l[team]
	return league, ok
}

// Leagues returns the distinct league names in ascending order.
func (l LeagueTeamLookup) Leagues() []string {
	seen := make(map[string]struct{}, len(l))
	for _, league := range l {
		seen[league] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for league := range seen {
		out = append(out, league)
	}
	sort.Strings(out)
	return out
}
