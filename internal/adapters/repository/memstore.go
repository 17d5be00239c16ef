package repository

import (
	"fmt"
	"sort"

	"github.com/okian/radar/internal/domain/model"
)

// MemoryStore is an immutable in-memory Store built once at startup.
type MemoryStore struct {
	byName  map[string]model.PlayerRecord
	rosters map[string][]string
	teams   []string
	lookup  model.LeagueTeamLookup
	leagues []string
	catalog []string
	maxima  map[string]float64

	unresolved int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore indexes records and lookup. The store takes ownership of
// both; callers must not mutate them afterwards.
func NewMemoryStore(records []model.PlayerRecord, lookup model.LeagueTeamLookup, opts ...Option) (*MemoryStore, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	if lookup == nil {
		lookup = model.LeagueTeamLookup{}
	}

	s := &MemoryStore{
		byName:  make(map[string]model.PlayerRecord, len(records)),
		rosters: make(map[string][]string),
		lookup:  lookup,
		leagues: lookup.Leagues(),
		maxima:  make(map[string]float64),
	}
	for _, opt := range opts {
		opt(s)
	}

	derived := make(map[string]struct{})
	for _, r := range records {
		if _, dup := s.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, r.Name)
		}
		s.byName[r.Name] = r
		s.rosters[r.Team] = append(s.rosters[r.Team], r.Name)
		for m := range r.Metrics {
			derived[m] = struct{}{}
		}
	}

	if s.catalog == nil {
		s.catalog = make([]string, 0, len(derived))
		for m := range derived {
			s.catalog = append(s.catalog, m)
		}
	}
	sort.Strings(s.catalog)

	for _, m := range s.catalog {
		maxValue := 0.0
		for _, r := range records {
			if v := r.Metrics[m]; v > maxValue {
				maxValue = v
			}
		}
		s.maxima[m] = maxValue
	}

	s.teams = make([]string, 0, len(s.rosters))
	for team, names := range s.rosters {
		sort.Strings(names)
		s.teams = append(s.teams, team)
		if _, ok := lookup.League(team); !ok {
			s.unresolved++
		}
	}
	sort.Strings(s.teams)

	return s, nil
}

// Player returns a copy of the named player's record.
func (s *MemoryStore) Player(name string) (model.PlayerRecord, error) {
	r, ok := s.byName[name]
	if !ok {
		return model.PlayerRecord{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return r.Clone(), nil
}

// MaxOf returns the dataset-wide maximum of metric.
func (s *MemoryStore) MaxOf(metric string) (float64, error) {
	v, ok := s.maxima[metric]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMetricNotFound, metric)
	}
	return v, nil
}

// Metrics returns the metric catalog.
func (s *MemoryStore) Metrics() []string { return append([]string(nil), s.catalog...) }

// Teams returns the teams present in the player table.
func (s *MemoryStore) Teams() []string { return append([]string(nil), s.teams...) }

// Leagues returns the leagues of the lookup table.
func (s *MemoryStore) Leagues() []string { return append([]string(nil), s.leagues...) }

// League resolves the league of team.
func (s *MemoryStore) League(team string) (string, bool) { return s.lookup.League(team) }

// Roster returns the players of team.
func (s *MemoryStore) Roster(team string) []string {
	return append([]string(nil), s.rosters[team]...)
}

// Summary reports dataset counts.
func (s *MemoryStore) Summary() Summary {
	return Summary{
		Players:         len(s.byName),
		Teams:           len(s.teams),
		Leagues:         len(s.leagues),
		Metrics:         len(s.catalog),
		UnresolvedTeams: s.unresolved,
	}
}
