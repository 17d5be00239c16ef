// Package loader reads the player statistics table and the league lookup
// from disk, cleans them and builds the immutable dataset.
//
// Cleaning policy, applied in order:
//  1. rows without a team are dropped;
//  2. rows without a player name are dropped;
//  3. with a positive minutes threshold, rows whose minutes played are not
//     above it are dropped;
//  4. repeated player names keep the first row;
//  5. empty or unparsable metric cells read 0, negative values are clamped to 0.
//
// Metrics are the columns other than team, player and a row index whose
// non-empty cells all parse as numbers. Repeated header names are renamed
// name.1, name.2 in column order; columns with a blank header are skipped.
package loader

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/model"
)

// DropReason labels why a row was discarded.
type DropReason string

// Drop reasons.
const (
	DropMissingTeam     DropReason = "missing_team"
	DropMissingPlayer   DropReason = "missing_player"
	DropBelowMinutes    DropReason = "below_min_minutes"
	DropDuplicatePlayer DropReason = "duplicate_player"
)

// Report summarizes a load.
type Report struct {
	RowsRead        int
	RowsKept        int
	Dropped         map[DropReason]int
	ClampedValues   int
	ClampedByColumn map[string]int
	TextColumns     []string
	RenamedColumns  []string
	UnnamedColumns  []int
	UnresolvedTeams int
	LookupConflicts int
	Duration        time.Duration
}

// Loader loads datasets according to its cleaning options.
type Loader struct {
	minMinutes         float64
	teamColumn         string
	playerColumn       string
	minutesColumn      string
	lookupTeamColumn   string
	lookupLeagueColumn string
}

// New creates a Loader with the default column names and no minutes filter.
func New(opts ...Option) *Loader {
	l := &Loader{
		teamColumn:         "Team",
		playerColumn:       "Player",
		minutesColumn:      "Minutes played",
		lookupTeamColumn:   "Team",
		lookupLeagueColumn: "League",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads both files and returns the dataset with a report of what the
// cleaning policy discarded.
func (l *Loader) Load(ctx context.Context, playersPath, lookupPath string) (*repository.MemoryStore, Report, error) {
	start := time.Now()
	report := Report{
		Dropped:         make(map[DropReason]int),
		ClampedByColumn: make(map[string]int),
	}

	lookup, conflicts, err := l.loadLookup(lookupPath)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %s: %w", ErrLoad, lookupPath, err)
	}
	report.LookupConflicts = conflicts

	if err := ctx.Err(); err != nil {
		return nil, report, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	records, catalog, err := l.loadPlayers(playersPath, &report)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %s: %w", ErrLoad, playersPath, err)
	}

	store, err := repository.NewMemoryStore(records, lookup, repository.WithMetricCatalog(catalog))
	if err != nil {
		return nil, report, fmt.Errorf("%w: %s: %w", ErrLoad, playersPath, err)
	}
	report.UnresolvedTeams = store.Summary().UnresolvedTeams
	report.Duration = time.Since(start)
	return store, report, nil
}

func (l *Loader) loadLookup(path string) (model.LeagueTeamLookup, int, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, 0, err
	}
	teamIdx := t.column(l.lookupTeamColumn)
	if teamIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingColumn, l.lookupTeamColumn)
	}
	leagueIdx := t.column(l.lookupLeagueColumn)
	if leagueIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingColumn, l.lookupLeagueColumn)
	}

	lookup := make(model.LeagueTeamLookup, len(t.rows))
	conflicts := 0
	for _, row := range t.rows {
		team, league := cell(row, teamIdx), cell(row, leagueIdx)
		if team == "" || league == "" {
			continue
		}
		if prev, ok := lookup[team]; ok {
			if prev != league {
				conflicts++
			}
			continue
		}
		lookup[team] = league
	}
	return lookup, conflicts, nil
}

func (l *Loader) loadPlayers(path string, report *Report) ([]model.PlayerRecord, []string, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	teamIdx := t.column(l.teamColumn)
	if teamIdx < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, l.teamColumn)
	}
	playerIdx := t.column(l.playerColumn)
	if playerIdx < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, l.playerColumn)
	}
	minutesIdx := t.column(l.minutesColumn)
	if minutesIdx < 0 && l.minMinutes > 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, l.minutesColumn)
	}

	report.RowsRead = len(t.rows)
	report.RenamedColumns = t.renamed
	kept := make([][]string, 0, len(t.rows))
	seen := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		switch {
		case cell(row, teamIdx) == "":
			report.Dropped[DropMissingTeam]++
			continue
		case cell(row, playerIdx) == "":
			report.Dropped[DropMissingPlayer]++
			continue
		}
		if l.minMinutes > 0 {
			if minutes, _ := parseNumber(cell(row, minutesIdx)); minutes <= l.minMinutes {
				report.Dropped[DropBelowMinutes]++
				continue
			}
		}
		name := cell(row, playerIdx)
		if _, dup := seen[name]; dup {
			report.Dropped[DropDuplicatePlayer]++
			continue
		}
		seen[name] = struct{}{}
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("%w: every row was dropped", ErrNoRows)
	}

	metricCols := make(map[int]string)
	for i, h := range t.header {
		if i == teamIdx || i == playerIdx || isIndexColumn(i, h) {
			continue
		}
		if h == "" {
			report.UnnamedColumns = append(report.UnnamedColumns, i)
			continue
		}
		if numericColumn(kept, i) {
			metricCols[i] = h
		} else {
			report.TextColumns = append(report.TextColumns, h)
		}
	}

	records := make([]model.PlayerRecord, 0, len(kept))
	for _, row := range kept {
		rec := model.PlayerRecord{
			Name:    cell(row, playerIdx),
			Team:    cell(row, teamIdx),
			Metrics: make(map[string]float64, len(metricCols)),
		}
		rec.Minutes, _ = parseNumber(cell(row, minutesIdx))
		for i, name := range metricCols {
			v, _ := parseNumber(cell(row, i))
			if v < 0 {
				report.ClampedValues++
				report.ClampedByColumn[name]++
				v = 0
			}
			rec.Metrics[name] = v
		}
		records = append(records, rec)
	}
	report.RowsKept = len(records)

	catalog := make([]string, 0, len(metricCols))
	for _, name := range metricCols {
		catalog = append(catalog, name)
	}
	sort.Strings(catalog)
	return records, catalog, nil
}

// isIndexColumn recognizes the row index a dataframe export leaves in column 0.
func isIndexColumn(i int, header string) bool {
	if i != 0 {
		return false
	}
	switch strings.ToLower(header) {
	case "", "index", "unnamed: 0":
		return true
	}
	return false
}

// numericColumn reports whether at least one cell of column i parses as a
// number and no non-empty cell fails to.
func numericColumn(rows [][]string, i int) bool {
	parsed := 0
	for _, row := range rows {
		c := cell(row, i)
		if c == "" {
			continue
		}
		if _, ok := parseNumber(c); !ok {
			return false
		}
		parsed++
	}
	return parsed > 0
}

// parseNumber parses s as a float. Empty, NaN and infinite values read 0;
// ok is false only when s is non-empty and not a number.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true
	}
	return v, true
}
