package sampledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"time"

	"github.com/okian/radar/pkg/logger"
)

// ErrMismatch is returned when the service disagrees with the generated data.
var ErrMismatch = errors.New("service does not match generated data")

type option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type chart struct {
	Axes   []string `json:"axes"`
	Traces []struct {
		Player string `json:"player"`
		Points []struct {
			Axis   string  `json:"axis"`
			Radius float64 `json:"r"`
		} `json:"points"`
	} `json:"traces"`
}

// client wraps http.Client with a base URL.
type client struct {
	http *http.Client
	base string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}, base: baseURL}
}

// getJSON performs a GET request and decodes a 200 response into v.
func (c *client) getJSON(ctx context.Context, path string, q url.Values, v interface{}) error {
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}

// Verify checks a running service loaded with ds: every league is listed,
// each league lists exactly its teams, listed players belong to their team
// and a radar chart for the first kept player stays within [0, 1].
func Verify(ctx context.Context, cfg Config, ds Dataset) error {
	c := newClient(cfg.BaseURL, cfg.Timeout)
	log := cfg.log()
	log.Debug(ctx, "verifying service",
		logger.String("baseURL", cfg.BaseURL),
		logger.Duration("timeout", cfg.Timeout))

	var leagueOpts []option
	if err := c.getJSON(ctx, "/api/leagues", nil, &leagueOpts); err != nil {
		return err
	}
	byLeague := make(map[string][]string)
	for _, row := range ds.Lookup {
		byLeague[row[1]] = append(byLeague[row[1]], row[0])
	}
	for league := range byLeague {
		if !slices.Contains(values(leagueOpts), league) {
			return fmt.Errorf("%w: league %q missing", ErrMismatch, league)
		}
	}

	rosters := make(map[string][]string)
	for _, row := range ds.Rows {
		rosters[row[0]] = append(rosters[row[0]], row[1])
	}

	var sample string
	for league, teams := range byLeague {
		var teamOpts []option
		if err := c.getJSON(ctx, "/api/teams", url.Values{"league": {league}}, &teamOpts); err != nil {
			return err
		}
		want := append([]string(nil), teams...)
		sort.Strings(want)
		if got := values(teamOpts); !slices.Equal(got, want) {
			return fmt.Errorf("%w: league %q lists %v, want %v", ErrMismatch, league, got, want)
		}

		for _, team := range teams {
			var playerOpts []option
			if err := c.getJSON(ctx, "/api/players", url.Values{"team": {team}}, &playerOpts); err != nil {
				return err
			}
			for _, p := range values(playerOpts) {
				if !slices.Contains(rosters[team], p) {
					return fmt.Errorf("%w: %q is not a %s player", ErrMismatch, p, team)
				}
				if sample == "" {
					sample = p
				}
			}
			if cfg.Verbose {
				log.Info(ctx, "verified team", logger.String("team", team), logger.Int("players", len(playerOpts)))
			}
		}
	}

	if sample == "" {
		return fmt.Errorf("%w: no players served", ErrMismatch)
	}
	var ch chart
	q := url.Values{"player": {sample}, "metric": ds.MetricNames()}
	if err := c.getJSON(ctx, "/api/radar", q, &ch); err != nil {
		return err
	}
	if len(ch.Traces) != 1 || len(ch.Traces[0].Points) != len(ds.MetricNames()) {
		return fmt.Errorf("%w: unexpected chart shape for %q", ErrMismatch, sample)
	}
	for _, p := range ch.Traces[0].Points {
		if p.Radius < 0 || p.Radius > 1 {
			return fmt.Errorf("%w: radius %v on %q out of range", ErrMismatch, p.Radius, p.Axis)
		}
	}

	log.Info(ctx, "service verified", logger.Int("leagues", len(byLeague)), logger.String("samplePlayer", sample))
	return nil
}

func values(opts []option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}
