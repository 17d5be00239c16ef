// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors are wrapped with this package's sentinel errors.
package config

import "fmt"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataPath points at the player statistics table (.csv or .xlsx).
	DataPath string `koanf:"data_path"`

	// LookupPath points at the team -> league table (.csv or .xlsx).
	LookupPath string `koanf:"lookup_path"`

	// MinMinutes drops players with minutes played not above it. 0 disables the filter.
	MinMinutes float64 `koanf:"min_minutes"`

	// Column names of the player table.
	TeamColumn    string `koanf:"team_column"`
	PlayerColumn  string `koanf:"player_column"`
	MinutesColumn string `koanf:"minutes_column"`

	// Column names of the lookup table.
	LookupTeamColumn   string `koanf:"lookup_team_column"`
	LookupLeagueColumn string `koanf:"lookup_league_column"`

	// MaxPlayers caps how many players a single chart may compare.
	MaxPlayers int `koanf:"max_players"`

	// Default selections offered by the comparison page.
	DefaultLeagues []string `koanf:"default_leagues"`
	DefaultTeams   []string `koanf:"default_teams"`
	DefaultPlayers []string `koanf:"default_players"`
	DefaultMetrics []string `koanf:"default_metrics"`

	// ChartWidth and ChartHeight size rendered chart images in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// Metric naming. MetricsInstance, when set, becomes a constant
	// "instance" label on every series. Empty MetricsBuckets keeps the
	// built-in latency buckets.
	MetricsNamespace string    `koanf:"metrics_namespace"`
	MetricsSubsystem string    `koanf:"metrics_subsystem"`
	MetricsInstance  string    `koanf:"metrics_instance"`
	MetricsBuckets   []float64 `koanf:"metrics_buckets"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DataPath:           "./assets/data.xlsx",
		LookupPath:         "./assets/teams_leagues.csv",
		MinMinutes:         800,
		TeamColumn:         "Team",
		PlayerColumn:       "Player",
		MinutesColumn:      "Minutes played",
		LookupTeamColumn:   "Team",
		LookupLeagueColumn: "League",
		MaxPlayers:         10,
		DefaultTeams:       []string{"Barcelona", "Juventus"},
		DefaultPlayers:     []string{"L. Messi", "Cristiano Ronaldo"},
		DefaultMetrics: []string{
			"Non-penalty goals per 90",
			"xG per 90",
			"Shots per 90",
			"Shots on target %",
			"xA per 90",
			"Dribbles succ. %",
			"Off duels won %",
			"Touches in box per 90",
		},
		ChartWidth:       800,
		ChartHeight:      800,
		MetricsNamespace: "radar",
		MetricsSubsystem: "dashboard",
	}
}

// Validate reports the first invalid field as a *FieldError.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr", "must not be empty")
	case c.DataPath == "":
		return invalid("data_path", "must not be empty")
	case c.LookupPath == "":
		return invalid("lookup_path", "must not be empty")
	case c.MinMinutes < 0:
		return invalid("min_minutes", "must not be negative")
	case c.MaxPlayers <= 0:
		return invalid("max_players", "must be positive")
	case c.ChartWidth <= 0:
		return invalid("chart_width", "must be positive")
	case c.ChartHeight <= 0:
		return invalid("chart_height", "must be positive")
	case c.MetricsNamespace == "":
		return invalid("metrics_namespace", "must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return invalid("log_format", fmt.Sprintf("%q is not text or json", c.LogFormat))
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return invalid("metrics_buckets", "must be strictly increasing")
		}
	}
	return nil
}
