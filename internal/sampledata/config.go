// Package sampledata generates a deterministic synthetic season of player
// statistics, with its team to league lookup, so the service can run without
// the licensed dataset.
package sampledata

import (
	"time"

	"github.com/okian/radar/pkg/logger"
)

// Config holds configuration for the sample generator.
type Config struct {
	Seed              uint64        // Seed of the pseudo-random source; equal seeds give equal tables
	PlayersPerTeam    int           // Players generated for each team
	IncludeUnresolved bool          // Add a team missing from the lookup
	IncludeDirtyRows  bool          // Add rows the loader must clean up
	BaseURL           string        // Service to verify against, empty to skip
	Timeout           time.Duration // HTTP request timeout for verification
	Verbose           bool          // Enable verbose logging
	Logger            logger.Logger // Destination of progress messages; nil discards them
}

func (c Config) log() logger.Logger {
	if c.Logger == nil {
		return logger.Discard()
	}
	return c.Logger
}

// Dataset is a generated player table and lookup table. Cells are strings in
// the layout the loader reads.
type Dataset struct {
	Header       []string
	Rows         [][]string
	LookupHeader []string
	Lookup       [][]string
}

// Column names of the generated tables.
const (
	ColumnTeam     = "Team"
	ColumnPlayer   = "Player"
	ColumnPosition = "Position"
	ColumnMinutes  = "Minutes played"
	ColumnLeague   = "League"
)

// Default configuration constants.
const (
	DefaultSeed           = 2020
	DefaultPlayersPerTeam = 14
	DefaultTimeout        = 10 * time.Second
)

// DefaultConfig returns the configuration used by the gen-sample command.
func DefaultConfig() Config {
	return Config{
		Seed:              DefaultSeed,
		PlayersPerTeam:    DefaultPlayersPerTeam,
		IncludeUnresolved: true,
		Timeout:           DefaultTimeout,
	}
}
