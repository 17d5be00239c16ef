package sampledata

import "os"

// ShowHelp prints usage information for the gen-sample tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Player Radar Sample Generator
=============================

Writes a deterministic synthetic player table and team/league lookup, and
optionally checks a running service loaded with them.

Usage:
  go run ./cmd/gen-sample [options]

Options:
  -players string
        Player table output, .csv or .xlsx (default "assets/data.xlsx")
  -lookup string
        Lookup table output, .csv or .xlsx (default "assets/teams_leagues.csv")
  -seed uint
        Seed of the generator (default 2020)
  -per-team int
        Players per team (default 14)
  -unresolved
        Add a team missing from the lookup (default true)
  -dirty
        Add rows the loader has to clean up
  -verify string
        Base URL of a running service to verify, e.g. http://localhost:9080
  -timeout duration
        HTTP request timeout for -verify (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Write the default sample files
  go run ./cmd/gen-sample

  # CSV output with dirty rows
  go run ./cmd/gen-sample -players /tmp/players.csv -lookup /tmp/lookup.csv -dirty

  # Check a running service
  go run ./cmd/gen-sample -verify http://localhost:9080
`)
}
