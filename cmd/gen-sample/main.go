package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/radar/internal/sampledata"
	"github.com/okian/radar/pkg/logger"
)

const (
	dirPermission = 0o755
	runTimeout    = 2 * time.Minute
)

func main() {
	var (
		playersPath = flag.String("players", "assets/data.xlsx", "Player table output (.csv or .xlsx)")
		lookupPath  = flag.String("lookup", "assets/teams_leagues.csv", "Lookup table output (.csv or .xlsx)")
		seed        = flag.Uint64("seed", sampledata.DefaultSeed, "Seed of the generator")
		perTeam     = flag.Int("per-team", sampledata.DefaultPlayersPerTeam, "Players per team")
		unresolved  = flag.Bool("unresolved", true, "Add a team missing from the lookup")
		dirty       = flag.Bool("dirty", false, "Add rows the loader has to clean up")
		verifyURL   = flag.String("verify", "", "Base URL of a running service to verify")
		timeout     = flag.Duration("timeout", sampledata.DefaultTimeout, "HTTP request timeout for -verify")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := sampledata.Config{
		Seed:              *seed,
		PlayersPerTeam:    *perTeam,
		IncludeUnresolved: *unresolved,
		IncludeDirtyRows:  *dirty,
		BaseURL:           *verifyURL,
		Timeout:           *timeout,
		Verbose:           *verbose,
		Logger:            log,
	}
	ds := sampledata.Generate(ctx, cfg)

	for _, p := range []string{*playersPath, *lookupPath} {
		if err := os.MkdirAll(filepath.Dir(p), dirPermission); err != nil {
			log.Error(ctx, "failed to create output directory", logger.String("path", p), logger.Error(err))
			os.Exit(1)
		}
	}
	if err := ds.WriteFiles(*playersPath, *lookupPath); err != nil {
		log.Error(ctx, "failed to write sample files", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "sample files written",
		logger.String("players", *playersPath),
		logger.String("lookup", *lookupPath),
		logger.Int("rows", len(ds.Rows)),
	)

	if cfg.BaseURL == "" {
		return
	}
	if err := sampledata.Verify(ctx, cfg, ds); err != nil {
		log.Error(ctx, "verification failed", logger.Error(err))
		os.Exit(1)
	}
}
