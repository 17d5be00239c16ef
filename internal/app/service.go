// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/okian/radar/internal/adapters/loader"
	"github.com/okian/radar/internal/adapters/render"
	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/options"
	"github.com/okian/radar/internal/domain/radar"
	"github.com/okian/radar/internal/domain/types"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
)

// ErrNotStarted is returned by queries issued before Start loaded a dataset.
var ErrNotStarted = errors.New("service not started")

const nanosecondsPerMillisecond = 1e6

// Service answers selection and chart queries over the dataset loaded at start.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	loader   *loader.Loader
	renderer *render.Renderer

	// Configuration
	playersPath string
	lookupPath  string
	maxPlayers  int
	preferred   types.Selection

	// State
	started  bool
	loadedAt time.Time
	report   loader.Report

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataFiles sets the player table and league lookup paths read by Start.
func WithDataFiles(playersPath, lookupPath string) Option {
	return func(s *Service) {
		s.playersPath = playersPath
		s.lookupPath = lookupPath
	}
}

// WithLoaderOptions configures the cleaning policy applied by Start.
func WithLoaderOptions(opts ...loader.Option) Option {
	return func(s *Service) {
		s.loader = loader.New(opts...)
	}
}

// WithStore serves an already built dataset; Start then skips loading.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithMaxPlayers caps the number of players compared in one chart.
func WithMaxPlayers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPlayers = n
		}
	}
}

// WithDefaultSelection sets the preferred initial selection of the page.
func WithDefaultSelection(sel types.Selection) Option {
	return func(s *Service) {
		s.preferred = sel
	}
}

// WithChartSize sets the size of rendered chart images.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		s.renderer = render.New(render.WithSize(width, height))
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		loader:     loader.New(),
		renderer:   render.New(),
		maxPlayers: 10,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset. A load failure is returned and leaves the
// service stopped; callers treat it as fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.logger.Info(ctx, "loading dataset",
			logger.String("players", s.playersPath),
			logger.String("lookup", s.lookupPath),
		)
		store, report, err := s.loader.Load(ctx, s.playersPath, s.lookupPath)
		if err != nil {
			metrics.RecordErrorByComponent("loader", "load_failed")
			return fmt.Errorf("start: %w", err)
		}
		s.store = store
		s.report = report
		s.recordLoad(ctx, report)
	}

	s.loadedAt = time.Now()
	sum := s.store.Summary()
	metrics.UpdateDataset(metrics.DatasetSize{
		Players:         sum.Players,
		Teams:           sum.Teams,
		Leagues:         sum.Leagues,
		Metrics:         sum.Metrics,
		UnresolvedTeams: sum.UnresolvedTeams,
	})

	s.started = true
	s.logger.Info(ctx, "radar service started",
		logger.Int("players", sum.Players),
		logger.Int("teams", sum.Teams),
		logger.Int("leagues", sum.Leagues),
		logger.Int("metrics", sum.Metrics),
		logger.Int("maxPlayers", s.maxPlayers),
	)
	return nil
}

func (s *Service) recordLoad(ctx context.Context, report loader.Report) {
	for reason, n := range report.Dropped {
		metrics.RecordRowsDropped(string(reason), n)
	}
	metrics.RecordDatasetLoad(float64(report.Duration.Nanoseconds())/nanosecondsPerMillisecond, time.Now().Unix())

	s.logger.Info(ctx, "dataset loaded",
		logger.Int("rowsRead", report.RowsRead),
		logger.Int("rowsKept", report.RowsKept),
		logger.Any("dropped", report.Dropped),
		logger.Int("clampedValues", report.ClampedValues),
		logger.Float64("tookMs", float64(report.Duration.Nanoseconds())/nanosecondsPerMillisecond),
	)
	clamped := make([]string, 0, len(report.ClampedByColumn))
	for col := range report.ClampedByColumn {
		clamped = append(clamped, col)
	}
	sort.Strings(clamped)
	for _, col := range clamped {
		s.logger.Warn(ctx, "negative values clamped to zero",
			logger.String("column", col),
			logger.Int("values", report.ClampedByColumn[col]))
	}
	if len(report.RenamedColumns) > 0 {
		s.logger.Warn(ctx, "repeated column names renamed",
			logger.Strings("columns", report.RenamedColumns))
	}
	if len(report.UnnamedColumns) > 0 {
		s.logger.Warn(ctx, "columns without a header skipped",
			logger.Any("positions", report.UnnamedColumns))
	}
	if len(report.TextColumns) > 0 {
		s.logger.Debug(ctx, "non-numeric columns left out of the metric catalog",
			logger.Strings("columns", report.TextColumns))
	}
	if report.UnresolvedTeams > 0 {
		s.logger.Warn(ctx, "teams without a league in the lookup; they match no league filter",
			logger.Int("teams", report.UnresolvedTeams))
	}
	if report.LookupConflicts > 0 {
		s.logger.Warn(ctx, "lookup lists some teams under several leagues; first row kept",
			logger.Int("conflicts", report.LookupConflicts))
	}
}

// Stop marks the service stopped; later queries fail with ErrNotStarted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "radar service stopped")
}

func (s *Service) dataset() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Leagues returns the league selection list.
func (s *Service) Leagues(_ context.Context) ([]types.Option, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	metrics.RecordOptionQuery("leagues")
	return options.LeagueOptions(ds), nil
}

// Teams returns the teams of leagues. With all set, every team is returned.
func (s *Service) Teams(_ context.Context, leagues []string, all bool) ([]types.Option, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	metrics.RecordOptionQuery("teams")
	if all {
		return options.TeamOptions(ds), nil
	}
	return options.TeamsForLeagues(ds, leagues), nil
}

// Players returns the players of teams.
func (s *Service) Players(_ context.Context, teams []string) ([]types.Option, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	metrics.RecordOptionQuery("players")
	return options.PlayersForTeams(ds, teams), nil
}

// Metrics returns the metric selection list.
func (s *Service) Metrics(_ context.Context) ([]types.Option, error) {
	ds, err := s.dataset()
	if err != nil {
		return nil, err
	}
	metrics.RecordOptionQuery("metrics")
	return options.MetricOptions(ds), nil
}

// Defaults returns the initial page selection.
func (s *Service) Defaults(_ context.Context) (types.Selection, error) {
	ds, err := s.dataset()
	if err != nil {
		return types.Selection{}, err
	}
	metrics.RecordOptionQuery("defaults")
	return options.Defaults(ds, s.preferred), nil
}

// Radar builds the comparison chart of players over metrics.
func (s *Service) Radar(ctx context.Context, players, metricNames []string) (radar.Chart, error) {
	ds, err := s.dataset()
	if err != nil {
		return radar.Chart{}, err
	}

	start := time.Now()
	chart, err := radar.Build(ds, players, metricNames, radar.WithMaxPlayers(s.maxPlayers))
	if err != nil {
		if kind, ok := radar.KindOf(err); ok {
			metrics.RecordValidationError(string(kind))
			s.logger.Debug(ctx, "chart request rejected",
				logger.String("kind", string(kind)),
				logger.Error(err),
			)
		}
		return radar.Chart{}, err
	}
	metrics.RecordRadarBuild(float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond)
	return chart, nil
}

// RenderRadar builds the chart and writes it to w as an image.
func (s *Service) RenderRadar(ctx context.Context, w io.Writer, players, metricNames []string, f render.Format) error {
	chart, err := s.Radar(ctx, players, metricNames)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := s.renderer.Render(w, chart, f); err != nil {
		metrics.RecordErrorByComponent("render", "render_failed")
		s.logger.Error(ctx, "chart render failed", logger.String("format", string(f)), logger.Error(err))
		return err
	}
	metrics.RecordChartRender(string(f), float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"maxPlayers": s.maxPlayers,
	}
	if !s.started {
		return stats
	}

	sum := s.store.Summary()
	stats["players"] = sum.Players
	stats["teams"] = sum.Teams
	stats["leagues"] = sum.Leagues
	stats["metrics"] = sum.Metrics
	stats["unresolvedTeams"] = sum.UnresolvedTeams
	stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	if s.report.RowsRead > 0 {
		stats["rowsRead"] = s.report.RowsRead
		stats["rowsKept"] = s.report.RowsKept
		stats["rowsDropped"] = s.report.Dropped
		stats["loadDurationMs"] = float64(s.report.Duration.Nanoseconds()) / nanosecondsPerMillisecond
	}
	return stats
}
