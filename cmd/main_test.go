package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/radar/internal/config"
	"github.com/okian/radar/internal/sampledata"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeSample(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	players := filepath.Join(dir, "players.csv")
	lookup := filepath.Join(dir, "lookup.csv")
	cfg := sampledata.DefaultConfig()
	cfg.PlayersPerTeam = 6
	if err := sampledata.Generate(context.Background(), cfg).WriteFiles(players, lookup); err != nil {
		t.Fatal(err)
	}
	return players, lookup
}

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		players, lookup := writeSample(t)

		convey.Convey("When testing configuration loading", func() {
			setEnv(t, map[string]string{
				"RADAR_ADDR":        ":8080",
				"RADAR_DATA_PATH":   players,
				"RADAR_LOOKUP_PATH": lookup,
				"RADAR_MAX_PLAYERS": "4",
			})

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataPath, convey.ShouldEqual, players)
				convey.So(cfg.MaxPlayers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When building the service from configuration", func() {
			cfg := config.New()
			cfg.DataPath, cfg.LookupPath = players, lookup
			svc := newService(cfg, logger.Discard())

			convey.Convey("Then it should load the dataset", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
				defer svc.Stop()
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["leagues"], convey.ShouldEqual, 5)
			})
		})
	})
}

func TestMainRoutes(t *testing.T) {
	convey.Convey("Given a started service and the full mux", t, func() {
		players, lookup := writeSample(t)
		ctx := context.Background()
		cfg := config.New()
		cfg.DataPath, cfg.LookupPath = players, lookup
		svc := newService(cfg, logger.Discard())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, svc, logger.Discard())

		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
			return w
		}

		convey.Convey("Then the page should be served at /", func() {
			w := get("/")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Player Radar")
		})

		convey.Convey("And the API should answer", func() {
			convey.So(get("/api/leagues").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api/defaults").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And the default stars should be comparable", func() {
			w := get("/api/radar?player=L.+Messi&player=Cristiano+Ronaldo&metric=xG+per+90")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"player":"L. Messi"`)
		})

		convey.Convey("And the docs should be served", func() {
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And metrics should be exposed", func() {
			w := get("/healthz")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "radar_dashboard_dataset_players")
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			setEnv(t, map[string]string{"RADAR_ADDR": ""})

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the dataset is missing", func() {
			setEnv(t, map[string]string{
				"RADAR_ADDR":        "127.0.0.1:0",
				"RADAR_DATA_PATH":   filepath.Join(t.TempDir(), "missing.csv"),
				"RADAR_LOOKUP_PATH": filepath.Join(t.TempDir(), "missing.csv"),
			})

			convey.Convey("Then run should fail before serving", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				convey.So(run(ctx), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestInitMetrics(t *testing.T) {
	convey.Convey("Given a config with custom metric naming", t, func() {
		cfg := config.New()
		cfg.MetricsNamespace = "club"
		cfg.MetricsInstance = "eu-1"
		initMetrics(cfg)
		defer initMetrics(config.New())

		convey.Convey("When the system metrics are updated", func() {
			updateSystemMetrics()
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then series should use the configured namespace and instance label", func() {
				found := false
				for _, f := range families {
					if f.GetName() == "club_dashboard_system_goroutine_count" {
						found = true
						convey.So(f.GetMetric()[0].GetLabel()[0].GetName(), convey.ShouldEqual, "instance")
						convey.So(f.GetMetric()[0].GetLabel()[0].GetValue(), convey.ShouldEqual, "eu-1")
					}
				}
				convey.So(found, convey.ShouldBeTrue)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}
