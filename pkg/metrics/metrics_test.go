package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "radar")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordRadarBuild(0.3)

			Convey("Then the metric names should carry the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_radar_builds_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When the dataset is reported", func() {
			m.UpdateDataset(DatasetSize{Players: 1800, Teams: 98, Leagues: 5, Metrics: 110, UnresolvedTeams: 2})
			m.RecordRowsDropped("missing_team", 3)
			m.RecordRowsDropped("missing_team", 2)
			m.RecordDatasetLoad(42, 1_700_000_000)

			Convey("Then the gauges should hold the counts", func() {
				So(testutil.ToFloat64(m.datasetPlayers), ShouldEqual, 1800)
				So(testutil.ToFloat64(m.datasetTeams), ShouldEqual, 98)
				So(testutil.ToFloat64(m.datasetLeagues), ShouldEqual, 5)
				So(testutil.ToFloat64(m.datasetMetrics), ShouldEqual, 110)
				So(testutil.ToFloat64(m.datasetUnresolvedTeams), ShouldEqual, 2)
				So(testutil.ToFloat64(m.datasetRowsDropped.WithLabelValues("missing_team")), ShouldEqual, 5)
				So(testutil.ToFloat64(m.datasetLoadDurationMs), ShouldEqual, 42)
				So(testutil.ToFloat64(m.datasetLoadedUnix), ShouldEqual, 1_700_000_000)
			})
		})

		Convey("When charts are built and rejected", func() {
			m.RecordRadarBuild(1.5)
			m.RecordRadarBuild(2.5)
			m.RecordValidationError("unknown_player")
			m.RecordOptionQuery("teams")
			m.RecordChartRender("png", 12)

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(m.radarBuilds), ShouldEqual, 2)
				So(testutil.ToFloat64(m.validationErrors.WithLabelValues("unknown_player")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.optionQueries.WithLabelValues("teams")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.chartRenders.WithLabelValues("png")), ShouldEqual, 1)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through package helpers", func() {
			So(func() {
				UpdateDataset(DatasetSize{Players: 10})
				RecordRowsDropped("below_min_minutes", 1)
				RecordDatasetLoad(5, 1)
				RecordRadarBuild(1)
				RecordValidationError("unknown_metric")
				RecordOptionQuery("players")
				RecordChartRender("svg", 3)
				RecordHTTPRequest("radar", "GET", "200")
				RecordHTTPRequestDuration("radar", "GET", "200", 4)
				RecordErrorByComponent("loader", "missing_column")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("radar", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			Convey("Then the custom registry should expose them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "radar_dashboard_radar_builds_total")
				So(joined, ShouldContainSubstring, "radar_dashboard_http_requests_total")
				So(joined, ShouldContainSubstring, "radar_dashboard_dataset_players")
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager rebuilt with options", t, func() {
		Init(
			WithNamespace("club"),
			WithSubsystem("scouting"),
			WithConstLabels(map[string]string{"instance": "eu-1"}),
		)
		defer Init()
		RecordRadarBuild(2)

		Convey("Then the registry should expose the configured names and labels", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var builds float64
			var instance string
			for _, f := range families {
				So(f.GetName(), ShouldStartWith, "club_scouting_")
				if f.GetName() == "club_scouting_radar_builds_total" {
					builds = f.GetMetric()[0].GetCounter().GetValue()
					instance = f.GetMetric()[0].GetLabel()[0].GetValue()
				}
			}
			So(builds, ShouldEqual, 1)
			So(instance, ShouldEqual, "eu-1")
		})

		Convey("And earlier recordings should not carry over", func() {
			Init()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			for _, f := range families {
				if f.GetName() == "radar_dashboard_radar_builds_total" {
					So(f.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 0)
				}
			}
		})
	})
}
