package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/radar/internal/adapters/http/api"
	"github.com/okian/radar/internal/adapters/render"
	"github.com/okian/radar/internal/domain/radar"
	"github.com/okian/radar/internal/domain/types"
	"github.com/okian/radar/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	gotLeagues []string
	gotAll     bool
	gotTeams   []string
	gotPlayers []string
	gotMetrics []string
	err        error
}

func (m *mockDependencies) Leagues(ctx context.Context) ([]types.Option, error) {
	if m.err != nil {
		return nil, m.err
	}
	return types.OptionsOf([]string{"La Liga", "Serie A"}), nil
}

func (m *mockDependencies) Teams(ctx context.Context, leagues []string, all bool) ([]types.Option, error) {
	m.gotLeagues, m.gotAll = leagues, all
	if m.err != nil {
		return nil, m.err
	}
	return types.OptionsOf(leagues), nil
}

func (m *mockDependencies) Players(ctx context.Context, teams []string) ([]types.Option, error) {
	m.gotTeams = teams
	if m.err != nil {
		return nil, m.err
	}
	return types.OptionsOf([]string{}), nil
}

func (m *mockDependencies) Metrics(ctx context.Context) ([]types.Option, error) {
	return types.OptionsOf([]string{"Goals"}), m.err
}

func (m *mockDependencies) Defaults(ctx context.Context) (types.Selection, error) {
	return types.Selection{
		Leagues: []string{"La Liga"},
		Teams:   []string{"Barcelona"},
		Players: []string{"L. Messi"},
		Metrics: []string{"Goals"},
	}, m.err
}

func (m *mockDependencies) Radar(ctx context.Context, players, metrics []string) (radar.Chart, error) {
	m.gotPlayers, m.gotMetrics = players, metrics
	if m.err != nil {
		return radar.Chart{}, m.err
	}
	return radar.Chart{
		Axes:        metrics,
		Traces:      []radar.Trace{{Player: "L. Messi", Team: "Barcelona", Points: []radar.Point{{Axis: "Goals", Radius: 1, Display: 30}}}},
		RadialRange: [2]float64{0, 1},
	}, nil
}

func (m *mockDependencies) RenderRadar(ctx context.Context, w io.Writer, players, metrics []string, f render.Format) error {
	m.gotPlayers, m.gotMetrics = players, metrics
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "image/%s", f)
	return err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies, opts ...api.ServerOption) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"players": 4}}, opts...)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Then health endpoint should expose metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats endpoint should return the provider's stats", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"players":4`)
			So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")
		})

		Convey("And every response should carry a request id", func() {
			w := get(mux, "/api/leagues")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("And a well-formed incoming request id should be echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/leagues", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "7c2d3b8e-2f56-4a57-9a55-5f0f4f1c1d2e")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "7c2d3b8e-2f56-4a57-9a55-5f0f4f1c1d2e")
		})

		Convey("And unknown paths should not be handled", func() {
			w := get(mux, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And non-GET requests should be rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/radar", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSelectionHandler(t *testing.T) {
	Convey("Given the selection routes", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When listing leagues", func() {
			w := get(mux, "/api/leagues")

			Convey("Then options should be returned as label/value pairs", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				var opts []types.Option
				So(json.NewDecoder(w.Body).Decode(&opts), ShouldBeNil)
				So(opts, ShouldResemble, []types.Option{
					{Label: "La Liga", Value: "La Liga"},
					{Label: "Serie A", Value: "Serie A"},
				})
			})
		})

		Convey("When listing teams for repeated league parameters", func() {
			w := get(mux, "/api/teams?league=Serie+A&league=+&league=La+Liga")

			Convey("Then blank values should be skipped", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotLeagues, ShouldResemble, []string{"Serie A", "La Liga"})
				So(deps.gotAll, ShouldBeFalse)
			})
		})

		Convey("When listing every team", func() {
			w := get(mux, "/api/teams?all=true")

			Convey("Then the all flag should be forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotAll, ShouldBeTrue)
			})
		})

		Convey("When the all flag is malformed", func() {
			w := get(mux, "/api/teams?all=maybe")

			Convey("Then a bad request should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When listing players without teams", func() {
			w := get(mux, "/api/players")

			Convey("Then an empty JSON array should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "[]\n")
				So(deps.gotTeams, ShouldBeEmpty)
			})
		})

		Convey("When asking for defaults", func() {
			w := get(mux, "/api/defaults")

			Convey("Then the selection should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var sel types.Selection
				So(json.NewDecoder(w.Body).Decode(&sel), ShouldBeNil)
				So(sel.Players, ShouldResemble, []string{"L. Messi"})
			})
		})

		Convey("When the service fails", func() {
			deps.err = errors.New("boom")
			w := get(mux, "/api/metrics")

			Convey("Then an internal error should be returned without details", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["message"], ShouldNotContainSubstring, "boom")
			})
		})
	})
}

func TestRadarHandler(t *testing.T) {
	Convey("Given the radar routes", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When requesting a chart", func() {
			w := get(mux, "/api/radar?player=L.+Messi&metric=Goals&metric=Assists")

			Convey("Then parameters should be forwarded in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotPlayers, ShouldResemble, []string{"L. Messi"})
				So(deps.gotMetrics, ShouldResemble, []string{"Goals", "Assists"})
			})

			Convey("And the chart should be encoded as JSON", func() {
				var chart radar.Chart
				So(json.NewDecoder(w.Body).Decode(&chart), ShouldBeNil)
				So(chart.RadialRange, ShouldResemble, [2]float64{0, 1})
				So(chart.Traces[0].Points[0].Display, ShouldEqual, 30)
			})
		})

		Convey("When a validation error is raised", func() {
			deps.err = &radar.ValidationError{Kind: radar.KindUnknownPlayer, Value: "Pelé"}
			w := get(mux, "/api/radar?player=Pel%C3%A9&metric=Goals")

			Convey("Then the kind should be the error code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "unknown_player")
				So(body["message"], ShouldEqual, `unknown player "Pelé"`)
			})
		})

		Convey("When too many players are requested", func() {
			deps.err = fmt.Errorf("build: %w", &radar.ValidationError{Kind: radar.KindTooManyPlayers, Value: "10"})
			w := get(mux, "/api/radar.png?player=a")

			Convey("Then the image route should answer with a JSON error", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "too_many_players")
			})
		})

		Convey("When requesting a PNG", func() {
			w := get(mux, "/api/radar.png?player=L.+Messi&metric=Goals")

			Convey("Then the image should be returned with its content type", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "radar.png")
				So(w.Body.String(), ShouldEqual, "image/png")
			})
		})

		Convey("When requesting an SVG", func() {
			w := get(mux, "/api/radar.svg?player=L.+Messi&metric=Goals")

			Convey("Then the SVG content type should be used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
			})
		})
	})
}

func TestServerFailureLogging(t *testing.T) {
	Convey("Given a server with an injected logger", t, func() {
		var buf bytes.Buffer
		l, err := logger.New(&buf, logger.FormatJSON)
		So(err, ShouldBeNil)
		deps := &mockDependencies{err: errors.New("disk on fire")}
		mux := newMux(deps, api.WithLogger(l))

		Convey("When a handler fails with an internal error", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/leagues", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "7c2d3b8e-2f56-4a57-9a55-5f0f4f1c1d2e")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the cause should be logged with the request id", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(buf.String(), ShouldContainSubstring, "disk on fire")
				So(buf.String(), ShouldContainSubstring, "7c2d3b8e-2f56-4a57-9a55-5f0f4f1c1d2e")
			})

			Convey("And the response should not carry the cause", func() {
				So(w.Body.String(), ShouldNotContainSubstring, "disk on fire")
			})
		})

		Convey("When a request fails validation", func() {
			deps.err = &radar.ValidationError{Kind: radar.KindUnknownMetric, Value: "Tackles"}
			w := get(mux, "/api/radar?player=a&metric=Tackles")

			Convey("Then nothing should be logged", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		Convey("Then Wrap should keep the chain", func() {
			err := api.Wrap("op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "op: bad request")
		})

		Convey("And Wrap of nil should be nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})

		Convey("And NewKind should match its kind", func() {
			So(errors.Is(api.NewKind("op", api.ErrInternal), api.ErrInternal), ShouldBeTrue)
		})
	})
}
