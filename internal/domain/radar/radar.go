// Package radar builds polar comparison charts: one trace per player, one axis
// per metric, every radius scaled by the metric's dataset-wide maximum.
package radar

import (
	"errors"
	"strconv"

	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/model"
)

// Source is the part of the dataset the builder reads.
type Source interface {
	Player(name string) (model.PlayerRecord, error)
	MaxOf(metric string) (float64, error)
}

// Point is one vertex of a trace.
type Point struct {
	Axis    string  `json:"axis"`
	Radius  float64 `json:"r"`
	Display float64 `json:"value"`
}

// Trace is the closed polygon of one player.
type Trace struct {
	Player string  `json:"player"`
	Team   string  `json:"team"`
	Points []Point `json:"points"`
}

// Chart is a built radar chart. Every trace shares Axes as its axis order.
type Chart struct {
	Axes        []string   `json:"axes"`
	Traces      []Trace    `json:"traces"`
	RadialRange [2]float64 `json:"radial_range"`
}

// Option applies a configuration option to Build.
type Option func(*builder)

type builder struct {
	maxPlayers int
}

// WithMaxPlayers rejects requests comparing more than n players.
func WithMaxPlayers(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.maxPlayers = n
		}
	}
}

// Build returns one trace per player, in players order, each with one point
// per metric, in metrics order. A metric whose maximum is zero yields radius 0.
func Build(src Source, players, metrics []string, opts ...Option) (Chart, error) {
	b := builder{}
	for _, opt := range opts {
		opt(&b)
	}
	if b.maxPlayers > 0 && len(players) > b.maxPlayers {
		return Chart{}, &ValidationError{Kind: KindTooManyPlayers, Value: strconv.Itoa(b.maxPlayers)}
	}

	maxima := make([]float64, len(metrics))
	for i, m := range metrics {
		v, err := src.MaxOf(m)
		if err != nil {
			if errors.Is(err, repository.ErrMetricNotFound) {
				return Chart{}, &ValidationError{Kind: KindUnknownMetric, Value: m}
			}
			return Chart{}, err
		}
		maxima[i] = v
	}

	chart := Chart{
		Axes:        append(make([]string, 0, len(metrics)), metrics...),
		Traces:      make([]Trace, 0, len(players)),
		RadialRange: [2]float64{0, 1},
	}
	for _, name := range players {
		p, err := src.Player(name)
		if err != nil {
			if errors.Is(err, repository.ErrPlayerNotFound) {
				return Chart{}, &ValidationError{Kind: KindUnknownPlayer, Value: name}
			}
			return Chart{}, err
		}
		trace := Trace{Player: p.Name, Team: p.Team, Points: make([]Point, len(metrics))}
		for i, m := range metrics {
			raw, _ := p.Value(m)
			trace.Points[i] = Point{Axis: m, Radius: normalize(raw, maxima[i]), Display: raw}
		}
		chart.Traces = append(chart.Traces, trace)
	}
	return chart, nil
}

func normalize(raw, maxValue float64) float64 {
	if maxValue == 0 {
		return 0
	}
	return raw / maxValue
}
