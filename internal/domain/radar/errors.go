package radar

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid chart request")

// Kind identifies why a chart request was rejected. Values are stable and
// exposed to API clients.
type Kind string

// Validation kinds.
const (
	KindUnknownPlayer  Kind = "unknown_player"
	KindUnknownMetric  Kind = "unknown_metric"
	KindTooManyPlayers Kind = "too_many_players"
)

// ValidationError reports a chart request that references data the dataset
// does not hold, or exceeds the configured limits.
type ValidationError struct {
	Kind  Kind
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindUnknownPlayer:
		return fmt.Sprintf("unknown player %q", e.Value)
	case KindUnknownMetric:
		return fmt.Sprintf("unknown metric %q", e.Value)
	case KindTooManyPlayers:
		return "too many players: at most " + e.Value
	}
	return ErrValidation.Error()
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// KindOf returns the validation kind of err, if any.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}
