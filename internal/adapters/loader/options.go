package loader

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithMinMinutes keeps only players with more than minutes played.
// Zero disables the filter.
func WithMinMinutes(minutes float64) Option {
	return func(l *Loader) {
		if minutes >= 0 {
			l.minMinutes = minutes
		}
	}
}

// WithPlayerColumns overrides the team, player and minutes column names of
// the player table. Empty names keep the current value.
func WithPlayerColumns(team, player, minutes string) Option {
	return func(l *Loader) {
		if team != "" {
			l.teamColumn = team
		}
		if player != "" {
			l.playerColumn = player
		}
		if minutes != "" {
			l.minutesColumn = minutes
		}
	}
}

// WithLookupColumns overrides the team and league column names of the
// lookup table. Empty names keep the current value.
func WithLookupColumns(team, league string) Option {
	return func(l *Loader) {
		if team != "" {
			l.lookupTeamColumn = team
		}
		if league != "" {
			l.lookupLeagueColumn = league
		}
	}
}
