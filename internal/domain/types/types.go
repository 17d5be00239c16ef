// Package types contains common types used across the application
package types

// Option is a single entry of a selection list.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OptionsOf turns values into options labelled with the value itself.
// The result is never nil so it encodes as an empty JSON array.
func OptionsOf(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Label: v, Value: v})
	}
	return out
}

// Values returns the option values in order.
func Values(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

// Selection holds the current value of every selection list on the page.
type Selection struct {
	Leagues []string `json:"leagues"`
	Teams   []string `json:"teams"`
	Players []string `json:"players"`
	Metrics []string `json:"metrics"`
}
