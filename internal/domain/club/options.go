package club

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithMinAppearances sets the appearance count a player needs to be listed
// in a club roster.
func WithMinAppearances(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.minAppearances = n
		}
	}
}
