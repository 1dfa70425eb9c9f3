package attribution

// Option applies a configuration option to the Attributor.
type Option func(*Attributor)

// WithPolicy replaces the secondary-type classification.
func WithPolicy(p Policy) Option {
	return func(a *Attributor) {
		a.policy = p
	}
}
