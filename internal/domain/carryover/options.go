package carryover

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights sets the prior-season and aggregate blend weights. They are
// validated by NewCalculator.
func WithWeights(prior, aggregate float64) Option {
	return func(c *Calculator) {
		c.priorWeight = prior
		c.aggregateWeight = aggregate
	}
}
