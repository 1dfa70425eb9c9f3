package repository

import "github.com/okian/handball-elo/internal/domain/model"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithBounds sets the closed rating interval. Ignored unless lower < upper.
func WithBounds(lower, upper float64) Option {
	return func(s *TreapStore) {
		if lower < upper {
			s.min, s.max = lower, upper
		}
	}
}

// WithDefault sets the starting rating of kind. Ignored unless positive.
func WithDefault(kind model.EntityKind, rating float64) Option {
	return func(s *TreapStore) {
		if rating > 0 {
			s.defaults[kind] = rating
		}
	}
}
