package service

import (
	"github.com/okian/handball-elo/internal/adapters/repository"
	"github.com/okian/handball-elo/internal/domain/attribution"
	"github.com/okian/handball-elo/internal/domain/dedupe"
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/scoring"
	"github.com/okian/handball-elo/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLeague names the league the engine rates.
func WithLeague(name string) Option {
	return func(e *Engine) { e.league = name }
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStoreOptions configures the rating store the engine creates.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(e *Engine) { e.storeOpts = append(e.storeOpts, opts...) }
}

// WithScoringOptions configures the match updater.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(e *Engine) { e.scoringOpts = append(e.scoringOpts, opts...) }
}

// WithUpdater replaces the match updater.
func WithUpdater(u scoring.Updater) Option {
	return func(e *Engine) {
		if u != nil {
			e.updater = u
		}
	}
}

// WithPolicy sets the secondary-actor attribution policy.
func WithPolicy(p attribution.Policy) Option {
	return func(e *Engine) { e.policy = &p }
}

// WithCarryOverWeights sets the prior-final and aggregate blend weights.
func WithCarryOverWeights(prior, aggregate float64) Option {
	return func(e *Engine) {
		e.priorWeight = prior
		e.aggregateWeight = aggregate
	}
}

// WithAggregateFactor sets the share of each match delta applied to the
// cross-season rating. Values outside [0,1] are ignored.
func WithAggregateFactor(f float64) Option {
	return func(e *Engine) {
		if f >= 0 && f <= 1 {
			e.aggregateFactor = f
		}
	}
}

// WithAliases maps alternative player spellings onto one identity.
func WithAliases(a model.Aliases) Option {
	return func(e *Engine) { e.aliases = a }
}

// WithMinAppearances sets the appearances needed to list a player on a
// club roster.
func WithMinAppearances(n int) Option {
	return func(e *Engine) { e.minAppearances = n }
}

// WithDeduper shares a match-id deduper between engines.
func WithDeduper(d dedupe.Deduper) Option {
	return func(e *Engine) {
		if d != nil {
			e.deduper = d
		}
	}
}

// WithReportSize limits the rows per table in Report. Zero lists all.
func WithReportSize(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.reportSize = n
		}
	}
}

// ServiceOption applies a configuration option to the Service.
type ServiceOption func(*Service)

// WithWorkerCount sets the number of leagues rated in parallel.
func WithWorkerCount(count int) ServiceOption {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the league job queue.
func WithQueueSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many match ids each league engine remembers.
func WithDedupeSize(size int) ServiceOption {
	return func(s *Service) { s.dedupeSize = size }
}

// WithEngineOptions sets the options every league engine is built with.
func WithEngineOptions(opts ...Option) ServiceOption {
	return func(s *Service) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithServiceLogger sets a custom logger for the service.
func WithServiceLogger(l logger.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
