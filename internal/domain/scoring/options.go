package scoring

import (
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/position"
)

// Option applies a configuration option to the EloUpdater.
type Option func(*EloUpdater)

// WithKFactors sets the base K of field players, goalkeepers and teams.
// Non-positive values keep the default.
func WithKFactors(player, goalkeeper, team float64) Option {
	return func(u *EloUpdater) {
		if player > 0 {
			u.kPlayer = player
		}
		if goalkeeper > 0 {
			u.kGoalkeeper = goalkeeper
		}
		if team > 0 {
			u.kTeam = team
		}
	}
}

// WithHomeAdvantage sets the rating bonus of the home side.
func WithHomeAdvantage(points float64) Option {
	return func(u *EloUpdater) { u.homeAdvantage = points }
}

// WithMaxEventDelta caps the change a single event may cause per entity.
// Zero disables the cap.
func WithMaxEventDelta(limit float64) Option {
	return func(u *EloUpdater) {
		if limit >= 0 {
			u.maxEventDelta = limit
		}
	}
}

// WithActionWeights overrides action weights by report label, e.g.
// {"Mål": 70}. Unknown labels are ignored.
func WithActionWeights(weights map[string]float64) Option {
	return func(u *EloUpdater) {
		for label, w := range weights {
			if t := model.ParseEventType(label); t != model.EventUnrecognized {
				u.actionWeights[t] = w
			}
		}
	}
}

// WithPositionMultipliers overrides K multipliers by position code, e.g.
// {"PL": 0.7}. Unknown codes are ignored.
func WithPositionMultipliers(mult map[string]float64) Option {
	return func(u *EloUpdater) {
		for code, m := range mult {
			if p, ok := position.Parse(code); ok && m > 0 {
				u.positionMultipliers[p] = m
			}
		}
	}
}

// WithScoreBands replaces the closeness multipliers. beyond applies when the
// difference exceeds every band.
func WithScoreBands(bands []ScoreBand, beyond float64) Option {
	return func(u *EloUpdater) {
		if len(bands) > 0 {
			u.scoreBands = append([]ScoreBand(nil), bands...)
			u.beyondBands = beyond
		}
	}
}

// WithEliteTiers replaces the gain dampening tiers. Tiers are checked in
// order, so list the highest threshold first.
func WithEliteTiers(tiers []EliteTier) Option {
	return func(u *EloUpdater) { u.eliteTiers = append([]EliteTier(nil), tiers...) }
}

// WithAliases resolves player names through aliases.
func WithAliases(a model.Aliases) Option {
	return func(u *EloUpdater) { u.aliases = a }
}
