// Package carryover computes the rating an entity starts a season with.
//
// The starting rating blends the entity's final rating of its latest
// finished season with its cross-season aggregate at that moment. Both
// inputs are frozen when a season ends, so InitialRating is a pure
// function of history and may be called any number of times.
package carryover

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/handball-elo/internal/domain/model"
)

// Default blend weights.
const (
	DefaultPriorWeight     = 0.8
	DefaultAggregateWeight = 0.2

	weightTolerance = 1e-9
)

// Final is an entity's frozen state at the end of a season.
type Final struct {
	Season    float64
	Aggregate float64
}

// Source tells whether an initial rating came from history.
type Source string

// Sources of an initial rating.
const (
	SourceDefault Source = "default"
	SourceBlend   Source = "blend"
)

// Defaults supplies the starting rating of an entity kind.
type Defaults interface {
	Default(kind model.EntityKind) float64
}

// Calculator holds frozen finals per season.
type Calculator struct {
	priorWeight     float64
	aggregateWeight float64
	defaults        Defaults

	finals  map[model.Season]map[string]Final // keyed by EntityRef.Key
	seasons []model.Season                    // frozen seasons, chronological
}

// NewCalculator returns a Calculator using defaults for entities without history.
func NewCalculator(defaults Defaults, opts ...Option) (*Calculator, error) {
	c := &Calculator{
		priorWeight:     DefaultPriorWeight,
		aggregateWeight: DefaultAggregateWeight,
		defaults:        defaults,
		finals:          make(map[model.Season]map[string]Final),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := ValidateWeights(c.priorWeight, c.aggregateWeight); err != nil {
		return nil, err
	}
	if c.defaults == nil {
		return nil, fmt.Errorf("%w: nil defaults", ErrInvalidWeights)
	}
	return c, nil
}

// ValidateWeights checks that both weights lie in [0,1] and sum to 1.
func ValidateWeights(prior, aggregate float64) error {
	if prior < 0 || prior > 1 || aggregate < 0 || aggregate > 1 {
		return fmt.Errorf("%w: weights %v/%v outside [0,1]", ErrInvalidWeights, prior, aggregate)
	}
	if math.Abs(prior+aggregate-1) > weightTolerance {
		return fmt.Errorf("%w: weights %v/%v do not sum to 1", ErrInvalidWeights, prior, aggregate)
	}
	return nil
}

// Freeze records the finals of season. A season may be frozen once.
func (c *Calculator) Freeze(season model.Season, finals map[string]Final) error {
	if _, ok := c.finals[season]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyFrozen, season)
	}
	cp := make(map[string]Final, len(finals))
	for k, v := range finals {
		cp[k] = v
	}
	c.finals[season] = cp
	c.seasons = append(c.seasons, season)
	sort.Slice(c.seasons, func(i, j int) bool { return c.seasons[i].Before(c.seasons[j]) })
	return nil
}

// Prior returns the latest frozen final of e strictly before season.
func (c *Calculator) Prior(e model.EntityRef, season model.Season) (model.Season, Final, bool) {
	for i := len(c.seasons) - 1; i >= 0; i-- {
		s := c.seasons[i]
		if !s.Before(season) {
			continue
		}
		if f, ok := c.finals[s][e.Key()]; ok {
			return s, f, true
		}
	}
	return "", Final{}, false
}

// InitialRating returns the starting rating of e for season. Entities with
// no frozen history start at the kind default.
func (c *Calculator) InitialRating(e model.EntityRef, season model.Season) (float64, Source) {
	_, f, ok := c.Prior(e, season)
	if !ok {
		return c.defaults.Default(e.Kind), SourceDefault
	}
	return f.Season*c.priorWeight + f.Aggregate*c.aggregateWeight, SourceBlend
}
