// Package repository holds current ratings per entity, per season and
// across seasons, with ranked views over each.
package repository

import (
	"context"

	"github.com/okian/handball-elo/internal/domain/model"
)

// Entry is one row of a rating leaderboard.
type Entry struct {
	Rank   int
	ID     string
	Rating float64
}

// Board selects which leaderboard to read: teams or players, for one
// season, or across seasons when Season is empty.
type Board struct {
	Teams  bool
	Season model.Season
}

// Store provides read/write access to ratings. Implementations are not
// required to be safe for concurrent use: callers partition entities so
// that one Store is only ever mutated by one goroutine.
type Store interface {
	// Get returns the season rating of e, or the kind default when unset.
	Get(ctx context.Context, e model.EntityRef, season model.Season) float64
	// Set clamps value into bounds, stores it and returns the stored value.
	// Writes without a season are ignored.
	Set(ctx context.Context, e model.EntityRef, season model.Season, value float64) float64
	// Has reports whether e has a season rating.
	Has(ctx context.Context, e model.EntityRef, season model.Season) bool

	// GetAggregate returns the cross-season rating of e, or the kind default.
	GetAggregate(ctx context.Context, e model.EntityRef) float64
	// SetAggregate clamps and stores the cross-season rating of e.
	SetAggregate(ctx context.Context, e model.EntityRef, value float64) float64
	// HasAggregate reports whether e has a cross-season rating.
	HasAggregate(ctx context.Context, e model.EntityRef) bool

	// Rank returns the leaderboard row of e. ErrNotFound when unrated.
	Rank(ctx context.Context, e model.EntityRef, season model.Season) (Entry, error)
	// TopN returns up to n rows ordered by rating desc, then id asc.
	TopN(ctx context.Context, b Board, n int) ([]Entry, error)
	// IDs returns the ids rated on a board, sorted.
	IDs(ctx context.Context, b Board) []string
	// Count returns the number of rated entities on a board.
	Count(ctx context.Context, b Board) int

	// ClampCount returns the number of writes clamped so far.
	ClampCount() int64
}
