package repository

import (
	"context"
	"math"
	"sort"

	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/pkg/metrics"
)

// Default bounds and starting ratings.
const (
	DefaultMinRating        = 800.0
	DefaultMaxRating        = 3000.0
	DefaultPlayerRating     = 1200.0
	DefaultGoalkeeperRating = 1250.0
	DefaultTeamRating       = 1350.0
)

const (
	scopeSeason    = "season"
	scopeAggregate = "aggregate"
)

// TreapStore keeps ratings in maps and mirrors each board in a treap for
// ranked reads. It holds no locks.
type TreapStore struct {
	min, max float64
	defaults map[model.EntityKind]float64

	seasonal  map[model.Season]map[string]float64 // keyed by EntityRef.Key
	aggregate map[string]float64
	boards    map[Board]*node

	clamps int64
}

// NewTreapStore constructs an empty store.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		min: DefaultMinRating,
		max: DefaultMaxRating,
		defaults: map[model.EntityKind]float64{
			model.KindPlayer:     DefaultPlayerRating,
			model.KindGoalkeeper: DefaultGoalkeeperRating,
			model.KindTeam:       DefaultTeamRating,
		},
		seasonal:  make(map[model.Season]map[string]float64),
		aggregate: make(map[string]float64),
		boards:    make(map[Board]*node),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the closed rating interval.
func (s *TreapStore) Bounds() (lower, upper float64) { return s.min, s.max }

// Default returns the starting rating for kind.
func (s *TreapStore) Default(kind model.EntityKind) float64 { return s.defaults[kind] }

func (s *TreapStore) clamp(v float64, scope string) float64 {
	out := v
	switch {
	case math.IsNaN(v):
		out = s.min
	case v < s.min:
		out = s.min
	case v > s.max:
		out = s.max
	}
	if out != v {
		s.clamps++
		metrics.RecordRatingClamp(scope)
	}
	return out
}

// Get implements Store.Get.
func (s *TreapStore) Get(_ context.Context, e model.EntityRef, season model.Season) float64 {
	if v, ok := s.seasonal[season][e.Key()]; ok {
		return v
	}
	return s.defaults[e.Kind]
}

// Has implements Store.Has.
func (s *TreapStore) Has(_ context.Context, e model.EntityRef, season model.Season) bool {
	_, ok := s.seasonal[season][e.Key()]
	return ok
}

// Set implements Store.Set. An empty season names the aggregate board, so
// the write is dropped and the kind default returned; use SetAggregate.
func (s *TreapStore) Set(_ context.Context, e model.EntityRef, season model.Season, value float64) float64 {
	if season == "" {
		return s.defaults[e.Kind]
	}
	v := s.clamp(value, scopeSeason)
	bySeason, ok := s.seasonal[season]
	if !ok {
		bySeason = make(map[string]float64)
		s.seasonal[season] = bySeason
	}
	old, existed := bySeason[e.Key()]
	bySeason[e.Key()] = v
	s.reindex(Board{Teams: e.IsTeam(), Season: season}, e.ID, old, existed, v)
	return v
}

// GetAggregate implements Store.GetAggregate.
func (s *TreapStore) GetAggregate(_ context.Context, e model.EntityRef) float64 {
	if v, ok := s.aggregate[e.Key()]; ok {
		return v
	}
	return s.defaults[e.Kind]
}

// HasAggregate implements Store.HasAggregate.
func (s *TreapStore) HasAggregate(_ context.Context, e model.EntityRef) bool {
	_, ok := s.aggregate[e.Key()]
	return ok
}

// SetAggregate implements Store.SetAggregate.
func (s *TreapStore) SetAggregate(_ context.Context, e model.EntityRef, value float64) float64 {
	v := s.clamp(value, scopeAggregate)
	old, existed := s.aggregate[e.Key()]
	s.aggregate[e.Key()] = v
	s.reindex(Board{Teams: e.IsTeam()}, e.ID, old, existed, v)
	return v
}

func (s *TreapStore) reindex(b Board, id string, old float64, existed bool, v float64) {
	root := s.boards[b]
	if existed {
		if old == v {
			return
		}
		root = remove(root, id, old)
	}
	s.boards[b] = insert(root, id, v)
}

func (s *TreapStore) lookup(e model.EntityRef, season model.Season) (float64, bool) {
	if season == "" {
		v, ok := s.aggregate[e.Key()]
		return v, ok
	}
	v, ok := s.seasonal[season][e.Key()]
	return v, ok
}

// Rank implements Store.Rank. An empty season ranks the aggregate rating.
func (s *TreapStore) Rank(_ context.Context, e model.EntityRef, season model.Season) (Entry, error) {
	v, ok := s.lookup(e, season)
	if !ok {
		return Entry{}, ErrNotFound
	}
	root := s.boards[Board{Teams: e.IsTeam(), Season: season}]
	return Entry{Rank: countAbove(root, v) + 1, ID: e.ID, Rating: v}, nil
}

// TopN implements Store.TopN.
func (s *TreapStore) TopN(_ context.Context, b Board, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	out := make([]Entry, 0, min(n, nsize(s.boards[b])))
	collect(s.boards[b], n, &out)
	assignRanks(out)
	return out, nil
}

// IDs implements Store.IDs.
func (s *TreapStore) IDs(_ context.Context, b Board) []string {
	var all []Entry
	collect(s.boards[b], -1, &all)
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	sort.Strings(ids)
	return ids
}

// Count implements Store.Count.
func (s *TreapStore) Count(_ context.Context, b Board) int {
	return nsize(s.boards[b])
}

// Seasons returns the seasons in which e has a rating, in chronological order.
func (s *TreapStore) Seasons(_ context.Context, e model.EntityRef) []model.Season {
	var out []model.Season
	for season, bySeason := range s.seasonal {
		if _, ok := bySeason[e.Key()]; ok {
			out = append(out, season)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ClampCount implements Store.ClampCount.
func (s *TreapStore) ClampCount() int64 { return s.clamps }
