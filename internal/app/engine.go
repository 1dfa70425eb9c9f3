// Package service runs the multi-season rating fold for handball leagues.
//
// An Engine owns every piece of state for one league: the rating store,
// position and club counters, and the frozen season finals used for
// carry-over. Seasons must be started, filled and ended in chronological
// order. A Service fans independent leagues out to a worker pool, one
// Engine per league.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/handball-elo/internal/adapters/repository"
	"github.com/okian/handball-elo/internal/domain/attribution"
	"github.com/okian/handball-elo/internal/domain/carryover"
	"github.com/okian/handball-elo/internal/domain/club"
	"github.com/okian/handball-elo/internal/domain/dedupe"
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/position"
	"github.com/okian/handball-elo/internal/domain/scoring"
	"github.com/okian/handball-elo/internal/domain/types"
	"github.com/okian/handball-elo/pkg/logger"
	"github.com/okian/handball-elo/pkg/metrics"
)

const (
	aggregateLabel = "aggregate"

	// DefaultAggregateFactor is the share of a match delta applied to the
	// cross-season rating.
	DefaultAggregateFactor = 0.7
)

// Change is the committed rating move of one entity in a match.
type Change struct {
	Entity    model.EntityRef
	Before    float64
	After     float64
	Aggregate float64
}

// SkippedEvent is an event left out of rating.
type SkippedEvent struct {
	Index int
	Err   error
}

// MatchResult reports what ApplyMatch did.
type MatchResult struct {
	MatchID string
	Season  model.Season
	Changes []Change
	Skipped []SkippedEvent
	Stats   scoring.Stats
}

// Engine rates one league. It is not safe for concurrent use.
type Engine struct {
	league string
	logger logger.Logger

	storeOpts       []repository.Option
	scoringOpts     []scoring.Option
	policy          *attribution.Policy
	priorWeight     float64
	aggregateWeight float64
	aggregateFactor float64
	aliases         model.Aliases
	minAppearances  int
	reportSize      int

	store      *repository.TreapStore
	attributor *attribution.Attributor
	updater    scoring.Updater
	carry      *carryover.Calculator
	positions  *position.Classifier
	clubs      *club.Tracker
	deduper    dedupe.Deduper

	open     model.Season
	isOpen   bool
	last     model.Season
	hasLast  bool
	lastDate time.Time
	seasons  []model.Season

	// entities seeded in the open season, keyed by EntityRef.Key
	active map[string]model.EntityRef

	summary types.Summary
}

// NewEngine builds an Engine and its components.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:          logger.Get().Named("engine"),
		priorWeight:     carryover.DefaultPriorWeight,
		aggregateWeight: carryover.DefaultAggregateWeight,
		aggregateFactor: DefaultAggregateFactor,
		minAppearances:  1,
		active:          make(map[string]model.EntityRef),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.league != "" {
		e.logger = e.logger.With(logger.String("league", e.league))
	}

	e.store = repository.NewTreapStore(e.storeOpts...)

	var aOpts []attribution.Option
	if e.policy != nil {
		aOpts = append(aOpts, attribution.WithPolicy(*e.policy))
	}
	a, err := attribution.NewAttributor(aOpts...)
	if err != nil {
		return nil, fmt.Errorf("attribution policy: %w", err)
	}
	e.attributor = a

	c, err := carryover.NewCalculator(e.store, carryover.WithWeights(e.priorWeight, e.aggregateWeight))
	if err != nil {
		return nil, fmt.Errorf("carry-over: %w", err)
	}
	e.carry = c

	if e.updater == nil {
		sOpts := append([]scoring.Option{scoring.WithAliases(e.aliases)}, e.scoringOpts...)
		e.updater = scoring.NewEloUpdater(sOpts...)
	}
	if e.deduper == nil {
		e.deduper = dedupe.NewInMemoryDeduper()
	}
	e.positions = position.NewClassifier()
	e.clubs = club.NewTracker(club.WithMinAppearances(e.minAppearances))
	e.summary = types.Summary{RunID: uuid.NewString(), League: e.league}

	return e, nil
}

// StartSeason opens season. It must come after every season already
// started, and the previous season must be ended first.
func (e *Engine) StartSeason(ctx context.Context, season model.Season) error {
	switch {
	case season == "":
		return &SequenceError{Op: "start", Reason: "empty season label"}
	case e.isOpen:
		return &SequenceError{Op: "start", Season: season, Reason: fmt.Sprintf("season %s still open", e.open)}
	case e.hasLast && !e.last.Before(season):
		return &SequenceError{Op: "start", Season: season, Reason: fmt.Sprintf("not after %s", e.last)}
	}

	e.open = season
	e.isOpen = true
	e.lastDate = time.Time{}
	e.active = make(map[string]model.EntityRef)

	metrics.RecordSeason("start")
	e.logger.Info(ctx, "season started", logger.String("season", string(season)))
	return nil
}

// ApplyMatch rates one match of the open season. All deltas are computed
// against ratings as they stood when the match started and written in one
// step, so a failed call leaves no partial state.
func (e *Engine) ApplyMatch(ctx context.Context, m *model.Match) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}
	if m == nil || m.HomeCode == "" || m.AwayCode == "" || m.HomeCode == m.AwayCode {
		e.summary.MatchesRejected++
		metrics.RecordMatchRejected("invalid")
		return MatchResult{}, fmt.Errorf("%w: match needs two distinct sides", ErrInvalidMatch)
	}
	if err := e.checkSequence(m); err != nil {
		metrics.RecordMatchRejected("sequence")
		return MatchResult{}, err
	}
	if e.deduper.SeenAndRecord(ctx, m.ID) {
		e.summary.MatchesRejected++
		metrics.RecordMatchRejected("duplicate")
		return MatchResult{}, fmt.Errorf("%w: %s", ErrDuplicateMatch, m.ID)
	}

	start := time.Now()
	res := MatchResult{MatchID: m.ID, Season: e.open}

	events := e.attribute(ctx, m, &res)

	snap := scoring.NewSnapshot()
	for _, ref := range scoring.Entities(m, events, e.aliases) {
		ref = e.kindOf(ref)
		e.seed(ctx, ref)
		snap.Put(ref, e.store.Get(ctx, ref, e.open))
		if !ref.IsTeam() {
			if pos, ok := e.positions.Dominant(model.PlayerID(ref.ID)); ok {
				snap.SetPosition(model.PlayerID(ref.ID), pos)
			}
		}
	}

	out := e.updater.Compute(m, events, snap)
	res.Stats = out.Stats
	res.Changes = e.commit(ctx, snap, out.Deltas)
	e.record(events)

	if !m.Date.IsZero() {
		e.lastDate = m.Date
	}
	e.summary.MatchesApplied++
	e.summary.EventsRated += out.Stats.Rated
	e.summary.ZeroDeltaEvents += out.Stats.ZeroDelta

	metrics.RecordMatchApplied(float64(time.Since(start).Microseconds()) / 1000)
	e.logger.Debug(ctx, "match applied",
		logger.String("match_id", m.ID),
		logger.Int("changes", len(res.Changes)),
		logger.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// EndSeason freezes the final ratings of season for carry-over.
func (e *Engine) EndSeason(ctx context.Context, season model.Season) error {
	if !e.isOpen || season != e.open {
		return &SequenceError{Op: "end", Season: season, Reason: "season is not open"}
	}

	finals := make(map[string]carryover.Final, len(e.active))
	for key, ref := range e.active {
		finals[key] = carryover.Final{
			Season:    e.store.Get(ctx, ref, season),
			Aggregate: e.store.GetAggregate(ctx, ref),
		}
	}
	if err := e.carry.Freeze(season, finals); err != nil {
		return fmt.Errorf("freeze %s: %w", season, err)
	}

	e.isOpen = false
	e.last = season
	e.hasLast = true
	e.seasons = append(e.seasons, season)
	e.summary.Seasons++

	players := e.store.Count(ctx, repository.Board{})
	teams := e.store.Count(ctx, repository.Board{Teams: true})
	metrics.RecordSeason("end")
	metrics.UpdateTrackedEntities(model.KindPlayer.String(), players)
	metrics.UpdateTrackedEntities(model.KindTeam.String(), teams)
	e.logger.Info(ctx, "season ended",
		logger.String("season", string(season)),
		logger.Int("entities", len(finals)),
		logger.Int("players", players),
		logger.Int("teams", teams),
	)
	return nil
}

// Run folds seasons in order. Duplicate and invalid matches are logged and
// skipped; any other error stops the run. Cancellation is checked between
// matches.
func (e *Engine) Run(ctx context.Context, seasons []model.SeasonData) error {
	for _, sd := range seasons {
		if err := e.StartSeason(ctx, sd.Season); err != nil {
			return err
		}
		for _, m := range sd.Matches {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := e.ApplyMatch(ctx, m); err != nil {
				if errors.Is(err, ErrDuplicateMatch) || errors.Is(err, ErrInvalidMatch) {
					e.logger.Warn(ctx, "match rejected", logger.Error(err))
					continue
				}
				return err
			}
		}
		if err := e.EndSeason(ctx, sd.Season); err != nil {
			return err
		}
	}
	sum := e.Summary()
	e.logger.Info(ctx, "league rated",
		logger.Int("seasons", sum.Seasons),
		logger.Int("matches", sum.MatchesApplied),
		logger.Int("rejected", sum.MatchesRejected),
		logger.Int64("clamps", sum.Clamps),
	)
	return nil
}

func (e *Engine) checkSequence(m *model.Match) error {
	switch {
	case !e.isOpen:
		return &SequenceError{Op: "apply", Season: m.Season, MatchID: m.ID, Reason: "no season open"}
	case m.Season != "" && m.Season != e.open:
		return &SequenceError{Op: "apply", Season: e.open, MatchID: m.ID, Reason: fmt.Sprintf("match belongs to %s", m.Season)}
	case !m.Date.IsZero() && m.Date.Before(e.lastDate):
		return &SequenceError{
			Op: "apply", Season: e.open, MatchID: m.ID,
			Reason: fmt.Sprintf("dated %s, before %s", m.Date.Format(time.DateOnly), e.lastDate.Format(time.DateOnly)),
		}
	}
	return nil
}

// attribute resolves every event of m, dropping the ones that fail.
func (e *Engine) attribute(ctx context.Context, m *model.Match, res *MatchResult) []attribution.AttributedEvent {
	out := make([]attribution.AttributedEvent, 0, len(m.Events))
	for i, ev := range m.Events {
		e.summary.EventsSeen++
		metrics.RecordEventProcessed()

		ae, err := e.attributor.Attribute(ev, m)
		if err != nil {
			reason := "attribution"
			if errors.Is(err, attribution.ErrConsistency) {
				reason = "consistency"
				e.summary.ConsistencyFailures++
			} else {
				e.summary.AttributionFailures++
			}
			metrics.RecordEventSkipped(reason)
			e.logger.Warn(ctx, "event skipped",
				logger.String("match_id", m.ID),
				logger.Int("event_index", i),
				logger.String("reason", reason),
				logger.Error(err),
			)
			res.Skipped = append(res.Skipped, SkippedEvent{Index: i, Err: err})
			continue
		}

		if raw := strings.TrimSpace(ae.Event.RawType); ae.Event.Type == model.EventUnrecognized && raw != "" {
			if e.summary.UnrecognizedTypes == nil {
				e.summary.UnrecognizedTypes = make(map[string]int)
			}
			e.summary.UnrecognizedTypes[raw]++
		}
		for _, w := range ae.Warnings {
			e.summary.Warnings++
			metrics.RecordEventWarning(string(w))
		}
		out = append(out, ae)
	}
	return out
}

// kindOf promotes players classified as goalkeepers so they get the
// goalkeeper default on first appearance.
func (e *Engine) kindOf(ref model.EntityRef) model.EntityRef {
	if ref.Kind == model.KindPlayer && e.positions.IsGoalkeeper(model.PlayerID(ref.ID)) {
		ref.Kind = model.KindGoalkeeper
	}
	return ref
}

// seed sets the season starting rating of ref once per season.
func (e *Engine) seed(ctx context.Context, ref model.EntityRef) {
	key := ref.Key()
	if _, ok := e.active[key]; ok {
		return
	}
	e.active[key] = ref

	v, src := e.carry.InitialRating(ref, e.open)
	e.store.Set(ctx, ref, e.open, v)
	if !e.store.HasAggregate(ctx, ref) {
		e.store.SetAggregate(ctx, ref, e.store.Default(ref.Kind))
	}
	e.summary.CarryOvers++
	metrics.RecordCarryOver(string(src))
}

func (e *Engine) commit(ctx context.Context, snap *scoring.Snapshot, deltas []scoring.Delta) []Change {
	changes := make([]Change, 0, len(deltas))
	for _, d := range deltas {
		before, _ := snap.Rating(d.Entity)
		after := e.store.Set(ctx, d.Entity, e.open, before+d.Value)
		agg := e.store.SetAggregate(ctx, d.Entity, e.store.GetAggregate(ctx, d.Entity)+d.Value*e.aggregateFactor)
		changes = append(changes, Change{Entity: d.Entity, Before: before, After: after, Aggregate: agg})
	}
	return changes
}

// record feeds positions and one appearance per player into the trackers.
func (e *Engine) record(events []attribution.AttributedEvent) {
	played := make(map[model.PlayerID]model.ClubCode)
	note := func(s attribution.Slot) (model.PlayerID, bool) {
		if !s.Resolved || s.Actor.Name == "" {
			return "", false
		}
		id := e.aliases.PlayerIDOf(s.Actor.Name)
		if _, ok := played[id]; !ok {
			played[id] = s.Team
		}
		return id, true
	}

	for i := range events {
		ev := &events[i]
		if id, ok := note(ev.Primary); ok && ev.Event.Position != "" {
			e.positions.RecordAction(id, ev.Event.Position)
		}
		note(ev.Secondary)
		if id, ok := note(ev.Goalkeeper); ok {
			e.positions.RecordGoalkeeper(id)
		}
	}

	ids := make([]model.PlayerID, 0, len(played))
	for id := range played {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e.clubs.RecordAppearance(id, e.open, played[id])
	}
}

// PlayerRating returns the season rating of a player by name.
func (e *Engine) PlayerRating(ctx context.Context, name string, season model.Season) (float64, bool) {
	return e.rating(ctx, model.PlayerRef(e.aliases.PlayerIDOf(name)), season)
}

// TeamRating returns the season rating of a club.
func (e *Engine) TeamRating(ctx context.Context, code model.ClubCode, season model.Season) (float64, bool) {
	return e.rating(ctx, model.TeamRef(code), season)
}

func (e *Engine) rating(ctx context.Context, ref model.EntityRef, season model.Season) (float64, bool) {
	if !e.store.Has(ctx, ref, season) {
		return 0, false
	}
	return e.store.Get(ctx, ref, season), true
}

// Aggregate returns the cross-season rating of ref.
func (e *Engine) Aggregate(ctx context.Context, ref model.EntityRef) (float64, bool) {
	if !e.store.HasAggregate(ctx, ref) {
		return 0, false
	}
	return e.store.GetAggregate(ctx, ref), true
}

// DominantPosition returns the canonical position of a player by name.
func (e *Engine) DominantPosition(name string) (position.Position, bool) {
	return e.positions.Dominant(e.aliases.PlayerIDOf(name))
}

// DominantClub returns the club a player mostly appeared for in season.
func (e *Engine) DominantClub(name string, season model.Season) (model.ClubCode, bool) {
	return e.clubs.Dominant(e.aliases.PlayerIDOf(name), season)
}

// Clubs returns the dominant club of a player for every season it appeared in.
func (e *Engine) Clubs(name string) map[model.Season]model.ClubCode {
	return e.clubs.Clubs(e.aliases.PlayerIDOf(name))
}

// Roster lists the players of club in season.
func (e *Engine) Roster(season model.Season, code model.ClubCode) []model.PlayerID {
	return e.clubs.Roster(season, code)
}

// Leaderboard returns the top n rows of a board.
func (e *Engine) Leaderboard(ctx context.Context, b repository.Board, n int) ([]repository.Entry, error) {
	return e.store.TopN(ctx, b, n)
}

// Seasons returns the ended seasons in order.
func (e *Engine) Seasons() []model.Season {
	return append([]model.Season(nil), e.seasons...)
}

// Summary returns the run diagnostics so far.
func (e *Engine) Summary() types.Summary {
	s := e.summary
	s.Clamps = e.store.ClampCount()
	if e.summary.UnrecognizedTypes != nil {
		s.UnrecognizedTypes = make(map[string]int, len(e.summary.UnrecognizedTypes))
		for k, v := range e.summary.UnrecognizedTypes {
			s.UnrecognizedTypes[k] = v
		}
	}
	return s
}

// Report renders every ended season and the aggregate tables.
func (e *Engine) Report(ctx context.Context) types.LeagueReport {
	rep := types.LeagueReport{League: e.league, Summary: e.Summary()}
	for _, s := range e.seasons {
		rep.Seasons = append(rep.Seasons, e.table(ctx, s))
	}
	rep.Aggregate = e.table(ctx, "")
	rep.Aggregate.Season = aggregateLabel
	return rep
}

func (e *Engine) table(ctx context.Context, season model.Season) types.SeasonReport {
	out := types.SeasonReport{Season: string(season), Players: []types.RatingRow{}, Teams: []types.RatingRow{}}

	for _, row := range e.rows(ctx, repository.Board{Season: season}) {
		id := model.PlayerID(row.ID)
		if pos, ok := e.positions.Dominant(id); ok {
			row.Position = pos.Code()
		}
		if c, ok := e.clubOf(ctx, id, season); ok {
			row.Club = string(c)
		}
		out.Players = append(out.Players, row)
	}
	out.Teams = append(out.Teams, e.rows(ctx, repository.Board{Teams: true, Season: season})...)
	return out
}

func (e *Engine) rows(ctx context.Context, b repository.Board) []types.RatingRow {
	n := e.store.Count(ctx, b)
	if e.reportSize > 0 && e.reportSize < n {
		n = e.reportSize
	}
	if n == 0 {
		return nil
	}
	entries, err := e.store.TopN(ctx, b, n)
	if err != nil {
		e.logger.Error(ctx, "leaderboard read failed", logger.Error(err))
		return nil
	}
	rows := make([]types.RatingRow, len(entries))
	for i, en := range entries {
		rows[i] = types.RatingRow{Rank: en.Rank, ID: en.ID, Rating: en.Rating}
	}
	return rows
}

// clubOf returns the dominant club of a player in season, or in the latest
// season it was rated when season is empty.
func (e *Engine) clubOf(ctx context.Context, id model.PlayerID, season model.Season) (model.ClubCode, bool) {
	if season != "" {
		return e.clubs.Dominant(id, season)
	}
	rated := e.store.Seasons(ctx, model.PlayerRef(id))
	for i := len(rated) - 1; i >= 0; i-- {
		if c, ok := e.clubs.Dominant(id, rated[i]); ok {
			return c, true
		}
	}
	return "", false
}
