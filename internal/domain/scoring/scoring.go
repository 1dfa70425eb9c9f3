// Package scoring computes ELO rating deltas for one match.
//
// All deltas of a match are computed from a Snapshot of ratings taken at
// match start and returned to the caller, which commits them in one step.
// Computation is a pure function of its inputs.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/handball-elo/internal/domain/attribution"
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/position"
)

// Snapshot is the frozen state a match is rated against.
type Snapshot struct {
	ratings   map[string]float64
	positions map[model.PlayerID]position.Position
}

// NewSnapshot returns an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ratings:   make(map[string]float64),
		positions: make(map[model.PlayerID]position.Position),
	}
}

// Put records the match-start rating of e.
func (s *Snapshot) Put(e model.EntityRef, rating float64) { s.ratings[e.Key()] = rating }

// Rating returns the match-start rating of e.
func (s *Snapshot) Rating(e model.EntityRef) (float64, bool) {
	r, ok := s.ratings[e.Key()]
	return r, ok
}

// SetPosition records the match-start position of p.
func (s *Snapshot) SetPosition(p model.PlayerID, pos position.Position) { s.positions[p] = pos }

// Position returns the match-start position of p, or Unknown.
func (s *Snapshot) Position(p model.PlayerID) position.Position { return s.positions[p] }

// Delta is the summed change of one entity over a match.
type Delta struct {
	Entity model.EntityRef
	Value  float64
}

// Stats describes how a match's events contributed.
type Stats struct {
	Rated     int // events that produced at least one delta
	ZeroDelta int // events that moved no rating
	Duels     int // shots rated against a named goalkeeper
	Capped    int // per-event deltas limited to the maximum
}

// Result holds the deltas of a match in first-touch order.
type Result struct {
	Deltas []Delta
	Stats  Stats
}

// Updater computes rating deltas for a match.
type Updater interface {
	Compute(m *model.Match, events []attribution.AttributedEvent, snap *Snapshot) Result
}

// EloUpdater is the default Updater.
type EloUpdater struct {
	kPlayer, kGoalkeeper, kTeam float64
	homeAdvantage               float64
	maxEventDelta               float64

	actionWeights       map[model.EventType]float64
	shotOutcomes        map[model.EventType]float64
	positionMultipliers map[position.Position]float64
	scoreBands          []ScoreBand
	beyondBands         float64
	eliteTiers          []EliteTier

	aliases model.Aliases
}

// NewEloUpdater creates an updater with the default weight tables.
func NewEloUpdater(opts ...Option) *EloUpdater {
	u := &EloUpdater{
		kPlayer:             DefaultKPlayer,
		kGoalkeeper:         DefaultKGoalkeeper,
		kTeam:               DefaultKTeam,
		homeAdvantage:       DefaultHomeAdvantage,
		maxEventDelta:       DefaultMaxEventDelta,
		actionWeights:       defaultActionWeights(),
		shotOutcomes:        defaultShotOutcomes(),
		positionMultipliers: defaultPositionMultipliers(),
		scoreBands:          defaultScoreBands(),
		beyondBands:         blowoutMultiplier,
		eliteTiers:          defaultEliteTiers(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Expected is the ELO win expectation of a rating a against b.
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// accumulator sums deltas per entity, remembering first-touch order.
type accumulator struct {
	index map[string]int
	out   []Delta
}

func (a *accumulator) add(e model.EntityRef, v float64) {
	if v == 0 {
		return
	}
	if i, ok := a.index[e.Key()]; ok {
		a.out[i].Value += v
		return
	}
	a.index[e.Key()] = len(a.out)
	a.out = append(a.out, Delta{Entity: e, Value: v})
}

// Compute implements Updater. Events are consumed in slice order.
func (u *EloUpdater) Compute(m *model.Match, events []attribution.AttributedEvent, snap *Snapshot) Result {
	acc := &accumulator{index: make(map[string]int)}
	var st Stats

	running := model.Score{}
	for i := range events {
		ev := &events[i]
		ctxMult := u.scoreMultiplier(running)
		if s, ok := model.ParseScore(ev.Event.Score); ok {
			running = s
		}

		if u.rateEvent(ev, snap, ctxMult, acc, &st) {
			st.Rated++
		} else {
			st.ZeroDelta++
		}
	}

	u.rateTeams(m, snap, acc)

	return Result{Deltas: acc.out, Stats: st}
}

// rateEvent adds the deltas of one event and reports whether any were produced.
func (u *EloUpdater) rateEvent(ev *attribution.AttributedEvent, snap *Snapshot, ctxMult float64, acc *accumulator, st *Stats) bool {
	typ := ev.Event.Type
	switch typ.Category() {
	case model.CategoryShot, model.CategoryPlay:
	default:
		return false
	}

	rated := false
	emit := func(e model.EntityRef, v float64) {
		v = u.elite(snap, e, v)
		if c := u.cap(v); c != v {
			st.Capped++
			v = c
		}
		if v != 0 {
			acc.add(e, v)
			rated = true
		}
	}

	shooter, hasShooter := u.player(ev.Primary)
	keeper, hasKeeper := u.player(ev.Goalkeeper)

	if typ.IsGoalRelevant() && hasKeeper {
		st.Duels++
		outcome := u.shotOutcomes[typ]
		kRef := model.GoalkeeperRef(keeper)
		kRating := u.rating(snap, kRef)
		gkMult := u.multiplier(snap, keeper, "MV")
		if hasShooter {
			sRef := model.PlayerRef(shooter)
			diff := outcome - Expected(u.rating(snap, sRef), kRating)
			emit(sRef, u.kPlayer*u.multiplier(snap, shooter, ev.Event.Position)*diff*ctxMult)
			emit(kRef, -u.kGoalkeeper*gkMult*diff*ctxMult)
		} else {
			emit(kRef, -u.kGoalkeeper*gkMult*(outcome-0.5)*ctxMult)
		}
	} else if hasShooter {
		w := u.actionWeights[typ] / weightScale
		emit(model.PlayerRef(shooter), u.kPlayer*u.multiplier(snap, shooter, ev.Event.Position)*w*ctxMult)
	}

	if ev.Secondary.Resolved {
		if p, ok := u.player(ev.Secondary); ok {
			secType := model.ParseEventType(ev.Event.SecondaryType)
			if secType.Category() == model.CategoryPlay {
				w := u.actionWeights[secType] / weightScale
				emit(model.PlayerRef(p), u.kPlayer*u.multiplier(snap, p, "")*w*ctxMult)
			}
		}
	}
	return rated
}

// rateTeams applies the post-match team result against the snapshot.
func (u *EloUpdater) rateTeams(m *model.Match, snap *Snapshot, acc *accumulator) {
	res, ok := m.Result()
	if !ok || m.HomeCode == "" || m.AwayCode == "" {
		return
	}
	home, away := model.TeamRef(m.HomeCode), model.TeamRef(m.AwayCode)
	exp := Expected(u.rating(snap, home)+u.homeAdvantage, u.rating(snap, away))
	var outcome float64
	switch {
	case res.Home > res.Away:
		outcome = 1
	case res.Home == res.Away:
		outcome = 0.5
	}
	d := u.kTeam * (outcome - exp)
	acc.add(home, d)
	acc.add(away, -d)
}

func (u *EloUpdater) player(s attribution.Slot) (model.PlayerID, bool) {
	if !s.Resolved || s.Actor.Name == "" {
		return "", false
	}
	return u.aliases.PlayerIDOf(s.Actor.Name), true
}

func (u *EloUpdater) rating(snap *Snapshot, e model.EntityRef) float64 {
	if r, ok := snap.Rating(e); ok {
		return r
	}
	return 0
}

// multiplier picks the K multiplier for p: the match-start position if
// known, else the raw code on the event, else 1.
func (u *EloUpdater) multiplier(snap *Snapshot, p model.PlayerID, rawCode string) float64 {
	pos := snap.Position(p)
	if pos == position.Unknown {
		pos, _ = position.Parse(rawCode)
	}
	if m, ok := u.positionMultipliers[pos]; ok {
		return m
	}
	return 1
}

func (u *EloUpdater) scoreMultiplier(s model.Score) float64 {
	d := s.Diff()
	for _, b := range u.scoreBands {
		if d <= b.MaxDiff {
			return b.Multiplier
		}
	}
	return u.beyondBands
}

// elite dampens gains of entities already rated highly.
func (u *EloUpdater) elite(snap *Snapshot, e model.EntityRef, v float64) float64 {
	if v <= 0 {
		return v
	}
	r := u.rating(snap, e)
	for _, t := range u.eliteTiers {
		if r > t.Above {
			return v * t.Scale
		}
	}
	return v
}

func (u *EloUpdater) cap(v float64) float64 {
	if u.maxEventDelta <= 0 {
		return v
	}
	return math.Max(-u.maxEventDelta, math.Min(u.maxEventDelta, v))
}

// Entities returns every entity whose rating a match may read, in a
// stable order: teams first, then players by id.
func Entities(m *model.Match, events []attribution.AttributedEvent, aliases model.Aliases) []model.EntityRef {
	seen := make(map[string]bool)
	var teams, players []model.EntityRef
	addTeam := func(c model.ClubCode) {
		e := model.TeamRef(c)
		if c != "" && !seen[e.Key()] {
			seen[e.Key()] = true
			teams = append(teams, e)
		}
	}
	addPlayer := func(s attribution.Slot, goalkeeper bool) {
		if !s.Resolved || s.Actor.Name == "" {
			return
		}
		id := aliases.PlayerIDOf(s.Actor.Name)
		e := model.PlayerRef(id)
		if goalkeeper {
			e = model.GoalkeeperRef(id)
		}
		if !seen[e.Key()] {
			seen[e.Key()] = true
			players = append(players, e)
		}
	}

	addTeam(m.HomeCode)
	addTeam(m.AwayCode)
	for i := range events {
		addPlayer(events[i].Goalkeeper, true)
	}
	for i := range events {
		addPlayer(events[i].Primary, false)
		addPlayer(events[i].Secondary, false)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return append(teams, players...)
}
