// Package club tracks which club a player appeared for in each season.
package club

import (
	"sort"

	"github.com/okian/handball-elo/internal/domain/model"
)

const defaultMinAppearances = 1

type tally struct {
	count    int
	lastSeen uint64
}

type seasonKey struct {
	player model.PlayerID
	season model.Season
}

// Tracker counts appearances per (player, season, club). Not safe for
// concurrent use.
type Tracker struct {
	counts         map[seasonKey]map[model.ClubCode]*tally
	seq            uint64
	minAppearances int
}

// NewTracker returns an empty Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		counts:         make(map[seasonKey]map[model.ClubCode]*tally),
		minAppearances: defaultMinAppearances,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordAppearance counts one appearance of player for club in season.
func (t *Tracker) RecordAppearance(player model.PlayerID, season model.Season, club model.ClubCode) {
	if club == "" {
		return
	}
	k := seasonKey{player, season}
	byClub, ok := t.counts[k]
	if !ok {
		byClub = make(map[model.ClubCode]*tally)
		t.counts[k] = byClub
	}
	tl, ok := byClub[club]
	if !ok {
		tl = &tally{}
		byClub[club] = tl
	}
	t.seq++
	tl.count++
	tl.lastSeen = t.seq
}

// Dominant returns the club with most appearances for player in season.
// Ties go to the club recorded most recently.
func (t *Tracker) Dominant(player model.PlayerID, season model.Season) (model.ClubCode, bool) {
	byClub, ok := t.counts[seasonKey{player, season}]
	if !ok {
		return "", false
	}
	var (
		best model.ClubCode
		bt   *tally
	)
	for c, tl := range byClub {
		if bt == nil || tl.count > bt.count || (tl.count == bt.count && tl.lastSeen > bt.lastSeen) {
			best, bt = c, tl
		}
	}
	return best, bt != nil
}

// Clubs returns the dominant club of player for every season it appeared in.
func (t *Tracker) Clubs(player model.PlayerID) map[model.Season]model.ClubCode {
	out := make(map[model.Season]model.ClubCode)
	for k := range t.counts {
		if k.player != player {
			continue
		}
		if c, ok := t.Dominant(player, k.season); ok {
			out[k.season] = c
		}
	}
	return out
}

// Roster lists players whose dominant club in season is club and who made
// at least the configured minimum number of appearances for it. The
// result is sorted by player id.
func (t *Tracker) Roster(season model.Season, club model.ClubCode) []model.PlayerID {
	var out []model.PlayerID
	for k, byClub := range t.counts {
		if k.season != season {
			continue
		}
		c, ok := t.Dominant(k.player, season)
		if !ok || c != club || byClub[club].count < t.minAppearances {
			continue
		}
		out = append(out, k.player)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
