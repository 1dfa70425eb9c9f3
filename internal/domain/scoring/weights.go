package scoring

import (
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/position"
)

// Default K-factors and limits.
const (
	DefaultKPlayer       = 8.0
	DefaultKGoalkeeper   = 6.0
	DefaultKTeam         = 14.0
	DefaultHomeAdvantage = 25.0
	DefaultMaxEventDelta = 16.0

	// action weights are expressed in points per 100
	weightScale = 100.0
)

// ScoreBand applies Multiplier when the goal difference is at most MaxDiff.
type ScoreBand struct {
	MaxDiff    int
	Multiplier float64
}

// EliteTier scales positive deltas of entities rated above Above.
type EliteTier struct {
	Above float64
	Scale float64
}

// defaultActionWeights are the per-event values for individual actors.
// Shot types apply only when no goalkeeper is named.
func defaultActionWeights() map[model.EventType]float64 {
	return map[model.EventType]float64{
		model.EventGoal:           65,
		model.EventPenaltyGoal:    60,
		model.EventShotSaved:      -10,
		model.EventPenaltySaved:   -20,
		model.EventShotPost:       -5,
		model.EventPenaltyPost:    -10,
		model.EventShotMissed:     -15,
		model.EventPenaltyMissed:  -25,
		model.EventAssist:         55,
		model.EventBallStolen:     40,
		model.EventBlockRet:       35,
		model.EventBlockedBy:      30,
		model.EventPenaltyAwarded: 25,
		model.EventRebound:        20,
		model.EventPenaltyCaused:  -35,
		model.EventShotBlocked:    -8,
		model.EventPassivePlay:    -20,
		model.EventTechnicalFault: -22,
		model.EventBallLost:       -25,
		model.EventBadPass:        -30,
	}
}

// defaultShotOutcomes is the shooter's result in a duel with a goalkeeper.
func defaultShotOutcomes() map[model.EventType]float64 {
	return map[model.EventType]float64{
		model.EventGoal:          1,
		model.EventPenaltyGoal:   1,
		model.EventShotPost:      0.25,
		model.EventPenaltyPost:   0.25,
		model.EventShotMissed:    0.1,
		model.EventPenaltyMissed: 0.1,
		model.EventShotSaved:     0,
		model.EventPenaltySaved:  0,
	}
}

func defaultPositionMultipliers() map[position.Position]float64 {
	return map[position.Position]float64{
		position.Goalkeeper: 1.2,
		position.LeftWing:   1.0,
		position.RightWing:  1.0,
		position.LeftBack:   0.7,
		position.Playmaker:  0.65,
		position.RightBack:  0.7,
		position.Pivot:      0.85,
	}
}

func defaultScoreBands() []ScoreBand {
	return []ScoreBand{
		{MaxDiff: 0, Multiplier: 1.7},
		{MaxDiff: 2, Multiplier: 1.5},
		{MaxDiff: 5, Multiplier: 1.2},
		{MaxDiff: 10, Multiplier: 0.9},
	}
}

const blowoutMultiplier = 0.65

func defaultEliteTiers() []EliteTier {
	return []EliteTier{
		{Above: 2100, Scale: 0.3},
		{Above: 1700, Scale: 0.6},
	}
}
