// Package position derives a dominant canonical position per player from
// accumulated position-action counts.
package position

import (
	"strings"

	"github.com/okian/handball-elo/internal/domain/model"
)

// Position is a canonical field role. The numeric order is the tie-break order.
type Position int

// Canonical positions in enumeration order.
const (
	Unknown Position = iota
	LeftWing
	LeftBack
	Playmaker
	RightBack
	RightWing
	Pivot
	Goalkeeper
)

// All lists the canonical positions in tie-break order.
var All = []Position{LeftWing, LeftBack, Playmaker, RightBack, RightWing, Pivot, Goalkeeper}

var codes = map[Position]string{
	LeftWing:   "VF",
	LeftBack:   "VB",
	Playmaker:  "PL",
	RightBack:  "HB",
	RightWing:  "HF",
	Pivot:      "ST",
	Goalkeeper: "MV",
}

// rawTable maps raw report codes to canonical positions. Situational codes
// (breakthrough, fast breaks, substitutions, penalty) are absent on purpose.
var rawTable = map[string]Position{
	"VF": LeftWing,
	"VB": LeftBack,
	"PL": Playmaker,
	"HB": RightBack,
	"HF": RightWing,
	"ST": Pivot,
	"MV": Goalkeeper,
}

// Code returns the report code of p, e.g. "PL".
func (p Position) Code() string {
	if c, ok := codes[p]; ok {
		return c
	}
	return ""
}

func (p Position) String() string {
	if c := p.Code(); c != "" {
		return c
	}
	return "unknown"
}

// Parse maps a raw code onto a canonical position.
func Parse(raw string) (Position, bool) {
	p, ok := rawTable[strings.ToUpper(strings.TrimSpace(raw))]
	return p, ok
}

type record struct {
	counts     [Goalkeeper + 1]int
	goalkeeper int
}

// Classifier accumulates counts per player. It is not safe for concurrent
// use; each league partition owns its own Classifier.
type Classifier struct {
	players map[model.PlayerID]*record
}

// NewClassifier returns an empty Classifier.
func NewClassifier() *Classifier {
	return &Classifier{players: make(map[model.PlayerID]*record)}
}

func (c *Classifier) get(p model.PlayerID) *record {
	r, ok := c.players[p]
	if !ok {
		r = &record{}
		c.players[p] = r
	}
	return r
}

// RecordAction counts one action at raw position code. It reports false
// when the code does not map to a canonical position.
func (c *Classifier) RecordAction(p model.PlayerID, raw string) bool {
	pos, ok := Parse(raw)
	if !ok {
		return false
	}
	c.get(p).counts[pos]++
	return true
}

// RecordGoalkeeper marks an appearance in a goalkeeper slot.
func (c *Classifier) RecordGoalkeeper(p model.PlayerID) {
	c.get(p).goalkeeper++
}

// Dominant returns the position with the highest count. Goalkeeper-slot
// appearances take priority over field counts.
func (c *Classifier) Dominant(p model.PlayerID) (Position, bool) {
	r, ok := c.players[p]
	if !ok {
		return Unknown, false
	}
	if r.goalkeeper > 0 {
		return Goalkeeper, true
	}
	best, bestN := Unknown, 0
	for _, pos := range All {
		if n := r.counts[pos]; n > bestN {
			best, bestN = pos, n
		}
	}
	return best, bestN > 0
}

// IsGoalkeeper reports whether p has ever appeared in a goalkeeper slot or
// is classified as one.
func (c *Classifier) IsGoalkeeper(p model.PlayerID) bool {
	pos, ok := c.Dominant(p)
	return ok && pos == Goalkeeper
}

// Counts returns a copy of the per-position counts of p.
func (c *Classifier) Counts(p model.PlayerID) map[Position]int {
	r, ok := c.players[p]
	if !ok {
		return nil
	}
	out := make(map[Position]int)
	for _, pos := range All {
		if n := r.counts[pos]; n > 0 {
			out[pos] = n
		}
	}
	if r.goalkeeper > 0 {
		out[Goalkeeper] += r.goalkeeper
	}
	return out
}

// Players returns the number of tracked players.
func (c *Classifier) Players() int { return len(c.players) }
