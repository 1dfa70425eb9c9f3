package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// PlayerID identifies a player by normalized name. Source data has no
// stable player id, so two real players sharing a name share a PlayerID.
type PlayerID string

var upper = cases.Upper(language.Danish)

// NormalizeName folds a raw name to its identity form: NFC, single spaces,
// upper case.
func NormalizeName(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.Join(strings.Fields(s), " ")
	return upper.String(s)
}

// Aliases maps alternative spellings onto one canonical identity.
// Keys and values are normalized on construction.
type Aliases map[string]string

// NewAliases normalizes both sides of raw.
func NewAliases(raw map[string]string) Aliases {
	a := make(Aliases, len(raw))
	for from, to := range raw {
		a[NormalizeName(from)] = NormalizeName(to)
	}
	return a
}

// PlayerIDOf returns the identity for a raw name.
func (a Aliases) PlayerIDOf(raw string) PlayerID {
	n := NormalizeName(raw)
	if to, ok := a[n]; ok {
		return PlayerID(to)
	}
	return PlayerID(n)
}

// EntityKind selects the rating defaults for an entity.
type EntityKind int

// Entity kinds. Players and goalkeepers share storage keys.
const (
	KindPlayer EntityKind = iota
	KindGoalkeeper
	KindTeam
)

func (k EntityKind) String() string {
	switch k {
	case KindGoalkeeper:
		return "goalkeeper"
	case KindTeam:
		return "team"
	default:
		return "player"
	}
}

// EntityRef names a rated entity.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

// PlayerRef builds a reference for a field player.
func PlayerRef(id PlayerID) EntityRef { return EntityRef{Kind: KindPlayer, ID: string(id)} }

// GoalkeeperRef builds a reference for a goalkeeper.
func GoalkeeperRef(id PlayerID) EntityRef { return EntityRef{Kind: KindGoalkeeper, ID: string(id)} }

// TeamRef builds a reference for a club.
func TeamRef(code ClubCode) EntityRef { return EntityRef{Kind: KindTeam, ID: string(code)} }

// IsTeam reports whether the entity is a club.
func (e EntityRef) IsTeam() bool { return e.Kind == KindTeam }

// Key is the storage key. Players and goalkeepers resolve to the same key.
func (e EntityRef) Key() string {
	if e.IsTeam() {
		return "team:" + e.ID
	}
	return "player:" + e.ID
}
