package attribution

import (
	"fmt"
	"strings"
)

// Side is the team a secondary actor belongs to, relative to the acting team.
type Side int

// Secondary sides.
const (
	SideUnknown Side = iota
	SideSame
	SideOpposite
)

// Policy classifies secondary event types into same-team and
// opposite-team sets.
type Policy struct {
	SameTeam     []string
	OppositeTeam []string
}

// DefaultPolicy is the classification observed in Danish league reports.
func DefaultPolicy() Policy {
	return Policy{
		SameTeam:     []string{"Assist"},
		OppositeTeam: []string{"Bold erobret", "Forårs. str.", "Blokeret af", "Blok af (ret)"},
	}
}

// Validate rejects empty labels and labels listed on both sides.
func (p Policy) Validate() error {
	seen := make(map[string]Side, len(p.SameTeam)+len(p.OppositeTeam))
	for _, t := range p.SameTeam {
		t = strings.TrimSpace(t)
		if t == "" {
			return fmt.Errorf("%w: empty same-team label", ErrInvalidPolicy)
		}
		seen[t] = SideSame
	}
	for _, t := range p.OppositeTeam {
		t = strings.TrimSpace(t)
		if t == "" {
			return fmt.Errorf("%w: empty opposite-team label", ErrInvalidPolicy)
		}
		if seen[t] == SideSame {
			return fmt.Errorf("%w: %q", ErrPolicyOverlap, t)
		}
	}
	return nil
}

// Side looks up the side of a secondary event type.
func (p Policy) Side(secondaryType string) Side {
	secondaryType = strings.TrimSpace(secondaryType)
	if secondaryType == "" {
		return SideUnknown
	}
	for _, t := range p.SameTeam {
		if strings.TrimSpace(t) == secondaryType {
			return SideSame
		}
	}
	for _, t := range p.OppositeTeam {
		if strings.TrimSpace(t) == secondaryType {
			return SideOpposite
		}
	}
	return SideUnknown
}
