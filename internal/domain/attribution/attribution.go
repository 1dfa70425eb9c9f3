// Package attribution resolves which team each actor slot of a match event
// belongs to.
//
// The rules are fixed lookups: the primary actor plays for the acting team,
// the secondary actor's side depends on the secondary event type (see
// Policy), and a goalkeeper on a shot always defends for the other side,
// since the team code on shots names the shooting team.
package attribution

import (
	"fmt"

	"github.com/okian/handball-elo/internal/domain/model"
)

// Warning is a non-fatal observation made while attributing an event.
type Warning string

// Warnings emitted by Attribute.
const (
	WarnUnrecognizedSecondary Warning = "unrecognized_secondary_type"
	WarnUnrecognizedPrimary   Warning = "unrecognized_primary_type"
	WarnSecondaryWithoutType  Warning = "secondary_without_type"
)

// Slot is one attributed actor.
type Slot struct {
	Actor    model.Actor
	Team     model.ClubCode
	Resolved bool
}

// Present reports whether the slot names a player.
func (s Slot) Present() bool { return !s.Actor.IsAbsent() }

// AttributedEvent is an event with every actor slot resolved to a team.
type AttributedEvent struct {
	Event      model.Event
	Primary    Slot
	Secondary  Slot
	Goalkeeper Slot
	Warnings   []Warning
}

// Attributor applies a Policy to events.
type Attributor struct {
	policy Policy
}

// NewAttributor creates an Attributor with DefaultPolicy unless overridden.
func NewAttributor(opts ...Option) (*Attributor, error) {
	a := &Attributor{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.policy.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Policy returns the classification policy in use.
func (a *Attributor) Policy() Policy { return a.policy }

// Attribute resolves the team of every actor slot of ev within match m.
// Actor slots are re-normalized first so an absent primary actor never
// blocks the other slots.
func (a *Attributor) Attribute(ev model.Event, m *model.Match) (AttributedEvent, error) {
	ev = ev.Normalized()
	out := AttributedEvent{
		Event:      ev,
		Primary:    Slot{Actor: ev.Primary},
		Secondary:  Slot{Actor: ev.Secondary},
		Goalkeeper: Slot{Actor: ev.Goalkeeper},
	}

	if ev.TeamCode == "" {
		if out.Primary.Present() || out.Secondary.Present() || out.Goalkeeper.Present() {
			return out, fmt.Errorf("%w: %q has actors but no team code", ErrAttribution, ev.RawType)
		}
		return out, nil
	}

	opponent, ok := m.Opponent(ev.TeamCode)
	if !ok {
		return out, fmt.Errorf("%w: team %q is neither %q nor %q", ErrConsistency, ev.TeamCode, m.HomeCode, m.AwayCode)
	}

	if ev.Type == model.EventUnrecognized {
		out.Warnings = append(out.Warnings, WarnUnrecognizedPrimary)
	}

	if out.Primary.Present() {
		out.Primary.Team = ev.TeamCode
		out.Primary.Resolved = true
	}

	if out.Goalkeeper.Present() {
		if !ev.Type.IsGoalRelevant() {
			return out, fmt.Errorf("%w: goalkeeper on non-shot event %q", ErrAttribution, ev.RawType)
		}
		out.Goalkeeper.Team = opponent
		out.Goalkeeper.Resolved = true
	}

	if out.Secondary.Present() {
		switch a.policy.Side(ev.SecondaryType) {
		case SideSame:
			out.Secondary.Team = ev.TeamCode
			out.Secondary.Resolved = true
		case SideOpposite:
			out.Secondary.Team = opponent
			out.Secondary.Resolved = true
		default:
			if ev.SecondaryType == "" {
				out.Warnings = append(out.Warnings, WarnSecondaryWithoutType)
			} else {
				out.Warnings = append(out.Warnings, WarnUnrecognizedSecondary)
			}
		}
	}

	return out, nil
}
