// Package model contains domain models passed between layers.
package model

import "strings"

// Category groups event types by how they affect ratings.
type Category int

// Event categories.
const (
	CategoryUnknown Category = iota
	CategoryShot
	CategoryPlay
	CategoryDiscipline
	CategoryAdministrative
)

// EventType is the closed set of event types found in match reports.
// Anything outside the set parses to EventUnrecognized.
type EventType int

// Known event types. The raw Danish labels live in eventLabels.
const (
	EventUnrecognized EventType = iota

	// shots (goal-relevant)
	EventGoal
	EventPenaltyGoal
	EventShotSaved
	EventPenaltySaved
	EventShotPost
	EventPenaltyPost
	EventShotMissed
	EventPenaltyMissed

	// play
	EventAssist
	EventBallStolen
	EventBlockedBy
	EventBlockRet
	EventShotBlocked
	EventPenaltyAwarded
	EventPenaltyCaused
	EventRebound
	EventPassivePlay
	EventTechnicalFault
	EventBallLost
	EventBadPass

	// discipline
	EventWarning
	EventSuspension
	EventDoubleSuspension
	EventBlueCard
	EventRedCard
	EventDirectRedCard
	EventProtest

	// administrative
	EventTimeOut
	EventStart
	EventStartFirstHalf
	EventHalfTime
	EventStartSecondHalf
	EventFullTime
	EventMatchEnd
	EventVideoProof
	EventVideoProofEnd
)

type eventInfo struct {
	label    string
	category Category
}

var eventLabels = map[EventType]eventInfo{
	EventGoal:          {"Mål", CategoryShot},
	EventPenaltyGoal:   {"Mål på straffe", CategoryShot},
	EventShotSaved:     {"Skud reddet", CategoryShot},
	EventPenaltySaved:  {"Straffekast reddet", CategoryShot},
	EventShotPost:      {"Skud på stolpe", CategoryShot},
	EventPenaltyPost:   {"Straffekast på stolpe", CategoryShot},
	EventShotMissed:    {"Skud forbi", CategoryShot},
	EventPenaltyMissed: {"Straffekast forbi", CategoryShot},

	EventAssist:         {"Assist", CategoryPlay},
	EventBallStolen:     {"Bold erobret", CategoryPlay},
	EventBlockedBy:      {"Blokeret af", CategoryPlay},
	EventBlockRet:       {"Blok af (ret)", CategoryPlay},
	EventShotBlocked:    {"Skud blokeret", CategoryPlay},
	EventPenaltyAwarded: {"Tilkendt straffe", CategoryPlay},
	EventPenaltyCaused:  {"Forårs. str.", CategoryPlay},
	EventRebound:        {"Retur", CategoryPlay},
	EventPassivePlay:    {"Passivt spil", CategoryPlay},
	EventTechnicalFault: {"Regelfejl", CategoryPlay},
	EventBallLost:       {"Tabt bold", CategoryPlay},
	EventBadPass:        {"Fejlaflevering", CategoryPlay},

	EventWarning:          {"Advarsel", CategoryDiscipline},
	EventSuspension:       {"Udvisning", CategoryDiscipline},
	EventDoubleSuspension: {"Udvisning (2x)", CategoryDiscipline},
	EventBlueCard:         {"Blåt kort", CategoryDiscipline},
	EventRedCard:          {"Rødt kort", CategoryDiscipline},
	EventDirectRedCard:    {"Rødt kort, direkte", CategoryDiscipline},
	EventProtest:          {"Protest", CategoryDiscipline},

	EventTimeOut:         {"Time out", CategoryAdministrative},
	EventStart:           {"Start", CategoryAdministrative},
	EventStartFirstHalf:  {"Start 1:e halvleg", CategoryAdministrative},
	EventHalfTime:        {"Halvleg", CategoryAdministrative},
	EventStartSecondHalf: {"Start 2:e halvleg", CategoryAdministrative},
	EventFullTime:        {"Fuld tid", CategoryAdministrative},
	EventMatchEnd:        {"Kamp slut", CategoryAdministrative},
	EventVideoProof:      {"Video Proof", CategoryAdministrative},
	EventVideoProofEnd:   {"Video Proof slut", CategoryAdministrative},
}

var eventsByLabel = func() map[string]EventType {
	m := make(map[string]EventType, len(eventLabels))
	for t, info := range eventLabels {
		m[info.label] = t
	}
	return m
}()

// ParseEventType maps a raw label to its EventType.
func ParseEventType(raw string) EventType {
	if t, ok := eventsByLabel[strings.TrimSpace(raw)]; ok {
		return t
	}
	return EventUnrecognized
}

// String returns the label used in match reports.
func (t EventType) String() string {
	if info, ok := eventLabels[t]; ok {
		return info.label
	}
	return "unrecognized"
}

// Category reports the rating category of the type.
func (t EventType) Category() Category {
	return eventLabels[t].category
}

// IsGoalRelevant is true for shot types, the only ones that may carry a goalkeeper.
func (t EventType) IsGoalRelevant() bool { return t.Category() == CategoryShot }

// IsGoal is true when the event changes the score.
func (t EventType) IsGoal() bool { return t == EventGoal || t == EventPenaltyGoal }

// Actor is one player slot of an event.
type Actor struct {
	Number string
	Name   string
}

// IsAbsent reports whether the slot holds no player.
func (a Actor) IsAbsent() bool { return a.Number == "" && a.Name == "" }

// NormalizeActor applies the absent-actor rule to a raw slot: blank or "0"
// numbers without a name become the zero Actor.
func NormalizeActor(number, name string) Actor {
	number = cleanField(number)
	name = cleanField(name)
	if number == "0" {
		number = ""
	}
	if name == "" {
		return Actor{}
	}
	return Actor{Number: number, Name: name}
}

// cleanField drops placeholder values left by spreadsheet exports.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// Event is one occurrence in a match, as delivered by the loader.
type Event struct {
	Time          string // opaque clock value, ordering comes from slice position
	Score         string // running score after the event, may be empty
	TeamCode      ClubCode
	Type          EventType
	RawType       string
	Position      string // raw position code of the primary actor
	Primary       Actor
	SecondaryType string
	Secondary     Actor
	Goalkeeper    Actor
}

// Normalized returns a copy with every actor slot re-normalized.
func (e Event) Normalized() Event {
	e.Primary = NormalizeActor(e.Primary.Number, e.Primary.Name)
	e.Secondary = NormalizeActor(e.Secondary.Number, e.Secondary.Name)
	e.Goalkeeper = NormalizeActor(e.Goalkeeper.Number, e.Goalkeeper.Name)
	e.TeamCode = ClubCode(cleanField(string(e.TeamCode)))
	e.SecondaryType = cleanField(e.SecondaryType)
	e.Position = cleanField(e.Position)
	if e.Type == EventUnrecognized && e.RawType != "" {
		e.Type = ParseEventType(e.RawType)
	}
	return e
}
