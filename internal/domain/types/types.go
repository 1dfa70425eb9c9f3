// Package types contains the report shapes shared by the engine and the CLI.
package types

import "time"

// RatingRow is one ranked line of a rating table.
type RatingRow struct {
	Rank     int     `json:"rank"`
	ID       string  `json:"id"`
	Rating   float64 `json:"rating"`
	Position string  `json:"position,omitempty"`
	Club     string  `json:"club,omitempty"`
}

// SeasonReport holds the final ratings of one season.
type SeasonReport struct {
	Season  string      `json:"season"`
	Players []RatingRow `json:"players"`
	Teams   []RatingRow `json:"teams"`
}

// Summary describes what a league run did.
type Summary struct {
	RunID               string         `json:"run_id"`
	League              string         `json:"league,omitempty"`
	Seasons             int            `json:"seasons"`
	MatchesApplied      int            `json:"matches_applied"`
	MatchesRejected     int            `json:"matches_rejected"`
	EventsSeen          int            `json:"events_seen"`
	EventsRated         int            `json:"events_rated"`
	ZeroDeltaEvents     int            `json:"zero_delta_events"`
	AttributionFailures int            `json:"attribution_failures"`
	ConsistencyFailures int            `json:"consistency_failures"`
	UnrecognizedTypes   map[string]int `json:"unrecognized_types,omitempty"`
	Warnings            int            `json:"warnings"`
	CarryOvers          int            `json:"carry_overs"`
	Clamps              int64          `json:"clamps"`
}

// Skipped returns the number of events left out of rating.
func (s Summary) Skipped() int { return s.AttributionFailures + s.ConsistencyFailures }

// LeagueReport is the full output of one league.
type LeagueReport struct {
	League    string         `json:"league"`
	Summary   Summary        `json:"summary"`
	Seasons   []SeasonReport `json:"seasons"`
	Aggregate SeasonReport   `json:"aggregate"`
	Error     string         `json:"error,omitempty"`
}

// Report is the document written by the CLI.
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Leagues     []LeagueReport `json:"leagues"`
}

// Failed reports whether any league ended with an error.
func (r Report) Failed() bool {
	for _, l := range r.Leagues {
		if l.Error != "" {
			return true
		}
	}
	return false
}

// Season returns the report of one season.
func (l LeagueReport) Season(label string) (SeasonReport, bool) {
	for _, s := range l.Seasons {
		if s.Season == label {
			return s, true
		}
	}
	return SeasonReport{}, false
}
