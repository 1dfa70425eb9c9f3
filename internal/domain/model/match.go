package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClubCode is the short club identifier used in match reports, e.g. "RIN".
type ClubCode string

// Season is a season label such as "2023-2024".
type Season string

// StartYear parses the first year of the label.
func (s Season) StartYear() (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(string(s)), "-")
	y, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("season %q: %w", s, err)
	}
	return y, nil
}

// Before orders seasons chronologically, falling back to label order when
// either label has no parsable start year.
func (s Season) Before(other Season) bool {
	a, errA := s.StartYear()
	b, errB := other.StartYear()
	if errA != nil || errB != nil || a == b {
		return s < other
	}
	return a < b
}

// Score is a home-away goal count.
type Score struct {
	Home int
	Away int
}

// Diff is the absolute goal difference.
func (s Score) Diff() int {
	if s.Home > s.Away {
		return s.Home - s.Away
	}
	return s.Away - s.Home
}

// ParseScore reads values like "28-25". Empty input returns ok=false.
func ParseScore(raw string) (Score, bool) {
	h, a, found := strings.Cut(strings.TrimSpace(raw), "-")
	if !found {
		return Score{}, false
	}
	home, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Score{}, false
	}
	away, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Score{}, false
	}
	return Score{Home: home, Away: away}, true
}

// Match is one played game with its ordered event stream.
type Match struct {
	ID            string
	Season        Season
	HomeCode      ClubCode
	AwayCode      ClubCode
	HomeName      string
	AwayName      string
	FinalScore    string
	HalftimeScore string
	Date          time.Time
	Venue         string
	Competition   string
	Events        []Event
}

// Opponent returns the other side of the match for code.
func (m *Match) Opponent(code ClubCode) (ClubCode, bool) {
	switch code {
	case m.HomeCode:
		return m.AwayCode, true
	case m.AwayCode:
		return m.HomeCode, true
	}
	return "", false
}

// Result returns the final score, falling back to the last running score.
func (m *Match) Result() (Score, bool) {
	if s, ok := ParseScore(m.FinalScore); ok {
		return s, true
	}
	for i := len(m.Events) - 1; i >= 0; i-- {
		if s, ok := ParseScore(m.Events[i].Score); ok {
			return s, true
		}
	}
	return Score{}, false
}

// SeasonData is one season of a league with its matches in play order.
type SeasonData struct {
	Season  Season
	Matches []*Match
}
