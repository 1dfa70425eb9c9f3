package service

import (
	"errors"
	"fmt"

	"github.com/okian/handball-elo/internal/domain/model"
)

var (
	// ErrSequence marks a season or match applied out of chronological
	// order. It is fatal for the run.
	ErrSequence = errors.New("sequence error")
	// ErrDuplicateMatch is returned when a match id was already applied.
	ErrDuplicateMatch = errors.New("duplicate match")
	// ErrInvalidMatch is returned for matches without two distinct sides.
	ErrInvalidMatch = errors.New("invalid match")
	// ErrQueueFull is returned when a league job cannot be enqueued.
	ErrQueueFull = errors.New("league queue full")
)

// SequenceError describes which ordering rule a call broke.
type SequenceError struct {
	Op      string
	Season  model.Season
	MatchID string
	Reason  string
}

func (e *SequenceError) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("%s: %s: season %s match %s: %s", ErrSequence, e.Op, e.Season, e.MatchID, e.Reason)
	}
	return fmt.Sprintf("%s: %s: season %s: %s", ErrSequence, e.Op, e.Season, e.Reason)
}

// Unwrap lets errors.Is match ErrSequence.
func (e *SequenceError) Unwrap() error { return ErrSequence }
