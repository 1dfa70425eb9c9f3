package repository

import "errors"

// Sentinel kinds for rating store errors.
var (
	ErrNotFound     = errors.New("entity not rated")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
