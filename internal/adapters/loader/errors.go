package loader

import "errors"

var (
	// ErrNoLeagues is returned when the data directory holds no league.
	ErrNoLeagues = errors.New("no leagues found")
	// ErrInvalidFile is returned for unreadable match files.
	ErrInvalidFile = errors.New("invalid match file")
	// ErrInvalidDate is returned for dates in no known layout.
	ErrInvalidDate = errors.New("invalid match date")
)
