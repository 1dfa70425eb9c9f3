package carryover

import "errors"

// Sentinel kinds for carry-over errors.
var (
	ErrInvalidWeights = errors.New("invalid carry-over configuration")
	ErrAlreadyFrozen  = errors.New("season already frozen")
)
