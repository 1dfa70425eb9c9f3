package attribution

import "errors"

// Sentinel kinds for attribution errors.
var (
	// ErrAttribution marks an event whose actors cannot be resolved; the
	// event is skipped.
	ErrAttribution = errors.New("attribution failed")
	// ErrConsistency marks an event whose team code is not a side of its match.
	ErrConsistency = errors.New("event team does not match fixture")

	ErrInvalidPolicy = errors.New("invalid attribution policy")
	ErrPolicyOverlap = errors.New("event type listed as both same-team and opposite-team")
)
