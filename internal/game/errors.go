package game

import "errors"

var (
	// ErrRoundActive is returned by Start while a round is already running
	// (or ended but not yet delivered) for the session.
	ErrRoundActive = errors.New("a round is already active for this session")

	// ErrNoActiveRound is returned by ForceStop when the session has no
	// round to stop.
	ErrNoActiveRound = errors.New("no active round for this session")

	ErrInvalidDuration   = errors.New("duration must be between 1 and 60 minutes")
	ErrInvalidTargetChar = errors.New("target must be exactly one ideographic character")
)
