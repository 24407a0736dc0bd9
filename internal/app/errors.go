package app

import (
	"errors"
	"fmt"
)

// Error kinds. Every rejection wraps exactly one of these so the transport
// layer can map it to a client error code. A rejected action never leaves
// partial state behind.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrIllegalState  = errors.New("illegal state")
)

var (
	ErrNoActiveGame  = fmt.Errorf("%w: no active game", ErrUnauthorized)
	ErrNotHost       = fmt.Errorf("%w: actor is not the room host", ErrUnauthorized)
	ErrNotPresident  = fmt.Errorf("%w: actor is not the president", ErrUnauthorized)
	ErrNotChancellor = fmt.Errorf("%w: actor is not the chancellor", ErrUnauthorized)
	ErrCannotVote    = fmt.Errorf("%w: actor cannot vote", ErrUnauthorized)

	ErrWrongPhase = fmt.Errorf("%w: action not allowed in current phase", ErrIllegalState)
	ErrVetoLocked = fmt.Errorf("%w: veto power not unlocked", ErrIllegalState)
	ErrVetoSpent  = fmt.Errorf("%w: veto already refused this session", ErrIllegalState)
	ErrRosterSize = fmt.Errorf("%w: need 5-10 players to start", ErrIllegalState)

	ErrIneligibleChancellor = fmt.Errorf("%w: ineligible chancellor", ErrInvalidChoice)
	ErrBadCardIndex         = fmt.Errorf("%w: card index out of range", ErrInvalidChoice)
	ErrInvalidTarget        = fmt.Errorf("%w: invalid target", ErrInvalidChoice)

	ErrUnknownPlayer = fmt.Errorf("%w: player not found", ErrNotFound)
)
