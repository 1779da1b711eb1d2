package booking

import "errors"

var (
	ErrNotFound         = errors.New("booking or travel not found")
	ErrInvalidOperation = errors.New("drivers cannot book their own travel")
	ErrTravelClosed     = errors.New("travel is not open")
	ErrTooSoon          = errors.New("too close to departure")
	ErrInvalidSteps     = errors.New("invalid step selection")
	ErrConflict         = errors.New("overlapping booking exists")
	ErrNoSeats          = errors.New("no seats left")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("booking is not pending")
	ErrAlreadyTerminal  = errors.New("booking already cancelled or rejected")
)
