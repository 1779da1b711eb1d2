package travel

import "errors"

var (
	ErrValidation        = errors.New("travel failed validation")
	ErrNotFound          = errors.New("travel not found")
	ErrForbidden         = errors.New("not allowed on this travel")
	ErrInvalidSteps      = errors.New("invalid step list")
	ErrPastDeparture     = errors.New("first step is in the past")
	ErrInvalidState      = errors.New("travel is not open")
	ErrTooSoon           = errors.New("too close to departure to edit")
	ErrNotStarted        = errors.New("travel has not departed yet")
	ErrTooManyPassengers = errors.New("accepted passengers exceed new capacity")
	ErrNotGroupMember    = errors.New("not a member of this group")
)
