package group

import "errors"

var (
	ErrNotFound      = errors.New("group not found")
	ErrForbidden     = errors.New("only the group's creator may do this")
	ErrUserNotFound  = errors.New("no user with this email")
	ErrCreatorLeaves = errors.New("the creator cannot be removed")
	ErrNotMember     = errors.New("user is not a member")
)
