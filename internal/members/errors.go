package members

import "errors"

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidTransition = errors.New("member cannot be changed from its current status")
	ErrInvalidStanding   = errors.New("invalid dues status filter")
)
