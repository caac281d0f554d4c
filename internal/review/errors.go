package review

import "errors"

var (
	ErrCandidateNotFound = errors.New("registration not found")
	ErrAlreadyApproved   = errors.New("registration is already approved")
	ErrInvalidTransition = errors.New("registration cannot be changed from its current status")
	ErrReasonRequired    = errors.New("rejection reason is required")
)
