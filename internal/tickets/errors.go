package tickets

import "errors"

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	ErrInvalidStatus     = errors.New("invalid ticket status")
	ErrInvalidPriority   = errors.New("invalid ticket priority")
	ErrSubjectRequired   = errors.New("subject is required")
)
