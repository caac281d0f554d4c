package events

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotDraft     = errors.New("only draft events can be deleted")
	ErrEventCancelled    = errors.New("event is cancelled")
	ErrEventClosed       = errors.New("event is not open for registration")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrInvalidEvent      = errors.New("title and start time are required")
	ErrInvalidSchedule   = errors.New("event must end after it starts")
	ErrInvalidStatus     = errors.New("invalid event status")
)
