package security

import (
	"errors"
	"time"
)

var (
	ErrTOTPInvalidCode = errors.New("invalid authentication code")
)

type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return "too many failed login attempts"
}

// RetryAfter is the remaining lock time rounded up to whole seconds.
func (e *LockedError) RetryAfter(now time.Time) time.Duration {
	d := e.Until.Sub(now)
	if d < 0 {
		return 0
	}
	return d.Round(time.Second)
}
