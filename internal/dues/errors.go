package dues

import "errors"

var (
	ErrLedgerNotFound = errors.New("dues record not found")
	ErrLedgerExists   = errors.New("dues record already exists for this period")
	ErrAlreadyPaid    = errors.New("dues record is already paid")
	ErrAlreadySettled = errors.New("dues record is already settled")
	ErrInvalidPeriod  = errors.New("period must be formatted as YYYY-MM")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidStatus  = errors.New("invalid dues status")
)
