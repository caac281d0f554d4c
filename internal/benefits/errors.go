package benefits

import "errors"

var (
	ErrRequestNotFound   = errors.New("benefit request not found")
	ErrNotApprovedMember = errors.New("only approved members can request benefits")
	ErrInvalidTransition = errors.New("benefit request cannot be changed from its current status")
	ErrNotesRequired     = errors.New("notes are required")
	ErrInvalidRequest    = errors.New("benefit type is required and amount must not be negative")
	ErrInvalidStatus     = errors.New("invalid benefit status")
)
