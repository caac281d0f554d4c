package idcards

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrCardNotIssued  = errors.New("id card has not been issued")
)
