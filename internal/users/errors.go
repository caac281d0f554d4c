package users

import (
	"errors"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountRejected    = errors.New("membership application was rejected")
	ErrAccountSuspended   = errors.New("membership is suspended")
	ErrInvalidCategory    = errors.New("invalid document category")
)
