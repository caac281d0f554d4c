package auth

import "errors"

var (
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token is expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminDisabled      = errors.New("account is disabled")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminEmailExists   = errors.New("admin email already registered")
	ErrOTPRequired        = errors.New("authentication code required")
	ErrTOTPNotEnrolled    = errors.New("two-factor authentication is not set up")
	ErrTOTPAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrInvalidRole        = errors.New("invalid admin role")
)
