package handlers

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/khanghh/unionhub/params"
)

type fieldErrors map[string]string

func (e fieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError lists the invalid fields of a request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid fields: " + strings.Join(keys, ", ")
}

func validateRequired(value string, label string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required.", label)
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("Email is required.")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return errors.New("Invalid email address.")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < params.MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters.", params.MinPasswordLength)
	}
	return nil
}

func validateRegisterRequest(req *RegisterRequest) error {
	errs := fieldErrors{}
	if err := validateRequired(req.FirstName, "First name"); err != nil {
		errs["firstName"] = err.Error()
	}
	if err := validateRequired(req.LastName, "Last name"); err != nil {
		errs["lastName"] = err.Error()
	}
	if err := validateEmail(req.Email); err != nil {
		errs["email"] = err.Error()
	}
	if err := validatePassword(req.Password); err != nil {
		errs["password"] = err.Error()
	}
	return errs.Err()
}
