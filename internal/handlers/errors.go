package handlers

import (
	"errors"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/benefits"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/internal/events"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/internal/members"
	"github.com/khanghh/unionhub/internal/middlewares"
	"github.com/khanghh/unionhub/internal/middlewares/captcha"
	"github.com/khanghh/unionhub/internal/review"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/internal/settings"
	"github.com/khanghh/unionhub/internal/tickets"
	"github.com/khanghh/unionhub/internal/uploads"
	"github.com/khanghh/unionhub/internal/users"
	"github.com/khanghh/unionhub/params"
)

var (
	MsgInvalidRequestBody = "Invalid request body."
	MsgInvalidID          = "Invalid id."
	MsgInvalidCaptcha     = "Captcha verification failed. Please try again."
	MsgInvalidOTP         = "Invalid authentication code."
	MsgInvalidFields      = "Please correct the invalid fields."
	MsgLoginMissingFields = "Email and password are required."
	MsgFileRequired       = "A file is required."
)

var (
	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrInvalidID          = errors.New("invalid id")
)

type errorStatus struct {
	err  error
	code int
}

var errorStatuses = []errorStatus{
	{ErrInvalidRequestBody, fiber.StatusBadRequest},
	{ErrInvalidID, fiber.StatusBadRequest},
	{audit.ErrInvalidActorType, fiber.StatusBadRequest},
	{auth.ErrInvalidRole, fiber.StatusBadRequest},
	{benefits.ErrNotesRequired, fiber.StatusBadRequest},
	{benefits.ErrInvalidRequest, fiber.StatusBadRequest},
	{benefits.ErrInvalidStatus, fiber.StatusBadRequest},
	{captcha.ErrInvalidCaptcha, fiber.StatusBadRequest},
	{dues.ErrInvalidPeriod, fiber.StatusBadRequest},
	{dues.ErrInvalidAmount, fiber.StatusBadRequest},
	{dues.ErrInvalidStatus, fiber.StatusBadRequest},
	{events.ErrInvalidEvent, fiber.StatusBadRequest},
	{events.ErrInvalidSchedule, fiber.StatusBadRequest},
	{events.ErrInvalidStatus, fiber.StatusBadRequest},
	{members.ErrInvalidStanding, fiber.StatusBadRequest},
	{review.ErrReasonRequired, fiber.StatusBadRequest},
	{security.ErrTOTPInvalidCode, fiber.StatusBadRequest},
	{settings.ErrUnknownSetting, fiber.StatusBadRequest},
	{settings.ErrInvalidValue, fiber.StatusBadRequest},
	{settings.ErrEmptyUpdate, fiber.StatusBadRequest},
	{tickets.ErrInvalidTransition, fiber.StatusBadRequest},
	{tickets.ErrInvalidStatus, fiber.StatusBadRequest},
	{tickets.ErrInvalidPriority, fiber.StatusBadRequest},
	{tickets.ErrSubjectRequired, fiber.StatusBadRequest},
	{uploads.ErrEmptyFile, fiber.StatusBadRequest},
	{uploads.ErrInvalidPath, fiber.StatusBadRequest},
	{users.ErrInvalidCategory, fiber.StatusBadRequest},
	{uploads.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},

	{auth.ErrTokenInvalid, fiber.StatusUnauthorized},
	{auth.ErrTokenExpired, fiber.StatusUnauthorized},
	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{auth.ErrOTPRequired, fiber.StatusUnauthorized},
	{users.ErrInvalidCredentials, fiber.StatusUnauthorized},

	{auth.ErrAdminDisabled, fiber.StatusForbidden},
	{users.ErrAccountRejected, fiber.StatusForbidden},
	{users.ErrAccountSuspended, fiber.StatusForbidden},
	{benefits.ErrNotApprovedMember, fiber.StatusForbidden},

	{audit.ErrAuditLogNotFound, fiber.StatusNotFound},
	{auth.ErrAdminNotFound, fiber.StatusNotFound},
	{benefits.ErrRequestNotFound, fiber.StatusNotFound},
	{dues.ErrLedgerNotFound, fiber.StatusNotFound},
	{events.ErrEventNotFound, fiber.StatusNotFound},
	{idcards.ErrMemberNotFound, fiber.StatusNotFound},
	{idcards.ErrCardNotIssued, fiber.StatusNotFound},
	{members.ErrMemberNotFound, fiber.StatusNotFound},
	{review.ErrCandidateNotFound, fiber.StatusNotFound},
	{tickets.ErrTicketNotFound, fiber.StatusNotFound},
	{users.ErrUserNotFound, fiber.StatusNotFound},

	{auth.ErrAdminEmailExists, fiber.StatusConflict},
	{auth.ErrTOTPNotEnrolled, fiber.StatusConflict},
	{auth.ErrTOTPAlreadyEnabled, fiber.StatusConflict},
	{benefits.ErrInvalidTransition, fiber.StatusConflict},
	{dues.ErrLedgerExists, fiber.StatusConflict},
	{dues.ErrAlreadyPaid, fiber.StatusConflict},
	{dues.ErrAlreadySettled, fiber.StatusConflict},
	{events.ErrEventNotDraft, fiber.StatusConflict},
	{events.ErrEventCancelled, fiber.StatusConflict},
	{events.ErrEventClosed, fiber.StatusConflict},
	{events.ErrEventFull, fiber.StatusConflict},
	{events.ErrAlreadyRegistered, fiber.StatusConflict},
	{members.ErrInvalidTransition, fiber.StatusConflict},
	{review.ErrAlreadyApproved, fiber.StatusConflict},
	{review.ErrInvalidTransition, fiber.StatusConflict},
	{users.ErrAccountExists, fiber.StatusConflict},
}

// Client messages that differ from the error text.
var errorMessages = map[error]string{
	users.ErrAccountExists:      params.MsgRegistrationConflict,
	captcha.ErrInvalidCaptcha:   MsgInvalidCaptcha,
	security.ErrTOTPInvalidCode: MsgInvalidOTP,
	ErrInvalidRequestBody:       MsgInvalidRequestBody,
	ErrInvalidID:                MsgInvalidID,
}

func errorMessage(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return sentence(err.Error())
}

// sentence upper cases the first letter and terminates the text with a period.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	if last := runes[len(runes)-1]; last != '.' && last != '?' && last != '!' {
		runes = append(runes, '.')
	}
	return string(runes)
}

// mapError converts a service error into an HTTP error. Unknown errors pass through
// and end up as 500 in the error handler.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *middlewares.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httpErr = middlewares.NewHTTPError(fiber.StatusBadRequest, MsgInvalidFields, err)
		httpErr.Fields = validationErr.Fields
		return httpErr
	}
	var locked *security.LockedError
	if errors.As(err, &locked) {
		return middlewares.NewHTTPError(fiber.StatusTooManyRequests, params.MsgTooManyLoginAttempts, err)
	}
	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return middlewares.NewHTTPError(s.code, errorMessage(err), err)
		}
	}
	return err
}

func badRequest(message string, err error) error {
	return middlewares.NewHTTPError(fiber.StatusBadRequest, message, err)
}
