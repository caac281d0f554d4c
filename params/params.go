package params

import (
	"fmt"
	"time"
)

const (
	ServerBodyLimit    = 16 << 20
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ShutdownTimeout    = 10 * time.Second
)

const (
	TokenIssuer         = "unionhub"
	DefaultTokenTTL     = 12 * time.Hour
	DefaultBcryptRounds = 10
	MinPasswordLength   = 8
)

const (
	LoginMaxFailAttempts = 5
	LoginLockDuration    = 15 * time.Minute
	LoginStateMaxAge     = 24 * time.Hour
	AuthRateLimitMax     = 20
	AuthRateLimitWindow  = time.Minute
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	DefaultMembershipPrefix  = "MEM"
	DigitalIDPrefix          = "DID-"
	TicketNumberPrefix       = "TKT-"
	VerificationCodeLength   = 16
	MaxUploadFileSize        = 10 << 20
	DefaultDuesAmountCents   = 50000
	MsgRegistrationConflict  = "An account with that email or phone already exists."
	MsgNoRiskIndicators      = "No risk indicators detected."
	MsgInternalServerError   = "Internal server error."
	MsgTooManyLoginAttempts  = "Too many failed login attempts. Please try again later."
	MsgRegistrationSucceeded = "Registration submitted. Your application is pending review."
)

const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

func VersionWithCommit(gitCommit, gitDate string) string {
	version := Version
	if len(gitCommit) >= 8 {
		version += "-" + gitCommit[:8]
	}
	if gitDate != "" {
		version += "-" + gitDate
	}
	return version
}
