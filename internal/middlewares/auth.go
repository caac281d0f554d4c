package middlewares

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/model"
)

const claimsContextKey = "claims"

var (
	MsgAuthRequired  = "Authentication required."
	MsgTokenExpired  = "Session has expired. Please sign in again."
	MsgAccessDenied  = "You do not have permission to perform this action."
	ErrMissingBearer = errors.New("missing bearer token")
)

type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

// Authenticator guards route groups with bearer tokens.
type Authenticator struct {
	tokens TokenParser
}

// GetClaims returns the claims stored by RequireAdmin or RequireMember.
func GetClaims(ctx *fiber.Ctx) *auth.Claims {
	claims, _ := ctx.Locals(claimsContextKey).(*auth.Claims)
	return claims
}

// SubjectID returns the authenticated admin or member id, zero when unauthenticated.
func SubjectID(ctx *fiber.Ctx) uint {
	if claims := GetClaims(ctx); claims != nil {
		return claims.SubjectID()
	}
	return 0
}

func bearerToken(ctx *fiber.Ctx) string {
	header := ctx.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (a *Authenticator) authenticate(ctx *fiber.Ctx, kind auth.Kind) (*auth.Claims, error) {
	token := bearerToken(ctx)
	if token == "" {
		return nil, NewHTTPError(fiber.StatusUnauthorized, MsgAuthRequired, ErrMissingBearer)
	}
	claims, err := a.tokens.Parse(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, NewHTTPError(fiber.StatusUnauthorized, MsgTokenExpired, err)
	} else if err != nil {
		return nil, NewHTTPError(fiber.StatusUnauthorized, MsgAuthRequired, err)
	}
	if claims.Kind != kind {
		return nil, NewHTTPError(fiber.StatusForbidden, MsgAccessDenied, auth.ErrTokenInvalid)
	}
	return claims, nil
}

// RequireAdmin accepts admin tokens. When roles are given the token role must be one of them.
func (a *Authenticator) RequireAdmin(roles ...model.AdminRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, err := a.authenticate(ctx, auth.KindAdmin)
		if err != nil {
			return err
		}
		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			return NewHTTPError(fiber.StatusForbidden, MsgAccessDenied, nil)
		}
		ctx.Locals(claimsContextKey, claims)
		return ctx.Next()
	}
}

func (a *Authenticator) RequireMember() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, err := a.authenticate(ctx, auth.KindMember)
		if err != nil {
			return err
		}
		ctx.Locals(claimsContextKey, claims)
		return ctx.Next()
	}
}

func hasRole(role string, roles []model.AdminRole) bool {
	for _, r := range roles {
		if string(r) == role {
			return true
		}
	}
	return false
}

func NewAuthenticator(tokens TokenParser) *Authenticator {
	return &Authenticator{tokens: tokens}
}
