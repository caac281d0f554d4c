package security

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/khanghh/unionhub/internal/store"
	"github.com/khanghh/unionhub/params"
)

type LoginKind string

const (
	LoginKindAdmin  LoginKind = "admin"
	LoginKindMember LoginKind = "member"
)

func (k LoginKind) Valid() bool {
	return k == LoginKindAdmin || k == LoginKindMember
}

type LoginState struct {
	FailCount   int   `redis:"fail_count"`
	LockedUntil int64 `redis:"locked_until"` // unix seconds, zero-value = not locked
}

func (s *LoginState) IsLocked(now time.Time) bool {
	return s.LockedUntil != 0 && now.Unix() < s.LockedUntil
}

// LoginGuard counts failed logins per account and locks the account for a while
// once the limit is reached.
type LoginGuard struct {
	store       store.Store[LoginState]
	maxFails    int
	lockFor     time.Duration
	stateMaxAge time.Duration
	now         func() time.Time
}

func guardKey(kind LoginKind, identifier string) string {
	return string(kind) + ":" + strings.ToLower(strings.TrimSpace(identifier))
}

func (g *LoginGuard) state(ctx context.Context, key string) (*LoginState, error) {
	state, err := g.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return &LoginState{}, nil
	}
	return state, err
}

// Check returns a *LockedError while the account is locked.
func (g *LoginGuard) Check(ctx context.Context, kind LoginKind, identifier string) error {
	state, err := g.state(ctx, guardKey(kind, identifier))
	if err != nil {
		return err
	}
	if state.IsLocked(g.now()) {
		return &LockedError{Until: time.Unix(state.LockedUntil, 0)}
	}
	return nil
}

// Fail records a failed attempt. The returned error is a *LockedError when this
// attempt reached the limit.
func (g *LoginGuard) Fail(ctx context.Context, kind LoginKind, identifier string) error {
	key := guardKey(kind, identifier)
	state, err := g.state(ctx, key)
	if err != nil {
		return err
	}
	now := g.now()
	if state.LockedUntil != 0 && !state.IsLocked(now) {
		state = &LoginState{}
	}
	state.FailCount++
	if state.FailCount >= g.maxFails {
		state.LockedUntil = now.Add(g.lockFor).Unix()
	}
	if err := g.store.Set(ctx, key, *state, g.stateMaxAge); err != nil {
		return err
	}
	if state.IsLocked(now) {
		return &LockedError{Until: time.Unix(state.LockedUntil, 0)}
	}
	return nil
}

// Reset clears the counter after a successful login or an admin unlock.
func (g *LoginGuard) Reset(ctx context.Context, kind LoginKind, identifier string) error {
	return g.store.Del(ctx, guardKey(kind, identifier))
}

func NewLoginGuard(stateStore store.Store[LoginState]) *LoginGuard {
	return &LoginGuard{
		store:       stateStore,
		maxFails:    params.LoginMaxFailAttempts,
		lockFor:     params.LoginLockDuration,
		stateMaxAge: params.LoginStateMaxAge,
		now:         time.Now,
	}
}
