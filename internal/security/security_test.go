package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanghh/unionhub/internal/store"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(now *time.Time) *LoginGuard {
	guard := NewLoginGuard(store.NewMemoryStore[LoginState]())
	guard.now = func() time.Time { return *now }
	return guard
}

func TestLoginGuardLocksAfterMaxFails(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_800_000_000, 0)
	guard := newTestGuard(&now)

	for i := 0; i < guard.maxFails-1; i++ {
		require.NoError(t, guard.Fail(ctx, LoginKindMember, "A@B.com"))
	}
	require.NoError(t, guard.Check(ctx, LoginKindMember, "a@b.com"))

	err := guard.Fail(ctx, LoginKindMember, "a@b.com")
	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, now.Add(guard.lockFor).Unix(), locked.Until.Unix())

	err = guard.Check(ctx, LoginKindMember, " a@b.com ")
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, guard.lockFor, locked.RetryAfter(now))

	// other kinds are tracked separately
	require.NoError(t, guard.Check(ctx, LoginKindAdmin, "a@b.com"))

	now = now.Add(guard.lockFor + time.Second)
	require.NoError(t, guard.Check(ctx, LoginKindMember, "a@b.com"))
	require.NoError(t, guard.Fail(ctx, LoginKindMember, "a@b.com"))
}

func TestLoginGuardReset(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_800_000_000, 0)
	guard := newTestGuard(&now)

	for i := 0; i < guard.maxFails; i++ {
		_ = guard.Fail(ctx, LoginKindAdmin, "root@union.org")
	}
	assert.Error(t, guard.Check(ctx, LoginKindAdmin, "root@union.org"))
	require.NoError(t, guard.Reset(ctx, LoginKindAdmin, "root@union.org"))
	assert.NoError(t, guard.Check(ctx, LoginKindAdmin, "root@union.org"))
}

func TestTOTP(t *testing.T) {
	key, err := GenerateTOTP("UnionHub", "root@union.org")
	require.NoError(t, err)
	assert.NotEmpty(t, key.Secret)
	assert.Contains(t, key.URL, "otpauth://totp/")

	code, err := totp.GenerateCode(key.Secret, time.Now())
	require.NoError(t, err)
	assert.NoError(t, ValidateTOTP(code, key.Secret))
	assert.ErrorIs(t, ValidateTOTP("", key.Secret), ErrTOTPInvalidCode)
	assert.ErrorIs(t, ValidateTOTP(code, ""), ErrTOTPInvalidCode)
}
