package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", "unionhub", time.Hour)
	token, expiresAt, err := m.Issue(KindAdmin, 42, "super_admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, KindAdmin, claims.Kind)
	assert.Equal(t, "super_admin", claims.Role)
	assert.Equal(t, uint(42), claims.SubjectID())
}

func TestTokenManagerRejects(t *testing.T) {
	m := NewTokenManager("secret", "unionhub", time.Hour)
	token, _, err := m.Issue(KindMember, 7, "")
	require.NoError(t, err)

	other := NewTokenManager("other-secret", "unionhub", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIssuer := NewTokenManager("secret", "someone-else", time.Hour)
	_, err = wrongIssuer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
