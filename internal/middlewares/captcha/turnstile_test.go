package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, success bool) (*TurnstileVerifier, *map[string]string) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(turnstileResponse{Success: success})
	}))
	t.Cleanup(srv.Close)

	v := NewTurnstileVerifier("secret")
	v.VerifyURL = srv.URL
	return v, &received
}

func TestTurnstileVerify(t *testing.T) {
	v, received := newTestVerifier(t, true)
	require.NoError(t, v.Verify(context.Background(), "widget-token", "10.0.0.1"))
	assert.Equal(t, "secret", (*received)["secret"])
	assert.Equal(t, "widget-token", (*received)["response"])
	assert.Equal(t, "10.0.0.1", (*received)["remoteip"])
}

func TestTurnstileVerifyRejected(t *testing.T) {
	v, _ := newTestVerifier(t, false)
	assert.ErrorIs(t, v.Verify(context.Background(), "widget-token", ""), ErrInvalidCaptcha)
	assert.ErrorIs(t, v.Verify(context.Background(), "", ""), ErrInvalidCaptcha)
}

func TestTurnstileDisabledWithoutSecret(t *testing.T) {
	v := NewTurnstileVerifier("")
	assert.NoError(t, v.Verify(context.Background(), "", ""))
}
