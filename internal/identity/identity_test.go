package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster(t *testing.T) {
	ctx := context.Background()
	roster := NewRoster("ST1SEEDED")

	ok, err := roster.IsRegistered(ctx, "ST1SEEDED")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = roster.IsRegistered(ctx, "ST2UNKNOWN")
	require.NoError(t, err)
	assert.False(t, ok)

	roster.Register("ST2UNKNOWN")
	ok, err = roster.IsRegistered(ctx, "ST2UNKNOWN")
	require.NoError(t, err)
	assert.True(t, ok)

	roster.Deregister("ST1SEEDED")
	ok, err = roster.IsRegistered(ctx, "ST1SEEDED")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialRoundTrip(t *testing.T) {
	verifier := NewCredentialVerifier("test-signing-key", "relief-registrar")

	token, err := verifier.Issue("ST1HOLDER", time.Hour)
	require.NoError(t, err)

	addr, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ST1HOLDER", string(addr))
}

func TestCredentialExpired(t *testing.T) {
	verifier := NewCredentialVerifier("test-signing-key", "relief-registrar")

	token, err := verifier.Issue("ST1HOLDER", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestCredentialWrongKey(t *testing.T) {
	issuer := NewCredentialVerifier("key-one", "relief-registrar")
	verifier := NewCredentialVerifier("key-two", "relief-registrar")

	token, err := issuer.Issue("ST1HOLDER", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestCredentialWrongIssuer(t *testing.T) {
	issuer := NewCredentialVerifier("test-signing-key", "someone-else")
	verifier := NewCredentialVerifier("test-signing-key", "relief-registrar")

	token, err := issuer.Issue("ST1HOLDER", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestCredentialGarbage(t *testing.T) {
	verifier := NewCredentialVerifier("test-signing-key", "relief-registrar")
	_, err := verifier.Verify("not-a-token")
	assert.Error(t, err)
}

func TestSeedRoster(t *testing.T) {
	ctx := context.Background()
	verifier := NewCredentialVerifier("test-signing-key", "relief-registrar")
	roster := NewRoster()

	good, err := verifier.Issue("ST1GOOD", time.Hour)
	require.NoError(t, err)
	expired, err := verifier.Issue("ST2LATE", -time.Minute)
	require.NoError(t, err)

	seeded, err := SeedRoster(roster, verifier, []string{good, expired, "garbage"})
	assert.Equal(t, 1, seeded)
	require.Error(t, err)

	ok, rerr := roster.IsRegistered(ctx, "ST1GOOD")
	require.NoError(t, rerr)
	assert.True(t, ok)

	ok, rerr = roster.IsRegistered(ctx, "ST2LATE")
	require.NoError(t, rerr)
	assert.False(t, ok)
}
