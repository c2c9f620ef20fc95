package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return Build(priv, &priv.PublicKey, Config{
		Issuer:   "greenwell",
		Audience: "greenwell-dashboard",
		TTL:      time.Hour,
		KID:      "test-key",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager(t)

	token, jti, err := m.Generator.GenerateAccessToken(42, "9876543210", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.Verifier.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "9876543210", claims.Mobile)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, PurposeAccess, claims.SessionPurpose)
}

func TestConflictTokenScope(t *testing.T) {
	m := testManager(t)

	token, _, err := m.Generator.GenerateConflictToken(42, "9876543210")
	require.NoError(t, err)

	claims, err := m.Verifier.VerifyConflictToken(token)
	require.NoError(t, err)
	assert.Equal(t, PurposeSessionConflict, claims.SessionPurpose)
	assert.Empty(t, claims.Role, "conflict tokens carry no role")

	// Purposes do not cross over in either direction.
	_, err = m.Verifier.VerifyAccessToken(token)
	assert.Error(t, err)

	access, _, err := m.Generator.GenerateAccessToken(42, "9876543210", "admin")
	require.NoError(t, err)
	_, err = m.Verifier.VerifyConflictToken(access)
	assert.Error(t, err)
}

func TestVerifierRejectsForeignKey(t *testing.T) {
	m1 := testManager(t)
	m2 := testManager(t)

	token, _, err := m1.Generator.GenerateAccessToken(1, "9876543210", "admin")
	require.NoError(t, err)

	_, err = m2.Verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestUniqueJTIs(t *testing.T) {
	m := testManager(t)

	_, a, err := m.Generator.GenerateAccessToken(1, "9876543210", "admin")
	require.NoError(t, err)
	_, b, err := m.Generator.GenerateAccessToken(1, "9876543210", "admin")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
