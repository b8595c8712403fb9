// internal/pkg/jwt/jwt_test.go
package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T) (*Generator, *Verifier) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	gen := NewGenerator(priv, "insurica", "insurica-agents", "test-key", time.Hour)
	ver := NewVerifier(&priv.PublicKey, "insurica", "insurica-agents")
	return gen, ver
}

func TestAccessTokenRoundTrip(t *testing.T) {
	gen, ver := testKeyPair(t)

	token, jti, err := gen.GenerateAccessToken(42, "agent")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := ver.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AgentID)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "access", claims.SessionPurpose)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	gen, ver := testKeyPair(t)

	token, _, err := gen.GenerateRefreshToken(42)
	require.NoError(t, err)

	_, err = ver.VerifyAccessToken(token)
	assert.Error(t, err)

	claims, err := ver.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AgentID)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	gen, _ := testKeyPair(t)
	_, otherVerifier := testKeyPair(t)

	token, _, err := gen.GenerateAccessToken(42, "agent")
	require.NoError(t, err)

	_, err = otherVerifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	gen := NewGenerator(priv, "insurica", "insurica-agents", "", time.Hour)
	ver := NewVerifier(&priv.PublicKey, "insurica", "insurica-agents")

	token, _, err := gen.Generate(42, "agent", "access", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = ver.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	gen := NewGenerator(priv, "someone-else", "insurica-agents", "", time.Hour)
	ver := NewVerifier(&priv.PublicKey, "insurica", "insurica-agents")

	token, _, err := gen.GenerateAccessToken(42, "agent")
	require.NoError(t, err)

	_, err = ver.Verify(token)
	assert.Error(t, err)
}

func TestClaimsRoleHelpers(t *testing.T) {
	assert.True(t, (&Claims{Role: "admin"}).IsAdmin())
	assert.True(t, (&Claims{Role: "super_admin"}).IsAdmin())
	assert.True(t, (&Claims{Role: "super_admin"}).IsSuperAdmin())
	assert.False(t, (&Claims{Role: "agent"}).IsAdmin())
	assert.False(t, (&Claims{Role: "admin"}).IsSuperAdmin())
}
