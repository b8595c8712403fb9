// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	Ttl      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		Ttl:      ttl,
	}
}

// Generate creates a new signed token for an agent. Returns the token and
// its jti.
func (g *Generator) Generate(agentID int64, role, purpose string, ttl time.Duration) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}

	now := time.Now()
	jti := ulid.Make().String()
	if ttl <= 0 {
		ttl = g.Ttl
	}

	claims := &Claims{
		AgentID:        agentID,
		Role:           role,
		SessionPurpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   fmt.Sprintf("%d", agentID),
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}

// GenerateAccessToken generates a standard access token.
func (g *Generator) GenerateAccessToken(agentID int64, role string) (string, string, error) {
	return g.Generate(agentID, role, "access", g.Ttl)
}

// GenerateRefreshToken generates a refresh token (longer TTL, no role).
func (g *Generator) GenerateRefreshToken(agentID int64) (string, string, error) {
	return g.Generate(agentID, "", "refresh", 60*24*time.Hour)
}

// GeneratePasswordResetToken generates a short-lived password reset token.
func (g *Generator) GeneratePasswordResetToken(agentID int64) (string, string, error) {
	return g.Generate(agentID, "", "password_reset", 30*time.Minute)
}
