package tokenizer

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AudienceAccess = "spotmf:access"

// DefaultAccessTTL is the credential lifetime used when the caller passes
// a non-positive ttl.
const DefaultAccessTTL = 30 * 24 * time.Hour

// JWTTokenizer implements the Tokenizer interface using ES256 JWTs.
type JWTTokenizer struct {
	signKey *ecdsa.PrivateKey
}

// NewJWTTokenizer creates a new JWT tokenizer over the given signing key.
func NewJWTTokenizer(signKey *ecdsa.PrivateKey) ports.Tokenizer {
	return &JWTTokenizer{signKey: signKey}
}

// Issue mints a signed credential binding the wallet address.
func (j *JWTTokenizer) Issue(walletAddress string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   core.NormalizeAddress(walletAddress),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  jwt.ClaimStrings{AudienceAccess},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(j.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the credential and returns the wallet it binds. All failure
// modes collapse to core.ErrInvalidToken; the network boundary must not learn
// whether a rejected token was expired, forged, or malformed.
func (j *JWTTokenizer) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceAccess))
	if err != nil || !token.Valid {
		return "", core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || claims.Subject == "" {
		return "", core.ErrInvalidToken
	}
	return claims.Subject, nil
}
