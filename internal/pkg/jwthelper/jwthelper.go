package jwthelper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type VoterClaims struct {
	jwt.RegisteredClaims
	VoterID   uint   `json:"voter_id"`
	UserAgent string `json:"user_agent"`
}

func GenerateToken(signingKey []byte, voterID uint, userAgent string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := VoterClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(voterID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		VoterID:   voterID,
		UserAgent: userAgent,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

// ParseToken verifies the signature and expiry of tokenString. Only HS256 is
// accepted.
func ParseToken(signingKey []byte, tokenString string) (*VoterClaims, error) {
	claims := &VoterClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.VoterID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
