package jwthelper

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeAccess = "access"
	PurposeReset  = "reset"

	AccessTokenTTL = 24 * time.Hour
	ResetTokenTTL  = time.Hour

	issuer = "bikerent"
)

var ErrInvalidToken = errors.New("invalid token")

type UserClaims struct {
	jwt.RegisteredClaims
	UserID    uint   `json:"user_id"`
	UserAgent string `json:"user_agent,omitempty"`
	Purpose   string `json:"purpose"`
	// Fingerprint ties a reset token to the password hash it was issued for,
	// so the token stops working once the password changes.
	Fingerprint string `json:"fingerprint,omitempty"`
}

func GenerateToken(key []byte, userID uint, userAgent string) (string, error) {
	return sign(key, UserClaims{
		RegisteredClaims: registered(userID, AccessTokenTTL),
		UserID:           userID,
		UserAgent:        userAgent,
		Purpose:          PurposeAccess,
	})
}

func GenerateResetToken(key []byte, userID uint, passwordHash string) (string, error) {
	return sign(key, UserClaims{
		RegisteredClaims: registered(userID, ResetTokenTTL),
		UserID:           userID,
		Purpose:          PurposeReset,
		Fingerprint:      Fingerprint(passwordHash),
	})
}

// ParseToken verifies the signature, expiry and purpose of token.
func ParseToken(key []byte, token, purpose string) (*UserClaims, error) {
	claims := &UserClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Purpose != purpose || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func Fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

func registered(userID uint, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()

	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(key []byte, claims UserClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return token, nil
}
