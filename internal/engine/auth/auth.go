package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UnauthenticatedError indicates the caller carried no identity.
type UnauthenticatedError struct{}

func (UnauthenticatedError) Error() string { return "authentication required" }

// ForbiddenError indicates the caller does not own the resource.
type ForbiddenError struct {
	Kind string
	ID   string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("%s %s belongs to another owner", e.Kind, e.ID)
}

// RequireActor fails with UnauthenticatedError for an empty actor id.
func RequireActor(actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return UnauthenticatedError{}
	}
	return nil
}

// RequireOwner checks that actorID owns a resource owned by ownerID.
func RequireOwner(actorID, ownerID, kind, id string) error {
	if err := RequireActor(actorID); err != nil {
		return err
	}
	if actorID != ownerID {
		return ForbiddenError{Kind: kind, ID: id}
	}
	return nil
}

// APIKeyPrefix marks generated keys so they are recognizable in logs and
// secret scanners.
const APIKeyPrefix = "ml_"

// NewAPIKeySecret returns a random API key. Only its hash is stored.
func NewAPIKeySecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}

// Claims is the JWT body accepted by the server.
type Claims struct {
	jwt.RegisteredClaims
}

// SignToken mints an HS256 token for actorID. A zero ttl yields a token
// without expiry.
func SignToken(secret, actorID string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret required")
	}
	if err := RequireActor(actorID); err != nil {
		return "", err
	}
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:  actorID,
		Issuer:   "mockline",
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its subject.
func ParseToken(secret, token string) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("subject claim required")
	}
	return claims.Subject, nil
}
