// Package auth signs the short-lived JWTs App Store Connect accepts as
// bearer credentials.
package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Audience is the fixed aud claim expected by App Store Connect.
	Audience = "appstoreconnect-v1"

	// DefaultTTL is how long a generated token stays valid.
	DefaultTTL = 10 * time.Minute

	// MaxTTL is the longest lifetime App Store Connect accepts.
	MaxTTL = 20 * time.Minute
)

// ErrInvalidKey is returned when the private key cannot be read or parsed.
var ErrInvalidKey = errors.New("invalid private key")

type options struct {
	ttl      time.Duration
	audience string
	now      func() time.Time
}

// Option configures token generation.
type Option func(*options)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithAudience overrides the aud claim.
func WithAudience(aud string) Option {
	return func(o *options) { o.audience = aud }
}

// WithClock sets the time source used for iat and exp.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// ReadPrivateKey reads and parses a PEM encoded EC private key (.p8 file).
func ReadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading key file: %w", ErrInvalidKey, err)
	}
	return ParsePrivateKey(data)
}

// ParsePrivateKey parses a PEM encoded EC private key in PKCS8 or SEC1 form.
func ParsePrivateKey(keyPEM []byte) (*ecdsa.PrivateKey, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// GenerateToken signs an ES256 token for the given issuer with keyID in the header.
func GenerateToken(key *ecdsa.PrivateKey, issuerID, keyID string, opts ...Option) (string, error) {
	o := options{
		ttl:      DefaultTTL,
		audience: Audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	now := o.now()
	// aud has to be a plain string; RegisteredClaims would encode it as an array.
	claims := jwt.MapClaims{
		"iss": issuerID,
		"iat": now.Unix(),
		"exp": now.Add(o.ttl).Unix(),
		"aud": o.audience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = keyID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// GenerateTokenFromFile reads the key at keyPath and signs a token with it.
func GenerateTokenFromFile(keyPath, issuerID, keyID string, opts ...Option) (string, error) {
	key, err := ReadPrivateKey(keyPath)
	if err != nil {
		return "", err
	}
	return GenerateToken(key, issuerID, keyID, opts...)
}
