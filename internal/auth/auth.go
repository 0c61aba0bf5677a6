// Package auth issues and verifies the member tokens sent in the
// Authorization header.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Naya-01/PAE/internal/config"
)

const (
	RememberMeTTL = 30 * 24 * time.Hour
	SessionTTL    = 12 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type memberClaims struct {
	jwt.RegisteredClaims
	MemberID int `json:"user"`
}

// Manager signs tokens with an HMAC secret
type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewManager(secret, issuer string) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &Manager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// FromConfig builds a manager from the Auth section
func FromConfig(cfg *config.Config) (*Manager, error) {
	return NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
}

// Issue returns a token for memberID valid for 30 days when rememberMe is
// set, 12 hours otherwise.
func (m *Manager) Issue(memberID int, rememberMe bool) (string, error) {
	ttl := SessionTTL
	if rememberMe {
		ttl = RememberMeTTL
	}

	now := m.now()
	claims := memberClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		MemberID: memberID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, issuer and expiry of token and returns the
// member id it carries.
func (m *Manager) Verify(token string) (int, error) {
	claims := &memberClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.MemberID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.MemberID, nil
}
