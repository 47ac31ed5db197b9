package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrBadCredentials signals a failed login attempt. The message never says
// which part of the credentials was wrong.
var ErrBadCredentials = errors.New("bad credentials")

const RoleStaff = "staff"

// TokenIssuer mints HS256 session tokens for floor staff who present the
// shared service password. Every token carries a fresh session id so two
// tabs of the same staff member count as two WebSocket clients.
type TokenIssuer struct {
	secret   []byte
	password []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret, password string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenIssuer{
		secret:   []byte(strings.TrimSpace(secret)),
		password: []byte(password),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login verifies the shared password in constant time and returns a signed
// token for the named staff member.
func (i *TokenIssuer) Login(staffName, password string) (string, *Claims, error) {
	staffName = strings.TrimSpace(staffName)
	if staffName == "" {
		return "", nil, ErrBadCredentials
	}
	if subtle.ConstantTimeCompare(i.password, []byte(password)) != 1 {
		return "", nil, ErrBadCredentials
	}

	now := i.now()
	claims := &Claims{
		SessionID: uuid.NewString(),
		Roles:     []string{RoleStaff},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// TTL reports the lifetime applied to issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}
