// Package token issues and verifies the signed JWT pairs that authenticate
// API requests. Access tokens are short-lived; refresh tokens only mint new
// access tokens and are never accepted on protected routes.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried by both token types. TokenType keeps the two
// from being interchangeable.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// Pair is one access/refresh token couple issued at login.
type Pair struct {
	Access  string
	Refresh string
}

// Manager signs and verifies tokens with a single HMAC secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue mints a fresh access/refresh pair for the given user.
func (m *Manager) Issue(userID uint) (Pair, error) {
	access, err := m.sign(userID, typeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(userID, typeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// IssueAccess mints a standalone access token, used by the refresh flow.
func (m *Manager) IssueAccess(userID uint) (string, error) {
	return m.sign(userID, typeAccess, m.accessTTL)
}

func (m *Manager) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns the user id it names.
func (m *Manager) VerifyAccess(tokenString string) (uint, error) {
	return m.verify(tokenString, typeAccess)
}

// VerifyRefresh validates a refresh token and returns the user id it names.
func (m *Manager) VerifyRefresh(tokenString string) (uint, error) {
	return m.verify(tokenString, typeRefresh)
}

func (m *Manager) verify(tokenString, wantType string) (uint, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
