// Package token issues and verifies the JWTs used for sessions and password
// resets. Both token kinds carry a purpose claim so one can never stand in
// for the other.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
)

const (
	purposeSession       = "session"
	purposePasswordReset = "password_reset"
)

type claims struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a single HMAC secret.
type Manager struct {
	secret        []byte
	sessionExpiry time.Duration
	resetExpiry   time.Duration
}

func NewManager(secret string, sessionExpiry, resetExpiry time.Duration) *Manager {
	return &Manager{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
		resetExpiry:   resetExpiry,
	}
}

// IssueSessionToken returns a signed session token for the user.
func (m *Manager) IssueSessionToken(userID uint64) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ResolveSessionToken returns the user ID carried by a valid session token.
func (m *Manager) ResolveSessionToken(tokenString string) (uint64, error) {
	c, err := m.parse(tokenString, purposeSession)
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, apierrors.Unauthenticated("invalid session token")
	}
	return userID, nil
}

// IssuePasswordResetToken returns a short-lived reset token bound to an email.
func (m *Manager) IssuePasswordResetToken(email string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purposePasswordReset,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.resetExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// ResolvePasswordResetToken returns the email a valid reset token was issued
// for, failing with ExpiredOrInvalid otherwise.
func (m *Manager) ResolvePasswordResetToken(tokenString string) (string, error) {
	c, err := m.parse(tokenString, purposePasswordReset)
	if err != nil {
		return "", apierrors.ExpiredOrInvalid("reset token is invalid or has expired")
	}
	return c.Email, nil
}

func (m *Manager) parse(tokenString, purpose string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, apierrors.Unauthenticated("invalid token")
	}
	if c.Purpose != purpose {
		return nil, apierrors.Unauthenticated("token purpose mismatch")
	}
	return c, nil
}
