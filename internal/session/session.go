// Package session keeps server-side login state keyed by an opaque cookie.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/platform"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session is the identity binding created at login. It never carries the
// password hash.
type Session struct {
	ID          string             `json:"id"`
	LoggedIn    bool               `json:"logged_in"`
	Email       string             `json:"email,omitempty"`
	Username    string             `json:"username,omitempty"`
	Role        model.Role         `json:"role"`
	Permissions *model.Permissions `json:"permissions,omitempty"`
	CSRFToken   string             `json:"csrf_token"`
	CreatedAt   time.Time          `json:"created_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// New binds u to a fresh session id and CSRF token.
func New(u *model.User, ttl time.Duration) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        platform.NewToken(32),
		LoggedIn:  true,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CSRFToken: platform.NewToken(32),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if u.Permissions != nil {
		p := *u.Permissions
		s.Permissions = &p
	}
	return s
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Identity is the lookup key for the user behind the session.
func (s *Session) Identity() string {
	if s.Email != "" {
		return s.Email
	}
	return s.Username
}

func (s *Session) clone() *Session {
	c := *s
	if s.Permissions != nil {
		p := *s.Permissions
		c.Permissions = &p
	}
	return &c
}

// Store persists sessions. Get returns ErrNotFound or ErrExpired when the
// session cannot be used.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string, expiresAt time.Time) error
}
