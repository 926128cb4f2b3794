package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edvin/mongoadmin/internal/metrics"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/session"
)

type AuthService struct {
	users    *UserService
	sessions session.Store
	ttl      time.Duration
}

func NewAuthService(users *UserService, sessions session.Store, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// Login authenticates and opens a new session. Once the credentials check
// out, any session the client already carried is destroyed. A failed
// attempt leaves it in place.
func (s *AuthService) Login(ctx context.Context, identity, password, previousID string) (*session.Session, *model.User, error) {
	u, err := s.users.Authenticate(ctx, identity, password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, nil, err
	}

	if previousID != "" {
		if err := s.sessions.Delete(ctx, previousID); err != nil {
			return nil, nil, fmt.Errorf("drop previous session: %w", err)
		}
	}

	sess := session.New(u, s.ttl)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return sess, u, nil
}

func (s *AuthService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resolve loads the session and the current user record behind it. The
// user is fetched on every call so permission changes apply immediately.
func (s *AuthService) Resolve(ctx context.Context, id string) (*model.User, *session.Session, error) {
	if id == "" {
		return nil, nil, Unauthorized("authentication required")
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return nil, nil, Unauthorized("authentication required")
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	u, err := s.users.Lookup(ctx, sess.Identity())
	if err != nil {
		if KindOf(err) == KindNotFound {
			_ = s.sessions.Delete(ctx, id)
			return nil, nil, Unauthorized("authentication required")
		}
		return nil, nil, err
	}
	return u, sess, nil
}

// Refresh extends sess once less than half of its lifetime remains.
// renewed reports whether the cookie should be reissued.
func (s *AuthService) Refresh(ctx context.Context, sess *session.Session) (renewed bool, err error) {
	if time.Until(sess.ExpiresAt) > s.ttl/2 {
		return false, nil
	}
	expiresAt := time.Now().UTC().Add(s.ttl)
	if err := s.sessions.Touch(ctx, sess.ID, expiresAt); err != nil {
		return false, fmt.Errorf("touch session: %w", err)
	}
	sess.ExpiresAt = expiresAt
	return true, nil
}
