package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/session"
)

type contextKey string

const (
	userKey    contextKey = "user"
	sessionKey contextKey = "session"
	authErrKey contextKey = "auth_error"
)

// Session resolves the session cookie into the current user. Anonymous
// requests pass through; Authenticated rejects them later.
func Session(auth *core.AuthService, cookies session.Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookies.Read(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			u, sess, err := auth.Resolve(ctx, id)
			if err != nil {
				if core.KindOf(err) == core.KindUnauthorized {
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, authErrKey, err)))
				return
			}

			if renewed, err := auth.Refresh(ctx, sess); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("session refresh failed")
			} else if renewed {
				cookies.Set(w, sess.ID)
			}

			logger := zerolog.Ctx(ctx).With().Str("user", u.Identity()).Logger()
			ctx = WithUser(logger.WithContext(ctx), u, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser stores the resolved user and session in ctx.
func WithUser(ctx context.Context, u *model.User, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, sessionKey, sess)
}

// GetUser returns the user resolved for this request, or nil.
func GetUser(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey).(*model.User)
	return u
}

func GetSession(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

func authError(ctx context.Context) error {
	err, _ := ctx.Value(authErrKey).(error)
	return err
}
