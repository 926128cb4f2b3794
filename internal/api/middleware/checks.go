package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/metrics"
	"github.com/edvin/mongoadmin/internal/model"
)

// CSRFHeader carries the session's CSRF token on unsafe requests.
const CSRFHeader = "X-CSRF-Token"

// Check inspects a request before its handler runs. A non-nil error stops
// the request and is written as the response.
type Check func(*http.Request) error

// Pipeline runs checks in order and calls the handler only if all pass.
func Pipeline(checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, check := range checks {
				if err := check(r); err != nil {
					response.WriteServiceError(w, r, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticated requires a resolved user.
func Authenticated() Check {
	return func(r *http.Request) error {
		if GetUser(r.Context()) != nil {
			return nil
		}
		if err := authError(r.Context()); err != nil && core.KindOf(err) != core.KindUnauthorized {
			return err
		}
		return core.Unauthorized("please log in to access this resource")
	}
}

// RequireCapability requires the user to hold capability c. Admins always
// pass.
func RequireCapability(engine *authz.Engine, c model.Capability) Check {
	return func(r *http.Request) error {
		u := GetUser(r.Context())
		if u == nil {
			return core.Unauthorized("please log in to access this resource")
		}
		if !engine.HasPermission(u, c, "") {
			metrics.AuthzDenials.WithLabelValues(string(c)).Inc()
			return core.Forbidden("you don't have permission to perform this action")
		}
		return nil
	}
}

// CSRF compares the X-CSRF-Token header with the session token on unsafe
// methods. disabled turns the check off for development.
func CSRF(disabled bool) Check {
	return func(r *http.Request) error {
		if disabled {
			return nil
		}
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return nil
		}
		sess := GetSession(r.Context())
		if sess == nil {
			return core.Unauthorized("please log in to access this resource")
		}
		token := r.Header.Get(CSRFHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			return core.Forbidden("CSRF token validation failed, refresh the page and try again")
		}
		return nil
	}
}
