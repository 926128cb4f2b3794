package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/edvin/mongoadmin/internal/api/middleware"
	"github.com/edvin/mongoadmin/internal/api/request"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/session"
)

type Auth struct {
	users   *core.UserService
	auth    *core.AuthService
	cookies session.Cookies
}

func NewAuth(users *core.UserService, auth *core.AuthService, cookies session.Cookies) *Auth {
	return &Auth{users: users, auth: auth, cookies: cookies}
}

type loginResponse struct {
	User      *model.User `json:"user"`
	CSRFToken string      `json:"csrf_token"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

type meResponse struct {
	User      *model.User `json:"user"`
	Namespace string      `json:"namespace"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// Login authenticates with an email or legacy username and sets the session
// cookie.
//
//	@Summary      Log in
//	@Tags         Authentication
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.Login  true  "Credentials"
//	@Success      200   {object}  loginResponse
//	@Failure      400   {object}  response.ErrorResponse
//	@Failure      401   {object}  response.ErrorResponse
//	@Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	sess, u, err := h.auth.Login(r.Context(), req.Identity, req.Password, h.cookies.Read(r))
	if err != nil {
		zerolog.Ctx(r.Context()).Info().Str("identity", req.Identity).Msg("login failed")
		response.WriteServiceError(w, r, err)
		return
	}

	h.cookies.Set(w, sess.ID)
	zerolog.Ctx(r.Context()).Info().Str("identity", u.Identity()).Msg("login succeeded")
	response.WriteJSON(w, http.StatusOK, loginResponse{User: u, CSRFToken: sess.CSRFToken})
}

// Signup creates a regular account. It does not log the user in.
//
//	@Summary      Sign up
//	@Tags         Authentication
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.Signup  true  "New account"
//	@Success      201   {object}  userResponse
//	@Failure      400   {object}  response.ErrorResponse
//	@Failure      409   {object}  response.ErrorResponse
//	@Router       /auth/signup [post]
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.Signup
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		response.WriteServiceError(w, r, core.Invalid("passwords do not match"))
		return
	}

	u, err := h.users.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, userResponse{User: u})
}

// Logout destroys the session and clears the cookie.
//
//	@Summary  Log out
//	@Tags     Authentication
//	@Success  204
//	@Router   /auth/logout [post]
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), h.cookies.Read(r)); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// CSRFToken returns the token unsafe requests must echo in X-CSRF-Token.
//
//	@Summary  CSRF token
//	@Tags     Authentication
//	@Produce  json
//	@Success  200  {object}  csrfResponse
//	@Router   /api/csrf-token [get]
func (h *Auth) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		response.WriteServiceError(w, r, core.Unauthorized("please log in to access this resource"))
		return
	}
	response.WriteJSON(w, http.StatusOK, csrfResponse{CSRFToken: sess.CSRFToken})
}

// Me returns the current user and the namespace their databases live in.
//
//	@Summary  Current user
//	@Tags     Authentication
//	@Produce  json
//	@Success  200  {object}  meResponse
//	@Router   /api/me [get]
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	response.WriteJSON(w, http.StatusOK, meResponse{User: u, Namespace: authz.Namespace(u.Identity())})
}
