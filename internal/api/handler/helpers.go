package handler

import (
	"net/http"

	mw "github.com/edvin/mongoadmin/internal/api/middleware"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/core"
	"github.com/edvin/mongoadmin/internal/model"
)

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	response.WriteError(w, r, http.StatusBadRequest, core.KindInvalidInput, err.Error(), err)
}

// currentUser returns the resolved user or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	u := mw.GetUser(r.Context())
	if u == nil {
		response.WriteServiceError(w, r, core.Unauthorized("please log in to access this resource"))
		return nil, false
	}
	return u, true
}
