package handler

import (
	"net/http"

	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/core"
)

type Diagnostics struct {
	svc *core.DiagnosticsService
}

func NewDiagnostics(svc *core.DiagnosticsService) *Diagnostics {
	return &Diagnostics{svc: svc}
}

// Info reports connectivity and the masked connection string.
//
//	@Summary  Server info
//	@Tags     Diagnostics
//	@Produce  json
//	@Success  200  {object}  core.Info
//	@Failure  503  {object}  response.ErrorResponse
//	@Router   /api/info [get]
func (h *Diagnostics) Info(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	info, err := h.svc.Info(r.Context(), u)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, info)
}

// Overview counts collections and documents per visible database.
//
//	@Summary  Metrics overview
//	@Tags     Diagnostics
//	@Produce  json
//	@Success  200  {object}  core.Overview
//	@Router   /api/metrics/overview [get]
func (h *Diagnostics) Overview(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	ov, err := h.svc.Overview(r.Context(), u)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, ov)
}
