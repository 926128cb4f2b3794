package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/mongoadmin/internal/api/request"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/core"
)

type Database struct {
	svc *core.DatabaseService
}

func NewDatabase(svc *core.DatabaseService) *Database {
	return &Database{svc: svc}
}

type databaseListResponse struct {
	Databases []string `json:"databases"`
}

type databaseCreatedResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Message string `json:"message"`
}

type databaseDeletedResponse struct {
	OK      bool   `json:"ok"`
	Deleted string `json:"deleted"`
	Message string `json:"message"`
}

// List returns the databases visible to the caller.
//
//	@Summary  List databases
//	@Tags     Databases
//	@Produce  json
//	@Success  200  {object}  databaseListResponse
//	@Router   /api/databases [get]
func (h *Database) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	dbs, err := h.svc.ListVisible(r.Context(), u)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, databaseListResponse{Databases: dbs})
}

// Create creates a database inside the caller's namespace.
//
//	@Summary  Create database
//	@Tags     Databases
//	@Accept   json
//	@Produce  json
//	@Param    body  body      request.CreateDatabase  true  "Database name"
//	@Success  200   {object}  databaseCreatedResponse
//	@Failure  400   {object}  response.ErrorResponse
//	@Router   /api/databases [post]
func (h *Database) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CreateDatabase
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	name, err := h.svc.Create(r.Context(), u, req.Name)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("db", name).Msg("database created")
	response.WriteJSON(w, http.StatusOK, databaseCreatedResponse{OK: true, DB: name, Message: "Database created successfully"})
}

// Delete drops a database the caller owns.
//
//	@Summary  Drop database
//	@Tags     Databases
//	@Produce  json
//	@Param    db   path      string  true  "Database name"
//	@Success  200  {object}  databaseDeletedResponse
//	@Failure  403  {object}  response.ErrorResponse
//	@Failure  404  {object}  response.ErrorResponse
//	@Router   /api/databases/{db} [delete]
func (h *Database) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "db")
	if err := h.svc.Drop(r.Context(), u, name); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("db", name).Msg("database dropped")
	response.WriteJSON(w, http.StatusOK, databaseDeletedResponse{OK: true, Deleted: name, Message: "Database deleted successfully"})
}
