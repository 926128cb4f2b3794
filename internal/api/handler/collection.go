package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/mongoadmin/internal/api/request"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/core"
)

type Collection struct {
	svc *core.CollectionService
}

func NewCollection(svc *core.CollectionService) *Collection {
	return &Collection{svc: svc}
}

type collectionListResponse struct {
	Collections []string `json:"collections"`
}

type collectionCreatedResponse struct {
	OK         bool   `json:"ok"`
	Collection string `json:"collection"`
	Message    string `json:"message"`
}

type collectionDeletedResponse struct {
	OK      bool   `json:"ok"`
	Deleted string `json:"deleted"`
	Message string `json:"message"`
}

// List returns the collections of a database.
//
//	@Summary  List collections
//	@Tags     Collections
//	@Produce  json
//	@Param    db   path      string  true  "Database name"
//	@Success  200  {object}  collectionListResponse
//	@Router   /api/collections/{db} [get]
func (h *Collection) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	names, err := h.svc.List(r.Context(), u, chi.URLParam(r, "db"))
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, collectionListResponse{Collections: names})
}

// Create adds an empty collection.
//
//	@Summary  Create collection
//	@Tags     Collections
//	@Accept   json
//	@Produce  json
//	@Param    body  body      request.CollectionRef  true  "Target"
//	@Success  200   {object}  collectionCreatedResponse
//	@Failure  409   {object}  response.ErrorResponse
//	@Router   /api/collection/add [post]
func (h *Collection) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CollectionRef
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if err := h.svc.Create(r.Context(), u, req.DB, req.Collection); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("db", req.DB).Str("collection", req.Collection).Msg("collection created")
	response.WriteJSON(w, http.StatusOK, collectionCreatedResponse{OK: true, Collection: req.Collection, Message: "Collection created successfully"})
}

// Delete drops a collection.
//
//	@Summary  Drop collection
//	@Tags     Collections
//	@Accept   json
//	@Produce  json
//	@Param    body  body      request.CollectionRef  true  "Target"
//	@Success  200   {object}  collectionDeletedResponse
//	@Failure  404   {object}  response.ErrorResponse
//	@Router   /api/collection/delete [post]
func (h *Collection) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CollectionRef
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if err := h.svc.Drop(r.Context(), u, req.DB, req.Collection); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("db", req.DB).Str("collection", req.Collection).Msg("collection dropped")
	response.WriteJSON(w, http.StatusOK, collectionDeletedResponse{OK: true, Deleted: req.Collection, Message: "Collection deleted successfully"})
}
