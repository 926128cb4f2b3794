package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mongoadmin/internal/api/request"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/core"
)

type Document struct {
	svc *core.DocumentService
}

func NewDocument(svc *core.DocumentService) *Document {
	return &Document{svc: svc}
}

type insertedResponse struct {
	InsertedID string `json:"inserted_id"`
	Message    string `json:"message"`
}

type modifiedResponse struct {
	Modified int64  `json:"modified"`
	Message  string `json:"message"`
}

type deletedResponse struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

// List returns one page of a collection.
//
//	@Summary  Collection data
//	@Tags     Documents
//	@Produce  json
//	@Param    db          path      string  true   "Database name"
//	@Param    collection  path      string  true   "Collection name"
//	@Param    page        query     int     false  "Page, from 1"
//	@Param    limit       query     int     false  "Page size, 1 to 100"
//	@Success  200         {object}  core.DocumentPage
//	@Router   /api/data/{db}/{collection} [get]
func (h *Document) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	p := request.ParsePagination(r)
	page, err := h.svc.List(r.Context(), u, chi.URLParam(r, "db"), chi.URLParam(r, "collection"), p.Page, p.Limit)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, page)
}

// Add inserts one document given as Extended JSON.
//
//	@Summary  Insert document
//	@Tags     Documents
//	@Accept   json
//	@Produce  json
//	@Param    body  body      request.AddDocument  true  "Document"
//	@Success  200   {object}  insertedResponse
//	@Failure  400   {object}  response.ErrorResponse
//	@Router   /api/document/add [post]
func (h *Document) Add(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.AddDocument
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	id, err := h.svc.Insert(r.Context(), u, req.DB, req.Collection, req.Doc)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, insertedResponse{InsertedID: id, Message: "Document inserted successfully"})
}

// Update sets fields on the first document matching the query.
//
//	@Summary  Update document
//	@Tags     Documents
//	@Accept   json
//	@Produce  json
//	@Param    body  body      request.UpdateDocument  true  "Query and new values"
//	@Success  200   {object}  modifiedResponse
//	@Failure  400   {object}  response.ErrorResponse
//	@Router   /api/document/update [post]
func (h *Document) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.UpdateDocument
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	n, err := h.svc.Update(r.Context(), u, req.DB, req.Collection, req.Query, req.NewValues)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, modifiedResponse{Modified: n, Message: fmt.Sprintf("Updated %d document(s)", n)})
}

// Delete removes the first document matching the query.
//
//	@Summary  Delete document
//	@Tags     Documents
//	@Accept   json
//	@Produce  json
//	@Param    body  body      request.DeleteDocument  true  "Query"
//	@Success  200   {object}  deletedResponse
//	@Failure  400   {object}  response.ErrorResponse
//	@Router   /api/document/delete [post]
func (h *Document) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.DeleteDocument
	if err := request.Decode(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	n, err := h.svc.Delete(r.Context(), u, req.DB, req.Collection, req.Query)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, deletedResponse{Deleted: n, Message: fmt.Sprintf("Deleted %d document(s)", n)})
}
