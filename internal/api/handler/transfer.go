package handler

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/mongoadmin/internal/api/request"
	"github.com/edvin/mongoadmin/internal/api/response"
	"github.com/edvin/mongoadmin/internal/core"
)

const uploadField = "file"

type Transfer struct {
	svc      *core.TransferService
	maxBytes int64
}

func NewTransfer(svc *core.TransferService, maxBytes int64) *Transfer {
	return &Transfer{svc: svc, maxBytes: maxBytes}
}

type importResponse struct {
	Inserted int `json:"inserted"`
}

// Preview parses an uploaded spreadsheet and returns its first rows.
//
//	@Summary  Preview upload
//	@Tags     Import
//	@Accept   multipart/form-data
//	@Produce  json
//	@Param    file  formData  file  true  ".csv or .xlsx"
//	@Success  200   {object}  core.Preview
//	@Failure  400   {object}  response.ErrorResponse
//	@Router   /api/upload/preview [post]
func (h *Transfer) Preview(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	p, err := h.svc.Preview(header.Filename, file)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}

// Import inserts every row of an uploaded spreadsheet.
//
//	@Summary  Import upload
//	@Tags     Import
//	@Accept   multipart/form-data
//	@Produce  json
//	@Param    file             formData  file    true  ".csv or .xlsx"
//	@Param    db_name          formData  string  true  "Database name"
//	@Param    collection_name  formData  string  true  "Collection name"
//	@Success  200              {object}  importResponse
//	@Failure  400              {object}  response.ErrorResponse
//	@Router   /api/upload/import [post]
func (h *Transfer) Import(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	target := request.Import{DB: r.FormValue("db_name"), Collection: r.FormValue("collection_name")}
	if err := request.Struct(&target); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	n, err := h.svc.Import(r.Context(), u, target.DB, target.Collection, header.Filename, file)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().
		Str("db", target.DB).
		Str("collection", target.Collection).
		Int("inserted", n).
		Msg("import completed")
	response.WriteJSON(w, http.StatusOK, importResponse{Inserted: n})
}

// Export downloads a collection as CSV.
//
//	@Summary  Export collection
//	@Tags     Export
//	@Produce  text/csv
//	@Param    db          path  string  true  "Database name"
//	@Param    collection  path  string  true  "Collection name"
//	@Success  200
//	@Failure  403  {object}  response.ErrorResponse
//	@Router   /api/export/{db}/{collection} [get]
func (h *Transfer) Export(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	db, coll := chi.URLParam(r, "db"), chi.URLParam(r, "collection")

	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), u, db, coll, &buf); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", core.ExportFilename(db, coll)))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Transfer) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, r, http.StatusRequestEntityTooLarge, core.KindInvalidInput,
				fmt.Sprintf("upload exceeds %d bytes", h.maxBytes), err)
			return nil, nil, false
		}
		writeDecodeError(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return nil, nil, false
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		response.WriteServiceError(w, r, core.Invalid("no file uploaded"))
		return nil, nil, false
	}
	return file, header, true
}
