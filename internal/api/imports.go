package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/importer"
	"github.com/rpattn/fleetgrid/internal/repository"
	"github.com/rpattn/fleetgrid/internal/storage"
)

// maxImportSize bounds the multipart upload read into memory.
const maxImportSize = 32 << 20

// ImportHandler serves the bulk-import endpoints.
type ImportHandler struct {
	service *importer.Service
	ops     repository.ImportOperationRepository
	store   storage.ObjectStore
}

// NewImportHandler creates an import handler.
func NewImportHandler(service *importer.Service, ops repository.ImportOperationRepository, store storage.ObjectStore) *ImportHandler {
	return &ImportHandler{service: service, ops: ops, store: store}
}

// Import handles POST /api/import/vehicles
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "file", Message: "expected a multipart upload with a file field"},
		}})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "file", Message: "file field is required"},
		}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	meta := domain.ImportFileMeta{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
	}

	result, err := h.service.Import(r.Context(), meta, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History handles GET /api/import/history
func (h *ImportHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, &domain.RequestValidationError{Fields: []domain.FieldError{
				{Field: "limit", Message: "limit must be a positive integer"},
			}})
			return
		}
		limit = parsed
	}

	ops, err := h.ops.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

// File handles GET /api/import/operations/{id}/file. Only successful
// operations retain an object; everything else is a 404.
func (h *ImportHandler) File(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	op, err := h.ops.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if op.FileObjectKey == nil || op.Status == nil || !*op.Status {
		writeError(w, fmt.Errorf("import operation %d has no retained file: %w", id, domain.ErrNotFound))
		return
	}

	obj, info, err := h.store.Get(r.Context(), *op.FileObjectKey)
	if err != nil {
		writeError(w, err)
		return
	}
	defer obj.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	if op.FileName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", op.FileName))
	}

	if _, err := io.Copy(w, obj); err != nil {
		log.Printf("[HTTP] failed to stream import file %s: %v", *op.FileObjectKey, err)
	}
}
