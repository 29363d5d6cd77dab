package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/importer"
	"github.com/rpattn/fleetgrid/internal/repository"
)

// CoordinatesHandler serves the coordinates endpoints.
type CoordinatesHandler struct {
	coords   repository.CoordinatesRepository
	notifier importer.Notifier
}

// NewCoordinatesHandler creates a coordinates handler.
func NewCoordinatesHandler(coords repository.CoordinatesRepository, notifier importer.Notifier) *CoordinatesHandler {
	return &CoordinatesHandler{coords: coords, notifier: notifier}
}

type coordinatesRequest struct {
	X *float64 `json:"x"`
	Y *float32 `json:"y"`
}

func (req coordinatesRequest) validate() error {
	var fields []domain.FieldError
	if req.X == nil {
		fields = append(fields, domain.FieldError{Field: "x", Message: "x is required"})
	} else if *req.X > domain.CoordinateMaxX {
		fields = append(fields, domain.FieldError{Field: "x", Message: fmt.Sprintf("x must not exceed %d", domain.CoordinateMaxX)})
	}
	if req.Y == nil {
		fields = append(fields, domain.FieldError{Field: "y", Message: "y is required"})
	} else if *req.Y > domain.CoordinateMaxY {
		fields = append(fields, domain.FieldError{Field: "y", Message: fmt.Sprintf("y must not exceed %d", domain.CoordinateMaxY)})
	}
	if len(fields) > 0 {
		return &domain.RequestValidationError{Fields: fields}
	}
	return nil
}

// Table handles POST /api/coordinates/table
func (h *CoordinatesHandler) Table(w http.ResponseWriter, r *http.Request) {
	var req domain.GridRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	rows, total, err := h.coords.FindPage(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GridResponse[domain.Coordinates]{Rows: rows, LastRow: total})
}

// Get handles GET /api/coordinates/{id}
func (h *CoordinatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	coords, err := h.coords.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coords)
}

// Create handles POST /api/coordinates
func (h *CoordinatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req coordinatesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.coords.Create(r.Context(), domain.Coordinates{X: *req.X, Y: *req.Y})
	if err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Broadcast("refresh")
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/coordinates/{id}
func (h *CoordinatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req coordinatesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.coords.Update(r.Context(), domain.Coordinates{ID: id, X: *req.X, Y: *req.Y})
	if err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Broadcast("refresh")
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/coordinates/{id}. Rows still referenced by
// vehicles produce a 409.
func (h *CoordinatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.coords.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Broadcast("refresh")
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/coordinates/search
func (h *CoordinatesHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	limit := 20
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

	coords, err := h.coords.Search(r.Context(), term, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coords)
}

// VehicleCount handles GET /api/coordinates/{id}/vehicle-count
func (h *CoordinatesHandler) VehicleCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.coords.GetByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	count, err := h.coords.VehicleCount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
