package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rpattn/fleetgrid/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP responses. Anything unrecognized
// is a 500 with a generic body; the cause goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	var (
		reqErr     *domain.RequestValidationError
		importErr  *domain.ImportValidationError
		conflict   *domain.ConflictError
		storageErr *domain.StorageError
	)

	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "request validation failed",
			"fields": reqErr.Fields,
		})
	case errors.As(err, &importErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": importErr.Errors,
		})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     conflict.Error(),
			"retryable": conflict.Retryable,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &storageErr):
		log.Printf("[HTTP] storage unavailable: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "object storage unavailable"})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// decodeBody decodes a JSON request body into v, rejecting unreadable
// payloads as request errors.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "body", Message: "request body is not valid json"},
		}}
	}
	return nil
}
