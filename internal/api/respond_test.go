package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpattn/fleetgrid/internal/domain"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{
			name: "request validation",
			err: &domain.RequestValidationError{Fields: []domain.FieldError{
				{Field: "endRow", Message: "endRow must be greater than startRow"},
			}},
			status: http.StatusBadRequest,
		},
		{
			name: "import validation",
			err: &domain.ImportValidationError{Errors: []domain.RowError{
				{RowNumber: 1, Field: "name", Message: "name must not be blank"},
			}},
			status: http.StatusBadRequest,
		},
		{
			name:   "conflict",
			err:    domain.NameNotUniqueError("truck-1"),
			status: http.StatusConflict,
		},
		{
			name:   "wrapped conflict",
			err:    fmt.Errorf("import failed: %w", &domain.ConflictError{Reason: "serialization failure", Retryable: true}),
			status: http.StatusConflict,
		},
		{
			name:   "not found",
			err:    fmt.Errorf("vehicle 7: %w", domain.ErrNotFound),
			status: http.StatusNotFound,
		},
		{
			name:   "storage unavailable",
			err:    &domain.StorageError{Op: "copy", Key: "imports/x.json", Err: errors.New("connection refused")},
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected json content type, got %q", ct)
			}
		})
	}
}
