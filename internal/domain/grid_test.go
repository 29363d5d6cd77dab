package domain

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestGridRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     GridRequest
		invalid []string
	}{
		{
			name: "valid window",
			req:  GridRequest{StartRow: intPtr(0), EndRow: intPtr(50)},
		},
		{
			name:    "missing both",
			req:     GridRequest{},
			invalid: []string{"startRow", "endRow"},
		},
		{
			name:    "negative start",
			req:     GridRequest{StartRow: intPtr(-1), EndRow: intPtr(10)},
			invalid: []string{"startRow"},
		},
		{
			name:    "inverted window",
			req:     GridRequest{StartRow: intPtr(50), EndRow: intPtr(10)},
			invalid: []string{"endRow"},
		},
		{
			name:    "empty window",
			req:     GridRequest{StartRow: intPtr(10), EndRow: intPtr(10)},
			invalid: []string{"endRow"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if len(tc.invalid) == 0 {
				if err != nil {
					t.Fatalf("expected valid request, got %v", err)
				}
				return
			}

			var reqErr *RequestValidationError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestValidationError, got %v", err)
			}

			got := map[string]bool{}
			for _, f := range reqErr.Fields {
				got[f.Field] = true
			}
			for _, field := range tc.invalid {
				if !got[field] {
					t.Fatalf("expected error for %s, got %v", field, reqErr.Fields)
				}
			}
		})
	}
}

func TestGridRequestPageSizeClamps(t *testing.T) {
	req := GridRequest{StartRow: intPtr(10), EndRow: intPtr(60)}
	if got := req.PageSize(); got != 50 {
		t.Fatalf("expected page size 50, got %d", got)
	}
	if got := req.Offset(); got != 10 {
		t.Fatalf("expected offset 10, got %d", got)
	}

	degenerate := GridRequest{StartRow: intPtr(10), EndRow: intPtr(10)}
	if got := degenerate.PageSize(); got != 1 {
		t.Fatalf("expected page size clamped to 1, got %d", got)
	}

	negative := GridRequest{StartRow: intPtr(-5), EndRow: intPtr(10)}
	if got := negative.Offset(); got != 0 {
		t.Fatalf("expected offset clamped to 0, got %d", got)
	}
}
