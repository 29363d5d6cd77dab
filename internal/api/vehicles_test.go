package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/fleetgrid/internal/domain"
)

type stubVehicleRepo struct {
	pages [][]domain.Vehicle
	total int
}

func (s *stubVehicleRepo) FindPage(_ context.Context, _ domain.GridRequest) ([]domain.Vehicle, int, error) {
	if len(s.pages) == 0 {
		return []domain.Vehicle{}, s.total, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, s.total, nil
}

func (s *stubVehicleRepo) GetByID(context.Context, int64) (domain.Vehicle, error) {
	return domain.Vehicle{}, domain.ErrNotFound
}

func (s *stubVehicleRepo) GetByIDs(context.Context, []int64) ([]domain.Vehicle, error) {
	return nil, nil
}

func (s *stubVehicleRepo) Delete(context.Context, int64) error { return nil }

func (s *stubVehicleRepo) CreateTx(_ context.Context, _ pgx.Tx, v domain.Vehicle, _ int64) (domain.Vehicle, error) {
	return v, nil
}

func (s *stubVehicleRepo) UpdateTx(_ context.Context, _ pgx.Tx, v domain.Vehicle, _ int64) (domain.Vehicle, error) {
	return v, nil
}

func (s *stubVehicleRepo) ExistsByNameTx(context.Context, pgx.Tx, string) (bool, error) {
	return false, nil
}

func (s *stubVehicleRepo) MinDistanceID(context.Context) (int64, error) {
	return 0, domain.ErrNotFound
}

func (s *stubVehicleRepo) CountFuelGreaterThan(context.Context, float64) (int64, error) {
	return 0, nil
}
func (s *stubVehicleRepo) ListFuelGreaterThanIDs(context.Context, float64) ([]int64, error) {
	return nil, nil
}
func (s *stubVehicleRepo) ListByTypeIDs(context.Context, domain.VehicleType) ([]int64, error) {
	return nil, nil
}
func (s *stubVehicleRepo) ListEngineBetweenIDs(context.Context, int32, int32) ([]int64, error) {
	return nil, nil
}

func TestVehicleTableRejectsInvertedWindow(t *testing.T) {
	handler := NewVehicleHandler(&stubVehicleRepo{}, nil, nil, nil)

	body := `{"startRow": 50, "endRow": 10}`
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/table", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Table(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "endRow") {
		t.Fatalf("expected endRow in error body, got %s", rec.Body.String())
	}
}

func TestVehicleTableMissingWindowRejected(t *testing.T) {
	handler := NewVehicleHandler(&stubVehicleRepo{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/table", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.Table(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVehicleTableReturnsPage(t *testing.T) {
	repo := &stubVehicleRepo{
		pages: [][]domain.Vehicle{{{ID: 1, Name: "truck-1"}}},
		total: 37,
	}
	handler := NewVehicleHandler(repo, nil, nil, nil)

	body := `{"startRow": 0, "endRow": 50}`
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/table", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Table(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"lastRow":37`) {
		t.Fatalf("expected lastRow 37 in body, got %s", rec.Body.String())
	}
}

func TestVehicleCreateValidation(t *testing.T) {
	req := vehicleRequest{Name: " ", Type: "PLANE"}

	err := req.validate(false)

	var reqErr *domain.RequestValidationError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestValidationError, got %T", err)
	}

	fields := map[string]bool{}
	for _, f := range reqErr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "type", "numberOfWheels", "fuelConsumption", "fuelType", "coordinates"} {
		if !fields[want] {
			t.Fatalf("expected error for field %s, got %v", want, reqErr.Fields)
		}
	}
}
