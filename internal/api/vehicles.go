package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/importer"
	"github.com/rpattn/fleetgrid/internal/repository"
)

// VehicleHandler serves the vehicle endpoints: grid queries, CRUD and the
// native-function special queries.
type VehicleHandler struct {
	vehicles repository.VehicleRepository
	coords   repository.CoordinatesRepository
	tx       importer.TxRunner
	notifier importer.Notifier
}

// NewVehicleHandler creates a vehicle handler.
func NewVehicleHandler(
	vehicles repository.VehicleRepository,
	coords repository.CoordinatesRepository,
	tx importer.TxRunner,
	notifier importer.Notifier,
) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, coords: coords, tx: tx, notifier: notifier}
}

// vehicleRequest is the write payload for create and update. Pointer fields
// distinguish missing values from present zeros.
type vehicleRequest struct {
	Name              string              `json:"name"`
	Type              string              `json:"type"`
	EnginePower       *int32              `json:"enginePower"`
	NumberOfWheels    *int32              `json:"numberOfWheels"`
	Capacity          *int32              `json:"capacity"`
	DistanceTravelled *int32              `json:"distanceTravelled"`
	FuelConsumption   *float32            `json:"fuelConsumption"`
	FuelType          string              `json:"fuelType"`
	Coordinates       *coordinatesPayload `json:"coordinates"`
	Version           *int64              `json:"version"`
}

type coordinatesPayload struct {
	X *float64 `json:"x"`
	Y *float32 `json:"y"`
}

func (req vehicleRequest) validate(requireVersion bool) error {
	var fields []domain.FieldError
	add := func(field, message string) {
		fields = append(fields, domain.FieldError{Field: field, Message: message})
	}

	if strings.TrimSpace(req.Name) == "" {
		add("name", "name must not be blank")
	}
	if req.Type == "" {
		add("type", "type is required")
	} else if !domain.ValidVehicleType(req.Type) {
		add("type", fmt.Sprintf("type must be one of %s", strings.Join(domain.VehicleTypeValues(), ", ")))
	}
	if req.EnginePower != nil && *req.EnginePower <= 0 {
		add("enginePower", "enginePower must be greater than 0")
	}
	if req.NumberOfWheels == nil {
		add("numberOfWheels", "numberOfWheels is required")
	} else if *req.NumberOfWheels <= 0 {
		add("numberOfWheels", "numberOfWheels must be greater than 0")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		add("capacity", "capacity must be greater than 0")
	}
	if req.DistanceTravelled != nil && *req.DistanceTravelled <= 0 {
		add("distanceTravelled", "distanceTravelled must be greater than 0")
	}
	if req.FuelConsumption == nil {
		add("fuelConsumption", "fuelConsumption is required")
	} else if *req.FuelConsumption <= 0 {
		add("fuelConsumption", "fuelConsumption must be greater than 0")
	}
	if req.FuelType == "" {
		add("fuelType", "fuelType is required")
	} else if !domain.ValidFuelType(req.FuelType) {
		add("fuelType", fmt.Sprintf("fuelType must be one of %s", strings.Join(domain.FuelTypeValues(), ", ")))
	}

	if req.Coordinates == nil {
		add("coordinates", "coordinates are required")
	} else {
		if req.Coordinates.X == nil {
			add("coordinates.x", "x is required")
		} else if *req.Coordinates.X > domain.CoordinateMaxX {
			add("coordinates.x", fmt.Sprintf("x must not exceed %d", domain.CoordinateMaxX))
		}
		if req.Coordinates.Y == nil {
			add("coordinates.y", "y is required")
		} else if *req.Coordinates.Y > domain.CoordinateMaxY {
			add("coordinates.y", fmt.Sprintf("y must not exceed %d", domain.CoordinateMaxY))
		}
	}

	if requireVersion && req.Version == nil {
		add("version", "version is required for updates")
	}

	if len(fields) > 0 {
		return &domain.RequestValidationError{Fields: fields}
	}
	return nil
}

func (req vehicleRequest) toVehicle() domain.Vehicle {
	return domain.Vehicle{
		Name:              strings.TrimSpace(req.Name),
		Type:              domain.VehicleType(req.Type),
		EnginePower:       req.EnginePower,
		NumberOfWheels:    *req.NumberOfWheels,
		Capacity:          req.Capacity,
		DistanceTravelled: req.DistanceTravelled,
		FuelConsumption:   *req.FuelConsumption,
		FuelType:          domain.FuelType(req.FuelType),
	}
}

// Table handles POST /api/vehicles/table
func (h *VehicleHandler) Table(w http.ResponseWriter, r *http.Request) {
	var req domain.GridRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	rows, total, err := h.vehicles.FindPage(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GridResponse[domain.Vehicle]{Rows: rows, LastRow: total})
}

// Get handles GET /api/vehicles/{id}
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Create handles POST /api/vehicles
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(false); err != nil {
		writeError(w, err)
		return
	}

	var created domain.Vehicle
	err := h.tx.WithTx(r.Context(), func(tx pgx.Tx) error {
		exists, err := h.vehicles.ExistsByNameTx(r.Context(), tx, strings.TrimSpace(req.Name))
		if err != nil {
			return err
		}
		if exists {
			return domain.NameNotUniqueError(strings.TrimSpace(req.Name))
		}

		coords, err := h.coords.FindOrCreateByXYTx(r.Context(), tx, *req.Coordinates.X, *req.Coordinates.Y)
		if err != nil {
			return err
		}

		created, err = h.vehicles.CreateTx(r.Context(), tx, req.toVehicle(), coords.ID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Broadcast("refresh")
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/vehicles/{id}. Name uniqueness on update is
// enforced by the unique index and surfaces as a conflict.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req vehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(true); err != nil {
		writeError(w, err)
		return
	}

	var updated domain.Vehicle
	err = h.tx.WithTx(r.Context(), func(tx pgx.Tx) error {
		coords, err := h.coords.FindOrCreateByXYTx(r.Context(), tx, *req.Coordinates.X, *req.Coordinates.Y)
		if err != nil {
			return err
		}

		vehicle := req.toVehicle()
		vehicle.ID = id
		vehicle.Version = *req.Version
		updated, err = h.vehicles.UpdateTx(r.Context(), tx, vehicle, coords.ID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Broadcast("refresh")
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/vehicles/{id}
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.notifier.Broadcast("refresh")
	w.WriteHeader(http.StatusNoContent)
}

// MinDistance handles GET /api/vehicles/special/min-distance
func (h *VehicleHandler) MinDistance(w http.ResponseWriter, r *http.Request) {
	id, err := h.vehicles.MinDistanceID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// CountFuelGreaterThan handles GET /api/vehicles/special/fuel-gt/count
func (h *VehicleHandler) CountFuelGreaterThan(w http.ResponseWriter, r *http.Request) {
	value, err := queryFloat(r, "value")
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := h.vehicles.CountFuelGreaterThan(r.Context(), value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// ListFuelGreaterThan handles GET /api/vehicles/special/fuel-gt/ids
func (h *VehicleHandler) ListFuelGreaterThan(w http.ResponseWriter, r *http.Request) {
	value, err := queryFloat(r, "value")
	if err != nil {
		writeError(w, err)
		return
	}

	ids, err := h.vehicles.ListFuelGreaterThanIDs(r.Context(), value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"ids": ids})
}

// ListByType handles GET /api/vehicles/special/by-type/ids
func (h *VehicleHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	vehicleType := r.URL.Query().Get("type")
	if !domain.ValidVehicleType(vehicleType) {
		writeError(w, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "type", Message: fmt.Sprintf("type must be one of %s", strings.Join(domain.VehicleTypeValues(), ", "))},
		}})
		return
	}

	ids, err := h.vehicles.ListByTypeIDs(r.Context(), domain.VehicleType(vehicleType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"ids": ids})
}

// ListEngineBetween handles GET /api/vehicles/special/engine-between/ids
func (h *VehicleHandler) ListEngineBetween(w http.ResponseWriter, r *http.Request) {
	min, err := queryInt32(r, "min")
	if err != nil {
		writeError(w, err)
		return
	}
	max, err := queryInt32(r, "max")
	if err != nil {
		writeError(w, err)
		return
	}
	if min > max {
		writeError(w, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "max", Message: "max must not be less than min"},
		}})
		return
	}

	ids, err := h.vehicles.ListEngineBetweenIDs(r.Context(), min, max)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"ids": ids})
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "id", Message: "id must be a positive integer"},
		}}
	}
	return id, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: name, Message: name + " must be a number"},
		}}
	}
	return value, nil
}

func queryInt32(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: name, Message: name + " must be an integer"},
		}}
	}
	return int32(value), nil
}
