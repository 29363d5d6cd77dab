package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/fleetgrid/internal/db"
	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/gridquery"
)

// vehicleSelect is the hydration projection shared by every read path. The
// coordinates join is an inner join: the FK is NOT NULL.
const vehicleSelect = `
SELECT v.id, v.name, v.type, v.engine_power, v.number_of_wheels, v.capacity,
       v.distance_travelled, v.fuel_consumption, v.fuel_type, v.creation_time,
       v.version, c.id, c.x, c.y
FROM vehicle v
JOIN coordinates c ON c.id = v.coordinates_id`

// vehicleRepository implements VehicleRepository
type vehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(pool *pgxpool.Pool) VehicleRepository {
	return &vehicleRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (domain.Vehicle, error) {
	var (
		v        domain.Vehicle
		vType    string
		fuelType string
	)
	err := row.Scan(
		&v.ID, &v.Name, &vType, &v.EnginePower, &v.NumberOfWheels, &v.Capacity,
		&v.DistanceTravelled, &v.FuelConsumption, &fuelType, &v.CreationTime,
		&v.Version, &v.Coordinates.ID, &v.Coordinates.X, &v.Coordinates.Y,
	)
	if err != nil {
		return domain.Vehicle{}, err
	}
	v.Type = domain.VehicleType(vType)
	v.FuelType = domain.FuelType(fuelType)
	return v, nil
}

// FindPage resolves the grid request in two phases: a narrow id query that
// carries the joins, filters, ordering and window, then a hydration query
// over the selected ids. Hydrated rows are re-ordered to the id ranking;
// ids the hydration did not return are dropped.
func (r *vehicleRepository) FindPage(ctx context.Context, req domain.GridRequest) ([]domain.Vehicle, int, error) {
	q := gridquery.New(vehicleTable, "v")
	if err := q.ApplyFilters(req.FilterModel); err != nil {
		return nil, 0, err
	}
	if err := q.ApplySort(req.SortModel); err != nil {
		return nil, 0, err
	}

	joins, where := q.Joins(), q.Where()

	countSQL := "SELECT count(*) FROM vehicle v" + joins + where
	countArgs := append([]any(nil), q.Args()...)

	pageSQL := "SELECT v.id FROM vehicle v" + joins + where +
		q.OrderBy("v.creation_time DESC, v.id DESC") +
		" LIMIT " + q.Arg(req.PageSize()) + " OFFSET " + q.Arg(req.Offset())

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", db.TranslateError(err))
	}

	rows, err := r.pool.Query(ctx, pageSQL, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select vehicle page: %w", db.TranslateError(err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("failed to scan vehicle id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read vehicle page: %w", err)
	}

	vehicles, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	return orderByRank(ids, vehicles), total, nil
}

// orderByRank re-orders hydrated vehicles to the ranking of the id window.
// Ids missing from the hydration result are dropped silently.
func orderByRank(ids []int64, vehicles []domain.Vehicle) []domain.Vehicle {
	byID := make(map[int64]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	out := make([]domain.Vehicle, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// GetByID retrieves a vehicle by ID
func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (domain.Vehicle, error) {
	row := r.pool.QueryRow(ctx, vehicleSelect+" WHERE v.id = $1", id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
		}
		return domain.Vehicle{}, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

// GetByIDs retrieves multiple vehicles by their IDs, in storage order.
func (r *vehicleRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Vehicle, error) {
	if len(ids) == 0 {
		return []domain.Vehicle{}, nil
	}

	rows, err := r.pool.Query(ctx, vehicleSelect+" WHERE v.id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicles by ids: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, len(ids))
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vehicles: %w", err)
	}
	return vehicles, nil
}

// CreateTx inserts a vehicle within the caller's transaction.
func (r *vehicleRepository) CreateTx(ctx context.Context, tx pgx.Tx, vehicle domain.Vehicle, coordinatesID int64) (domain.Vehicle, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO vehicle (name, type, engine_power, number_of_wheels, capacity,
		                     distance_travelled, fuel_consumption, fuel_type, coordinates_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, creation_time, version`,
		vehicle.Name, string(vehicle.Type), vehicle.EnginePower, vehicle.NumberOfWheels,
		vehicle.Capacity, vehicle.DistanceTravelled, vehicle.FuelConsumption,
		string(vehicle.FuelType), coordinatesID,
	).Scan(&vehicle.ID, &vehicle.CreationTime, &vehicle.Version)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("failed to create vehicle: %w", db.TranslateError(err))
	}

	err = tx.QueryRow(ctx, "SELECT id, x, y FROM coordinates WHERE id = $1", coordinatesID).
		Scan(&vehicle.Coordinates.ID, &vehicle.Coordinates.X, &vehicle.Coordinates.Y)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("failed to load vehicle coordinates: %w", err)
	}
	return vehicle, nil
}

// UpdateTx rewrites a vehicle with a compare-and-swap on version. Zero rows
// means either a stale version or a missing row; the two cases are told
// apart with a follow-up existence check.
func (r *vehicleRepository) UpdateTx(ctx context.Context, tx pgx.Tx, vehicle domain.Vehicle, coordinatesID int64) (domain.Vehicle, error) {
	err := tx.QueryRow(ctx, `
		UPDATE vehicle
		SET name = $1, type = $2, engine_power = $3, number_of_wheels = $4,
		    capacity = $5, distance_travelled = $6, fuel_consumption = $7,
		    fuel_type = $8, coordinates_id = $9, version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING creation_time, version`,
		vehicle.Name, string(vehicle.Type), vehicle.EnginePower, vehicle.NumberOfWheels,
		vehicle.Capacity, vehicle.DistanceTravelled, vehicle.FuelConsumption,
		string(vehicle.FuelType), coordinatesID, vehicle.ID, vehicle.Version,
	).Scan(&vehicle.CreationTime, &vehicle.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM vehicle WHERE id = $1)", vehicle.ID).Scan(&exists); checkErr != nil {
				return domain.Vehicle{}, fmt.Errorf("failed to update vehicle: %w", checkErr)
			}
			if !exists {
				return domain.Vehicle{}, fmt.Errorf("vehicle %d: %w", vehicle.ID, domain.ErrNotFound)
			}
			return domain.Vehicle{}, &domain.ConflictError{Reason: "vehicle was modified concurrently", Retryable: true}
		}
		return domain.Vehicle{}, fmt.Errorf("failed to update vehicle: %w", db.TranslateError(err))
	}

	err = tx.QueryRow(ctx, "SELECT id, x, y FROM coordinates WHERE id = $1", coordinatesID).
		Scan(&vehicle.Coordinates.ID, &vehicle.Coordinates.X, &vehicle.Coordinates.Y)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("failed to load vehicle coordinates: %w", err)
	}
	return vehicle, nil
}

// Delete removes a vehicle by ID
func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM vehicle WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", db.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ExistsByNameTx checks name uniqueness inside the caller's transaction.
// The unique index remains the backstop for concurrent inserts.
func (r *vehicleRepository) ExistsByNameTx(ctx context.Context, tx pgx.Tx, name string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM vehicle WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle name: %w", err)
	}
	return exists, nil
}

// MinDistanceID returns the id of the vehicle with the smallest recorded
// distance travelled.
func (r *vehicleRepository) MinDistanceID(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, "SELECT id FROM fn_vehicle_min_distance()").Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("no vehicle with distance travelled: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to query min distance vehicle: %w", err)
	}
	return id, nil
}

// CountFuelGreaterThan counts vehicles with fuel consumption above value.
func (r *vehicleRepository) CountFuelGreaterThan(ctx context.Context, value float64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT fn_vehicle_count_fuel_gt($1)", value).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles by fuel consumption: %w", err)
	}
	return count, nil
}

// ListFuelGreaterThanIDs lists ids of vehicles with fuel consumption above
// value.
func (r *vehicleRepository) ListFuelGreaterThanIDs(ctx context.Context, value float64) ([]int64, error) {
	return r.listIDs(ctx, "SELECT id FROM fn_vehicle_list_fuel_gt($1)", value)
}

// ListByTypeIDs lists ids of vehicles of the given type.
func (r *vehicleRepository) ListByTypeIDs(ctx context.Context, vehicleType domain.VehicleType) ([]int64, error) {
	return r.listIDs(ctx, "SELECT id FROM fn_vehicle_list_by_type($1)", string(vehicleType))
}

// ListEngineBetweenIDs lists ids of vehicles with engine power in
// [min, max].
func (r *vehicleRepository) ListEngineBetweenIDs(ctx context.Context, min, max int32) ([]int64, error) {
	return r.listIDs(ctx, "SELECT id FROM fn_vehicle_list_engine_between($1, $2)", min, max)
}

func (r *vehicleRepository) listIDs(ctx context.Context, sql string, args ...any) ([]int64, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vehicle ids: %w", err)
	}
	return ids, nil
}
