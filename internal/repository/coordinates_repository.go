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

// coordinatesRepository implements CoordinatesRepository
type coordinatesRepository struct {
	pool *pgxpool.Pool
}

// NewCoordinatesRepository creates a new coordinates repository
func NewCoordinatesRepository(pool *pgxpool.Pool) CoordinatesRepository {
	return &coordinatesRepository{pool: pool}
}

// FindPage resolves the grid request against the coordinates table. The
// entity has no to-many associations, so a single windowed query suffices.
func (r *coordinatesRepository) FindPage(ctx context.Context, req domain.GridRequest) ([]domain.Coordinates, int, error) {
	q := gridquery.New(coordinatesTable, "c")
	if err := q.ApplyFilters(req.FilterModel); err != nil {
		return nil, 0, err
	}
	if err := q.ApplySort(req.SortModel); err != nil {
		return nil, 0, err
	}

	joins, where := q.Joins(), q.Where()

	countSQL := "SELECT count(*) FROM coordinates c" + joins + where
	countArgs := append([]any(nil), q.Args()...)

	pageSQL := "SELECT c.id, c.x, c.y FROM coordinates c" + joins + where +
		q.OrderBy("c.id ASC") +
		" LIMIT " + q.Arg(req.PageSize()) + " OFFSET " + q.Arg(req.Offset())

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count coordinates: %w", db.TranslateError(err))
	}

	rows, err := r.pool.Query(ctx, pageSQL, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select coordinates page: %w", db.TranslateError(err))
	}
	defer rows.Close()

	coords := []domain.Coordinates{}
	for rows.Next() {
		var c domain.Coordinates
		if err := rows.Scan(&c.ID, &c.X, &c.Y); err != nil {
			return nil, 0, fmt.Errorf("failed to scan coordinates: %w", err)
		}
		coords = append(coords, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read coordinates page: %w", err)
	}

	return coords, total, nil
}

// GetByID retrieves coordinates by ID
func (r *coordinatesRepository) GetByID(ctx context.Context, id int64) (domain.Coordinates, error) {
	var c domain.Coordinates
	err := r.pool.QueryRow(ctx, "SELECT id, x, y FROM coordinates WHERE id = $1", id).
		Scan(&c.ID, &c.X, &c.Y)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Coordinates{}, fmt.Errorf("coordinates %d: %w", id, domain.ErrNotFound)
		}
		return domain.Coordinates{}, fmt.Errorf("failed to get coordinates: %w", err)
	}
	return c, nil
}

// Create inserts a new coordinates row
func (r *coordinatesRepository) Create(ctx context.Context, coords domain.Coordinates) (domain.Coordinates, error) {
	err := r.pool.QueryRow(ctx, "INSERT INTO coordinates (x, y) VALUES ($1, $2) RETURNING id",
		coords.X, coords.Y).Scan(&coords.ID)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to create coordinates: %w", db.TranslateError(err))
	}
	return coords, nil
}

// Update rewrites a coordinates row
func (r *coordinatesRepository) Update(ctx context.Context, coords domain.Coordinates) (domain.Coordinates, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE coordinates SET x = $1, y = $2 WHERE id = $3",
		coords.X, coords.Y, coords.ID)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to update coordinates: %w", db.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.Coordinates{}, fmt.Errorf("coordinates %d: %w", coords.ID, domain.ErrNotFound)
	}
	return coords, nil
}

// Delete removes a coordinates row. A foreign key violation surfaces as a
// ConflictError naming the referencing constraint.
func (r *coordinatesRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM coordinates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete coordinates: %w", db.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("coordinates %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Search matches rows whose id, x or y renders with the given prefix.
func (r *coordinatesRepository) Search(ctx context.Context, term string, limit int) ([]domain.Coordinates, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, x, y FROM coordinates
		WHERE id::text LIKE $1 || '%' OR x::text LIKE $1 || '%' OR y::text LIKE $1 || '%'
		ORDER BY id ASC
		LIMIT $2`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search coordinates: %w", err)
	}
	defer rows.Close()

	coords := []domain.Coordinates{}
	for rows.Next() {
		var c domain.Coordinates
		if err := rows.Scan(&c.ID, &c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("failed to scan coordinates: %w", err)
		}
		coords = append(coords, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coordinates search: %w", err)
	}
	return coords, nil
}

// VehicleCount returns how many vehicles reference the coordinates row.
func (r *coordinatesRepository) VehicleCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM vehicle WHERE coordinates_id = $1", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles for coordinates: %w", err)
	}
	return count, nil
}

// FindOrCreateByXYTx resolves an existing (x, y) pair or inserts one inside
// the caller's transaction. Exact float equality is intentional: two pairs
// share a row only when both components match bit for bit.
func (r *coordinatesRepository) FindOrCreateByXYTx(ctx context.Context, tx pgx.Tx, x float64, y float32) (domain.Coordinates, error) {
	c := domain.Coordinates{X: x, Y: y}
	err := tx.QueryRow(ctx, "SELECT id FROM coordinates WHERE x = $1 AND y = $2 LIMIT 1", x, y).Scan(&c.ID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Coordinates{}, fmt.Errorf("failed to find coordinates: %w", err)
	}

	err = tx.QueryRow(ctx, "INSERT INTO coordinates (x, y) VALUES ($1, $2) RETURNING id", x, y).Scan(&c.ID)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to create coordinates: %w", db.TranslateError(err))
	}
	return c, nil
}
