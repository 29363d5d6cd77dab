package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/fleetgrid/internal/domain"
)

// VehicleRepository provides vehicle persistence operations.
//
// Mutations that must share a transaction with other repositories (create
// during an import batch, coordinate resolution) take an explicit pgx.Tx;
// read paths run on the shared pool.
type VehicleRepository interface {
	// FindPage executes a grid request: resolves filters and sorting to
	// SQL, selects the matching id window, hydrates the rows and returns
	// them with the total match count.
	FindPage(ctx context.Context, req domain.GridRequest) ([]domain.Vehicle, int, error)
	GetByID(ctx context.Context, id int64) (domain.Vehicle, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Vehicle, error)
	Delete(ctx context.Context, id int64) error

	// CreateTx inserts a vehicle pointing at an already-resolved
	// coordinates row. The caller owns the transaction.
	CreateTx(ctx context.Context, tx pgx.Tx, vehicle domain.Vehicle, coordinatesID int64) (domain.Vehicle, error)
	// UpdateTx rewrites a vehicle using optimistic concurrency: the row is
	// only touched when the stored version matches vehicle.Version, and the
	// counter is bumped. A stale version yields a retryable ConflictError.
	UpdateTx(ctx context.Context, tx pgx.Tx, vehicle domain.Vehicle, coordinatesID int64) (domain.Vehicle, error)
	ExistsByNameTx(ctx context.Context, tx pgx.Tx, name string) (bool, error)

	// Native-function passthrough queries.
	MinDistanceID(ctx context.Context) (int64, error)
	CountFuelGreaterThan(ctx context.Context, value float64) (int64, error)
	ListFuelGreaterThanIDs(ctx context.Context, value float64) ([]int64, error)
	ListByTypeIDs(ctx context.Context, vehicleType domain.VehicleType) ([]int64, error)
	ListEngineBetweenIDs(ctx context.Context, min, max int32) ([]int64, error)
}

// CoordinatesRepository provides coordinates persistence operations.
type CoordinatesRepository interface {
	FindPage(ctx context.Context, req domain.GridRequest) ([]domain.Coordinates, int, error)
	GetByID(ctx context.Context, id int64) (domain.Coordinates, error)
	Create(ctx context.Context, coords domain.Coordinates) (domain.Coordinates, error)
	Update(ctx context.Context, coords domain.Coordinates) (domain.Coordinates, error)
	// Delete fails with a ConflictError while vehicles still reference the
	// row.
	Delete(ctx context.Context, id int64) error
	// Search matches coordinates whose id, x or y starts with the given
	// term.
	Search(ctx context.Context, term string, limit int) ([]domain.Coordinates, error)
	// VehicleCount returns how many vehicles reference the coordinates row.
	VehicleCount(ctx context.Context, id int64) (int64, error)
	// FindOrCreateByXYTx resolves an existing row with the exact (x, y)
	// pair or inserts one, inside the caller's transaction.
	FindOrCreateByXYTx(ctx context.Context, tx pgx.Tx, x float64, y float32) (domain.Coordinates, error)
}

// ImportOperationRepository records the audit trail of bulk imports. Begin
// and the Mark* methods each run in their own transaction so the audit row
// survives a rolled-back import.
type ImportOperationRepository interface {
	Begin(ctx context.Context, meta domain.ImportFileMeta) (domain.ImportOperation, error)
	MarkSucceeded(ctx context.Context, id int64, importedCount int, fileObjectKey string) error
	MarkFailed(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (domain.ImportOperation, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ImportOperation, error)
}

// AdminRepository provides admin account lookups for authentication.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (domain.Admin, error)
	Create(ctx context.Context, admin domain.Admin) (domain.Admin, error)
}
