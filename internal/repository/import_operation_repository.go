package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/fleetgrid/internal/domain"
)

const importOperationSelect = `
SELECT id, status, imported_count, file_object_key, file_name,
       file_content_type, file_size, creation_time
FROM vehicle_import_operation`

// importOperationRepository implements ImportOperationRepository
type importOperationRepository struct {
	pool *pgxpool.Pool
}

// NewImportOperationRepository creates a new import operation repository
func NewImportOperationRepository(pool *pgxpool.Pool) ImportOperationRepository {
	return &importOperationRepository{pool: pool}
}

func scanImportOperation(row rowScanner) (domain.ImportOperation, error) {
	var op domain.ImportOperation
	err := row.Scan(
		&op.ID, &op.Status, &op.ImportedCount, &op.FileObjectKey,
		&op.FileName, &op.FileContentType, &op.FileSize, &op.CreationTime,
	)
	if err != nil {
		return domain.ImportOperation{}, err
	}
	return op, nil
}

// Begin records the intent to import before any validation or I/O runs.
// The row commits immediately on the pool, outside any import transaction,
// so the attempt stays auditable even when the import itself rolls back.
func (r *importOperationRepository) Begin(ctx context.Context, meta domain.ImportFileMeta) (domain.ImportOperation, error) {
	op := domain.ImportOperation{
		FileName:        meta.FileName,
		FileContentType: meta.ContentType,
		FileSize:        meta.Size,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vehicle_import_operation (file_name, file_content_type, file_size)
		VALUES ($1, $2, $3)
		RETURNING id, creation_time`,
		meta.FileName, meta.ContentType, meta.Size,
	).Scan(&op.ID, &op.CreationTime)
	if err != nil {
		return domain.ImportOperation{}, fmt.Errorf("failed to record import operation: %w", err)
	}
	return op, nil
}

// MarkSucceeded finalizes the operation as successful, recording the
// imported row count and the retained object key.
func (r *importOperationRepository) MarkSucceeded(ctx context.Context, id int64, importedCount int, fileObjectKey string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vehicle_import_operation
		SET status = TRUE, imported_count = $1, file_object_key = $2
		WHERE id = $3 AND status IS NULL`,
		importedCount, fileObjectKey, id)
	if err != nil {
		return fmt.Errorf("failed to mark import operation succeeded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import operation %d is not in progress: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MarkFailed finalizes the operation as failed. A failed operation never
// keeps an object key.
func (r *importOperationRepository) MarkFailed(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vehicle_import_operation
		SET status = FALSE, imported_count = 0, file_object_key = NULL
		WHERE id = $1 AND status IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to mark import operation failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import operation %d is not in progress: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetByID retrieves an import operation by ID
func (r *importOperationRepository) GetByID(ctx context.Context, id int64) (domain.ImportOperation, error) {
	op, err := scanImportOperation(r.pool.QueryRow(ctx, importOperationSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportOperation{}, fmt.Errorf("import operation %d: %w", id, domain.ErrNotFound)
		}
		return domain.ImportOperation{}, fmt.Errorf("failed to get import operation: %w", err)
	}
	return op, nil
}

// ListRecent returns the newest operations first.
func (r *importOperationRepository) ListRecent(ctx context.Context, limit int) ([]domain.ImportOperation, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, importOperationSelect+" ORDER BY creation_time DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import operations: %w", err)
	}
	defer rows.Close()

	ops := []domain.ImportOperation{}
	for rows.Next() {
		op, err := scanImportOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import operations: %w", err)
	}
	return ops, nil
}
