package importer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/storage"
)

// VehicleWriter is the slice of the vehicle repository the import pipeline
// writes through.
type VehicleWriter interface {
	CreateTx(ctx context.Context, tx pgx.Tx, vehicle domain.Vehicle, coordinatesID int64) (domain.Vehicle, error)
	ExistsByNameTx(ctx context.Context, tx pgx.Tx, name string) (bool, error)
}

// CoordinatesResolver resolves or creates the coordinates row for one
// (x, y) pair inside the import transaction.
type CoordinatesResolver interface {
	FindOrCreateByXYTx(ctx context.Context, tx pgx.Tx, x float64, y float32) (domain.Coordinates, error)
}

// OperationLog records import attempts. Each method commits independently
// of the import transaction so the audit trail survives a rollback.
type OperationLog interface {
	Begin(ctx context.Context, meta domain.ImportFileMeta) (domain.ImportOperation, error)
	MarkSucceeded(ctx context.Context, id int64, importedCount int, fileObjectKey string) error
	MarkFailed(ctx context.Context, id int64) error
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// Notifier pushes refresh notifications to connected clients.
type Notifier interface {
	Broadcast(msg string)
}

// Result summarizes one successful import.
type Result struct {
	OperationID   int64  `json:"operationId"`
	ImportedCount int    `json:"importedCount"`
	FileObjectKey string `json:"fileObjectKey"`
}

// Service coordinates the bulk-import pipeline: parse and validate the
// whole batch, stage the file, persist rows and promote the file in one
// transaction, then finalize the audit record and notify clients.
type Service struct {
	vehicles VehicleWriter
	coords   CoordinatesResolver
	ops      OperationLog
	store    storage.ObjectStore
	tx       TxRunner
	notifier Notifier
}

// NewService wires the import pipeline.
func NewService(
	vehicles VehicleWriter,
	coords CoordinatesResolver,
	ops OperationLog,
	store storage.ObjectStore,
	tx TxRunner,
	notifier Notifier,
) *Service {
	return &Service{
		vehicles: vehicles,
		coords:   coords,
		ops:      ops,
		store:    store,
		tx:       tx,
		notifier: notifier,
	}
}

// Import runs the whole pipeline for one uploaded file.
//
// The operation record is written first, in its own transaction, so every
// attempt is auditable even when everything after it fails. The uploaded
// file is staged under a temporary key before the database transaction
// opens; promoting it to its final key is the last in-transaction step, so
// a storage outage rolls the whole batch back. After the transaction,
// compensation removes whichever staged objects must not survive, and the
// operation row is finalized best-effort.
func (s *Service) Import(ctx context.Context, meta domain.ImportFileMeta, data []byte) (Result, error) {
	op, err := s.ops.Begin(ctx, meta)
	if err != nil {
		return Result{}, fmt.Errorf("failed to start import: %w", err)
	}

	rows, rowErrs, err := parseFile(meta.FileName, meta.ContentType, data)
	if err != nil {
		s.markFailed(ctx, op.ID)
		return Result{}, err
	}
	if len(rows) == 0 && len(rowErrs) == 0 {
		s.markFailed(ctx, op.ID)
		return Result{}, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "file", Message: "file contains no rows"},
		}}
	}

	rowErrs = append(rowErrs, validateRows(rows)...)
	if len(rowErrs) > 0 {
		sort.SliceStable(rowErrs, func(i, j int) bool {
			return rowErrs[i].RowNumber < rowErrs[j].RowNumber
		})
		s.markFailed(ctx, op.ID)
		return Result{}, &domain.ImportValidationError{Errors: rowErrs}
	}

	ext := strings.ToLower(path.Ext(meta.FileName))
	name := uuid.New().String() + ext
	tmpKey := "imports/tmp/" + name
	finalKey := "imports/" + name

	if err := s.store.Put(ctx, tmpKey, bytes.NewReader(data), int64(len(data)), meta.ContentType); err != nil {
		s.markFailed(ctx, op.ID)
		return Result{}, err
	}

	imported := 0
	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		seen := make(map[string]bool, len(rows))
		for _, row := range rows {
			vehicle := toVehicle(row)

			if seen[vehicle.Name] {
				return domain.NameNotUniqueError(vehicle.Name)
			}
			seen[vehicle.Name] = true

			exists, err := s.vehicles.ExistsByNameTx(ctx, tx, vehicle.Name)
			if err != nil {
				return err
			}
			if exists {
				return domain.NameNotUniqueError(vehicle.Name)
			}

			coords, err := s.coords.FindOrCreateByXYTx(ctx, tx, *row.Coordinates.X, *row.Coordinates.Y)
			if err != nil {
				return err
			}

			if _, err := s.vehicles.CreateTx(ctx, tx, vehicle, coords.ID); err != nil {
				return err
			}
			imported++
		}

		// Promote the staged file last: a storage failure here aborts
		// the transaction, so no vehicle commits without its file.
		return s.store.Copy(ctx, tmpKey, finalKey)
	})
	if err != nil {
		s.removeQuietly(ctx, tmpKey)
		s.removeQuietly(ctx, finalKey)
		s.markFailed(ctx, op.ID)
		return Result{}, err
	}

	s.removeQuietly(ctx, tmpKey)
	if err := s.ops.MarkSucceeded(ctx, op.ID, imported, finalKey); err != nil {
		log.Printf("[import] failed to finalize operation %d: %v", op.ID, err)
	}
	s.notifier.Broadcast("refresh")

	return Result{OperationID: op.ID, ImportedCount: imported, FileObjectKey: finalKey}, nil
}

// markFailed finalizes a failed operation without masking the error that
// caused the failure.
func (s *Service) markFailed(ctx context.Context, id int64) {
	if err := s.ops.MarkFailed(ctx, id); err != nil {
		log.Printf("[import] failed to mark operation %d failed: %v", id, err)
	}
}

// removeQuietly deletes a staged object. Remove is idempotent, so calling
// it for keys that were never written is safe; remaining failures are
// logged and swallowed.
func (s *Service) removeQuietly(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		log.Printf("[import] failed to remove staged object %s: %v", key, err)
	}
}
