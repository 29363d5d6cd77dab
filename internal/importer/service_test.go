package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/storage"
)

type stubVehicles struct {
	existing map[string]bool
	created  []domain.Vehicle
}

func (s *stubVehicles) CreateTx(_ context.Context, _ pgx.Tx, vehicle domain.Vehicle, coordinatesID int64) (domain.Vehicle, error) {
	vehicle.ID = int64(len(s.created) + 1)
	vehicle.Coordinates.ID = coordinatesID
	s.created = append(s.created, vehicle)
	return vehicle, nil
}

func (s *stubVehicles) ExistsByNameTx(_ context.Context, _ pgx.Tx, name string) (bool, error) {
	return s.existing[name], nil
}

type stubCoords struct {
	nextID int64
}

func (s *stubCoords) FindOrCreateByXYTx(_ context.Context, _ pgx.Tx, x float64, y float32) (domain.Coordinates, error) {
	s.nextID++
	return domain.Coordinates{ID: s.nextID, X: x, Y: y}, nil
}

type stubOps struct {
	began     int
	succeeded bool
	failed    bool
	count     int
	key       string
}

func (s *stubOps) Begin(context.Context, domain.ImportFileMeta) (domain.ImportOperation, error) {
	s.began++
	return domain.ImportOperation{ID: 42}, nil
}

func (s *stubOps) MarkSucceeded(_ context.Context, _ int64, importedCount int, fileObjectKey string) error {
	s.succeeded = true
	s.count = importedCount
	s.key = fileObjectKey
	return nil
}

func (s *stubOps) MarkFailed(context.Context, int64) error {
	s.failed = true
	return nil
}

type stubStore struct {
	objects map[string][]byte
	copyErr error
}

func newStubStore() *stubStore {
	return &stubStore{objects: make(map[string][]byte)}
}

func (s *stubStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *stubStore) Copy(_ context.Context, srcKey, dstKey string) error {
	if s.copyErr != nil {
		return s.copyErr
	}
	data, ok := s.objects[srcKey]
	if !ok {
		return &domain.StorageError{Op: "copy", Key: srcKey, Err: errors.New("no such key")}
	}
	s.objects[dstKey] = data
	return nil
}

func (s *stubStore) Get(context.Context, string) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, errors.New("not implemented")
}

func (s *stubStore) Stat(context.Context, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, errors.New("not implemented")
}

func (s *stubStore) Remove(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

type stubNotifier struct {
	msgs []string
}

func (s *stubNotifier) Broadcast(msg string) {
	s.msgs = append(s.msgs, msg)
}

func newTestService() (*Service, *stubVehicles, *stubOps, *stubStore, *stubNotifier) {
	vehicles := &stubVehicles{existing: make(map[string]bool)}
	ops := &stubOps{}
	store := newStubStore()
	notifier := &stubNotifier{}
	svc := NewService(vehicles, &stubCoords{}, ops, store, stubTxRunner{}, notifier)
	return svc, vehicles, ops, store, notifier
}

const validBatch = `[
	{"name": "truck-1", "type": "CAR", "numberOfWheels": 4, "fuelConsumption": 8.5,
	 "fuelType": "KEROSENE", "coordinates": {"x": 10, "y": 20}},
	{"name": "heli-1", "type": "HELICOPTER", "enginePower": 900, "numberOfWheels": 3,
	 "fuelConsumption": 40, "fuelType": "NUCLEAR", "coordinates": {"x": 10, "y": 20}}
]`

func jsonMeta() domain.ImportFileMeta {
	return domain.ImportFileMeta{FileName: "vehicles.json", ContentType: "application/json", Size: int64(len(validBatch))}
}

func TestImportValidBatch(t *testing.T) {
	svc, vehicles, ops, store, notifier := newTestService()

	result, err := svc.Import(context.Background(), jsonMeta(), []byte(validBatch))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.ImportedCount != 2 {
		t.Fatalf("expected 2 imported, got %d", result.ImportedCount)
	}
	if len(vehicles.created) != 2 {
		t.Fatalf("expected 2 created vehicles, got %d", len(vehicles.created))
	}
	if !ops.succeeded || ops.count != 2 {
		t.Fatalf("expected success log with count 2, got succeeded=%v count=%d", ops.succeeded, ops.count)
	}
	if ops.key != result.FileObjectKey || !strings.HasPrefix(ops.key, "imports/") || !strings.HasSuffix(ops.key, ".json") {
		t.Fatalf("unexpected file object key %q", ops.key)
	}
	if len(notifier.msgs) != 1 || notifier.msgs[0] != "refresh" {
		t.Fatalf("expected exactly one refresh broadcast, got %v", notifier.msgs)
	}

	// Only the final object survives; the staged copy is gone.
	if _, ok := store.objects[result.FileObjectKey]; !ok {
		t.Fatalf("final object %q missing", result.FileObjectKey)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected 1 retained object, got %d", len(store.objects))
	}
}

func TestImportInvalidRowRejectsWholeBatch(t *testing.T) {
	svc, vehicles, ops, store, notifier := newTestService()

	batch := `[
		{"name": "ok", "type": "CAR", "numberOfWheels": 4, "fuelConsumption": 8.5,
		 "fuelType": "KEROSENE", "coordinates": {"x": 10, "y": 20}},
		{"name": "", "type": "JET", "numberOfWheels": 0, "fuelConsumption": 8.5,
		 "fuelType": "KEROSENE", "coordinates": {"x": 700, "y": 20}}
	]`

	_, err := svc.Import(context.Background(), jsonMeta(), []byte(batch))

	var validationErr *domain.ImportValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ImportValidationError, got %v", err)
	}
	for _, rowErr := range validationErr.Errors {
		if rowErr.RowNumber != 2 {
			t.Fatalf("expected all errors on row 2, got row %d (%s)", rowErr.RowNumber, rowErr.Field)
		}
	}
	if len(validationErr.Errors) != 4 {
		t.Fatalf("expected 4 row errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}

	if len(vehicles.created) != 0 {
		t.Fatalf("expected no vehicles persisted, got %d", len(vehicles.created))
	}
	if !ops.failed || ops.succeeded {
		t.Fatalf("expected failure log, got failed=%v succeeded=%v", ops.failed, ops.succeeded)
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected no retained objects, got %d", len(store.objects))
	}
	if len(notifier.msgs) != 0 {
		t.Fatalf("expected no broadcast, got %v", notifier.msgs)
	}
}

func TestImportCopyFailureCompensates(t *testing.T) {
	svc, _, ops, store, notifier := newTestService()
	store.copyErr = &domain.StorageError{Op: "copy", Key: "imports/x", Err: errors.New("connection refused")}

	_, err := svc.Import(context.Background(), jsonMeta(), []byte(validBatch))

	var storageErr *domain.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !ops.failed || ops.succeeded {
		t.Fatalf("expected failure log, got failed=%v succeeded=%v", ops.failed, ops.succeeded)
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected compensation to remove staged objects, got %d left", len(store.objects))
	}
	if len(notifier.msgs) != 0 {
		t.Fatalf("expected no broadcast after rollback, got %v", notifier.msgs)
	}
}

func TestImportDuplicateNameInBatch(t *testing.T) {
	svc, _, ops, _, notifier := newTestService()

	batch := `[
		{"name": "dup", "type": "CAR", "numberOfWheels": 4, "fuelConsumption": 8.5,
		 "fuelType": "KEROSENE", "coordinates": {"x": 1, "y": 2}},
		{"name": "dup", "type": "CAR", "numberOfWheels": 4, "fuelConsumption": 8.5,
		 "fuelType": "KEROSENE", "coordinates": {"x": 1, "y": 2}}
	]`

	_, err := svc.Import(context.Background(), jsonMeta(), []byte(batch))

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if !ops.failed {
		t.Fatalf("expected failure log")
	}
	if len(notifier.msgs) != 0 {
		t.Fatalf("expected no broadcast, got %v", notifier.msgs)
	}
}

func TestImportExistingNameConflicts(t *testing.T) {
	svc, vehicles, ops, _, _ := newTestService()
	vehicles.existing["truck-1"] = true

	_, err := svc.Import(context.Background(), jsonMeta(), []byte(validBatch))

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if !ops.failed {
		t.Fatalf("expected failure log")
	}
}

func TestImportEmptyFileRejected(t *testing.T) {
	svc, _, ops, _, _ := newTestService()

	_, err := svc.Import(context.Background(), jsonMeta(), []byte(`[]`))

	var reqErr *domain.RequestValidationError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if !ops.failed {
		t.Fatalf("expected failure log")
	}
}
