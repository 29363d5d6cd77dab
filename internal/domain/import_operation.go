package domain

import "time"

// ImportOperation is the audit record for one bulk-import attempt. A row is
// created before any validation or I/O happens, so every attempt is
// accounted for. Status is nil while the import is in flight, then updated
// exactly once to success or failure.
//
// Invariant: a successful operation always carries a FileObjectKey naming a
// retrievable object; a failed operation has a nil key and no live object.
type ImportOperation struct {
	ID              int64     `json:"id"`
	Status          *bool     `json:"status"`
	ImportedCount   int       `json:"importedCount"`
	FileObjectKey   *string   `json:"fileObjectKey,omitempty"`
	FileName        string    `json:"fileName,omitempty"`
	FileContentType string    `json:"fileContentType,omitempty"`
	FileSize        int64     `json:"fileSize"`
	CreationTime    time.Time `json:"creationTime"`
}

// InProgress reports whether the operation has not reached a final state.
func (op ImportOperation) InProgress() bool {
	return op.Status == nil
}

// ImportFileMeta captures upload metadata recorded when an operation starts.
type ImportFileMeta struct {
	FileName    string
	ContentType string
	Size        int64
}
