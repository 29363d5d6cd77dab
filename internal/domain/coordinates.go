package domain

// Coordinate bounds enforced at validation time and by database checks.
const (
	CoordinateMaxX = 613
	CoordinateMaxY = 962
)

// Coordinates is a shared location referenced by many vehicles. The
// back-reference from vehicles is never materialized here; callers that need
// usage counts ask the repository.
type Coordinates struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float32 `json:"y"`
}
