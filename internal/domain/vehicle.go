package domain

import "time"

// VehicleType enumerates the supported vehicle kinds.
type VehicleType string

const (
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeHelicopter VehicleType = "HELICOPTER"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTypeChopper    VehicleType = "CHOPPER"
)

// FuelType enumerates the supported fuel kinds.
type FuelType string

const (
	FuelTypeKerosene FuelType = "KEROSENE"
	FuelTypeManpower FuelType = "MANPOWER"
	FuelTypeNuclear  FuelType = "NUCLEAR"
)

// VehicleTypeValues lists every valid VehicleType, in declaration order.
func VehicleTypeValues() []string {
	return []string{
		string(VehicleTypeCar),
		string(VehicleTypeHelicopter),
		string(VehicleTypeMotorcycle),
		string(VehicleTypeChopper),
	}
}

// FuelTypeValues lists every valid FuelType, in declaration order.
func FuelTypeValues() []string {
	return []string{
		string(FuelTypeKerosene),
		string(FuelTypeManpower),
		string(FuelTypeNuclear),
	}
}

// ValidVehicleType reports whether s names a known vehicle type.
func ValidVehicleType(s string) bool {
	switch VehicleType(s) {
	case VehicleTypeCar, VehicleTypeHelicopter, VehicleTypeMotorcycle, VehicleTypeChopper:
		return true
	}
	return false
}

// ValidFuelType reports whether s names a known fuel type.
func ValidFuelType(s string) bool {
	switch FuelType(s) {
	case FuelTypeKerosene, FuelTypeManpower, FuelTypeNuclear:
		return true
	}
	return false
}

// Vehicle is the primary entity managed by the service. CreationTime is set
// on insert and never updated; Version is the optimistic concurrency counter
// bumped on every update.
type Vehicle struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	Type              VehicleType `json:"type"`
	EnginePower       *int32      `json:"enginePower,omitempty"`
	NumberOfWheels    int32       `json:"numberOfWheels"`
	Capacity          *int32      `json:"capacity,omitempty"`
	DistanceTravelled *int32      `json:"distanceTravelled,omitempty"`
	FuelConsumption   float32     `json:"fuelConsumption"`
	FuelType          FuelType    `json:"fuelType"`
	CreationTime      time.Time   `json:"creationTime"`
	Coordinates       Coordinates `json:"coordinates"`
	Version           int64       `json:"version"`
}
