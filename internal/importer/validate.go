package importer

import (
	"fmt"
	"strings"

	"github.com/rpattn/fleetgrid/internal/domain"
)

// validateRows checks every row against the vehicle field rules and returns
// the violations in row order. Row numbers are 1-based.
func validateRows(rows []importRow) []domain.RowError {
	var errs []domain.RowError

	add := func(rowNumber int, field, message string) {
		errs = append(errs, domain.RowError{RowNumber: rowNumber, Field: field, Message: message})
	}

	for i, row := range rows {
		n := i + 1

		if strings.TrimSpace(row.Name) == "" {
			add(n, "name", "name must not be blank")
		}
		if row.Type == "" {
			add(n, "type", "type is required")
		} else if !domain.ValidVehicleType(row.Type) {
			add(n, "type", fmt.Sprintf("type must be one of %s", strings.Join(domain.VehicleTypeValues(), ", ")))
		}
		if row.EnginePower != nil && *row.EnginePower <= 0 {
			add(n, "enginePower", "enginePower must be greater than 0")
		}
		if row.NumberOfWheels == nil {
			add(n, "numberOfWheels", "numberOfWheels is required")
		} else if *row.NumberOfWheels <= 0 {
			add(n, "numberOfWheels", "numberOfWheels must be greater than 0")
		}
		if row.Capacity != nil && *row.Capacity <= 0 {
			add(n, "capacity", "capacity must be greater than 0")
		}
		if row.DistanceTravelled != nil && *row.DistanceTravelled <= 0 {
			add(n, "distanceTravelled", "distanceTravelled must be greater than 0")
		}
		if row.FuelConsumption == nil {
			add(n, "fuelConsumption", "fuelConsumption is required")
		} else if *row.FuelConsumption <= 0 {
			add(n, "fuelConsumption", "fuelConsumption must be greater than 0")
		}
		if row.FuelType == "" {
			add(n, "fuelType", "fuelType is required")
		} else if !domain.ValidFuelType(row.FuelType) {
			add(n, "fuelType", fmt.Sprintf("fuelType must be one of %s", strings.Join(domain.FuelTypeValues(), ", ")))
		}

		if row.Coordinates == nil {
			add(n, "coordinates", "coordinates are required")
			continue
		}
		if row.Coordinates.X == nil {
			add(n, "coordinates.x", "x is required")
		} else if *row.Coordinates.X > domain.CoordinateMaxX {
			add(n, "coordinates.x", fmt.Sprintf("x must not exceed %d", domain.CoordinateMaxX))
		}
		if row.Coordinates.Y == nil {
			add(n, "coordinates.y", "y is required")
		} else if *row.Coordinates.Y > domain.CoordinateMaxY {
			add(n, "coordinates.y", fmt.Sprintf("y must not exceed %d", domain.CoordinateMaxY))
		}
	}

	return errs
}

// toVehicle converts a validated row to the domain entity. Must only be
// called after validateRows reported no errors for the row.
func toVehicle(row importRow) domain.Vehicle {
	return domain.Vehicle{
		Name:              strings.TrimSpace(row.Name),
		Type:              domain.VehicleType(row.Type),
		EnginePower:       row.EnginePower,
		NumberOfWheels:    *row.NumberOfWheels,
		Capacity:          row.Capacity,
		DistanceTravelled: row.DistanceTravelled,
		FuelConsumption:   *row.FuelConsumption,
		FuelType:          domain.FuelType(row.FuelType),
	}
}
