package repository

import (
	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/gridquery"
)

// coordinatesTable describes the coordinates entity for the grid engine.
var coordinatesTable = &gridquery.Table{
	Name:     "coordinates",
	IDColumn: "id",
	Columns: map[string]gridquery.Column{
		"id": {SQL: "id", Type: gridquery.ColInt64},
		"x":  {SQL: "x", Type: gridquery.ColFloat64},
		"y":  {SQL: "y", Type: gridquery.ColFloat32},
	},
}

// vehicleTable describes the vehicle entity for the grid engine. Dotted
// identifiers like "coordinates.x" join through the relation exactly once
// per request.
var vehicleTable = &gridquery.Table{
	Name:     "vehicle",
	IDColumn: "id",
	Columns: map[string]gridquery.Column{
		"id":                {SQL: "id", Type: gridquery.ColInt64},
		"name":              {SQL: "name", Type: gridquery.ColString},
		"type":              {SQL: "type", Type: gridquery.ColEnum, Enum: domain.VehicleTypeValues()},
		"enginePower":       {SQL: "engine_power", Type: gridquery.ColInt32},
		"numberOfWheels":    {SQL: "number_of_wheels", Type: gridquery.ColInt32},
		"capacity":          {SQL: "capacity", Type: gridquery.ColInt32},
		"distanceTravelled": {SQL: "distance_travelled", Type: gridquery.ColInt32},
		"fuelConsumption":   {SQL: "fuel_consumption", Type: gridquery.ColFloat32},
		"fuelType":          {SQL: "fuel_type", Type: gridquery.ColEnum, Enum: domain.FuelTypeValues()},
		"creationTime":      {SQL: "creation_time", Type: gridquery.ColTime},
		"version":           {SQL: "version", Type: gridquery.ColInt64},
	},
	Relations: map[string]gridquery.Relation{
		"coordinates": {Table: coordinatesTable, FK: "coordinates_id"},
	},
}
