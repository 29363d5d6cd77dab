package importer

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := "\uFEFFname,type,enginePower,numberOfWheels,capacity,distanceTravelled,fuelConsumption,fuelType,x,y\n" +
		"truck-1,CAR,120,4,,,8.5,KEROSENE,10.5,20\n" +
		"heli-1,HELICOPTER,,3,12,400,40,NUCLEAR,1,2\n"

	rows, rowErrs, err := parseCSV([]byte(data))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrs)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Name != "truck-1" || first.Type != "CAR" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.EnginePower == nil || *first.EnginePower != 120 {
		t.Fatalf("expected enginePower 120, got %v", first.EnginePower)
	}
	if first.Capacity != nil {
		t.Fatalf("expected empty capacity to stay nil, got %v", *first.Capacity)
	}
	if first.Coordinates == nil || first.Coordinates.X == nil || *first.Coordinates.X != 10.5 {
		t.Fatalf("unexpected coordinates: %+v", first.Coordinates)
	}
}

func TestParseCSVBadNumberBecomesRowError(t *testing.T) {
	data := "name,type,numberOfWheels,fuelConsumption,fuelType,x,y\n" +
		"truck-1,CAR,four,8.5,KEROSENE,10,20\n"

	rows, rowErrs, err := parseCSV([]byte(data))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 row error, got %v", rowErrs)
	}
	if rowErrs[0].RowNumber != 1 || rowErrs[0].Field != "numberOfWheels" {
		t.Fatalf("unexpected row error: %+v", rowErrs[0])
	}
}

func TestParseXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)

	header := []any{"name", "type", "numberOfWheels", "fuelConsumption", "fuelType", "x", "y"}
	row := []any{"truck-1", "CAR", 4, 8.5, "KEROSENE", 10, 20}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	if err := book.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatalf("failed to write row: %v", err)
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}

	rows, rowErrs, err := parseXLSX(buf.Bytes())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("expected no row errors, got %v", rowErrs)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Name != "truck-1" || rows[0].NumberOfWheels == nil || *rows[0].NumberOfWheels != 4 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestParseFileUnsupportedFormat(t *testing.T) {
	_, _, err := parseFile("vehicles.pdf", "application/pdf", []byte("%PDF"))
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
