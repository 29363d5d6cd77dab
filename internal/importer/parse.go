package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/fleetgrid/internal/domain"
)

// importRow is one parsed upload row. Pointer fields distinguish a missing
// value from a present zero so validation can report "required" precisely.
type importRow struct {
	Name              string             `json:"name"`
	Type              string             `json:"type"`
	EnginePower       *int32             `json:"enginePower"`
	NumberOfWheels    *int32             `json:"numberOfWheels"`
	Capacity          *int32             `json:"capacity"`
	DistanceTravelled *int32             `json:"distanceTravelled"`
	FuelConsumption   *float32           `json:"fuelConsumption"`
	FuelType          string             `json:"fuelType"`
	Coordinates       *importCoordinates `json:"coordinates"`
}

type importCoordinates struct {
	X *float64 `json:"x"`
	Y *float32 `json:"y"`
}

// parseFile decodes an upload into rows. The format is chosen by file
// extension, falling back to content type. Cell-level syntax problems are
// returned as row errors alongside the rows that did parse; the error
// return is reserved for files that cannot be read at all.
func parseFile(fileName, contentType string, data []byte) ([]importRow, []domain.RowError, error) {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".json":
		return parseJSON(data)
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseXLSX(data)
	}

	switch {
	case strings.Contains(contentType, "json"):
		return parseJSON(data)
	case strings.Contains(contentType, "csv"):
		return parseCSV(data)
	case strings.Contains(contentType, "spreadsheet"):
		return parseXLSX(data)
	}

	return nil, nil, &domain.RequestValidationError{Fields: []domain.FieldError{
		{Field: "file", Message: "unsupported file format, expected json, csv or xlsx"},
	}}
}

func parseJSON(data []byte) ([]importRow, []domain.RowError, error) {
	var rows []importRow
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\uFEFF")), &rows); err != nil {
		return nil, nil, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "file", Message: "file is not a valid json array of vehicles"},
		}}
	}
	return rows, nil, nil
}

func parseCSV(data []byte) ([]importRow, []domain.RowError, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF"))))
	reader.TrimLeadingSpace = true

	var grid [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &domain.RequestValidationError{Fields: []domain.FieldError{
				{Field: "file", Message: "file is not valid csv"},
			}}
		}
		grid = append(grid, record)
	}

	return parseGrid(grid)
}

func parseXLSX(data []byte) ([]importRow, []domain.RowError, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "file", Message: "file is not a valid xlsx workbook"},
		}}
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}

	grid, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &domain.RequestValidationError{Fields: []domain.FieldError{
			{Field: "file", Message: "failed to read xlsx rows"},
		}}
	}

	return parseGrid(grid)
}

// parseGrid converts a tabular header+rows layout into import rows. The
// flat "x" and "y" columns map onto the nested coordinates group.
func parseGrid(grid [][]string) ([]importRow, []domain.RowError, error) {
	if len(grid) == 0 {
		return nil, nil, nil
	}

	header := make(map[string]int, len(grid[0]))
	for i, name := range grid[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cell := func(record []string, name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var (
		rows    []importRow
		rowErrs []domain.RowError
	)
	for i, record := range grid[1:] {
		rowNumber := i + 1
		var row importRow

		row.Name = cell(record, "name")
		row.Type = cell(record, "type")
		row.FuelType = cell(record, "fueltype")
		row.EnginePower = parseInt32Cell(cell(record, "enginepower"), rowNumber, "enginePower", &rowErrs)
		row.NumberOfWheels = parseInt32Cell(cell(record, "numberofwheels"), rowNumber, "numberOfWheels", &rowErrs)
		row.Capacity = parseInt32Cell(cell(record, "capacity"), rowNumber, "capacity", &rowErrs)
		row.DistanceTravelled = parseInt32Cell(cell(record, "distancetravelled"), rowNumber, "distanceTravelled", &rowErrs)
		row.FuelConsumption = parseFloat32Cell(cell(record, "fuelconsumption"), rowNumber, "fuelConsumption", &rowErrs)

		x := parseFloat64Cell(cell(record, "x"), rowNumber, "coordinates.x", &rowErrs)
		y := parseFloat32Cell(cell(record, "y"), rowNumber, "coordinates.y", &rowErrs)
		if x != nil || y != nil {
			row.Coordinates = &importCoordinates{X: x, Y: y}
		}

		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func parseInt32Cell(s string, rowNumber int, field string, errs *[]domain.RowError) *int32 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		*errs = append(*errs, domain.RowError{RowNumber: rowNumber, Field: field,
			Message: fmt.Sprintf("%q is not a valid integer", s)})
		return nil
	}
	out := int32(v)
	return &out
}

func parseFloat32Cell(s string, rowNumber int, field string, errs *[]domain.RowError) *float32 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		*errs = append(*errs, domain.RowError{RowNumber: rowNumber, Field: field,
			Message: fmt.Sprintf("%q is not a valid number", s)})
		return nil
	}
	out := float32(v)
	return &out
}

func parseFloat64Cell(s string, rowNumber int, field string, errs *[]domain.RowError) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*errs = append(*errs, domain.RowError{RowNumber: rowNumber, Field: field,
			Message: fmt.Sprintf("%q is not a valid number", s)})
		return nil
	}
	return &v
}
