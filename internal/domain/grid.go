package domain

// GridRequest is the paginated, filterable, sortable read request sent by
// data-grid clients.
//
//	{
//	    "startRow": 0,
//	    "endRow": 50,
//	    "sortModel": [
//	        {"colId": "creationTime", "sort": "desc"},
//	        {"colId": "id", "sort": "desc"}
//	    ],
//	    "filterModel": {
//	        "type":         {"filterType": "text", "type": "equals", "filter": "CAR"},
//	        "enginePower":  {"filterType": "number", "type": "inRange", "filter": 100, "filterTo": 200},
//	        "creationTime": {"filterType": "date", "type": "inRange", "dateFrom": "2025-10-01", "dateTo": "2025-10-20"},
//	        "fuelType":     {"filterType": "set", "values": ["KEROSENE", "NUCLEAR"]}
//	    }
//	}
type GridRequest struct {
	StartRow    *int                        `json:"startRow"`
	EndRow      *int                        `json:"endRow"`
	SortModel   []GridSortRule              `json:"sortModel"`
	FilterModel map[string]FilterDescriptor `json:"filterModel"`
}

// GridSortRule orders results by one column. ColID uses the same dotted
// identifiers as filter columns ("name", "coordinates.x").
type GridSortRule struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"` // "asc" | "desc"
}

// Validate checks the request's required fields and returns a
// RequestValidationError listing every problem at once.
func (r GridRequest) Validate() error {
	var fields []FieldError
	if r.StartRow == nil {
		fields = append(fields, FieldError{Field: "startRow", Message: "startRow is required"})
	} else if *r.StartRow < 0 {
		fields = append(fields, FieldError{Field: "startRow", Message: "startRow must be >= 0"})
	}
	if r.EndRow == nil {
		fields = append(fields, FieldError{Field: "endRow", Message: "endRow is required"})
	}
	if r.StartRow != nil && r.EndRow != nil && *r.EndRow <= *r.StartRow {
		fields = append(fields, FieldError{Field: "endRow", Message: "endRow must be greater than startRow"})
	}
	if len(fields) > 0 {
		return &RequestValidationError{Fields: fields}
	}
	return nil
}

// Offset returns the first row index, clamped at zero.
func (r GridRequest) Offset() int {
	if r.StartRow == nil || *r.StartRow < 0 {
		return 0
	}
	return *r.StartRow
}

// PageSize returns the requested window size, never less than one.
func (r GridRequest) PageSize() int {
	if r.StartRow == nil || r.EndRow == nil {
		return 1
	}
	size := *r.EndRow - *r.StartRow
	if size < 1 {
		return 1
	}
	return size
}

// GridResponse is one page of rows plus the total matching count. LastRow
// lets the client know when pagination ends.
type GridResponse[T any] struct {
	Rows    []T `json:"rows"`
	LastRow int `json:"lastRow"`
}
