package gridquery

// ColumnType describes the storage type of a filterable column. Number
// filters coerce their operands to the column's exact type before
// comparison; date filters only apply to ColTime columns.
type ColumnType int

const (
	ColString ColumnType = iota
	ColInt32
	ColInt64
	ColFloat32
	ColFloat64
	ColDecimal
	ColTime
	ColEnum
)

// IsNumeric reports whether number-filter operands can target the column.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case ColInt32, ColInt64, ColFloat32, ColFloat64, ColDecimal:
		return true
	}
	return false
}

// Column maps a grid column identifier segment to a SQL column.
type Column struct {
	SQL  string
	Type ColumnType
	Enum []string // valid values when Type == ColEnum
}

// Relation is a to-one association reachable from a table. Resolving a
// non-terminal path segment through a relation produces one LEFT JOIN,
// reused for every later lookup through the same segment.
type Relation struct {
	Table *Table
	FK    string // foreign key column on the owning table
}

// Table describes one queryable entity: its SQL name, the primary id
// column, the filterable columns keyed by grid identifier, the joinable
// relations, and any embedded groups whose columns live on the same row.
type Table struct {
	Name      string
	IDColumn  string
	Columns   map[string]Column
	Relations map[string]Relation
	Embedded  map[string]*Table
}
