package gridquery

import (
	"fmt"
	"strconv"
)

// coerceNumber converts a raw filter operand to the column's exact numeric
// type so comparisons are type-correct at the database. Decimal columns get
// the operand rendered as text to avoid binary float drift.
func coerceNumber(t ColumnType, v *float64) any {
	if v == nil {
		return nil
	}
	switch t {
	case ColInt32:
		return int32(*v)
	case ColInt64:
		return int64(*v)
	case ColFloat32:
		return float32(*v)
	case ColFloat64:
		return *v
	case ColDecimal:
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return nil
}

// castForColumn converts one set-filter element from its wire string to the
// column's value type. Enum columns additionally validate membership.
func castForColumn(col Column, value string) (any, error) {
	switch col.Type {
	case ColEnum:
		for _, allowed := range col.Enum {
			if value == allowed {
				return value, nil
			}
		}
		return nil, fmt.Errorf("invalid value %q for column %s", value, col.SQL)
	case ColInt32:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q for column %s", value, col.SQL)
		}
		return int32(n), nil
	case ColInt64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q for column %s", value, col.SQL)
		}
		return n, nil
	case ColFloat32:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q for column %s", value, col.SQL)
		}
		return float32(f), nil
	case ColFloat64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q for column %s", value, col.SQL)
		}
		return f, nil
	case ColDecimal:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, fmt.Errorf("invalid number %q for column %s", value, col.SQL)
		}
		return value, nil
	default:
		return value, nil
	}
}
