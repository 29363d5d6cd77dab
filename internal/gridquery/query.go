package gridquery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/fleetgrid/internal/domain"
)

// Query accumulates the joins, predicates, ordering and positional
// arguments derived from a grid request against one root table. It renders
// SQL fragments; the repository composes them into the final statements.
type Query struct {
	root      *Table
	rootAlias string

	joinOrder []string          // rendered LEFT JOIN clauses, in creation order
	joined    map[string]*node  // (parent alias, relation name) -> join node
	aliases   map[string]bool   // aliases already taken
	conds     []string
	orderBy   []string
	args      []any
}

type node struct {
	table *Table
	alias string
}

// attr is a resolved attribute reference: a qualified SQL expression plus
// the column metadata needed for typed operand coercion.
type attr struct {
	sql string
	col Column
}

// New starts an empty query against root, aliased in SQL as rootAlias.
func New(root *Table, rootAlias string) *Query {
	return &Query{
		root:      root,
		rootAlias: rootAlias,
		joined:    make(map[string]*node),
		aliases:   map[string]bool{rootAlias: true},
	}
}

// Arg registers a positional argument and returns its placeholder. The
// repository also routes pagination and id-set arguments through here so
// numbering stays consistent across the whole statement.
func (q *Query) Arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// Args returns the accumulated positional arguments.
func (q *Query) Args() []any { return q.args }

// Joins renders the accumulated join clauses with a leading space, or ""
// when the query never left the root table.
func (q *Query) Joins() string {
	if len(q.joinOrder) == 0 {
		return ""
	}
	return " " + strings.Join(q.joinOrder, " ")
}

// Where renders the conjunction of all predicates with a leading space, or
// "" when no filter contributed a predicate.
func (q *Query) Where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// OrderBy renders the sort clause with a leading space, falling back to the
// given default (already alias-qualified) when no sort rules were applied.
func (q *Query) OrderBy(defaultOrder string) string {
	if len(q.orderBy) == 0 {
		return " ORDER BY " + defaultOrder
	}
	return " ORDER BY " + strings.Join(q.orderBy, ", ")
}

// Resolve maps a dotted column identifier like "coordinates.x" to a typed
// attribute reference, creating (or reusing) one LEFT JOIN per non-terminal
// relation segment. A blank identifier defaults to the root's primary id.
// A non-terminal segment that is not a relation falls back to an embedded
// group lookup on the current table; a terminal segment that names a
// relation resolves to its foreign-key column.
func (q *Query) Resolve(colID string) (attr, error) {
	if strings.TrimSpace(colID) == "" {
		return attr{
			sql: q.rootAlias + "." + q.root.IDColumn,
			col: Column{SQL: q.root.IDColumn, Type: ColInt64},
		}, nil
	}

	parts := strings.Split(colID, ".")
	cur := &node{table: q.root, alias: q.rootAlias}

	for i, part := range parts {
		last := i == len(parts)-1
		if !last {
			if rel, ok := cur.table.Relations[part]; ok {
				cur = q.join(cur, part, rel)
				continue
			}
			if emb, ok := cur.table.Embedded[part]; ok {
				cur = &node{table: emb, alias: cur.alias}
				continue
			}
			return attr{}, fmt.Errorf("unknown relation %q in column %q", part, colID)
		}

		if col, ok := cur.table.Columns[part]; ok {
			return attr{sql: cur.alias + "." + col.SQL, col: col}, nil
		}
		if rel, ok := cur.table.Relations[part]; ok {
			return attr{sql: cur.alias + "." + rel.FK, col: Column{SQL: rel.FK, Type: ColInt64}}, nil
		}
		return attr{}, fmt.Errorf("unknown column %q", colID)
	}

	return attr{}, fmt.Errorf("unknown column %q", colID)
}

// join reuses an existing join for (parent, relation name) or creates one.
func (q *Query) join(parent *node, name string, rel Relation) *node {
	key := parent.alias + "." + name
	if existing, ok := q.joined[key]; ok {
		return existing
	}

	alias := name
	if q.aliases[alias] {
		alias = parent.alias + "_" + name
	}
	q.aliases[alias] = true

	joined := &node{table: rel.Table, alias: alias}
	q.joined[key] = joined
	q.joinOrder = append(q.joinOrder, fmt.Sprintf(
		"LEFT JOIN %s %s ON %s.%s = %s.%s",
		rel.Table.Name, alias, alias, rel.Table.IDColumn, parent.alias, rel.FK,
	))
	return joined
}

// ApplyFilters converts the filter model into the query's WHERE
// conjunction. Columns are processed in identifier order so the rendered
// SQL is deterministic. Descriptors with an unknown kind, an unknown
// operator, or missing operands contribute no predicate; an unknown column
// identifier is a request error.
func (q *Query) ApplyFilters(model map[string]domain.FilterDescriptor) error {
	if len(model) == 0 {
		return nil
	}

	cols := make([]string, 0, len(model))
	for col := range model {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		desc := model[col]
		a, err := q.Resolve(col)
		if err != nil {
			return &domain.RequestValidationError{Fields: []domain.FieldError{
				{Field: "filterModel." + col, Message: err.Error()},
			}}
		}

		switch desc.Kind {
		case domain.FilterKindText:
			q.applyText(a, desc)
		case domain.FilterKindNumber:
			q.applyNumber(a, desc)
		case domain.FilterKindDate:
			q.applyDate(a, desc)
		case domain.FilterKindSet:
			if err := q.applySet(a, col, desc); err != nil {
				return err
			}
		default:
			// unknown filter kind: column contributes nothing
		}
	}
	return nil
}

// ApplySort appends one ORDER BY term per sort rule, resolving dotted
// column identifiers the same way filters do.
func (q *Query) ApplySort(rules []domain.GridSortRule) error {
	for _, rule := range rules {
		a, err := q.Resolve(rule.ColID)
		if err != nil {
			return &domain.RequestValidationError{Fields: []domain.FieldError{
				{Field: "sortModel." + rule.ColID, Message: err.Error()},
			}}
		}
		dir := "ASC"
		if strings.EqualFold(rule.Sort, "desc") {
			dir = "DESC"
		}
		q.orderBy = append(q.orderBy, a.sql+" "+dir)
	}
	return nil
}

func (q *Query) applyText(a attr, desc domain.FilterDescriptor) {
	val := strings.TrimSpace(desc.Text)
	if val == "" {
		return
	}

	expr := fmt.Sprintf("lower(%s::text)", a.sql)
	p := strings.ToLower(desc.Text)

	switch desc.Op {
	case domain.OpContains:
		q.conds = append(q.conds, fmt.Sprintf("%s LIKE %s", expr, q.Arg("%"+p+"%")))
	case domain.OpEquals:
		q.conds = append(q.conds, fmt.Sprintf("%s = %s", expr, q.Arg(p)))
	case domain.OpStartsWith:
		q.conds = append(q.conds, fmt.Sprintf("%s LIKE %s", expr, q.Arg(p+"%")))
	case domain.OpEndsWith:
		q.conds = append(q.conds, fmt.Sprintf("%s LIKE %s", expr, q.Arg("%"+p)))
	case domain.OpNotEqual:
		q.conds = append(q.conds, fmt.Sprintf("%s <> %s", expr, q.Arg(p)))
	}
}

func (q *Query) applyNumber(a attr, desc domain.FilterDescriptor) {
	if !a.col.Type.IsNumeric() {
		return
	}

	v1 := coerceNumber(a.col.Type, desc.Number)
	v2 := coerceNumber(a.col.Type, desc.NumberTo)

	if v1 == nil && desc.Op != domain.OpInRange {
		return
	}

	switch desc.Op {
	case domain.OpEquals:
		q.conds = append(q.conds, fmt.Sprintf("%s = %s", a.sql, q.Arg(v1)))
	case domain.OpNotEqual:
		q.conds = append(q.conds, fmt.Sprintf("%s <> %s", a.sql, q.Arg(v1)))
	case domain.OpLessThan:
		q.conds = append(q.conds, fmt.Sprintf("%s < %s", a.sql, q.Arg(v1)))
	case domain.OpLessThanOrEqual:
		q.conds = append(q.conds, fmt.Sprintf("%s <= %s", a.sql, q.Arg(v1)))
	case domain.OpGreaterThan:
		q.conds = append(q.conds, fmt.Sprintf("%s > %s", a.sql, q.Arg(v1)))
	case domain.OpGreaterThanOrEqual:
		q.conds = append(q.conds, fmt.Sprintf("%s >= %s", a.sql, q.Arg(v1)))
	case domain.OpInRange:
		switch {
		case v1 != nil && v2 != nil:
			q.conds = append(q.conds, fmt.Sprintf("(%s >= %s AND %s <= %s)",
				a.sql, q.Arg(v1), a.sql, q.Arg(v2)))
		case v1 != nil:
			q.conds = append(q.conds, fmt.Sprintf("%s >= %s", a.sql, q.Arg(v1)))
		case v2 != nil:
			q.conds = append(q.conds, fmt.Sprintf("%s <= %s", a.sql, q.Arg(v2)))
		}
	}
}

// applyDate builds day-granular predicates. Dates only apply to timestamp
// columns; anything else is skipped, as is an unparsable dateFrom.
func (q *Query) applyDate(a attr, desc domain.FilterDescriptor) {
	if a.col.Type != ColTime {
		return
	}

	start, ok := parseToDay(desc.DateFrom)
	if !ok {
		return
	}

	switch desc.Op {
	case domain.OpEquals:
		end := start.AddDate(0, 0, 1)
		q.conds = append(q.conds, fmt.Sprintf("(%s >= %s AND %s <= %s)",
			a.sql, q.Arg(start), a.sql, q.Arg(end)))
	case domain.OpLessThan:
		q.conds = append(q.conds, fmt.Sprintf("%s < %s", a.sql, q.Arg(start)))
	case domain.OpGreaterThan:
		end := start.AddDate(0, 0, 1)
		q.conds = append(q.conds, fmt.Sprintf("%s >= %s", a.sql, q.Arg(end)))
	case domain.OpInRange:
		to, ok := parseToDay(desc.DateTo)
		if !ok {
			to = start
		}
		end := to.AddDate(0, 0, 1)
		q.conds = append(q.conds, fmt.Sprintf("(%s >= %s AND %s <= %s)",
			a.sql, q.Arg(start), a.sql, q.Arg(end)))
	}
}

func (q *Query) applySet(a attr, col string, desc domain.FilterDescriptor) error {
	if len(desc.Values) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(desc.Values))
	for _, v := range desc.Values {
		cast, err := castForColumn(a.col, v)
		if err != nil {
			return &domain.RequestValidationError{Fields: []domain.FieldError{
				{Field: "filterModel." + col, Message: err.Error()},
			}}
		}
		placeholders = append(placeholders, q.Arg(cast))
	}
	q.conds = append(q.conds, fmt.Sprintf("%s IN (%s)", a.sql, strings.Join(placeholders, ", ")))
	return nil
}
