package assets

// filter.go builds parameterized WHERE clauses from client filters.
//
// Column names never reach SQL unquoted, and values only travel as
// positional arguments. Unknown columns and operators are dropped
// rather than guessed at.

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates conditions and their arguments.
type WhereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

// NewWhereBuilder returns an empty builder. Argument numbering starts
// at $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// AddSearch appends a free-text condition matching any search column.
// All columns share one argument.
func (b *WhereBuilder) AddSearch(query string) {
	if query == "" {
		return
	}

	parts := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", quoteIdentifier(col), b.argIndex)
	}

	b.conditions = append(b.conditions, "("+strings.Join(parts, " OR ")+")")
	b.args = append(b.args, "%"+query+"%")
	b.argIndex++
}

// AddFilters appends every whitelisted filter. Filters on unknown
// columns or with unknown operators are ignored.
func (b *WhereBuilder) AddFilters(filters []Filter) {
	for _, f := range filters {
		if !FilterableColumn(f.Column) || f.Value == "" {
			continue
		}

		sql, args, nextIdx := buildSingleFilter(f, b.argIndex)
		if sql == "" {
			continue
		}

		b.conditions = append(b.conditions, sql)
		b.args = append(b.args, args...)
		b.argIndex = nextIdx
	}
}

// NextArgIndex returns the placeholder number the next condition will
// use, for callers appending LIMIT/OFFSET arguments.
func (b *WhereBuilder) NextArgIndex() int {
	return b.argIndex
}

// Build returns the assembled clause (with its leading " WHERE") and
// the argument slice. An empty builder yields an empty clause.
func (b *WhereBuilder) Build() (string, []interface{}) {
	if len(b.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(b.conditions, " AND "), b.args
}

// buildSingleFilter renders one filter at the given argument index and
// returns the SQL fragment, its arguments, and the next free index.
func buildSingleFilter(f Filter, argIdx int) (string, []interface{}, int) {
	col := quoteIdentifier(f.Column)

	switch f.Op {
	case OpEquals:
		return fmt.Sprintf("%s = $%d", col, argIdx), []interface{}{f.Value}, argIdx + 1
	case OpContains:
		return fmt.Sprintf("%s ILIKE $%d", col, argIdx), []interface{}{"%" + f.Value + "%"}, argIdx + 1
	case OpStartsWith:
		return fmt.Sprintf("%s ILIKE $%d", col, argIdx), []interface{}{f.Value + "%"}, argIdx + 1
	case OpEndsWith:
		return fmt.Sprintf("%s ILIKE $%d", col, argIdx), []interface{}{"%" + f.Value}, argIdx + 1
	case OpGreaterEq:
		return fmt.Sprintf("%s >= $%d", col, argIdx), []interface{}{f.Value}, argIdx + 1
	case OpLessEq:
		return fmt.Sprintf("%s <= $%d", col, argIdx), []interface{}{f.Value}, argIdx + 1
	case OpGreater:
		return fmt.Sprintf("%s > $%d", col, argIdx), []interface{}{f.Value}, argIdx + 1
	case OpLess:
		return fmt.Sprintf("%s < $%d", col, argIdx), []interface{}{f.Value}, argIdx + 1
	case OpIn:
		values := splitList(f.Value)
		if len(values) == 0 {
			return "", nil, argIdx
		}
		placeholders := make([]string, len(values))
		args := make([]interface{}, len(values))
		for i, v := range values {
			placeholders[i] = fmt.Sprintf("$%d", argIdx+i)
			args[i] = v
		}
		sql := fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", "))
		return sql, args, argIdx + len(values)
	default:
		return "", nil, argIdx
	}
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// splitList splits a comma-separated value list, trimming each entry
// and dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
