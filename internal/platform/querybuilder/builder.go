package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// argList numbers bind arguments in the order they are rendered, producing
// pq-style $n placeholders.
type argList struct {
	args []any
	n    int
}

func (l *argList) next(value any) string {
	l.args = append(l.args, value)
	l.n++
	return "$" + strconv.Itoa(l.n)
}

type Condition interface {
	render(list *argList) string
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(list *argList) string {
	return c.column + " = " + list.next(c.value)
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) render(*argList) string {
	return c.column + " IS NULL"
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL with ? placeholders, renumbered on render.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) render(list *argList) string {
	return renumberExpr(c.expr, c.args, list)
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	list := &argList{}
	parts := []string{
		"SELECT " + strings.Join(b.columns, ", "),
		"FROM " + b.table,
	}
	if clause := renderWhere(b.where, list); clause != "" {
		parts = append(parts, clause)
	}
	if len(b.orderBy) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(b.orderBy, ", "))
	}

	return strings.Join(parts, " "), list.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	list := &argList{}
	rows := make([]string, 0, len(b.rows))
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		cells := make([]string, 0, len(row))
		for _, value := range row {
			cells = append(cells, list.next(value))
		}
		rows = append(rows, "("+strings.Join(cells, ", ")+")")
	}

	sql := "INSERT INTO " + b.table +
		" (" + strings.Join(b.columns, ", ") + ")" +
		" VALUES " + strings.Join(rows, ", ")
	if b.suffix != "" {
		sql += " " + renumberExpr(b.suffix, nil, list)
	}

	return sql, list.args, nil
}

type setClause struct {
	column string
	value  any
	expr   bool
}

type UpdateBuilder struct {
	table  string
	sets   []setClause
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression, for guarded bumps like
// SetExpr("round_seq", "round_seq + 1").
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{
		column: column,
		value:  exprCondition{expr: expr, args: args},
		expr:   true,
	})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	list := &argList{}
	sets := make([]string, 0, len(b.sets))
	for _, s := range b.sets {
		if s.expr {
			expr, ok := s.value.(exprCondition)
			if !ok {
				return "", nil, fmt.Errorf("invalid expression set value for %s", s.column)
			}
			sets = append(sets, s.column+" = "+renumberExpr(expr.expr, expr.args, list))
			continue
		}
		sets = append(sets, s.column+" = "+list.next(s.value))
	}

	parts := []string{
		"UPDATE " + b.table,
		"SET " + strings.Join(sets, ", "),
	}
	if clause := renderWhere(b.where, list); clause != "" {
		parts = append(parts, clause)
	}
	if b.suffix != "" {
		parts = append(parts, renumberExpr(b.suffix, nil, list))
	}

	return strings.Join(parts, " "), list.args, nil
}

func renderWhere(conditions []Condition, list *argList) string {
	if len(conditions) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(conditions))
	for _, c := range conditions {
		rendered = append(rendered, c.render(list))
	}
	return "WHERE " + strings.Join(rendered, " AND ")
}

// renumberExpr swaps each ? in expr for the next $n placeholder, consuming
// exprArgs in order. Extra ? marks pass through untouched.
func renumberExpr(expr string, exprArgs []any, list *argList) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	consumed := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' {
			out.WriteByte(expr[i])
			continue
		}
		if consumed >= len(exprArgs) {
			out.WriteByte('?')
			continue
		}
		out.WriteString(list.next(exprArgs[consumed]))
		consumed++
	}
	return out.String()
}
