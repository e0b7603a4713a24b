// Package search turns optional query-string filters into SQL predicates.
//
// Predicates are built independently from pagination: the same list is
// applied to the data query and to the count query, and only the data query
// gets LIMIT/OFFSET attached afterwards.
package search

import (
	"strings"

	"gorm.io/gorm"
)

// Predicate is one AND-ed condition. SQL uses "?" placeholders which the
// dialector renders as positional binds ($1, $2, ...) on PostgreSQL.
type Predicate struct {
	SQL  string
	Args []any
}

// Apply ANDs every predicate into q.
func Apply(q *gorm.DB, preds []Predicate) *gorm.DB {
	for _, p := range preds {
		q = q.Where(p.SQL, p.Args...)
	}
	return q
}

// Scope adapts a predicate list for gorm's Scopes.
func Scope(preds []Predicate) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return Apply(q, preds)
	}
}

// Where joins predicates into a single clause, mostly useful for logging.
func Where(preds []Predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		parts = append(parts, "("+p.SQL+")")
		args = append(args, p.Args...)
	}
	return strings.Join(parts, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching v anywhere,
// with LIKE metacharacters in v taken literally.
func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}

// ILike is a case-insensitive partial match on column.
func ILike(column, value string) Predicate {
	return Predicate{
		SQL:  "LOWER(" + column + `) LIKE ? ESCAPE '\'`,
		Args: []any{containsPattern(value)},
	}
}

// AnyILike ORs a case-insensitive partial match across columns.
func AnyILike(value string, columns ...string) Predicate {
	pattern := containsPattern(value)
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, "LOWER("+c+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return Predicate{SQL: "(" + strings.Join(parts, " OR ") + ")", Args: args}
}

func Eq(column string, v any) Predicate {
	return Predicate{SQL: column + " = ?", Args: []any{v}}
}

func Gte(column string, v any) Predicate {
	return Predicate{SQL: column + " >= ?", Args: []any{v}}
}

func Lte(column string, v any) Predicate {
	return Predicate{SQL: column + " <= ?", Args: []any{v}}
}
