package repository

import (
	"fmt"
	"strings"
)

// filter accumulates AND-ed predicates with positional arguments. Each
// Contains call is an OR over its columns using a case-insensitive
// substring match; blank values add nothing.
type filter struct {
	conditions []string
	args       []interface{}
}

func newFilter() *filter {
	return &filter{}
}

// Contains adds (col1 ILIKE $n OR col2 ILIKE $n ...) for a non-blank value.
func (f *filter) Contains(value string, columns ...string) *filter {
	value = strings.TrimSpace(value)
	if value == "" || len(columns) == 0 {
		return f
	}
	placeholder := f.bind("%" + escapeLike(value) + "%")
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", column, placeholder)
	}
	f.conditions = append(f.conditions, "("+strings.Join(parts, " OR ")+")")
	return f
}

// Equals adds column = $n. Empty strings and nil values add nothing.
func (f *filter) Equals(column string, value interface{}) *filter {
	switch v := value.(type) {
	case nil:
		return f
	case string:
		if v == "" {
			return f
		}
	}
	f.conditions = append(f.conditions, fmt.Sprintf("%s = %s", column, f.bind(value)))
	return f
}

// Where renders the WHERE clause, or an empty string when no predicate applies.
func (f *filter) Where() string {
	if len(f.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conditions, " AND ")
}

// Args returns the bound arguments in placeholder order.
func (f *filter) Args() []interface{} {
	return f.args
}

func (f *filter) bind(value interface{}) string {
	f.args = append(f.args, value)
	return fmt.Sprintf("$%d", len(f.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
