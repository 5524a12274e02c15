package database

import "strings"

// QueryBuilder converts SQL queries with ? placeholders to the dialect's format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build rewrites every ? as the dialect's placeholder.
//
//	input:    "SELECT data FROM levels WHERE id = ? AND depth = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT data FROM levels WHERE id = $1 AND depth = $2"
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
			continue
		}
		result.WriteByte(query[i])
	}
	return result.String()
}
