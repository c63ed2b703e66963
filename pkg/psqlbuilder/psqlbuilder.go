// Package psqlbuilder provides squirrel builders preconfigured for PostgreSQL
// ($1-style placeholders).
package psqlbuilder

import (
	sq "github.com/Masterminds/squirrel"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Select starts a SELECT query
func Select(columns ...string) sq.SelectBuilder {
	return builder.Select(columns...)
}

// Insert starts an INSERT query
func Insert(table string) sq.InsertBuilder {
	return builder.Insert(table)
}

// Update starts an UPDATE query
func Update(table string) sq.UpdateBuilder {
	return builder.Update(table)
}

// Delete starts a DELETE query
func Delete(table string) sq.DeleteBuilder {
	return builder.Delete(table)
}
