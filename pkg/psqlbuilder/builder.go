package psqlbuilder

import "github.com/Masterminds/squirrel"

// psql построитель запросов с плейсхолдерами PostgreSQL ($1, $2, ...)
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select начинает SELECT запрос
func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

// Insert начинает INSERT запрос
func Insert(table string) squirrel.InsertBuilder {
	return psql.Insert(table)
}

// Update начинает UPDATE запрос
func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

// Delete начинает DELETE запрос
func Delete(table string) squirrel.DeleteBuilder {
	return psql.Delete(table)
}
