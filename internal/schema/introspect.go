package schema

import (
	"context"

	"github.com/koustreak/lorelink/internal/database"
	"github.com/koustreak/lorelink/internal/errs"
)

// Introspector implements Reader using information_schema, which both
// Postgres and MySQL expose.
type Introspector struct {
	db database.DB
}

// NewIntrospector creates a schema introspector over db.
func NewIntrospector(db database.DB) *Introspector {
	return &Introspector{db: db}
}

const (
	pgColumnsQuery = `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = $1
		ORDER BY ordinal_position`

	mysqlColumnsQuery = `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		ORDER BY ordinal_position`
)

// Columns returns the column names of table in the current schema.
func (i *Introspector) Columns(ctx context.Context, table string) ([]string, error) {
	q := pgColumnsQuery
	if i.db.Dialect() == database.DialectMySQL {
		q = mysqlColumnsQuery
	}

	rows, err := i.db.Query(ctx, q, table)
	if err != nil {
		return nil, errs.Wrap(errs.KindOf(err), "list columns of "+table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindReadFailed, "scan column name", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
