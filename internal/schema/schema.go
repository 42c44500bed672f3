// Package schema checks that a database carries the tables and columns a
// component reads, so a misconfigured DSN fails at startup instead of on the
// first query.
package schema

import (
	"context"
	"sort"
	"strings"

	"github.com/koustreak/lorelink/internal/errs"
)

// Reader is the interface for introspecting a database schema
type Reader interface {
	// Columns returns the column names of table in the connection's
	// current schema, in ordinal order. A missing table yields no columns.
	Columns(ctx context.Context, table string) ([]string, error)
}

// Requirement names a table and the columns a reader depends on.
type Requirement struct {
	Table   string
	Columns []string
}

// Verify checks every requirement and reports all missing tables and
// columns in one NotFound error.
func Verify(ctx context.Context, r Reader, reqs ...Requirement) error {
	var missing []string
	for _, req := range reqs {
		cols, err := r.Columns(ctx, req.Table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			missing = append(missing, req.Table)
			continue
		}

		have := make(map[string]bool, len(cols))
		for _, c := range cols {
			have[strings.ToLower(c)] = true
		}
		for _, c := range req.Columns {
			if !have[strings.ToLower(c)] {
				missing = append(missing, req.Table+"."+c)
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return errs.New(errs.ErrKindNotFound, "schema is missing "+strings.Join(missing, ", "))
	}
	return nil
}
