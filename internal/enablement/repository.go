package enablement

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/lorelink/internal/database"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/logger"
	"github.com/koustreak/lorelink/internal/schema"
)

const (
	providersTable      = "resource_providers"
	worldProvidersTable = "world_resource_providers"
)

// Repository reads provider enablement from SQL.
type Repository struct {
	db           database.DB
	queryTimeout time.Duration
	log          *logger.Logger
}

// NewRepository wraps db. A non-positive queryTimeout leaves deadlines to
// the caller's context.
func NewRepository(db database.DB, queryTimeout time.Duration, log *logger.Logger) *Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &Repository{db: db, queryTimeout: queryTimeout, log: log}
}

// Verify checks that the database has the tables and columns the repository
// reads.
func (r *Repository) Verify(ctx context.Context) error {
	return schema.Verify(ctx, schema.NewIntrospector(r.db),
		schema.Requirement{Table: providersTable, Columns: []string{"code", "name", "lookup_key", "is_active"}},
		schema.Requirement{Table: worldProvidersTable, Columns: []string{"world_id", "resource_provider_code", "is_enabled"}},
	)
}

// WorldProviders returns every active provider ordered by name, flagged
// enabled when the world has an enabled association row for it.
func (r *Repository) WorldProviders(ctx context.Context, worldID uuid.UUID) ([]WorldProvider, error) {
	if worldID == uuid.Nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "world id is required")
	}

	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}

	providers, err := r.activeProviders(ctx)
	if err != nil {
		return nil, err
	}
	enabled, err := r.enabledCodes(ctx, worldID)
	if err != nil {
		return nil, err
	}

	for i := range providers {
		providers[i].Enabled = enabled[providers[i].Code]
	}

	r.log.DebugWith("world providers loaded", map[string]interface{}{
		"world_id":  worldID.String(),
		"providers": len(providers),
		"enabled":   len(enabled),
	})
	return providers, nil
}

func (r *Repository) activeProviders(ctx context.Context) ([]WorldProvider, error) {
	query, args, err := database.Select(providersTable, r.db.Dialect()).
		Columns("code", "name", "lookup_key").
		Where("is_active", "=", true).
		OrderBy("name", database.Asc).
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorldProvider
	for rows.Next() {
		var (
			p      WorldProvider
			lookup sql.NullString
		)
		if err := rows.Scan(&p.Code, &p.Name, &lookup); err != nil {
			return nil, err
		}
		p.LookupKey = lookup.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) enabledCodes(ctx context.Context, worldID uuid.UUID) (map[string]bool, error) {
	query, args, err := database.Select(worldProvidersTable, r.db.Dialect()).
		Columns("resource_provider_code").
		Where("world_id", "=", worldID.String()).
		Where("is_enabled", "=", true).
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enabled := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		enabled[code] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return enabled, nil
}
