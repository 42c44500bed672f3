// Package enablement answers which content providers a world has switched on.
//
// The relational source of truth is two tables:
//
//	resource_providers        (code, name, lookup_key, is_active)
//	world_resource_providers  (world_id, resource_provider_code, is_enabled)
//
// Repository reads them through the database package. Static serves the same
// answers from configuration when no database is wired.
package enablement

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// WorldProvider is an active provider and whether one world enabled it.
type WorldProvider struct {
	Code      string
	Name      string
	LookupKey string // alternative source name, e.g. "5e" for "srd14"
	Enabled   bool
}

// Matches reports whether source names the provider by code or lookup key.
func (p WorldProvider) Matches(source string) bool {
	return strings.EqualFold(p.Code, source) ||
		(p.LookupKey != "" && strings.EqualFold(p.LookupKey, source))
}

// Source lists the active providers with their enablement for a world.
type Source interface {
	WorldProviders(ctx context.Context, worldID uuid.UUID) ([]WorldProvider, error)
}

// Resolve returns the code of the enabled provider that source names, if any.
func Resolve(providers []WorldProvider, source string) (string, bool) {
	for _, p := range providers {
		if p.Enabled && p.Matches(source) {
			return p.Code, true
		}
	}
	return "", false
}
