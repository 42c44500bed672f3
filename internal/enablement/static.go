package enablement

import (
	"context"

	"github.com/google/uuid"
)

// Static serves enablement from memory. Worlds absent from Worlds have no
// providers enabled, matching a world with no association rows.
type Static struct {
	Providers []WorldProvider
	Worlds    map[uuid.UUID][]string // world id -> enabled provider codes
}

func (s *Static) WorldProviders(_ context.Context, worldID uuid.UUID) ([]WorldProvider, error) {
	enabled := make(map[string]bool)
	for _, code := range s.Worlds[worldID] {
		enabled[code] = true
	}

	out := make([]WorldProvider, len(s.Providers))
	for i, p := range s.Providers {
		p.Enabled = enabled[p.Code]
		out[i] = p
	}
	return out, nil
}
