// Package links is the entry point outer surfaces use to look up external
// reference content: it routes a source name to its provider, applies
// per-world enablement and caches answers briefly.
package links

import (
	"context"
	"sort"
	"strings"

	"github.com/koustreak/lorelink/internal/catalog"
	"github.com/koustreak/lorelink/internal/errs"
)

// Provider is a searchable content source. *catalog.Provider implements it.
type Provider interface {
	Key() string
	Search(ctx context.Context, query string) []catalog.Suggestion
	GetContent(ctx context.Context, id string) *catalog.Content
}

var _ Provider = (*catalog.Provider)(nil)

// Registry maps provider keys, compared case-insensitively, to providers.
// It is built once at startup and read-only afterwards.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers providers, rejecting duplicate keys.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		key := strings.ToLower(strings.TrimSpace(p.Key()))
		if key == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "provider key is required")
		}
		if _, dup := r.providers[key]; dup {
			return nil, errs.New(errs.ErrKindInvalidInput, "duplicate provider key "+p.Key())
		}
		r.providers[key] = p
	}
	return r, nil
}

// Get returns the provider registered under source.
func (r *Registry) Get(source string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(source))]
	return p, ok
}

// Keys returns the registered provider keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		keys = append(keys, p.Key())
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}
