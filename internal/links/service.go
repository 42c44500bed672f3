package links

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/catalog"
	"github.com/koustreak/lorelink/internal/enablement"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/logger"
)

const (
	SuggestionTTL = 2 * time.Minute
	ContentTTL    = 5 * time.Minute

	// serviceScope keeps service cache entries apart from provider entries.
	serviceScope = "links"
)

// Service answers suggestion and content requests for any registered source.
type Service struct {
	registry   *Registry
	enablement enablement.Source
	cache      cache.Cache
	log        *logger.Logger
}

// NewService builds a Service. A nil enablement source skips world checks.
func NewService(registry *Registry, source enablement.Source, c cache.Cache, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{registry: registry, enablement: source, cache: c, log: log}
}

// Suggest searches source for query. When worldID is set, source must name a
// provider the world has enabled, by code or lookup key; the search then runs
// against that provider's code. Failures yield an empty list.
func (s *Service) Suggest(ctx context.Context, worldID *uuid.UUID, source, query string) []catalog.Suggestion {
	empty := []catalog.Suggestion{}
	if strings.TrimSpace(source) == "" {
		return empty
	}

	resolved := source
	if worldID != nil && s.enablement != nil {
		providers, err := s.enablement.WorldProviders(ctx, *worldID)
		if err != nil {
			s.log.WarnWith("world enablement lookup failed", err, map[string]interface{}{
				"world_id": worldID.String(),
				"source":   logger.Sanitize(source),
				"reason":   errs.KindOf(err).String(),
			})
			return empty
		}
		code, ok := enablement.Resolve(providers, source)
		if !ok {
			s.log.DebugWith("provider not enabled for world", map[string]interface{}{
				"world_id": worldID.String(),
				"source":   logger.Sanitize(source),
			})
			return empty
		}
		resolved = code
	}

	key := cache.Key{
		Provider: serviceScope,
		Kind:     cache.KindSuggestions,
		Sub:      strings.ToLower(resolved + ":" + query),
	}
	if v, ok := s.cache.Get(key); ok {
		return v.([]catalog.Suggestion)
	}

	provider, ok := s.registry.Get(resolved)
	if !ok {
		return empty
	}

	suggestions := provider.Search(ctx, query)
	if ctx.Err() == nil {
		s.cache.Set(key, suggestions, SuggestionTTL)
	}
	return suggestions
}

// Content resolves id on source. It returns nil when either is empty or the
// source is unknown.
func (s *Service) Content(ctx context.Context, source, id string) *catalog.Content {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(id) == "" {
		return nil
	}

	key := cache.Key{
		Provider: serviceScope,
		Kind:     cache.KindLinkContent,
		Sub:      strings.ToLower(source + ":" + id),
	}
	if v, ok := s.cache.Get(key); ok {
		return v.(*catalog.Content)
	}

	provider, ok := s.registry.Get(source)
	if !ok {
		return nil
	}

	content := provider.GetContent(ctx, id)
	if content != nil && !content.IsPlaceholder() && ctx.Err() == nil {
		s.cache.Set(key, content, ContentTTL)
	}
	return content
}

// ValidateSource checks that source names a registered provider.
func (s *Service) ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return errs.New(errs.ErrKindInvalidInput, "Source is required.")
	}
	if _, ok := s.registry.Get(source); ok {
		return nil
	}

	msg := fmt.Sprintf("Unknown external link source '%s'.", source)
	if keys := s.registry.Keys(); len(keys) > 0 {
		msg += fmt.Sprintf(" Available sources: %s.", strings.Join(keys, ", "))
	}
	return errs.New(errs.ErrKindInvalidInput, msg)
}

// ValidateID checks that id is present and is a relative reference, never a
// URL pointing elsewhere.
func (s *Service) ValidateID(_ string, id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.New(errs.ErrKindInvalidInput, "Id is required.")
	}
	u, err := url.Parse(id)
	if err != nil || u.IsAbs() || u.Host != "" {
		return errs.New(errs.ErrKindInvalidInput, "External link id must be a relative path.")
	}
	return nil
}
