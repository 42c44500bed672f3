// Package catalog is the discovery and search engine over one content
// provider: a prefix-addressable object store holding JSON documents under a
// folder-like hierarchy.
//
// Callers address the hierarchy with lowercase paths ("bestiary/beast")
// while the store keeps whatever casing its authors used ("Bestiary/Beast").
// A Provider lists one level at a time, maps lowercase paths back to store
// paths, and caches every derived view with a TTL. Nothing is invalidated
// explicitly: the store is slowly-changing reference data.
//
// Search and GetContent never fail. Store errors, cancellations and bad input
// are logged and degrade to an empty suggestion list or the not-found
// placeholder.
package catalog

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
	"github.com/koustreak/lorelink/internal/logger"
	"github.com/koustreak/lorelink/internal/metrics"
	"github.com/koustreak/lorelink/internal/render"
)

// Delimiter separates hierarchy levels in store keys and normalized paths.
const Delimiter = "/"

// CrossCategoryPerCategory caps how many items one category contributes to
// a search without a path.
const CrossCategoryPerCategory = 5

// Options configures one provider instance.
type Options struct {
	Key         string // provider key, e.g. "srd14"
	DisplayName string // used in attribution lines
	RootPrefix  string // store prefix the hierarchy lives under, e.g. "srd-2014/"

	MaxSuggestions int

	ChildrenTTL time.Duration // children listings and path mappings
	IndexTTL    time.Duration // per-category item index
	LeavesTTL   time.Duration // leaf category list
	ContentTTL  time.Duration // rendered content

	MaxDepth      int   // bound on hierarchy walks
	MaxObjectSize int64 // objects above this size are ignored

	// Coalesce collapses concurrent identical store loads into one call.
	Coalesce bool
}

// DefaultOptions returns the options a provider runs with unless configured
// otherwise.
func DefaultOptions(key, displayName, rootPrefix string) Options {
	return Options{
		Key:            key,
		DisplayName:    displayName,
		RootPrefix:     rootPrefix,
		MaxSuggestions: 20,
		ChildrenTTL:    30 * time.Minute,
		IndexTTL:       30 * time.Minute,
		LeavesTTL:      30 * time.Minute,
		ContentTTL:     10 * time.Minute,
		MaxDepth:       10,
		MaxObjectSize:  5_000_000,
	}
}

func (o Options) validate() error {
	switch {
	case strings.TrimSpace(o.Key) == "":
		return errs.New(errs.ErrKindInvalidInput, "provider key is required")
	case o.MaxSuggestions <= 0:
		return errs.New(errs.ErrKindInvalidInput, "max suggestions must be positive")
	case o.MaxDepth <= 0:
		return errs.New(errs.ErrKindInvalidInput, "max depth must be positive")
	case o.MaxObjectSize <= 0:
		return errs.New(errs.ErrKindInvalidInput, "max object size must be positive")
	}
	return nil
}

// Provider serves search and content lookups for one store root.
// It is safe for concurrent use.
type Provider struct {
	opts     Options
	store    filestore.Store
	cache    cache.Cache
	renderer render.Renderer
	log      *logger.Logger
	metrics  *metrics.Collector
	flights  singleflight.Group
}

// Option customises a Provider.
type Option func(*Provider)

// WithLogger sets the logger. The provider key is added to every line.
func WithLogger(l *logger.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// WithRenderer replaces the generic Markdown renderer.
func WithRenderer(r render.Renderer) Option {
	return func(p *Provider) { p.renderer = r }
}

// WithMetrics records cache and store activity on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Provider) { p.metrics = c }
}

// New builds a Provider reading from store and caching into c.
func New(store filestore.Store, c cache.Cache, opts Options, options ...Option) (*Provider, error) {
	if store == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "store is required")
	}
	if c == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "cache is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.RootPrefix != "" && !strings.HasSuffix(opts.RootPrefix, Delimiter) {
		opts.RootPrefix += Delimiter
	}
	if opts.DisplayName == "" {
		opts.DisplayName = opts.Key
	}

	p := &Provider{
		opts:     opts,
		store:    store,
		cache:    c,
		renderer: render.Markdown{},
		log:      logger.FromContext(context.Background()),
	}
	for _, o := range options {
		o(p)
	}
	p.log = p.log.With().Str("provider", opts.Key).Logger()
	return p, nil
}

// Key returns the provider key.
func (p *Provider) Key() string { return p.opts.Key }

// DisplayName returns the provider's human-readable name.
func (p *Provider) DisplayName() string { return p.opts.DisplayName }

// Ping checks the backing store.
func (p *Provider) Ping(ctx context.Context) error {
	return p.store.Ping(ctx)
}

// --- cache plumbing ---

func (p *Provider) key(kind cache.Kind, sub string) cache.Key {
	return cache.Key{Provider: p.opts.Key, Kind: kind, Sub: sub}
}

func (p *Provider) cached(kind cache.Kind, sub string) (any, bool) {
	v, ok := p.cache.Get(p.key(kind, sub))
	if ok {
		p.metrics.CacheHit(p.opts.Key, string(kind))
	} else {
		p.metrics.CacheMiss(p.opts.Key, string(kind))
	}
	return v, ok
}

// remember stores v unless ctx is already done; a cancelled computation may
// be incomplete and must not be cached.
func (p *Provider) remember(ctx context.Context, kind cache.Kind, sub string, v any, ttl time.Duration) {
	if ctx.Err() != nil {
		return
	}
	p.cache.Set(p.key(kind, sub), v, ttl)
}

// --- store plumbing ---

func (p *Provider) list(ctx context.Context, prefix string) ([]filestore.Entry, error) {
	v, err := p.coalesce(ctx, "list:"+prefix, func(ctx context.Context) (any, error) {
		start := time.Now()
		entries, err := p.store.ListLevel(ctx, prefix, Delimiter)
		p.metrics.ObserveStoreCall(p.opts.Key, "list", outcome(err), time.Since(start))
		return entries, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]filestore.Entry), nil
}

func (p *Provider) download(ctx context.Context, key string) ([]byte, error) {
	v, err := p.coalesce(ctx, "download:"+key, func(ctx context.Context) (any, error) {
		start := time.Now()
		data, err := p.store.Download(ctx, key, p.opts.MaxObjectSize)
		p.metrics.ObserveStoreCall(p.opts.Key, "download", outcome(err), time.Since(start))
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// coalesce runs fn once per key among concurrent callers when Coalesce is
// set. The shared call runs on a context detached from any one caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (p *Provider) coalesce(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if !p.opts.Coalesce {
		return fn(ctx)
	}

	ch := p.flights.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, errs.FromContext(ctx.Err(), "store call abandoned")
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return errs.KindOf(err).String()
}

// --- path helpers ---

// normalizePath lowercases path and drops surrounding and repeated slashes.
func normalizePath(path string) string {
	segs := splitPath(strings.ToLower(strings.TrimSpace(path)))
	return strings.Join(segs, Delimiter)
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + Delimiter + child
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, Delimiter); i >= 0 {
		return path[i+1:]
	}
	return path
}
