package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/filestore/memstore"
)

func TestChildren_EndToEndExample(t *testing.T) {
	store := memstore.New()
	store.PutString("items/armor/srd-2014_breastplate.json", breastplateJSON)
	h := newHarness(t, store, func(o *Options) { o.RootPrefix = "" })

	got, err := h.provider.Children(context.Background(), "items/armor")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Empty(t, got.Folders)
	assert.Equal(t, []CategoryItem{{
		ID:         "items/armor/breastplate",
		Title:      "Breastplate",
		ObjectPath: "items/armor/srd-2014_breastplate.json",
	}}, got.Items)
}

func TestChildren_Root(t *testing.T) {
	h := newHarness(t, compendium(), nil)

	got, err := h.provider.Children(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, []ChildFolder{
		{StoreName: "Bestiary", Slug: "bestiary"},
		{StoreName: "Items", Slug: "items"},
		{StoreName: "Spells", Slug: "spells"},
	}, got.Folders)
	assert.Equal(t, []CategoryItem{
		{ID: "index", Title: "Index", ObjectPath: "srd/srd-2014_index.json"},
	}, got.Items)
}

func TestChildren_ItemsSortedAndFiltered(t *testing.T) {
	h := newHarness(t, compendium(), nil)

	got, err := h.provider.Children(context.Background(), "spells")
	require.NoError(t, err)
	require.NotNil(t, got)

	var titles []string
	for _, it := range got.Items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Cure Wounds", "Fire Bolt", "Fire Shield", "Fireball"}, titles)
	assert.Equal(t, "spells/fire-bolt", got.Items[1].ID)
	assert.Equal(t, "srd/Spells/srd-2014_fire-bolt.json", got.Items[1].ObjectPath)
}

func TestChildren_CaseInsensitivePath(t *testing.T) {
	h := newHarness(t, compendium(), nil)
	ctx := context.Background()

	lower, err := h.provider.Children(ctx, "bestiary/beast")
	require.NoError(t, err)
	upper, err := h.provider.Children(ctx, "/BESTIARY/Beast/")
	require.NoError(t, err)

	require.NotNil(t, lower)
	assert.Same(t, lower, upper)
	assert.Equal(t, "bestiary/beast/giant-bear", lower.Items[0].ID)
}

func TestChildren_AbsenceIsCached(t *testing.T) {
	h := newHarness(t, compendium(), nil)
	ctx := context.Background()

	got, err := h.provider.Children(ctx, "bestiary/undead")
	require.NoError(t, err)
	assert.Nil(t, got)

	calls := h.store.ListCalls()
	got, err = h.provider.Children(ctx, "bestiary/undead")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, calls, h.store.ListCalls())
}

func TestChildren_OversizedAndEmptySlugSkipped(t *testing.T) {
	store := memstore.New()
	store.PutString("srd/Spells/srd-2014_wish.json", `{"fields": {"name": "Wish"}}`)
	store.PutString("srd/Spells/srd-2014_huge.json", `{"padding": "`+string(make([]byte, 64))+`"}`)
	store.PutString("srd/Spells/%%%.json", `{}`)
	h := newHarness(t, store, func(o *Options) { o.MaxObjectSize = 40 })

	got, err := h.provider.Children(context.Background(), "spells")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "spells/wish", got.Items[0].ID)
	assert.Contains(t, h.logs.String(), `"reason":"too_large"`)
	assert.Contains(t, h.logs.String(), `"reason":"empty_slug"`)
}

func TestChildren_DuplicateSlugSkipped(t *testing.T) {
	store := memstore.New()
	store.PutString("srd/Spells/srd-2014_light.json", `{}`)
	store.PutString("srd/Spells/srd-2024_light.json", `{}`)
	h := newHarness(t, store, nil)

	got, err := h.provider.Children(context.Background(), "spells")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "srd/Spells/srd-2014_light.json", got.Items[0].ObjectPath)
	assert.Contains(t, h.logs.String(), `"reason":"duplicate_slug"`)
}

func TestResolveStorePath_UsesWarmMappings(t *testing.T) {
	h := newHarness(t, compendium(), nil)
	ctx := context.Background()

	_, err := h.provider.Children(ctx, "bestiary/beast")
	require.NoError(t, err)
	assert.Equal(t, int64(3), h.store.ListCalls(), "root, Bestiary and Beast listings")

	// Listing Bestiary already mapped bestiary/dragon to its store path.
	got, err := h.provider.Children(ctx, "bestiary/dragon")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), h.store.ListCalls())

	storePath, err := h.provider.resolveStorePath(ctx, "bestiary/dragon")
	require.NoError(t, err)
	assert.Equal(t, "Bestiary/Dragon", storePath)
}

func TestResolveStorePath_UnknownSegmentReturnsInput(t *testing.T) {
	h := newHarness(t, compendium(), nil)

	got, err := h.provider.resolveStorePath(context.Background(), "bestiary/undead/zombie")
	require.NoError(t, err)
	assert.Equal(t, "bestiary/undead/zombie", got)
}

func TestResolveStorePath_RebuiltAfterExpiry(t *testing.T) {
	h := newHarness(t, compendium(), nil)
	ctx := context.Background()

	_, err := h.provider.Children(ctx, "bestiary/beast")
	require.NoError(t, err)
	require.Equal(t, int64(3), h.store.ListCalls())

	h.clock.Advance(31 * time.Minute)

	_, ok := h.provider.cache.Get(cache.Key{Provider: "srd14", Kind: cache.KindPath, Sub: "bestiary/beast"})
	assert.False(t, ok, "mapping must be unknown once expired")

	got, err := h.provider.Children(ctx, "bestiary/beast")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(6), h.store.ListCalls(), "walk restarts from the root")
}

func TestChildren_CancelledContextCachesNothing(t *testing.T) {
	h := newHarness(t, compendium(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.provider.Children(ctx, "spells")
	require.Error(t, err)

	got, err := h.provider.Children(context.Background(), "spells")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestNew_RejectsBadOptions(t *testing.T) {
	c, err := cache.NewLRU(10)
	require.NoError(t, err)
	store := memstore.New()

	tests := []struct {
		name  string
		tweak func(*Options)
	}{
		{"empty key", func(o *Options) { o.Key = " " }},
		{"zero cap", func(o *Options) { o.MaxSuggestions = 0 }},
		{"zero depth", func(o *Options) { o.MaxDepth = 0 }},
		{"zero object size", func(o *Options) { o.MaxObjectSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions("srd14", "SRD", "")
			tt.tweak(&opts)
			_, err := New(store, c, opts)
			assert.Error(t, err)
		})
	}

	_, err = New(nil, c, DefaultOptions("srd14", "SRD", ""))
	assert.Error(t, err)
	_, err = New(store, nil, DefaultOptions("srd14", "SRD", ""))
	assert.Error(t, err)
}

func TestNew_NormalizesRootPrefix(t *testing.T) {
	h := newHarness(t, compendium(), nil)
	assert.Equal(t, "srd/", h.provider.opts.RootPrefix)
	assert.Equal(t, "srd14", h.provider.Key())
	assert.Equal(t, "SRD 5.1", h.provider.DisplayName())
}
