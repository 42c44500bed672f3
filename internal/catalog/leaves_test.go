package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/lorelink/internal/filestore/memstore"
)

func TestLeafCategories(t *testing.T) {
	h := newHarness(t, compendium(), nil)

	got, err := h.provider.LeafCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bestiary/beast", "bestiary/dragon", "items/armor", "spells"}, got)

	calls := h.store.ListCalls()
	again, err := h.provider.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, calls, h.store.ListCalls())
}

func TestLeafCategories_MixedLevelIsLeaf(t *testing.T) {
	store := memstore.New()
	store.PutString("srd/Items/srd-2014_rope.json", `{}`)
	store.PutString("srd/Items/Armor/srd-2014_leather.json", `{}`)
	h := newHarness(t, store, nil)

	got, err := h.provider.LeafCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"items", "items/armor"}, got)
}

func TestLeafCategories_DepthBound(t *testing.T) {
	store := memstore.New()
	store.PutString("srd/A/B/srd-2014_shallow.json", `{}`)
	deep := "srd/" + strings.Repeat("Deep/", 40) + "srd-2014_abyss.json"
	store.PutString(deep, `{}`)
	h := newHarness(t, store, func(o *Options) { o.MaxDepth = 4 })

	got, err := h.provider.LeafCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b"}, got)
	assert.Contains(t, h.logs.String(), `"reason":"max_depth"`)
	assert.LessOrEqual(t, h.store.ListCalls(), int64(12))
}

func TestLeafCategories_StoreFailureCachesNothing(t *testing.T) {
	h := newHarness(t, compendium(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.provider.LeafCategories(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	got, err := h.provider.LeafCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestLeafCategories_EmptyStore(t *testing.T) {
	h := newHarness(t, memstore.New(), nil)

	got, err := h.provider.LeafCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
