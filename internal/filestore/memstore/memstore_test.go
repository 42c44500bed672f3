package memstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/lorelink/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *Store {
	s := New()
	s.PutString("srd/Bestiary/Beast/srd-2014_abomination.json", `{}`)
	s.PutString("srd/Bestiary/readme.json", `{}`)
	s.PutString("srd/Items/Armor/srd-2014_breastplate.json", `{}`)
	s.PutString("other/x.json", `{}`)
	return s
}

func TestListLevel(t *testing.T) {
	s := seeded()

	entries, err := s.ListLevel(context.Background(), "srd/", "/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "srd/Bestiary/", entries[0].Name)
	assert.True(t, entries[0].IsPrefix)
	assert.Equal(t, "srd/Items/", entries[1].Name)

	entries, err = s.ListLevel(context.Background(), "srd/Bestiary/", "/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "srd/Bestiary/Beast/", entries[0].Name)
	assert.Equal(t, "srd/Bestiary/readme.json", entries[1].Name)
	assert.False(t, entries[1].IsPrefix)
	assert.Equal(t, int64(2), entries[1].Size)

	assert.Equal(t, int64(2), s.ListCalls())
}

func TestListLevel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seeded().ListLevel(ctx, "", "/")
	assert.True(t, errs.IsTimeout(err))
}

func TestDownload(t *testing.T) {
	s := seeded()

	data, err := s.Download(context.Background(), "other/x.json", 0)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = s.Download(context.Background(), "nope.json", 0)
	assert.True(t, errs.IsNotFound(err))

	s.FailDownload("other/x.json", errs.New(errs.ErrKindReadFailed, "flaky"))
	_, err = s.Download(context.Background(), "other/x.json", 0)
	assert.True(t, errs.IsReadFailed(err))
	assert.Equal(t, int64(3), s.DownloadCalls())
}

func TestDownload_Limit(t *testing.T) {
	s := New()
	s.PutString("srd/a.json", `{"pk":"a"}`)

	_, err := s.Download(context.Background(), "srd/a.json", 10)
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "srd/a.json", 9)
	assert.True(t, errs.IsTooLarge(err))
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "srd", "Spells")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "srd-2014_fireball.json"), []byte(`{"pk":"fireball"}`), 0o644))

	s := New()
	require.NoError(t, s.LoadDir(root))

	data, err := s.Download(context.Background(), "srd/Spells/srd-2014_fireball.json", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pk":"fireball"}`, string(data))
}
