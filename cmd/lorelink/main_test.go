package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/lorelink/internal/catalog"
	"github.com/koustreak/lorelink/internal/errs"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"srd-2014/Spells/srd-2014_fireball.json":    `{"fields": {"name": "Fireball", "level": 3}}`,
		"srd-2014/Spells/srd-2014_fire-bolt.json":   `{"fields": {"name": "Fire Bolt", "level": 0}}`,
		"srd-2014/Items/Armor/srd_breastplate.json": `{"fields": {"name": "Breastplate", "armor_class": "14 + Dex"}}`,
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	providerKey, searchWorld, searchJSON, getRaw, verbose = "", "", false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	base := []string{
		"--config", filepath.Join(t.TempDir(), "absent.yaml"),
		"--fixtures", writeFixtures(t),
	}
	rootCmd.SetArgs(append(args, base...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories")
	require.NoError(t, err)

	assert.Contains(t, out, "items/armor")
	assert.Contains(t, out, "Armor")
	assert.Contains(t, out, "spells")
}

func TestSearch_JSON(t *testing.T) {
	out, err := run(t, "search", "spells/fire bo", "--json")
	require.NoError(t, err)

	var got []catalog.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "spells/fire-bolt", got[0].ID)
}

func TestSearch_UnknownProvider(t *testing.T) {
	_, err := run(t, "search", "fire", "--provider", "open5e")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sources: srd14.")
}

func TestGet(t *testing.T) {
	out, err := run(t, "get", "items/armor/breastplate")
	require.NoError(t, err)

	assert.Contains(t, out, "# Breastplate")
	assert.Contains(t, out, "- **Armor Class**: 14 + Dex")
	assert.Contains(t, out, "*Source: SRD 5.1*")
}

func TestGet_Missing(t *testing.T) {
	_, err := run(t, "get", "items/armor/plate")
	assert.True(t, errs.IsNotFound(err))

	_, err = run(t, "get", "https://example.com/x")
	assert.True(t, errs.IsInvalidInput(err))
}
