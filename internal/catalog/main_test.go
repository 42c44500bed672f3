package catalog

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/filestore/memstore"
	"github.com/koustreak/lorelink/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const breastplateJSON = `{"pk": "breastplate", "fields": {"name": "Breastplate", "armor_class": 14, "stealth_disadvantage": false}}`

// compendium returns a store laid out like an SRD export: mixed-case folders
// under a root prefix, source-prefixed file names and some noise.
func compendium() *memstore.Store {
	s := memstore.New()
	s.PutString("srd/Bestiary/Beast/srd-2014_Giant-Bear.json", `{"fields": {"name": "Giant Bear"}}`)
	s.PutString("srd/Bestiary/Beast/srd-2014_wolf.json", `{"fields": {"name": "Wolf"}}`)
	s.PutString("srd/Bestiary/Dragon/srd-2014_red-dragon.json", `{"fields": {"name": "Red Dragon"}}`)
	s.PutString("srd/Items/Armor/srd-2014_breastplate.json", breastplateJSON)
	s.PutString("srd/Items/Armor/srd-2014_leather.json", `{"fields": {"name": "Leather"}}`)
	s.PutString("srd/Spells/srd-2014_fire-bolt.json", `{"fields": {"name": "Fire Bolt"}}`)
	s.PutString("srd/Spells/srd-2014_fireball.json", `{"fields": {"name": "Fireball"}}`)
	s.PutString("srd/Spells/srd-2014_fire-shield.json", `{"fields": {"name": "Fire Shield"}}`)
	s.PutString("srd/Spells/srd-2014_cure-wounds.json", `{"fields": {"name": "Cure Wounds"}}`)
	s.PutString("srd/Spells/notes.txt", "not an item")
	s.PutString("srd/srd-2014_index.json", `{}`)
	s.PutString("other/srd-2014_stray.json", `{}`)
	return s
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type harness struct {
	provider *Provider
	store    *memstore.Store
	clock    *fakeClock
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, store *memstore.Store, tweak func(*Options)) *harness {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c, err := cache.NewLRU(1000, cache.WithClock(clock.Now))
	require.NoError(t, err)

	opts := DefaultOptions("srd14", "SRD 5.1", "srd")
	if tweak != nil {
		tweak(&opts)
	}

	logs := &bytes.Buffer{}
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Output: logs})

	p, err := New(store, c, opts, WithLogger(log))
	require.NoError(t, err)

	return &harness{provider: p, store: store, clock: clock, logs: logs}
}
