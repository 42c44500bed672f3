// Package memstore is an in-memory filestore.Store. It backs the test suites
// and the CLI's fixture mode, and counts calls so callers can assert caching.
package memstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
)

// Store holds objects keyed by their full key.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	failing map[string]error

	lists     atomic.Int64
	downloads atomic.Int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		failing: make(map[string]error),
	}
}

// Put stores data under key, replacing any previous object.
func (s *Store) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

// PutString is Put for text payloads.
func (s *Store) PutString(key, data string) {
	s.Put(key, []byte(data))
}

// FailDownload makes every Download of key return err.
func (s *Store) FailDownload(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[key] = err
}

// LoadDir copies every regular file under root into the store, keyed by its
// slash-separated path relative to root.
func (s *Store) LoadDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errs.Wrap(errs.ErrKindReadFailed, "walk fixtures", err)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, "relative fixture path", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errs.Wrap(errs.ErrKindReadFailed, "read fixture "+rel, err)
		}
		s.Put(filepath.ToSlash(rel), data)
		return nil
	})
}

// ListCalls reports how many ListLevel calls the store has served.
func (s *Store) ListCalls() int64 { return s.lists.Load() }

// DownloadCalls reports how many Download calls the store has served.
func (s *Store) DownloadCalls() int64 { return s.downloads.Load() }

// --- filestore.Store implementation ---

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error { return nil }

func (s *Store) ListLevel(ctx context.Context, prefix, delimiter string) ([]filestore.Entry, error) {
	s.lists.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "listing interrupted", err)
	}
	if delimiter == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "delimiter is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var entries []filestore.Entry
	for key, data := range s.objects {
		if !strings.HasPrefix(key, prefix) || key == prefix {
			continue
		}
		rest := key[len(prefix):]
		if i := strings.Index(rest, delimiter); i >= 0 {
			child := prefix + rest[:i+len(delimiter)]
			if !seen[child] {
				seen[child] = true
				entries = append(entries, filestore.Entry{Name: child, IsPrefix: true})
			}
			continue
		}
		entries = append(entries, filestore.Entry{Name: key, Size: int64(len(data))})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *Store) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	s.downloads.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "download interrupted", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.failing[key]; ok {
		return nil, err
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "no object at "+key)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, errs.New(errs.ErrKindTooLarge, "object "+key+" is too large")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
