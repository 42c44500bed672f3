package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
)

// Children returns the direct sub-folders and items at path, or nil when the
// location does not exist or is empty. Absence is cached like any listing.
//
// The returned value is shared with the cache and must not be modified.
func (p *Provider) Children(ctx context.Context, path string) (*Children, error) {
	path = normalizePath(path)
	if v, ok := p.cached(cache.KindChildren, path); ok {
		return v.(*Children), nil
	}

	storePath, err := p.resolveStorePath(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.load(ctx, path, storePath)
}

// childrenAt is Children for a location whose store path is already known.
func (p *Provider) childrenAt(ctx context.Context, path, storePath string) (*Children, error) {
	if v, ok := p.cached(cache.KindChildren, path); ok {
		return v.(*Children), nil
	}
	return p.load(ctx, path, storePath)
}

func (p *Provider) load(ctx context.Context, path, storePath string) (*Children, error) {
	prefix := p.opts.RootPrefix
	if storePath != "" {
		prefix += storePath + Delimiter
	}

	entries, err := p.list(ctx, prefix)
	if err != nil {
		return nil, errs.Wrap(errs.KindOf(err), "list "+prefix, err)
	}

	result := &Children{}
	seenFolders := make(map[string]bool)
	seenItems := make(map[string]bool)

	for _, e := range entries {
		leaf := e.Leaf(prefix, Delimiter)
		if leaf == "" {
			continue
		}
		if e.IsPrefix {
			p.addFolder(ctx, result, seenFolders, path, storePath, leaf)
			continue
		}
		p.addItem(result, seenItems, path, e, leaf)
	}

	if len(result.Folders) == 0 && len(result.Items) == 0 {
		result = nil
	} else {
		sort.Slice(result.Folders, func(i, j int) bool {
			return result.Folders[i].Slug < result.Folders[j].Slug
		})
		sort.Slice(result.Items, func(i, j int) bool {
			a, b := strings.ToLower(result.Items[i].Title), strings.ToLower(result.Items[j].Title)
			if a != b {
				return a < b
			}
			return result.Items[i].ID < result.Items[j].ID
		})
	}

	p.remember(ctx, cache.KindChildren, path, result, p.opts.ChildrenTTL)
	return result, nil
}

func (p *Provider) addFolder(ctx context.Context, result *Children, seen map[string]bool, path, storePath, name string) {
	slug := strings.ToLower(name)
	if seen[slug] {
		p.log.WarnWith("skipping folder that differs from a sibling only by case", nil, map[string]interface{}{
			"path":   path,
			"folder": name,
			"reason": "duplicate_slug",
		})
		return
	}
	seen[slug] = true

	result.Folders = append(result.Folders, ChildFolder{StoreName: name, Slug: slug})
	p.remember(ctx, cache.KindPath, joinPath(path, slug), joinPath(storePath, name), p.opts.ChildrenTTL)
}

func (p *Provider) addItem(result *Children, seen map[string]bool, path string, e filestore.Entry, leaf string) {
	if !hasObjectSuffix(leaf) {
		return
	}
	if e.Size > p.opts.MaxObjectSize {
		p.log.WarnWith("skipping oversized object", nil, map[string]interface{}{
			"path":   path,
			"object": e.Name,
			"size":   e.Size,
			"reason": "too_large",
		})
		return
	}

	slug := DeriveSlug(leaf)
	if slug == "" {
		p.log.WarnWith("skipping object without a usable slug", nil, map[string]interface{}{
			"path":   path,
			"object": e.Name,
			"reason": "empty_slug",
		})
		return
	}

	id := joinPath(path, slug)
	if seen[id] {
		p.log.WarnWith("skipping object whose slug collides with a sibling", nil, map[string]interface{}{
			"path":   path,
			"object": e.Name,
			"id":     id,
			"reason": "duplicate_slug",
		})
		return
	}
	seen[id] = true

	result.Items = append(result.Items, CategoryItem{
		ID:         id,
		Title:      PrettifySlug(slug),
		ObjectPath: e.Name,
	})
}

// index returns the items of the category at path. It is cached separately
// from the full listing so lookups by id survive a children eviction.
func (p *Provider) index(ctx context.Context, path string) ([]CategoryItem, error) {
	path = normalizePath(path)
	if v, ok := p.cached(cache.KindIndex, path); ok {
		return v.([]CategoryItem), nil
	}

	children, err := p.Children(ctx, path)
	if err != nil {
		return nil, err
	}

	var items []CategoryItem
	if children != nil {
		items = children.Items
	}
	p.remember(ctx, cache.KindIndex, path, items, p.opts.IndexTTL)
	return items, nil
}
