package catalog

import (
	"context"
	"strings"

	"github.com/koustreak/lorelink/internal/cache"
)

// resolveStorePath maps a normalized path to the store's original-case path.
//
// A cached mapping is used when present. Otherwise the path is walked from the
// root one segment at a time, reusing cached mappings for intermediate
// prefixes and listing a parent only when its children are unknown. When a
// segment has no matching folder the input comes back unchanged: the caller
// then lists a prefix that probably does not exist, which is how absence is
// discovered and cached.
//
// Errors are only returned for failed store calls, including cancellation.
func (p *Provider) resolveStorePath(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if v, ok := p.cached(cache.KindPath, path); ok {
		return v.(string), nil
	}

	segs := strings.Split(path, Delimiter)
	if len(segs) > p.opts.MaxDepth {
		p.log.DebugWith("path deeper than max depth left unresolved", map[string]interface{}{
			"path":  path,
			"depth": len(segs),
		})
		return path, nil
	}

	var normParent, storeParent string
	for _, seg := range segs {
		norm := joinPath(normParent, seg)

		if v, ok := p.cached(cache.KindPath, norm); ok {
			normParent, storeParent = norm, v.(string)
			continue
		}

		children, err := p.childrenAt(ctx, normParent, storeParent)
		if err != nil {
			return "", err
		}
		folder, ok := children.folder(seg)
		if !ok {
			return path, nil
		}

		storePath := joinPath(storeParent, folder.StoreName)
		p.remember(ctx, cache.KindPath, norm, storePath, p.opts.ChildrenTTL)
		normParent, storeParent = norm, storePath
	}
	return storeParent, nil
}

func (c *Children) folder(slug string) (ChildFolder, bool) {
	if c == nil {
		return ChildFolder{}, false
	}
	for _, f := range c.Folders {
		if strings.EqualFold(f.Slug, slug) {
			return f, true
		}
	}
	return ChildFolder{}, false
}
