package catalog

import (
	"context"
	"sort"

	"github.com/koustreak/lorelink/internal/cache"
)

const leavesSub = ""

// LeafCategories returns every non-root path that directly holds items,
// sorted. A path holding both items and folders is a leaf too.
//
// The tree is walked depth-first with an explicit stack. Branches deeper than
// MaxDepth are dropped with a warning; a store failure aborts the walk and
// nothing is cached.
func (p *Provider) LeafCategories(ctx context.Context) ([]string, error) {
	if v, ok := p.cached(cache.KindLeaves, leavesSub); ok {
		return v.([]string), nil
	}

	type frame struct {
		path  string
		depth int
	}

	leaves := []string{}
	stack := []frame{{path: "", depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > p.opts.MaxDepth {
			p.log.WarnWith("leaf walk hit max depth, skipping branch", nil, map[string]interface{}{
				"path":      f.path,
				"max_depth": p.opts.MaxDepth,
				"reason":    "max_depth",
			})
			continue
		}

		children, err := p.Children(ctx, f.path)
		if err != nil {
			return nil, err
		}
		if children == nil {
			continue
		}
		if len(children.Items) > 0 && f.path != "" {
			leaves = append(leaves, f.path)
		}
		for i := len(children.Folders) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				path:  joinPath(f.path, children.Folders[i].Slug),
				depth: f.depth + 1,
			})
		}
	}

	sort.Strings(leaves)
	p.remember(ctx, cache.KindLeaves, leavesSub, leaves, p.opts.LeavesTTL)
	return leaves, nil
}

// Categories lists the browsable categories of the provider. It is the leaf
// category list under a name suited to browse surfaces.
func (p *Provider) Categories(ctx context.Context) ([]string, error) {
	return p.LeafCategories(ctx)
}
