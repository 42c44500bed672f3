package catalog

import (
	"context"
	"strings"

	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/logger"
)

// Search returns autocomplete suggestions for query. The shape of the query
// selects the strategy:
//
//	""               top-level folders, then root items
//	"bea"            matching top-level folders, then matching items of every leaf category
//	"bestiary/bea"   drill-down: matching folders then items under "bestiary"
//
// When a drill-down path does not exist, the search retreats one segment at
// a time and matches the segment it dropped against the parent's children.
// Folders always precede items and items are truncated first.
func (p *Provider) Search(ctx context.Context, query string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))

	var (
		out []Suggestion
		err error
	)
	switch {
	case q == "":
		out, err = p.topLevel(ctx)
	case !strings.Contains(q, Delimiter):
		out, err = p.crossCategory(ctx, q)
	default:
		out, err = p.drillDown(ctx, q)
	}

	if err != nil {
		fields := map[string]interface{}{
			"query":  logger.Sanitize(query),
			"reason": errs.KindOf(err).String(),
		}
		if errs.IsTimeout(err) {
			p.log.DebugWith("search abandoned", fields)
		} else {
			p.log.WarnWith("search failed", err, fields)
		}
		return []Suggestion{}
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}

func (p *Provider) topLevel(ctx context.Context) ([]Suggestion, error) {
	root, err := p.Children(ctx, "")
	if err != nil || root == nil {
		return nil, err
	}
	return p.rank("", root, ""), nil
}

func (p *Provider) crossCategory(ctx context.Context, q string) ([]Suggestion, error) {
	root, err := p.Children(ctx, "")
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	if root != nil {
		for _, f := range root.Folders {
			if strings.Contains(f.Slug, q) {
				out = append(out, p.folderSuggestion("", f))
			}
		}
	}

	leaves, err := p.LeafCategories(ctx)
	if err != nil {
		return nil, err
	}

	for _, category := range leaves {
		if len(out) >= p.opts.MaxSuggestions {
			break
		}
		items, err := p.index(ctx, category)
		if err != nil {
			return nil, err
		}
		taken := 0
		for _, it := range items {
			if taken == CrossCategoryPerCategory {
				break
			}
			if strings.Contains(strings.ToLower(it.Title), q) {
				out = append(out, p.itemSuggestion(category, it))
				taken++
			}
		}
	}

	return p.capped(out), nil
}

func (p *Provider) drillDown(ctx context.Context, q string) ([]Suggestion, error) {
	i := strings.LastIndex(q, Delimiter)
	parent, text := normalizePath(q[:i]), strings.TrimSpace(q[i+1:])

	children, err := p.Children(ctx, parent)
	if err != nil {
		return nil, err
	}
	if children != nil {
		return p.rank(parent, children, text), nil
	}
	return p.partialFallback(ctx, q)
}

// partialFallback retreats up an absent path. For "a/b/c" with "a/b" absent
// it tries ("a", "b") and then ("", "a"), matching the dropped segment
// against the first parent that exists.
func (p *Provider) partialFallback(ctx context.Context, q string) ([]Suggestion, error) {
	segs := strings.Split(q, Delimiter)

	for k, steps := len(segs)-1, 0; k >= 1 && steps < p.opts.MaxDepth; k, steps = k-1, steps+1 {
		parent := normalizePath(strings.Join(segs[:k-1], Delimiter))
		partial := strings.TrimSpace(segs[k-1])

		children, err := p.Children(ctx, parent)
		if err != nil {
			return nil, err
		}
		if children != nil {
			return p.rank(parent, children, partial), nil
		}
	}

	p.log.DebugWith("no existing ancestor for query", map[string]interface{}{
		"query":  logger.Sanitize(q),
		"reason": "absent_path",
	})
	return nil, nil
}

// rank lists the folders of children whose slug contains text, then the
// items whose title contains every token of text, within the cap.
func (p *Provider) rank(path string, children *Children, text string) []Suggestion {
	var out []Suggestion
	for _, f := range children.Folders {
		if strings.Contains(f.Slug, text) {
			out = append(out, p.folderSuggestion(path, f))
		}
	}

	tokens := strings.Fields(text)
	for _, it := range children.Items {
		if len(out) >= p.opts.MaxSuggestions {
			break
		}
		if matchesAll(it.Title, tokens) {
			out = append(out, p.itemSuggestion(path, it))
		}
	}
	return p.capped(out)
}

func (p *Provider) capped(out []Suggestion) []Suggestion {
	if len(out) > p.opts.MaxSuggestions {
		return out[:p.opts.MaxSuggestions]
	}
	return out
}

// matchesAll reports whether title contains every token, ignoring case.
// No tokens matches everything.
func matchesAll(title string, tokens []string) bool {
	title = strings.ToLower(title)
	for _, t := range tokens {
		if !strings.Contains(title, t) {
			return false
		}
	}
	return true
}

func (p *Provider) folderSuggestion(parent string, f ChildFolder) Suggestion {
	title := PrettifySlug(f.Slug)
	return Suggestion{
		Source:   p.opts.Key,
		ID:       CategorySuggestion + Delimiter + joinPath(parent, f.Slug),
		Title:    title,
		Subtitle: "Browse " + title,
		Category: CategorySuggestion,
	}
}

func (p *Provider) itemSuggestion(category string, it CategoryItem) Suggestion {
	return Suggestion{
		Source:   p.opts.Key,
		ID:       it.ID,
		Title:    it.Title,
		Subtitle: PrettifySlug(lastSegment(category)),
		Category: category,
	}
}
