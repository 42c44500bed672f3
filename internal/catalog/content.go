package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/logger"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// GetContent resolves id to its object, renders it and returns the record.
// Any failure (malformed id, unknown item, store or decode error) yields the
// not-found placeholder. Placeholders are never cached.
func (p *Provider) GetContent(ctx context.Context, id string) *Content {
	if err := ValidateID(id); err != nil {
		p.log.WarnWith("rejected content id", err, map[string]interface{}{
			"id":     logger.Sanitize(id),
			"reason": "invalid_id",
		})
		return p.placeholder(id, "invalid_id")
	}
	category, _, ok := SplitID(id)
	if !ok {
		return p.placeholder(id, "invalid_id")
	}

	if v, ok := p.cached(cache.KindContent, id); ok {
		return v.(*Content)
	}

	items, err := p.index(ctx, category)
	if err != nil {
		p.logContentFailure(id, "", err)
		return p.placeholder(id, errs.KindOf(err).String())
	}

	item, found := findItem(items, id)
	if !found {
		p.log.WarnWith("content id not in category index", nil, map[string]interface{}{
			"id":       id,
			"category": category,
			"indexed":  len(items),
			"reason":   "not_found",
		})
		return p.placeholder(id, "not_found")
	}

	payload, err := p.fetch(ctx, item.ObjectPath)
	if err != nil {
		p.logContentFailure(id, item.ObjectPath, err)
		return p.placeholder(id, errs.KindOf(err).String())
	}

	content := &Content{
		Source:      p.opts.Key,
		ID:          item.ID,
		Title:       item.Title,
		Kind:        PrettifySlug(lastSegment(category)),
		Document:    p.renderer.Render(payload, p.opts.DisplayName, item.Title),
		Attribution: p.attribution(),
		Raw:         payload,
	}

	if ctx.Err() != nil {
		return p.placeholder(id, errs.ErrKindTimeout.String())
	}
	p.remember(ctx, cache.KindContent, id, content, p.opts.ContentTTL)

	p.log.DebugWith("content resolved", map[string]interface{}{
		"id":     id,
		"object": item.ObjectPath,
	})
	return content
}

func findItem(items []CategoryItem, id string) (CategoryItem, bool) {
	for _, it := range items {
		if strings.EqualFold(it.ID, id) {
			return it, true
		}
	}
	return CategoryItem{}, false
}

// fetch downloads the object at key, bounded by MaxObjectSize, and decodes
// it as a single JSON value.
// A leading byte-order mark is ignored and numbers keep their literal form.
func (p *Provider) fetch(ctx context.Context, key string) (any, error) {
	data, err := p.download(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeJSON(bytes.TrimPrefix(data, utf8BOM))
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, errs.Wrap(errs.ErrKindParseFailed, "decode object", err)
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(errs.ErrKindParseFailed, "trailing data after object", err)
	}
	return payload, nil
}

func (p *Provider) logContentFailure(id, object string, err error) {
	fields := map[string]interface{}{
		"id":     id,
		"reason": errs.KindOf(err).String(),
	}
	if object != "" {
		fields["object"] = object
	}
	if errs.IsTimeout(err) {
		p.log.DebugWith("content lookup abandoned", fields)
		return
	}
	p.log.ErrorWith("content lookup failed", err, fields)
}

func (p *Provider) attribution() string {
	return "Source: " + p.opts.DisplayName
}

func (p *Provider) placeholder(id, reason string) *Content {
	p.metrics.Placeholder(p.opts.Key, reason)
	return &Content{
		Source:      p.opts.Key,
		ID:          id,
		Title:       placeholderTitle,
		Kind:        placeholderKind,
		Document:    placeholderDocument,
		Attribution: p.attribution(),
	}
}
