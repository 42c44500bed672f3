// Package render turns decoded JSON payloads into Markdown documents.
//
// The catalog hands every downloaded object to a Renderer. Markdown is the
// generic default: it knows nothing about spells or monsters and simply lists
// the payload's attributes.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Renderer builds a document from a decoded payload. displayName names the
// content provider for attribution; fallbackTitle is used when the payload
// carries no title of its own.
type Renderer interface {
	Render(payload any, displayName, fallbackTitle string) string
}

// Markdown is the generic Renderer.
//
// The payload shape it expects is the one the SRD exports use:
//
//	{"pk": "breastplate", "fields": {"name": "Breastplate", "armor_class": 14, ...}}
//
// fields.name becomes the heading, pk is dropped, and everything else is
// listed under "## Attributes" in key order.
type Markdown struct{}

var _ Renderer = Markdown{}

func (Markdown) Render(payload any, displayName, fallbackTitle string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", escape(titleOf(payload, fallbackTitle)))
	sb.WriteString("## Attributes\n\n")

	if root, ok := payload.(map[string]any); ok {
		for _, key := range sortedKeys(root) {
			if strings.EqualFold(key, "pk") {
				continue
			}
			if fields, ok := root[key].(map[string]any); ok && strings.EqualFold(key, "fields") {
				for _, fk := range sortedKeys(fields) {
					if strings.EqualFold(fk, "name") {
						continue
					}
					writeProperty(&sb, fk, fields[fk], 0)
				}
				continue
			}
			writeProperty(&sb, key, root[key], 0)
		}
	} else if payload != nil {
		writeProperty(&sb, "value", payload, 0)
	}

	fmt.Fprintf(&sb, "\n*Source: %s*\n", escape(displayName))
	return sb.String()
}

func titleOf(payload any, fallback string) string {
	root, ok := payload.(map[string]any)
	if !ok {
		return fallback
	}
	for key, v := range root {
		if !strings.EqualFold(key, "fields") {
			continue
		}
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for fk, name := range fields {
			if s, ok := name.(string); ok && strings.EqualFold(fk, "name") && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fallback
}

func writeProperty(sb *strings.Builder, key string, value any, indent int) {
	pad := strings.Repeat("  ", indent)
	label := escape(FieldName(key))

	switch v := value.(type) {
	case map[string]any:
		fmt.Fprintf(sb, "%s- **%s**:\n", pad, label)
		for _, k := range sortedKeys(v) {
			writeProperty(sb, k, v[k], indent+1)
		}
	case []any:
		fmt.Fprintf(sb, "%s- **%s**:\n", pad, label)
		writeArray(sb, v, indent+1)
	default:
		fmt.Fprintf(sb, "%s- **%s**: %s\n", pad, label, scalar(v))
	}
}

func writeArray(sb *strings.Builder, items []any, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			fmt.Fprintf(sb, "%s-\n", pad)
			for _, k := range sortedKeys(v) {
				writeProperty(sb, k, v[k], indent+1)
			}
		case []any:
			fmt.Fprintf(sb, "%s- (nested list)\n", pad)
		case nil:
		default:
			fmt.Fprintf(sb, "%s- %s\n", pad, scalar(v))
		}
	}
}

func scalar(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return escape(s)
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return escape(fmt.Sprint(s))
	}
}

// FieldName turns a snake_case or camelCase key into Title Case words:
// "armor_class" and "armorClass" both become "Armor Class".
func FieldName(key string) string {
	if strings.TrimSpace(key) == "" {
		return key
	}

	var spaced strings.Builder
	var prev rune
	for i, r := range strings.ReplaceAll(key, "_", " ") {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			spaced.WriteByte(' ')
		}
		spaced.WriteRune(r)
		prev = r
	}

	words := strings.Fields(spaced.String())
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

var escaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// escape neutralises angle brackets so payload text cannot inject HTML.
func escape(s string) string {
	return escaper.Replace(s)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
