package catalog

import (
	"strings"
	"unicode"
)

const (
	objectSuffix    = ".json"
	sourceSeparator = '_'
)

// DeriveSlug turns an object's leaf name into its identifier.
//
// The ".json" suffix is dropped, and a source prefix up to the first
// underscore is stripped ("srd-2024_animated-armor.json" -> "animated-armor").
// The rest is lowercased with every run of non-alphanumerics collapsed to one
// hyphen. If that leaves nothing, the unstripped basename is tried. An empty
// result means the object has no usable identifier and must be skipped.
func DeriveSlug(leaf string) string {
	base := leaf
	if hasObjectSuffix(base) {
		base = base[:len(base)-len(objectSuffix)]
	}

	stripped := base
	if i := strings.IndexRune(base, sourceSeparator); i >= 0 {
		stripped = base[i+1:]
	}

	if slug := normalizeSlug(stripped); slug != "" {
		return slug
	}
	return normalizeSlug(base)
}

// PrettifySlug turns a slug into a display title: "animated-armor" becomes
// "Animated Armor".
func PrettifySlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' })
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func normalizeSlug(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return sb.String()
}

func hasObjectSuffix(name string) bool {
	return len(name) >= len(objectSuffix) && strings.EqualFold(name[len(name)-len(objectSuffix):], objectSuffix)
}
