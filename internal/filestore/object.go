package filestore

import (
	"strings"
	"time"
)

// Entry is one row of a single-level listing: either a common prefix
// (a virtual sub-folder) or an object directly under the listed prefix.
type Entry struct {
	// Name is the full key. For prefixes it ends with the delimiter
	// (e.g. "srd/Bestiary/"); for objects it is the object key
	// (e.g. "srd/Bestiary/srd-2014_aboleth.json").
	Name string

	// IsPrefix is true when the entry is a virtual folder, not a stored object.
	IsPrefix bool

	// Size is the byte size of the object. Zero for prefixes, -1 if unknown.
	Size int64

	// LastModified is when the object was last written. Zero for prefixes.
	LastModified time.Time
}

// Leaf returns the last path component of the entry relative to prefix,
// with the trailing delimiter of a folder entry removed.
func (e Entry) Leaf(prefix, delimiter string) string {
	rest := strings.TrimPrefix(e.Name, prefix)
	if e.IsPrefix {
		rest = strings.TrimSuffix(rest, delimiter)
	}
	if i := strings.LastIndex(rest, delimiter); i >= 0 {
		rest = rest[i+len(delimiter):]
	}
	return rest
}
