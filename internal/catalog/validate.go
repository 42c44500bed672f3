package catalog

import (
	"regexp"
	"strings"

	"github.com/koustreak/lorelink/internal/errs"
)

const prohibitedChars = `.\[]|`

var idPattern = regexp.MustCompile(`^[a-z0-9-]+(/[a-z0-9-]+)+$`)

// ValidateID checks that id is a safe item identifier: "category/slug" or
// deeper, lowercase alphanumerics and hyphens only.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return errs.New(errs.ErrKindInvalidInput, "id cannot be empty")
	case strings.ContainsAny(id, prohibitedChars):
		return errs.New(errs.ErrKindInvalidInput, `id contains prohibited characters (. \ [ ] |)`)
	case strings.Contains(id, ".."):
		return errs.New(errs.ErrKindInvalidInput, "id contains path traversal pattern (..)")
	case !idPattern.MatchString(id):
		return errs.New(errs.ErrKindInvalidInput, "id must look like category/slug with lowercase alphanumerics and hyphens")
	}
	return nil
}

// SplitID splits id at its last slash: "items/armor/breastplate" yields
// ("items/armor", "breastplate"). ok is false when either side is empty.
func SplitID(id string) (category, slug string, ok bool) {
	i := strings.LastIndexByte(id, '/')
	if i <= 0 || i >= len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}
