package catalog

// CategorySuggestion is the Category value of a folder-browse suggestion.
const CategorySuggestion = "_category"

// ChildFolder is one direct sub-folder of a location.
type ChildFolder struct {
	StoreName string // original-case folder name as stored
	Slug      string // lowercase StoreName
}

// CategoryItem is one JSON object directly under a location.
type CategoryItem struct {
	ID         string // normalized path of the item, e.g. "items/armor/breastplate"
	Title      string
	ObjectPath string // full store key of the object
}

// Children is one level of the hierarchy. A location that does not exist or
// holds nothing is represented by a nil *Children, never an empty one.
type Children struct {
	Folders []ChildFolder
	Items   []CategoryItem
}

// Suggestion is one autocomplete row.
type Suggestion struct {
	Source   string `json:"source"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Category string `json:"category"`
	Icon     string `json:"icon,omitempty"`
	Href     string `json:"href,omitempty"`
}

// IsCategory reports whether s browses a folder rather than naming an item.
func (s Suggestion) IsCategory() bool {
	return s.Category == CategorySuggestion
}

// Content is a resolved and rendered item.
type Content struct {
	Source      string `json:"source"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	Document    string `json:"document"`
	Attribution string `json:"attribution"`
	ExternalURL string `json:"externalUrl,omitempty"`

	// Raw is the decoded payload, kept for structured consumers.
	Raw any `json:"raw,omitempty"`
}

const (
	placeholderTitle    = "Content Not Found"
	placeholderKind     = "Unknown"
	placeholderDocument = "The requested content could not be found."
)

// IsPlaceholder reports whether c is the not-found record.
func (c *Content) IsPlaceholder() bool {
	return c != nil && c.Title == placeholderTitle && c.Kind == placeholderKind && c.Raw == nil
}
