package domain

// Interest category types that allow only one selection.
const (
	CategoryRadio    = "radio"
	CategoryDropdown = "dropdown"
)

// InterestCategory groups selectable interests on an audience.
type InterestCategory struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Interests []Interest `json:"interests"`
}

// IsExclusive reports whether selecting one interest in the category
// deselects the others.
func (c InterestCategory) IsExclusive() bool {
	return c.Type == CategoryRadio || c.Type == CategoryDropdown
}

// Contains reports whether id belongs to the category.
func (c InterestCategory) Contains(id string) bool {
	for _, i := range c.Interests {
		if i.ID == id {
			return true
		}
	}
	return false
}

// Interest is a single selectable entry within a category.
type Interest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InterestSelection maps interest ids to the requested membership. The
// HTTP layer normalises the shapes forms post into this map.
type InterestSelection map[string]bool
