package indexconfig

// Pagination limits how many hits a search can page through.
type Pagination struct {
	MaxTotalHits int `json:"maxTotalHits"`
}

// Settings is the body of a settings update. A nil list leaves the setting
// untouched on the server; an empty list resets it.
type Settings struct {
	DisplayedAttributes  *[]string   `json:"displayedAttributes,omitempty"`
	SearchableAttributes *[]string   `json:"searchableAttributes,omitempty"`
	FilterableAttributes *[]string   `json:"filterableAttributes,omitempty"`
	SortableAttributes   *[]string   `json:"sortableAttributes,omitempty"`
	DistinctAttribute    *string     `json:"distinctAttribute,omitempty"`
	Pagination           *Pagination `json:"pagination,omitempty"`
}

// NewSettings returns empty settings to chain builder calls on.
func NewSettings() *Settings {
	return &Settings{}
}

func (s *Settings) WithDisplayedAttributes(attrs []string) *Settings {
	s.DisplayedAttributes = attributeList(attrs)
	return s
}

func (s *Settings) WithSearchableAttributes(attrs []string) *Settings {
	s.SearchableAttributes = attributeList(attrs)
	return s
}

func (s *Settings) WithFilterableAttributes(attrs []string) *Settings {
	s.FilterableAttributes = attributeList(attrs)
	return s
}

func (s *Settings) WithSortableAttributes(attrs []string) *Settings {
	s.SortableAttributes = attributeList(attrs)
	return s
}

func (s *Settings) WithDistinctAttribute(attr string) *Settings {
	s.DistinctAttribute = &attr
	return s
}

func (s *Settings) WithPagination(p Pagination) *Settings {
	s.Pagination = &p
	return s
}

// attributeList copies attrs so a nil input still yields an explicit empty
// list.
func attributeList(attrs []string) *[]string {
	list := make([]string, len(attrs))
	copy(list, attrs)
	return &list
}
