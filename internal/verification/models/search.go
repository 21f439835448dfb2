package models

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// SearchFilters narrows a provider search. Zero values are omitted from the
// outbound query.
type SearchFilters struct {
	State      string `json:"state,omitempty"`
	District   string `json:"district,omitempty"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	Management string `json:"management,omitempty"`
	YearFrom   int    `json:"year_from,omitempty"`
	YearTo     int    `json:"year_to,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Normalized returns a copy with paging defaults applied.
func (f SearchFilters) Normalized() SearchFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

// Page is one page of search results.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPage builds a page, deriving TotalPages from total and limit.
func NewPage[T any](items []T, total, page, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
