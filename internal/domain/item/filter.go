package item

import "lostfound-bulletin-service/internal/domain/shared"

// Filter represents the feed's current view selection.
// Exactly one value is active at a time; the default is FilterAll.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterLost  Filter = "lost"
	FilterFound Filter = "found"
)

// ParseFilter validates and converts a raw string into a Filter
func ParseFilter(raw string) (Filter, error) {
	switch Filter(raw) {
	case FilterAll:
		return FilterAll, nil
	case FilterLost:
		return FilterLost, nil
	case FilterFound:
		return FilterFound, nil
	default:
		return "", shared.ErrInvalidFilter
	}
}

// Matches reports whether an item with the given category is visible
// under this filter
func (f Filter) Matches(category Category) bool {
	if f == FilterAll {
		return true
	}
	return string(f) == string(category)
}

// Category returns the category constraint this filter imposes,
// or nil when the filter admits all items
func (f Filter) Category() *Category {
	if f == FilterAll {
		return nil
	}
	c := Category(f)
	return &c
}
