// internal/core/domain/filter.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FilterCriteria holds the user-entered catalog filters. Every field is
// independently optional; the zero value means no filter at all.
type FilterCriteria struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// IsEmpty reports whether no criterion is set
func (c FilterCriteria) IsEmpty() bool {
	return c.Name == "" && c.Category == "" && c.MinPrice == nil && c.MaxPrice == nil
}

// Matches mirrors the server's search semantics: case-insensitive substring
// match on name and category, inclusive price bounds. Inverted bounds
// (min > max) match nothing.
func (c FilterCriteria) Matches(s *Sweet) bool {
	if c.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(c.Name)) {
		return false
	}
	if c.Category != "" && !strings.Contains(strings.ToLower(s.Category), strings.ToLower(c.Category)) {
		return false
	}
	if c.MinPrice != nil && s.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && s.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

// Apply filters items in place of a server-side search, preserving order
func (c FilterCriteria) Apply(items []Sweet) []Sweet {
	if c.IsEmpty() {
		return items
	}
	filtered := make([]Sweet, 0, len(items))
	for i := range items {
		if c.Matches(&items[i]) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}
