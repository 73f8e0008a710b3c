package models

import "strings"

// Searchable post fields. FieldTags is multi-valued: a pattern matches the
// field when it matches any one element.
const (
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldLocation = "location"
	FieldTags     = "tags"
)

// FieldMatch is a case-insensitive substring match against a named field.
type FieldMatch struct {
	Field   string
	Pattern string
}

// Filter is a store-agnostic disjunction of field matches: a post satisfies
// the filter when any one match holds. The zero value matches every post.
// Only the database package translates a Filter into store syntax.
type Filter struct {
	AnyOf []FieldMatch
}

// MatchAll reports whether the filter places no restriction on results.
func (f Filter) MatchAll() bool {
	return len(f.AnyOf) == 0
}

// SearchPosts builds the filter for a free-text search term. The term is
// trimmed of surrounding whitespace; a term that becomes empty yields the
// match-all filter. Otherwise the term must appear as a substring in the
// title, content, location, or any tag. Pattern metacharacters in the term
// are passed through unescaped.
func SearchPosts(term string) Filter {
	term = strings.TrimSpace(term)
	if term == "" {
		return Filter{}
	}

	fields := []string{FieldTitle, FieldContent, FieldLocation, FieldTags}
	matches := make([]FieldMatch, 0, len(fields))
	for _, field := range fields {
		matches = append(matches, FieldMatch{Field: field, Pattern: term})
	}
	return Filter{AnyOf: matches}
}
