package naming

import "sort"

// Set is a snapshot of slugs already present in a vault. The zero value
// (nil) is an empty set that can be read but not added to.
type Set map[string]struct{}

// NewSet builds a set from slugs.
func NewSet(slugs ...string) Set {
	s := make(Set, len(slugs))
	for _, slug := range slugs {
		s[slug] = struct{}{}
	}
	return s
}

// Has reports whether slug is in the set.
func (s Set) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// Add inserts slug into the set.
func (s Set) Add(slug string) {
	s[slug] = struct{}{}
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the slugs in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
