package bibtex

import "strings"

// authorSeparator splits the author field. Case-sensitive, so "And" inside
// a name is left alone.
const authorSeparator = " and "

// Author is one entry of the author list.
type Author struct {
	First string `json:"first"` // Given name(s), including middle names and initials
	Last  string `json:"last"`  // Family name
}

// Name returns the display form "First Last".
func (a Author) Name() string {
	switch {
	case a.First == "":
		return a.Last
	case a.Last == "":
		return a.First
	}
	return a.First + " " + a.Last
}

// ParseAuthors splits a BibTeX author field into authors in list order.
// Segments that are empty after trimming are dropped.
func ParseAuthors(field string) []Author {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	var authors []Author
	for _, segment := range strings.Split(field, authorSeparator) {
		a := parseName(strings.TrimSpace(segment))
		if a.Name() == "" {
			continue
		}
		authors = append(authors, a)
	}
	return authors
}

// parseName handles "Last, First" (split on the first comma) and
// "First Middle Last" (last word is the family name).
func parseName(s string) Author {
	if i := strings.Index(s, ","); i >= 0 {
		return Author{
			First: strings.Join(strings.Fields(s[i+1:]), " "),
			Last:  strings.Join(strings.Fields(s[:i]), " "),
		}
	}

	words := strings.Fields(s)
	switch len(words) {
	case 0:
		return Author{}
	case 1:
		return Author{Last: words[0]}
	}
	return Author{
		First: strings.Join(words[:len(words)-1], " "),
		Last:  words[len(words)-1],
	}
}
