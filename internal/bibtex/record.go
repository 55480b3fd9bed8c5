// Package bibtex parses BibTeX entries into structured records.
package bibtex

import (
	"sort"
	"strings"
)

// EntryType is the lower-cased tag after '@' (article, book, ...).
// Tags outside the standard set are kept as-is rather than rejected.
type EntryType string

// Standard BibTeX entry types.
const (
	Article       EntryType = "article"
	Book          EntryType = "book"
	Booklet       EntryType = "booklet"
	InBook        EntryType = "inbook"
	InCollection  EntryType = "incollection"
	InProceedings EntryType = "inproceedings"
	Manual        EntryType = "manual"
	MastersThesis EntryType = "mastersthesis"
	Misc          EntryType = "misc"
	PhDThesis     EntryType = "phdthesis"
	Proceedings   EntryType = "proceedings"
	TechReport    EntryType = "techreport"
	Unpublished   EntryType = "unpublished"
)

var knownTypes = map[EntryType]bool{
	Article: true, Book: true, Booklet: true, InBook: true, InCollection: true,
	InProceedings: true, Manual: true, MastersThesis: true, Misc: true,
	PhDThesis: true, Proceedings: true, TechReport: true, Unpublished: true,
}

// Known reports whether t is one of the standard BibTeX entry types.
func (t EntryType) Known() bool {
	return knownTypes[t]
}

// Field names with dedicated accessors on Record.
const (
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldYear      = "year"
	FieldJournal   = "journal"
	FieldBookTitle = "booktitle"
	FieldDOI       = "doi"
)

// Record is one parsed BibTeX entry. It is not modified after construction;
// accessors hand out copies.
type Record struct {
	Type EntryType
	Key  string // Citation key, used only as a fallback identifier

	fields  map[string]string
	authors []Author
}

// NewRecord builds a record from already-extracted fields. Field names are
// lower-cased and the author list is derived from the "author" field.
func NewRecord(typ EntryType, key string, fields map[string]string) *Record {
	r := &Record{
		Type:   EntryType(strings.ToLower(string(typ))),
		Key:    key,
		fields: make(map[string]string, len(fields)),
	}
	for name, value := range fields {
		r.fields[strings.ToLower(name)] = value
	}
	r.authors = ParseAuthors(r.fields[FieldAuthor])
	return r
}

// Field returns the raw value of a field and whether it was present.
// Lookup is case-insensitive.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.fields[strings.ToLower(name)]
	return v, ok
}

// Has reports whether the field is present with a non-empty value.
func (r *Record) Has(name string) bool {
	v, ok := r.Field(name)
	return ok && v != ""
}

// Fields returns a copy of all fields.
func (r *Record) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// FieldNames returns the sorted list of field names.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Record) get(name string) string {
	return r.fields[name]
}

// Title returns the title field, or "" when absent.
func (r *Record) Title() string { return r.get(FieldTitle) }

// Year returns the year field, or "" when absent.
func (r *Record) Year() string { return r.get(FieldYear) }

// Journal returns the journal field, or "" when absent.
func (r *Record) Journal() string { return r.get(FieldJournal) }

// BookTitle returns the booktitle field, or "" when absent.
func (r *Record) BookTitle() string { return r.get(FieldBookTitle) }

// DOI returns the doi field, or "" when absent.
func (r *Record) DOI() string { return r.get(FieldDOI) }

// Authors returns a copy of the parsed author list.
func (r *Record) Authors() []Author {
	out := make([]Author, len(r.authors))
	copy(out, r.authors)
	return out
}
