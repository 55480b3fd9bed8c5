// Package naming derives note identifiers and wiki-link slugs.
//
// A slug is the Pascal-case form of a display string: characters that are
// illegal in file names or that break wiki-links are removed, the rest is
// split on whitespace and hyphens, each token is title-cased, and the tokens
// are joined without separators. "Deep Learning Basics" becomes
// "DeepLearningBasics".
package naming

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matsen/bibnote/internal/bibtex"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholders used when a record lacks a title or authors.
const (
	UntitledPlaceholder = "Untitled"
	UnknownAuthor       = "Unknown Author"
)

// firstSuffix is the number appended to the second note with the same slug.
const firstSuffix = 2

// illegalChars are dropped from slugs. The first group is illegal in file
// names on common platforms; the second breaks [[Target|Label]] links.
const illegalChars = `/\:*?"<>|` + `[]#^`

// Identifier names a note or a link target.
type Identifier struct {
	Display string `json:"display"` // Human-readable form, e.g. "Jane Q. Doe"
	Slug    string `json:"slug"`    // Pascal-case link and file name form
}

// Slugify returns the Pascal-case slug for a display string. It is a pure
// function: the same input always gives the same slug. Leading dots are
// dropped so the note never becomes a hidden file. It returns "" when
// nothing usable remains.
func Slugify(display string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalChars, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, display)

	tokens := strings.FieldsFunc(cleaned, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	// Caser values keep state and must not be shared between goroutines.
	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(caser.String(tok))
	}
	return strings.TrimLeft(b.String(), ".")
}

// ForRecord returns the identifier of the note for rec. The slug comes from
// the title, or "Untitled" when the title is missing or slugifies to
// nothing. When the slug is already in existing, a numeric suffix starting
// at 2 is appended until it is free; a first occurrence keeps the bare
// slug. existing is read but never modified.
func ForRecord(rec *bibtex.Record, existing Set) Identifier {
	display := rec.Title()
	base := Slugify(display)
	if base == "" {
		display = UntitledPlaceholder
		base = UntitledPlaceholder
	}
	return Identifier{Display: display, Slug: Resolve(base, existing)}
}

// Resolve applies the collision policy to an already-derived slug.
func Resolve(base string, existing Set) string {
	if !existing.Has(base) {
		return base
	}
	for n := firstSuffix; ; n++ {
		candidate := base + strconv.Itoa(n)
		if !existing.Has(candidate) {
			return candidate
		}
	}
}

// ForAuthor returns the link identifier for an author. Author links are
// shared across notes on purpose, so no collision suffix is ever added;
// two people with the same display name share one target.
func ForAuthor(a bibtex.Author) Identifier {
	display := a.Name()
	return Identifier{Display: display, Slug: Slugify(display)}
}
