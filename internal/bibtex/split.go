package bibtex

import (
	"fmt"
	"strings"
)

// Chunk is the raw text of one entry cut out of a larger document.
type Chunk struct {
	Text   string
	Offset int // Byte offset of Text within the document
}

// Entry types that carry no bibliographic record.
var ignoredTypes = map[string]bool{
	"comment":  true,
	"preamble": true,
	"string":   true,
}

// Split cuts a .bib document into entries. Text outside entries is ignored,
// as BibTeX itself does, and so are @comment, @preamble and @string blocks.
// An '@' starts an entry when it is followed by a type and an opening
// delimiter, or when it begins a line and is followed by a letter; any other
// '@' (an e-mail address in a header, say) is free text. An entry whose
// delimiters never balance runs until the next '@' at the start of a line so
// that Parse can report it.
func Split(doc string) []Chunk {
	var chunks []Chunk
	pos := 0
	for pos < len(doc) {
		i := strings.IndexByte(doc[pos:], '@')
		if i < 0 {
			break
		}
		start := pos + i
		if !entryStart(doc, start) {
			pos = start + 1
			continue
		}
		end := entryEnd(doc, start)
		if !ignoredTypes[entryTypeAt(doc, start)] {
			chunks = append(chunks, Chunk{Text: doc[start:end], Offset: start})
		}
		pos = end
	}
	return chunks
}

// ParseAll parses every entry in a document. Entries that fail are
// reported in errs and skipped; the rest are returned in document order.
func ParseAll(doc string) ([]*Record, []error) {
	var recs []*Record
	var errs []error
	for _, c := range Split(doc) {
		rec, err := Parse(c.Text)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry at offset %d: %w", c.Offset, err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, errs
}

// entryStart reports whether the '@' at offset at opens an entry.
func entryStart(doc string, at int) bool {
	j := at + 1
	for j < len(doc) && isLetter(doc[j]) {
		j++
	}
	if j == at+1 {
		return false
	}
	if at == 0 || doc[at-1] == '\n' {
		return true
	}
	for j < len(doc) && isSpace(doc[j]) {
		j++
	}
	return j < len(doc) && (doc[j] == '{' || doc[j] == '(')
}

func entryTypeAt(doc string, at int) string {
	j := at + 1
	for j < len(doc) && isLetter(doc[j]) {
		j++
	}
	return strings.ToLower(doc[at+1 : j])
}

// entryEnd returns the offset just past the entry starting at the '@'.
func entryEnd(doc string, at int) int {
	j := at + 1
	for j < len(doc) && isLetter(doc[j]) {
		j++
	}
	for j < len(doc) && isSpace(doc[j]) {
		j++
	}
	if j >= len(doc) || (doc[j] != '{' && doc[j] != '(') {
		return nextLineEntry(doc, at+1)
	}

	closer := byte('}')
	if doc[j] == '(' {
		closer = ')'
	}

	depth := 0
	for k := j + 1; k < len(doc); k++ {
		switch doc[k] {
		case '\\':
			k++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				if closer == '}' {
					return k + 1
				}
				return nextLineEntry(doc, at+1)
			}
			depth--
		case ')':
			if depth == 0 && closer == ')' {
				return k + 1
			}
		}
	}
	return nextLineEntry(doc, at+1)
}

// nextLineEntry finds the next '@' that begins a line, or the end of doc.
func nextLineEntry(doc string, from int) int {
	if i := strings.Index(doc[from:], "\n@"); i >= 0 {
		return from + i + 1
	}
	return len(doc)
}
