package bibtex

import "fmt"

// excerptLen is how much input Excerpt shows after the offset.
const excerptLen = 24

// MalformedEntryError reports a syntax problem in one entry. No partial
// record is returned alongside it.
type MalformedEntryError struct {
	Offset int    // Byte offset of the problem within Text
	Reason string // What was wrong
	Text   string // The raw entry text that failed
}

func (e *MalformedEntryError) Error() string {
	if ex := e.Excerpt(); ex != "" {
		return fmt.Sprintf("malformed entry at offset %d: %s (near %q)", e.Offset, e.Reason, ex)
	}
	return fmt.Sprintf("malformed entry at offset %d: %s", e.Offset, e.Reason)
}

// Excerpt returns a short piece of the input starting at the offset.
func (e *MalformedEntryError) Excerpt() string {
	if e.Offset < 0 || e.Offset >= len(e.Text) {
		return ""
	}
	end := e.Offset + excerptLen
	if end > len(e.Text) {
		end = len(e.Text)
	}
	return e.Text[e.Offset:end]
}
