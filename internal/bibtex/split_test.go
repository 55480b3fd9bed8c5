package bibtex

import (
	"errors"
	"strings"
	"testing"
)

const sampleBib = `% exported from a reference manager
@string{nat = "Nature"}

@article{first2020,
  title = {First {Paper}},
  author = {Doe, Jane},
}

@comment{ignore me}

@book{second2021,
  title = {Second Paper},
  note = {contact: someone@example.org}
}
`

func TestSplit(t *testing.T) {
	chunks := Split(sampleBib)
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2: %+v", len(chunks), chunks)
	}

	if !strings.HasPrefix(chunks[0].Text, "@article{first2020,") {
		t.Errorf("chunks[0].Text = %q", chunks[0].Text)
	}
	if !strings.HasSuffix(chunks[0].Text, "}") {
		t.Errorf("chunks[0].Text should end at the closing brace, got %q", chunks[0].Text)
	}
	if sampleBib[chunks[0].Offset] != '@' {
		t.Errorf("chunks[0].Offset = %d does not point at '@'", chunks[0].Offset)
	}

	if !strings.HasPrefix(chunks[1].Text, "@book{second2021,") {
		t.Errorf("chunks[1].Text = %q", chunks[1].Text)
	}
	if !strings.Contains(chunks[1].Text, "someone@example.org") {
		t.Errorf("chunks[1].Text should keep '@' inside values, got %q", chunks[1].Text)
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := Split(""); len(got) != 0 {
		t.Errorf("Split(\"\") = %v, want none", got)
	}
	if got := Split("just some notes, no entries"); len(got) != 0 {
		t.Errorf("Split(no entries) = %v, want none", got)
	}
}

func TestSplit_FreeTextBetweenEntries(t *testing.T) {
	doc := "Exported by jane@example.org for the lab\n" +
		"@article{a1, title = {One}}\n" +
		"Questions to help@lab.org @ any time.\n" +
		"@book{b2, title = {Two}}\n"

	chunks := Split(doc)
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].Text != "@article{a1, title = {One}}" {
		t.Errorf("chunks[0].Text = %q", chunks[0].Text)
	}
	if chunks[1].Text != "@book{b2, title = {Two}}" {
		t.Errorf("chunks[1].Text = %q", chunks[1].Text)
	}

	recs, errs := ParseAll(doc)
	if len(recs) != 2 || len(errs) != 0 {
		t.Errorf("ParseAll() = %d records, errors %v; want 2 records, no errors", len(recs), errs)
	}
}

func TestSplit_MalformedHeaderAtLineStartIsReported(t *testing.T) {
	doc := "@article k1, title = {Lost}\n@article{ok, title = {Fine}}\n"
	recs, errs := ParseAll(doc)
	if len(recs) != 1 || len(errs) != 1 {
		t.Fatalf("ParseAll() = %d records, %d errors; want 1 and 1", len(recs), len(errs))
	}
	if recs[0].Key != "ok" {
		t.Errorf("recs[0].Key = %q, want ok", recs[0].Key)
	}
}

func TestSplit_UnbalancedEntryStopsAtNextLine(t *testing.T) {
	doc := "@article{broken, title = {Open\n@article{ok, title = {Fine}}\n"
	chunks := Split(doc)
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2", len(chunks))
	}
	if chunks[1].Text != "@article{ok, title = {Fine}}" {
		t.Errorf("chunks[1].Text = %q", chunks[1].Text)
	}
}

func TestParseAll(t *testing.T) {
	doc := sampleBib + "\n@article{bad key, title = {X}}\n"

	recs, errs := ParseAll(doc)
	if len(recs) != 2 {
		t.Fatalf("ParseAll() returned %d records, want 2", len(recs))
	}
	if recs[0].Key != "first2020" || recs[1].Key != "second2021" {
		t.Errorf("keys = %q, %q; want document order", recs[0].Key, recs[1].Key)
	}
	if recs[0].Title() != "First Paper" {
		t.Errorf("recs[0].Title() = %q", recs[0].Title())
	}

	if len(errs) != 1 {
		t.Fatalf("ParseAll() returned %d errors, want 1", len(errs))
	}
	var malformed *MalformedEntryError
	if !errors.As(errs[0], &malformed) {
		t.Fatalf("errs[0] = %v, want *MalformedEntryError", errs[0])
	}
	if malformed.Offset != 9 {
		t.Errorf("Offset = %d, want 9 (relative to the entry)", malformed.Offset)
	}
	if !strings.Contains(errs[0].Error(), "entry at offset") {
		t.Errorf("errs[0] = %q, want the entry offset", errs[0])
	}
}
