// Package note renders bibliographic records as Markdown vault notes.
package note

import (
	"fmt"
	"strings"

	"github.com/matsen/bibnote/internal/bibtex"
	"github.com/matsen/bibnote/internal/naming"
)

// Extension is appended to a note's slug to form its file name.
const Extension = ".md"

// DefaultAuthorsHeading labels the author-links block.
const DefaultAuthorsHeading = "Authors"

// Metadata keys, in output order.
const (
	KeyYear        = "year"
	KeyJournal     = "journal"
	KeyBookTitle   = "booktitle"
	KeyCitationKey = "citationKey"
)

// Note is a rendered Markdown document ready for a vault.
type Note struct {
	Filename string   `json:"filename"`
	Slug     string   `json:"slug"`
	Blocks   []string `json:"-"` // Heading, metadata, authors; each without trailing newline
}

// Body joins the blocks with blank lines and ends with a newline.
func (n Note) Body() string {
	if len(n.Blocks) == 0 {
		return ""
	}
	return strings.Join(n.Blocks, "\n\n") + "\n"
}

// Options tune rendering. The zero value gives the default layout.
type Options struct {
	AuthorsHeading string // Defaults to DefaultAuthorsHeading
}

// Render produces the note for rec named by id. It has no side effects and
// is deterministic: the same inputs give byte-identical output.
func Render(rec *bibtex.Record, id naming.Identifier) Note {
	return RenderWith(rec, id, Options{})
}

// RenderWith is Render with explicit options.
func RenderWith(rec *bibtex.Record, id naming.Identifier, opts Options) Note {
	blocks := []string{heading(rec)}
	if meta := metadata(rec); meta != "" {
		blocks = append(blocks, meta)
	}
	blocks = append(blocks, authorLinks(rec.Authors(), opts.authorsHeading()))

	return Note{
		Filename: id.Slug + Extension,
		Slug:     id.Slug,
		Blocks:   blocks,
	}
}

func (o Options) authorsHeading() string {
	if o.AuthorsHeading == "" {
		return DefaultAuthorsHeading
	}
	return o.AuthorsHeading
}

// heading uses the literal title, not the slug.
func heading(rec *bibtex.Record) string {
	title := rec.Title()
	if title == "" {
		title = naming.UntitledPlaceholder
	}
	return "# " + title
}

// metadata emits one line per present field; absent fields get no line.
func metadata(rec *bibtex.Record) string {
	var lines []string
	add := func(key, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", key, value))
		}
	}
	add(KeyYear, rec.Year())
	add(KeyJournal, rec.Journal())
	add(KeyBookTitle, rec.BookTitle())
	add(KeyCitationKey, rec.Key)
	return strings.Join(lines, "\n")
}

// authorLinks lists each author as [[Slug|Display Name]]. Authors whose name
// or slug comes out empty are skipped; with nobody left the list holds the
// unlinked placeholder.
func authorLinks(authors []bibtex.Author, label string) string {
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(label)
	b.WriteString("\n")

	written := 0
	for _, a := range authors {
		id := naming.ForAuthor(a)
		if id.Display == "" || id.Slug == "" {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(Link(id))
		written++
	}
	if written == 0 {
		b.WriteString("\n- ")
		b.WriteString(naming.UnknownAuthor)
	}
	return b.String()
}

// linkLabel drops the characters that would end a wiki-link label early.
var linkLabel = strings.NewReplacer("|", "", "[", "", "]", "")

// Link formats the wiki-link [[Slug|Display Name]] for id. '|', '[' and ']'
// are removed from the label; the slug never contains them.
func Link(id naming.Identifier) string {
	return fmt.Sprintf("[[%s|%s]]", id.Slug, strings.Join(strings.Fields(linkLabel.Replace(id.Display)), " "))
}
