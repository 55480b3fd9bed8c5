// Package convert runs the parse, name and render steps over BibTeX input.
package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matsen/bibnote/internal/bibtex"
	"github.com/matsen/bibnote/internal/naming"
	"github.com/matsen/bibnote/internal/note"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds parse/render concurrency in a batch.
const DefaultWorkers = 4

// Convert turns one raw entry into a note named against existing.
// existing is not modified; adding the new slug is the caller's job.
func Convert(raw string, existing naming.Set, opts note.Options) (note.Note, error) {
	rec, err := bibtex.Parse(raw)
	if err != nil {
		return note.Note{}, err
	}
	id := naming.ForRecord(rec, existing)
	return note.RenderWith(rec, id, opts), nil
}

// Result is the outcome for one entry of a batch.
type Result struct {
	Offset int        // Byte offset of the entry in the document
	Key    string     // Citation key, empty if parsing failed
	Title  string     // Literal title, empty if absent
	Note   *note.Note // Nil when Err is set
	Err    error
}

// Batch converts every entry in a .bib document.
type Batch struct {
	Workers int          // Parse/render concurrency; DefaultWorkers when <= 0
	Options note.Options // Passed to the renderer
	Logger  *slog.Logger // Optional; failures are logged at warn level
}

// Run converts each entry of doc. Parsing and rendering run concurrently;
// naming runs in document order against a private copy of existing that
// grows as notes are named, so two entries with the same title get
// PaperTitle and PaperTitle2. A failed entry is reported in its Result and
// does not stop the others. The returned error is only set when ctx is
// cancelled.
func (b *Batch) Run(ctx context.Context, doc string, existing naming.Set) ([]Result, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	chunks := bibtex.Split(doc)
	results := make([]Result, len(chunks))
	records := make([]*bibtex.Record, len(chunks))

	err := b.each(ctx, len(chunks), func(i int) {
		c := chunks[i]
		results[i].Offset = c.Offset
		rec, err := bibtex.Parse(c.Text)
		if err != nil {
			results[i].Err = fmt.Errorf("entry at offset %d: %w", c.Offset, err)
			return
		}
		records[i] = rec
		results[i].Key = rec.Key
		results[i].Title = rec.Title()
	})
	if err != nil {
		return nil, err
	}

	working := existing.Clone()
	ids := make([]naming.Identifier, len(chunks))
	for i, rec := range records {
		if rec == nil {
			logger.Warn("skipping entry",
				slog.Int("offset", results[i].Offset),
				slog.String("error", results[i].Err.Error()))
			continue
		}
		ids[i] = naming.ForRecord(rec, working)
		working.Add(ids[i].Slug)
	}

	err = b.each(ctx, len(chunks), func(i int) {
		if records[i] == nil {
			return
		}
		n := note.RenderWith(records[i], ids[i], b.Options)
		results[i].Note = &n
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("batch converted", slog.Int("entries", len(chunks)))
	return results, nil
}

// each calls fn for 0..n-1 with bounded concurrency. fn writes only to its
// own index.
func (b *Batch) each(ctx context.Context, n int, fn func(i int)) error {
	workers := b.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Converted int `json:"converted"`
	Failed    int `json:"failed"`
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Converted++
		}
	}
	return s
}
