package main

import (
	"strings"

	"github.com/matsen/bibnote/internal/bibtex"
	"github.com/matsen/bibnote/internal/naming"
	"github.com/matsen/bibnote/internal/note"
	"github.com/spf13/cobra"
)

var slugAuthors bool

func init() {
	slugCmd.Flags().BoolVar(&slugAuthors, "authors", false, "Treat the input as a BibTeX author field and print one link per author")
	rootCmd.AddCommand(slugCmd)
}

var slugCmd = &cobra.Command{
	Use:   "slug <text>...",
	Short: "Show the note name or author links for some text",
	Long: `Show the slug bibnote would derive for a title, or the wiki-links it
would render for an author field.

Usage:
  bibnote slug Deep Learning Basics          # DeepLearningBasics
  bibnote slug --authors "Doe, Jane and Smith, John"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSlug,
}

// SlugResult is one derived identifier.
type SlugResult struct {
	Display string `json:"display"`
	Slug    string `json:"slug"`
	Link    string `json:"link,omitempty"`
}

func runSlug(cmd *cobra.Command, args []string) error {
	results := slugResults(strings.Join(args, " "), slugAuthors)

	if humanOutput {
		for _, r := range results {
			if r.Link != "" {
				outputHuman("%s\n", r.Link)
			} else {
				outputHuman("%s\n", r.Slug)
			}
		}
		return nil
	}
	return outputJSON(results)
}

func slugResults(text string, authors bool) []SlugResult {
	if !authors {
		return []SlugResult{{Display: text, Slug: naming.Slugify(text)}}
	}

	results := []SlugResult{}
	for _, a := range bibtex.ParseAuthors(text) {
		id := naming.ForAuthor(a)
		if id.Slug == "" {
			continue
		}
		results = append(results, SlugResult{Display: id.Display, Slug: id.Slug, Link: note.Link(id)})
	}
	return results
}
