package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/matsen/bibnote/internal/clipboard"
	"github.com/matsen/bibnote/internal/config"
	"github.com/matsen/bibnote/internal/convert"
	"github.com/matsen/bibnote/internal/naming"
	"github.com/matsen/bibnote/internal/note"
	"github.com/matsen/bibnote/internal/vault"
	"github.com/spf13/cobra"
)

var (
	convertVault     string
	convertClipboard bool
	convertDryRun    bool
	convertStdout    bool
	convertCopy      bool
)

func init() {
	convertCmd.Flags().StringVar(&convertVault, "vault", "", "Vault directory (overrides vault_path)")
	convertCmd.Flags().BoolVar(&convertClipboard, "clipboard", false, "Read BibTeX from the clipboard")
	convertCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Show what would be written without writing")
	convertCmd.Flags().BoolVar(&convertStdout, "stdout", false, "Print notes instead of writing them")
	convertCmd.Flags().BoolVar(&convertCopy, "copy", false, "Copy the rendered notes to the clipboard")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert BibTeX entries into vault notes",
	Long: `Convert BibTeX entries into Markdown notes.

Reads a .bib file (or stdin with "-", or the clipboard with --clipboard),
names each note after its title, and writes it into the vault. A title that
already exists in the vault gets a numeric suffix (PaperTitle2.md) rather
than overwriting the existing note. Malformed entries are reported and
skipped; the rest are still converted.

Usage:
  bibnote convert refs.bib
  bibnote convert refs.bib --vault ~/notes/papers
  bibnote convert --clipboard --stdout
  cat entry.bib | bibnote convert - --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

// ConvertReport is the result of a convert command.
type ConvertReport struct {
	Converted int          `json:"converted"`
	Failed    int          `json:"failed"`
	Notes     []NoteResult `json:"notes"`
	Errors    []string     `json:"errors,omitempty"`
}

// NoteResult describes one converted note.
type NoteResult struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	Action   string `json:"action"` // written, would_write, printed
	Body     string `json:"body,omitempty"`
}

// convertOptions controls convertEntries.
type convertOptions struct {
	VaultDir string
	Write    bool // Write notes into VaultDir
	Body     bool // Include note bodies in the report
	Workers  int
	Render   note.Options
	Logger   *slog.Logger
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	vaultDir := config.ExpandPath(convertVault)
	if vaultDir == "" {
		vaultDir = cfg.VaultPath
	}
	write := !convertDryRun && !convertStdout
	if write && vaultDir == "" {
		exitWithError(ExitConfigError, "no vault configured\n\nSet one with 'bibnote config vault-path <dir>' or pass --vault.")
	}

	input, err := readInput(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	report, err := convertEntries(cmd.Context(), input, convertOptions{
		VaultDir: vaultDir,
		Write:    write,
		Body:     convertStdout || convertCopy,
		Workers:  cfg.WorkerCount(),
		Render:   note.Options{AuthorsHeading: cfg.AuthorsHeading},
		Logger:   logger,
	})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if report.Converted == 0 && report.Failed == 0 {
		exitWithError(ExitDataError, "no BibTeX entries found")
	}

	if convertCopy {
		if err := clipboard.Copy(joinBodies(report)); err != nil {
			logger.Warn("copy to clipboard failed", slog.String("error", err.Error()))
		}
	}

	if humanOutput {
		printReportHuman(report)
	} else {
		outputJSON(report)
	}

	if report.Converted == 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// readInput returns the BibTeX text from the clipboard, stdin ("-") or a file.
func readInput(args []string) (string, error) {
	if convertClipboard {
		if len(args) > 0 {
			return "", fmt.Errorf("--clipboard cannot be combined with a file argument")
		}
		text, err := clipboard.Paste()
		if err != nil {
			return "", fmt.Errorf("reading clipboard: %w", err)
		}
		return text, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

// convertEntries runs the batch converter against the vault index and,
// when asked, writes the notes. Entries that fail to parse or write are
// reported and do not stop the rest.
func convertEntries(ctx context.Context, input string, opts convertOptions) (ConvertReport, error) {
	existing := naming.NewSet()
	if opts.VaultDir != "" {
		idx, err := vault.Index(opts.VaultDir)
		if err != nil {
			return ConvertReport{}, err
		}
		existing = idx
	}

	batch := &convert.Batch{
		Workers: opts.Workers,
		Options: opts.Render,
		Logger:  opts.Logger,
	}
	results, err := batch.Run(ctx, input, existing)
	if err != nil {
		return ConvertReport{}, err
	}

	report := ConvertReport{Notes: []NoteResult{}}
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}

		nr := NoteResult{
			Key:      r.Key,
			Title:    r.Title,
			Filename: r.Note.Filename,
		}
		switch {
		case opts.Write:
			path, err := vault.Write(opts.VaultDir, *r.Note, false)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.Key, err))
				continue
			}
			nr.Path = path
			nr.Action = "written"
		case opts.Body:
			nr.Action = "printed"
		default:
			nr.Action = "would_write"
		}
		if opts.Body {
			nr.Body = r.Note.Body()
		}
		report.Notes = append(report.Notes, nr)
	}

	report.Converted = len(report.Notes)
	report.Failed = len(errs)
	report.Errors = errorsToStrings(errs)
	return report, nil
}

func joinBodies(report ConvertReport) string {
	bodies := make([]string, 0, len(report.Notes))
	for _, n := range report.Notes {
		bodies = append(bodies, n.Body)
	}
	return strings.Join(bodies, "\n")
}

func printReportHuman(report ConvertReport) {
	for _, n := range report.Notes {
		if n.Body != "" {
			outputHuman("<!-- %s -->\n%s\n", n.Filename, n.Body)
			continue
		}
		title := n.Title
		if title == "" {
			title = naming.UntitledPlaceholder
		}
		outputHuman("%-12s %s  (%s)\n", n.Action, n.Filename, truncateString(title, TitleMaxLen))
	}
	outputHuman("\nConverted: %d  Failed: %d\n", report.Converted, report.Failed)
	if len(report.Errors) > 0 {
		outputHuman("\nErrors:\n")
		for _, e := range report.Errors {
			outputHuman("  - %s\n", e)
		}
	}
}
