package main

import (
	"errors"
	"fmt"

	"github.com/matsen/bibnote/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  bibnote config                          # Show all config
  bibnote config vault-path               # Get specific value
  bibnote config vault-path ~/notes/refs  # Set value
  bibnote config authors-heading People   # Rename the author section

Keys:
  vault-path       Directory notes are written to (env: BIBNOTE_VAULT)
  authors-heading  Heading of the author-links section (default "Authors")
  workers          Parallel workers for multi-entry files (1-64)
  log-level        debug, info, warn, error (env: BIBNOTE_LOG_LEVEL)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string, len(config.Keys))
		for _, key := range config.Keys {
			v, _ := cfg.Get(key)
			values[key] = v
			if humanOutput {
				fmt.Printf("%-16s %s\n", key+":", v)
			}
		}
		if !humanOutput {
			outputJSON(values)
		}
		return nil
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			outputJSON(map[string]string{key: v})
		}
		return nil
	}

	// Two args: set value. Re-read the file so environment overrides are
	// not persisted.
	value := args[1]
	cfg, err := config.ReadFile(config.Path())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.Set(key, value); err != nil {
		code := ExitConfigError
		if errors.Is(err, config.ErrUnknownKey) {
			code = ExitError
		}
		exitWithError(code, "%v", err)
	}

	if err := cfg.Save(config.Path()); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}
