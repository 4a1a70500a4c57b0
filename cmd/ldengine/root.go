package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ldengine",
	Short: "Plugin dependency resolution and inspection",
	Long: `ldengine analyzes plugin sets: it resolves install order, detects
dependency cycles, verifies version constraints, and exports the
dependency graph in several formats.

A plugin set is a YAML file listing plugins with their versions and
dependency declarations.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "engine config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// formatError returns a user-friendly error message. Validation errors
// list each finding on its own line; with verbose=true hook failures
// include the underlying error.
func formatError(err error) string {
	var valErr *plugin.ValidationError
	if errors.As(err, &valErr) && len(valErr.Errors) > 1 {
		msg := "validation failed:"
		for _, e := range valErr.Errors {
			msg += fmt.Sprintf("\n  - %s", e)
		}
		return msg
	}

	var hookErr *plugin.HookFailureError
	if errors.As(err, &hookErr) && verbose {
		return fmt.Sprintf("%s\n\nTechnical details: %v", hookErr.Error(), hookErr.Unwrap())
	}

	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
