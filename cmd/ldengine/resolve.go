package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <set.yaml>",
	Short: "Resolve the install order of a plugin set",
	Long: `Resolve analyzes a plugin set and reports every problem found:
dependency cycles, missing required dependencies, and version
constraint violations. On success it prints the install order.

Exit codes:
  0 - Resolution succeeded
  1 - Cycles, missing dependencies, or version conflicts found
  2 - Could not read the plugin set

Examples:
  ldengine resolve plugins.yaml
  ldengine resolve plugins.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var resolveJSON bool

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output results as JSON")
}

func runResolve(_ *cobra.Command, args []string) error {
	plugins, err := plugin.LoadSet(args[0])
	if err != nil {
		printError(err)
		os.Exit(2)
	}

	result := plugin.NewResolver().Resolve(plugins)

	if resolveJSON {
		outputResolveJSON(result)
	} else {
		outputResolveText(result)
	}

	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func outputResolveJSON(result *plugin.Result) {
	output := struct {
		Success      bool                     `json:"success"`
		Order        []string                 `json:"order,omitempty"`
		Cycles       [][]string               `json:"cycles,omitempty"`
		Missing      []string                 `json:"missing,omitempty"`
		Incompatible []plugin.Incompatibility `json:"incompatible,omitempty"`
		Warnings     []string                 `json:"warnings,omitempty"`
	}{
		Success:      result.Success,
		Order:        result.Order,
		Cycles:       result.Cycles,
		Missing:      result.Missing,
		Incompatible: result.Incompatible,
		Warnings:     result.Warnings,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(output)
}

func outputResolveText(result *plugin.Result) {
	if result.Success {
		fmt.Println("✓ Resolution succeeded")
		for i, name := range result.Order {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
	}

	if len(result.Cycles) > 0 {
		fmt.Println("✗ Dependency cycles:")
		for _, cycle := range result.Cycles {
			fmt.Printf("  ✗ %s\n", strings.Join(cycle, " -> "))
		}
	}

	if len(result.Missing) > 0 {
		fmt.Println("✗ Missing required dependencies:")
		for _, name := range result.Missing {
			fmt.Printf("  ✗ %s\n", name)
		}
	}

	if len(result.Incompatible) > 0 {
		fmt.Println("✗ Version conflicts:")
		for _, inc := range result.Incompatible {
			fmt.Printf("  ✗ %s -> %s: %s\n", inc.Plugin, inc.Dependency, inc.Reason)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println("⚠ Warnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}
}
