package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
)

var graphCmd = &cobra.Command{
	Use:   "graph <set.yaml>",
	Short: "Export the dependency graph of a plugin set",
	Long: `Graph builds the dependency graph of a plugin set and prints it in
the requested format.

Examples:
  ldengine graph plugins.yaml
  ldengine graph plugins.yaml --format dot | dot -Tsvg > deps.svg
  ldengine graph plugins.yaml --format mermaid`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

var graphFormat string

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "tree", "Output format (tree, dot, mermaid, json)")
	_ = graphCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"tree\tIndented text listing",
			"dot\tGraphviz DOT",
			"mermaid\tMermaid flowchart",
			"json\tMachine-readable node/edge dump",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runGraph(_ *cobra.Command, args []string) error {
	plugins, err := plugin.LoadSet(args[0])
	if err != nil {
		printError(err)
		os.Exit(2)
	}

	r := plugin.NewResolver()
	r.Resolve(plugins)

	out, err := r.Visualization(plugin.VisualizationFormat(graphFormat))
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}
