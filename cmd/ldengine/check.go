package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poly1603/ldesign-engine-sub006/internal/adapters/logging"
	"github.com/poly1603/ldesign-engine-sub006/internal/domain/engine"
	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
	"github.com/poly1603/ldesign-engine-sub006/internal/ports"
)

var checkCmd = &cobra.Command{
	Use:   "check <set.yaml>",
	Short: "Register a plugin set against a live engine",
	Long: `Check resolves a plugin set and registers every plugin with a fresh
engine instance in dependency order. Unlike resolve, which only
analyzes, check exercises the actual registration path: capacity,
duplicate detection, and direct dependency presence.

Exit codes:
  0 - Every plugin registered
  1 - Resolution or registration failed
  2 - Could not read the plugin set or config

Examples:
  ldengine check plugins.yaml
  ldengine check plugins.yaml --config engine.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := engine.DefaultConfig()
	if cfgFile != "" {
		loaded, err := engine.LoadConfig(cfgFile)
		if err != nil {
			printError(err)
			os.Exit(2)
		}
		cfg = loaded
	}

	plugins, err := plugin.LoadSet(args[0])
	if err != nil {
		printError(err)
		os.Exit(2)
	}

	result := plugin.NewResolver().Resolve(plugins)
	if !result.Success {
		outputResolveText(result)
		os.Exit(1)
	}

	level := ports.ParseLevel(cfg.LogLevel)
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithLevel(level),
		logging.WithJSONFormat(cfg.LogJSON),
	)

	eng, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	defer eng.Destroy(ctx)

	if err := eng.Start(ctx); err != nil {
		return err
	}

	byName := make(map[string]*plugin.Plugin, len(plugins))
	for _, p := range plugins {
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p
		}
	}

	for _, name := range result.Order {
		if err := eng.Use(ctx, byName[name]); err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	stats := eng.Manager().Stats()
	fmt.Printf("✓ Registered %d plugins (%d dependency edges)\n", stats.Plugins, stats.DependencyEdges)
	for i, name := range eng.Manager().LoadOrder() {
		fmt.Printf("  %d. %s\n", i+1, name)
	}

	return nil
}
