package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/config"
	"github.com/bgricker/apismoke/internal/logging"
	"github.com/bgricker/apismoke/internal/registry"
	"github.com/bgricker/apismoke/internal/registry/filter"
)

// builtinSource names the compiled-in registry in listings.
const builtinSource = "builtin"

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)
	config.ApplyEnv(&cfg, flags, os.Getenv)

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, "", err
	}
	return cfg, root, nil
}

// loadRegistry reads registry files when any are configured or discovered and falls back
// to the built-in registry otherwise.
func loadRegistry(root string, cfg config.Config) (registry.Set, error) {
	found, err := registry.Discover(root, cfg.Endpoints)
	if err != nil {
		return registry.Set{}, err
	}
	if len(found.Paths) == 0 {
		return registry.Set{
			Sources:   []string{builtinSource},
			Endpoints: registry.Default(cfg.UserID),
			Warnings:  found.Warnings,
		}, nil
	}

	set, err := registry.NewLoader(root, cfg.UserID).Load(found.Paths)
	if err != nil {
		return registry.Set{}, err
	}
	set.Warnings = append(found.Warnings, set.Warnings...)
	return set, nil
}

func applyFilters(set registry.Set, cfg config.Config) (registry.Set, error) {
	criteria, err := filter.CompileCriteria(cfg.Categories, cfg.Only, cfg.Exclude)
	if err != nil {
		return registry.Set{}, err
	}
	if criteria.Empty() {
		return set, nil
	}
	set.Endpoints = filter.FilterEndpoints(set.Endpoints, criteria)
	return set, nil
}

func loadEndpoints(root string, cfg config.Config) (registry.Set, error) {
	set, err := loadRegistry(root, cfg)
	if err != nil {
		return registry.Set{}, err
	}
	return applyFilters(set, cfg)
}

func newLogger(cmd *cobra.Command, cfg config.Config) logging.Logger {
	if !cfg.Debug {
		return logging.NullLogger()
	}
	return logging.New(cmd.ErrOrStderr())
}

func printWarnings(cmd *cobra.Command, warnings []registry.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
