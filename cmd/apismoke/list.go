package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/config"
	"github.com/bgricker/apismoke/internal/output"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered endpoints grouped by category",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := loadEndpoints(root, cfg)
	if err != nil {
		return err
	}

	if len(set.Endpoints) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching endpoints")
		return nil
	}

	out := cmd.OutOrStdout()
	switch cfg.Format {
	case config.FormatJSON:
		return output.NewJSON(out).RenderList(set)
	default:
		return output.NewPretty(out, output.ColorEnabled(cfg.Color, out)).RenderList(set)
	}
}
