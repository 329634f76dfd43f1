package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Detect().String())
			return err
		},
	}
}
