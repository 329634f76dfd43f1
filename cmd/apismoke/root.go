package main

import (
	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "apismoke",
		Short:         "Apismoke calls every registered API endpoint once and reports which ones work",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("base-url", config.DefaultBaseURL, "API base URL every endpoint path is joined to")
	persistent.String("token", "", "bearer token sent with every request (or set "+config.TokenEnv+")")
	persistent.String("user-id", config.DefaultUserID, "test user id substituted into request bodies")
	persistent.StringArray("endpoints", nil, "endpoint registry file to load (repeatable)")
	persistent.StringArray("only", nil, "include only endpoints whose name or path matches (repeatable, /regex/ allowed)")
	persistent.StringArray("exclude", nil, "exclude endpoints whose name or path matches (repeatable)")
	persistent.StringArray("category", nil, "include only matching categories (repeatable)")
	persistent.String("output", config.DefaultOutput, "path of the JSON report")
	persistent.String("format", config.FormatPretty, "output format (pretty|json)")
	persistent.String("color", config.ColorAuto, "colorize output (auto|always|never)")
	persistent.Bool("fail-on-http-error", false, "treat responses with status >= 400 as failures")
	persistent.Bool("debug", false, "log requests and responses to stderr")
	persistent.Duration("delay", config.DefaultDelay, "pause after every invoked endpoint")
	_ = persistent.MarkHidden("delay")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newMockCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
