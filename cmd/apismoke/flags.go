package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	stringFlags := []struct {
		name string
		dst  *config.StringFlag
	}{
		{"base-url", &values.BaseURL},
		{"token", &values.Token},
		{"user-id", &values.UserID},
		{"output", &values.Output},
		{"format", &values.Format},
		{"color", &values.Color},
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetString(f.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", f.name, err)
		}
		*f.dst = config.StringFlag{Value: v, Set: true}
	}

	sliceFlags := []struct {
		name string
		dst  *config.SliceFlag
	}{
		{"endpoints", &values.Endpoints},
		{"only", &values.Only},
		{"exclude", &values.Exclude},
		{"category", &values.Categories},
	}
	for _, f := range sliceFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetStringArray(f.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", f.name, err)
		}
		*f.dst = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("fail-on-http-error") {
		v, err := flags.GetBool("fail-on-http-error")
		if err != nil {
			return values, fmt.Errorf("parse --fail-on-http-error: %w", err)
		}
		values.FailOnHTTPError = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("debug") {
		v, err := flags.GetBool("debug")
		if err != nil {
			return values, fmt.Errorf("parse --debug: %w", err)
		}
		values.Debug = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("delay") {
		v, err := flags.GetDuration("delay")
		if err != nil {
			return values, fmt.Errorf("parse --delay: %w", err)
		}
		values.Delay = config.DurationFlag{Value: v, Set: true}
	}

	return values, nil
}
