package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/config"
	"github.com/bgricker/apismoke/internal/invoker"
	"github.com/bgricker/apismoke/internal/logging"
	"github.com/bgricker/apismoke/internal/output"
	"github.com/bgricker/apismoke/internal/report"
	"github.com/bgricker/apismoke/internal/runner"
	"github.com/bgricker/apismoke/internal/version"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Call every runnable endpoint once and write the report",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := loadEndpoints(root, cfg)
	if err != nil {
		return err
	}
	printWarnings(cmd, set.Warnings)

	if len(set.Endpoints) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching endpoints")
		return nil
	}

	out := cmd.OutOrStdout()
	jsonMode := cfg.Format == config.FormatJSON
	pretty := output.NewPretty(out, output.ColorEnabled(cfg.Color, out))
	if jsonMode {
		// stdout carries only the document; instructions go to stderr
		errOut := cmd.ErrOrStderr()
		pretty = output.NewPretty(errOut, output.ColorEnabled(cfg.Color, errOut))
	} else if err := pretty.RenderHeader(cfg.BaseURL, cfg.Token); err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)
	inv := invoker.New(invoker.Options{
		BaseURL:         cfg.BaseURL,
		Token:           cfg.Token,
		Logger:          logging.WithPrefix(logger, "invoker: "),
		UserAgent:       version.Detect().UserAgent(),
		FailOnHTTPError: cfg.FailOnHTTPError,
	})

	var progress runner.Progress
	if !jsonMode {
		progress = pretty
	}
	delay := cfg.Delay
	if delay == 0 {
		delay = -1
	}
	r := runner.New(runner.Options{
		Invoker:  inv,
		Token:    cfg.Token,
		Delay:    delay,
		Progress: progress,
		Logger:   logging.WithPrefix(logger, "runner: "),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := r.Run(ctx, set.Endpoints)
	if err != nil {
		if errors.Is(err, config.ErrPlaceholderToken) {
			if renderErr := pretty.RenderPlaceholderToken(); renderErr != nil {
				return renderErr
			}
		}
		return err
	}
	if err := pretty.Err(); err != nil {
		return err
	}

	doc := report.NewDocument(&results, time.Now())
	if jsonMode {
		if err := output.NewJSON(out).Render(doc); err != nil {
			return err
		}
	} else if err := pretty.RenderReport(&results); err != nil {
		return err
	}

	if err := output.WriteReportFile(cfg.Output, doc); err != nil {
		return err
	}
	if !jsonMode {
		if err := pretty.RenderSaved(cfg.Output); err != nil {
			return err
		}
	}

	if n := len(results.Failing); n > 0 {
		return fmt.Errorf("%d endpoint(s) failing", n)
	}
	return nil
}
