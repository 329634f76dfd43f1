package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bgricker/apismoke/internal/config"
	"github.com/bgricker/apismoke/internal/logging"
	"github.com/bgricker/apismoke/internal/mockapi"
)

func newMockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a local stand-in for the registered endpoints",
		RunE:  runMock,
	}
	cmd.Flags().String("listen", mockapi.DefaultAddress, "address to listen on")
	cmd.Flags().String("prefix", "", "path prefix for every route, e.g. /api/v1.0")
	return cmd
}

func runMock(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := loadEndpoints(root, cfg)
	if err != nil {
		return err
	}
	printWarnings(cmd, set.Warnings)

	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return fmt.Errorf("parse --listen: %w", err)
	}
	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return fmt.Errorf("parse --prefix: %w", err)
	}

	token := cfg.Token
	if config.IsPlaceholderToken(token) {
		token = ""
	}

	logger := newLogger(cmd, cfg)
	handler := mockapi.NewHandler(set.Endpoints, mockapi.Options{
		Token:      token,
		PathPrefix: prefix,
		Logger:     logging.WithPrefix(logger, "mockapi: "),
	})
	srv := mockapi.NewServer(handler, mockapi.ServerOptions{
		Addr:   listen,
		Logger: logging.WithPrefix(logger, "mockapi: "),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mock API serving %d endpoints at %s%s\n", len(set.Endpoints), srv.URL(), prefix)
	if token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Accepting any bearer token")
	}

	<-ctx.Done()
	if err := srv.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop mock server: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Mock API stopped")
	return nil
}
