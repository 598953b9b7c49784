package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docbind/internal/server"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cat, err := a.catalog()
			if err != nil {
				return err
			}
			backend, err := a.backend(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			orch, err := a.orchestrator(cat, backend.Saver(), nil)
			if err != nil {
				return err
			}

			options := []server.Option{
				server.WithLogger(a.logger),
				server.WithAPIVersion(Version),
			}
			if backend.Repository != nil {
				options = append(options, server.WithRepository(backend.Repository))
			}
			return server.New(orch, options...).Start(ctx, addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default server.addr)")
	return cmd
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the document storage schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storage %s is up to date\n", backend.Driver)
			return nil
		},
	}
}
