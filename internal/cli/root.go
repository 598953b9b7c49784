// Package cli implements the docbind command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-docbind/internal/config"
	"github.com/goliatone/go-docbind/internal/logging"
	"github.com/goliatone/go-docbind/internal/storage"
	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/document"
	"github.com/goliatone/go-docbind/pkg/orchestrator"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/renderers/html"
	"github.com/goliatone/go-docbind/pkg/renderers/text"
	"github.com/goliatone/go-docbind/pkg/renderers/tui"
)

// errStorageDisabled reports a command that needs the repository while
// storage.driver is "none".
var errStorageDisabled = errors.New("document storage is disabled (storage.driver=none)")

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     zerolog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "docbind",
		Short:         "Fill medical document templates with variable values",
		Long:          "docbind renders document templates (prescriptions, certificates, referrals) from typed variables and keeps a record of generated documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./docbind.yaml when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(templatesCmd(a))
	root.AddCommand(renderCmd(a))
	root.AddCommand(insertCmd(a))
	root.AddCommand(varsCmd(a))
	root.AddCommand(lintCmd(a))
	root.AddCommand(documentsCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(migrateCmd(a))
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "docbind: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) catalog() (*catalog.Catalog, error) {
	return catalog.LoadSearchPaths(a.cfg.Templates.ProjectDir, a.cfg.Templates.Dir)
}

// backend opens the configured storage. Local SQLite files are migrated on
// open; other drivers need "docbind migrate".
func (a *app) backend(ctx context.Context) (*storage.Backend, error) {
	backend, err := storage.Open(ctx, a.cfg.Storage, a.logger)
	if err != nil {
		return nil, err
	}
	if a.cfg.Storage.Driver == config.DriverSQLite {
		if err := backend.Migrate(ctx); err != nil {
			backend.Close()
			return nil, err
		}
	}
	return backend, nil
}

func (a *app) repository(ctx context.Context) (document.Repository, func(), error) {
	backend, err := a.backend(ctx)
	if err != nil {
		return nil, nil, err
	}
	if backend.Repository == nil {
		backend.Close()
		return nil, nil, errStorageDisabled
	}
	return backend.Repository, backend.Close, nil
}

// orchestrator wires the renderers. A nil promptOut leaves the interactive
// renderer out.
func (a *app) orchestrator(cat *catalog.Catalog, saver document.Saver, promptOut io.Writer) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()
	registry.MustRegister(text.New())
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(htmlRenderer)
	if promptOut != nil {
		registry.MustRegister(tui.New(tui.WithPromptDriver(tui.NewSurveyDriver(promptOut))))
	}

	options := []orchestrator.Option{
		orchestrator.WithCatalog(cat),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(a.cfg.Render.DefaultRenderer),
		orchestrator.WithFallback(a.cfg.Fallback()),
		orchestrator.WithLogger(a.logger),
	}
	if saver != nil {
		options = append(options, orchestrator.WithSaver(saver))
	}
	return orchestrator.New(options...), nil
}
