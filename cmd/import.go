package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"refraction/core/config"
	"refraction/core/database"
	"refraction/core/lighthouse"
	"refraction/core/logger"
	"refraction/core/storage"
	"refraction/feature/tickets"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	// Flags for the import command
	importQuery  string
	importDryRun bool
	importReport string
)

// importCmd runs one import.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tickets matching a query into the grid",
	Long: `Fetch the Lighthouse tickets matching a search query and reconcile them into the
configured grid.

If the grid's header cell is blank, every discovered field becomes a column.
Otherwise only the fields named in the header row are written, in that order.

Examples:
  # Import open tickets
  refraction import --query "state:open"

  # Show what would change without saving
  refraction import --query "milestone:next" --dry-run

  # Write a YAML run report
  refraction import --query "state:open" --report run.yaml`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importQuery, "query", "q", "", "Lighthouse search query (prompted when omitted on a terminal)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Reconcile without saving the grid")
	importCmd.Flags().StringVar(&importReport, "report", "", "Write the run report to this YAML file")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".", configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	query, err := resolveQuery(cmd, importQuery)
	if err != nil {
		return err
	}

	svc, err := newService(cfg, l)
	if err != nil {
		return err
	}

	report, err := svc.Import(cmd.Context(), query, importDryRun)
	if report != nil && importReport != "" {
		if writeErr := report.WriteFile(importReport); writeErr != nil {
			l.Error("Failed to write report", zap.Error(writeErr))
		} else {
			l.Info("Report written", zap.String("path", importReport))
		}
	}
	if err != nil {
		return err
	}

	if importDryRun {
		l.Info("Dry-run mode: No changes were saved.")
	}
	return nil
}

// resolveQuery returns the --query flag, or prompts for a query when the flag was not
// given and stdin is a terminal.
func resolveQuery(cmd *cobra.Command, flagValue string) (string, error) {
	if cmd.Flags().Changed("query") {
		return flagValue, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no terminal available for the query prompt (use --query)")
	}

	var query string
	err := huh.NewInput().
		Title("Lighthouse search query").
		Description("e.g. state:open milestone:next").
		Value(&query).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read query: %w", err)
	}
	return strings.TrimSpace(query), nil
}

// newService connects whatever the configured grid backend needs and builds the import service.
func newService(cfg *config.Config, l *zap.Logger) (*tickets.Service, error) {
	fetcher, err := lighthouse.NewClient(cfg.Lighthouse)
	if err != nil {
		return nil, fmt.Errorf("failed to create lighthouse client: %w", err)
	}

	var backends tickets.Backends
	switch cfg.Grid.Backend {
	case tickets.BackendS3:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		backends.Storage = client
		backends.Bucket = cfg.Storage.Bucket
	case tickets.BackendSQL:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		backends.DB = db
	}

	return tickets.NewService(fetcher, cfg.Grid, backends, l), nil
}
