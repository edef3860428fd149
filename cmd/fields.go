package cmd

import (
	"fmt"

	"refraction/core/config"
	"refraction/core/lighthouse"
	"refraction/core/logger"
	"refraction/feature/tickets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fieldsQuery string

// fieldsCmd prints the fields discovered for a query without touching the grid.
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the ticket fields a query returns",
	Long: `Fetch the tickets matching a query and print every field name in discovery order.
Useful for writing a header row that selects and orders columns.`,
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsQuery, "query", "q", "", "Lighthouse search query (prompted when omitted on a terminal)")
	RootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".", configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	query, err := resolveQuery(cmd, fieldsQuery)
	if err != nil {
		return err
	}

	fetcher, err := lighthouse.NewClient(cfg.Lighthouse)
	if err != nil {
		return fmt.Errorf("failed to create lighthouse client: %w", err)
	}

	// No grid backend is needed to discover fields
	svc := tickets.NewService(fetcher, cfg.Grid, tickets.Backends{}, l)
	report, err := svc.Fields(cmd.Context(), query)
	if err != nil {
		return err
	}

	l.Info("Discovered fields", zap.Int("tickets", report.Tickets), zap.Int("fields", len(report.Fields)))
	out := cmd.OutOrStdout()
	for _, name := range report.Fields {
		fmt.Fprintln(out, name)
	}
	return nil
}
