package cmd

import (
	"fmt"
	"os"

	"refraction/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configFile is an optional YAML/JSON/TOML file merged under environment variables.
var configFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "refraction",
	Short: "Lighthouse ticket importer",
	Long: `Refraction fetches Lighthouse tickets for a search query and reconciles them
into a spreadsheet grid (xlsx file, workbook in S3, or SQL cell table).
Rows are updated in place by ticket number; new tickets fill the first empty rows.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config gives readable CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml); environment variables take precedence")
}
