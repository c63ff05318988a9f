package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/millops/config"
	"example.com/millops/internal/document"
	"example.com/millops/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [orders|warehouse|finance|backup]",
	Short: "Export a report or a full document backup",
	Long: `Write one of the CSV reports, or the full document as JSON,
from the configured store to a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (defaults to <report>.csv or backup.json)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	app, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	doc, err := app.repo.Get(context.Background())
	if err != nil {
		return err
	}

	report := args[0]
	out := exportOut
	if out == "" {
		if report == "backup" {
			out = "backup.json"
		} else {
			out = report + ".csv"
		}
	}

	if err := writeReport(report, out, doc); err != nil {
		return err
	}

	log.Info().Str("report", report).Str("file", out).Msg("Export written")
	return nil
}

func writeReport(report, out string, doc *document.Document) error {
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer f.Close()

	switch report {
	case "orders":
		return export.WriteOrderHistoryCSV(f, doc)
	case "warehouse":
		return export.WriteWarehouseCSV(f, doc)
	case "finance":
		return export.WriteFinancialReportCSV(f, doc)
	case "backup":
		return export.WriteBackup(f, doc)
	default:
		return errors.Errorf("unknown report %q", report)
	}
}
