package cmd

import (
	"errors"
	"fmt"
	"groupstatus/output"
	"groupstatus/storage"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"groupstatus/config"
)

var (
	exportFormat string
	exportRunID  string
	exportOutput string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored fetch run from SQLite to CSV/Excel/text",
	Long: `Export the rows of one stored fetch run.

Without --run the latest run is exported. Rows keep the order they were fetched in.

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export the latest run to CSV
  groupstatus export --db ./groupstatus.db --output ./status.csv

  # Export a specific run to Excel
  groupstatus export --run 6f1c0c1e-7f55-4a6b-9e0b-0d9f4f8f4b11 --output ./status.xlsx

  # Print the latest run as a chat message
  groupstatus export --format message
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(resolveDBPath(exportDBPath), exportRunID, exportFormat, exportOutput, os.Stdout)
	},
}

func runExport(dbPath, runID, format, outputPath string, stdout io.Writer) error {
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(runID)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) && strings.TrimSpace(runID) == "" {
			return fmt.Errorf("no stored runs in %s; run fetch with --db first", dbPath)
		}
		return fmt.Errorf("load run %q: %w", runID, err)
	}
	rows, err := store.ListRows(run.ID)
	if err != nil {
		return err
	}

	format = resolveOutputFormat(format, outputPath)
	writer, err := output.WriterForFormat(format, stdout)
	if err != nil {
		return err
	}
	if err := writer.Write(outputPath, rows); err != nil {
		return err
	}
	if strings.TrimSpace(outputPath) != "" {
		fmt.Fprintf(stdout, "Export completed. Run: %s, Rows: %d, Format: %s, File: %s\n", run.ID, len(rows), format, outputPath)
	}
	return nil
}

// resolveOutputFormat prefers an explicit format, then the output extension,
// and falls back to a text table.
func resolveOutputFormat(format, path string) string {
	if strings.TrimSpace(format) != "" {
		return format
	}
	if strings.TrimSpace(path) == "" {
		return "text"
	}
	return detectExportFormat(path)
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "text"
	}
}

// resolveDBPath returns the explicit path or the configured storage.db_path.
func resolveDBPath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if configured := strings.TrimSpace(viper.GetString(config.KeyStorageDBPath)); configured != "" {
		return configured
	}
	return "./groupstatus.db"
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportRunID, "run", "", "Run ID to export (default: latest run)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: text|message|csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout for text/message)")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: storage.db_path from config)")
}
