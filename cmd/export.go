package cmd

import (
	"fmt"

	"github.com/Rana718/docprobe/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [collection...]",
	Short: "Export collections to a file",
	Long: `
Export collections (default: every collection in the database) to
export_path. Supported formats: json (default), csv, yaml, sqlite

Examples:
  docprobe export
  docprobe export --sqlite
  docprobe export userdetail userdetails --csv
  docprobe export --yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := export.FormatJSON
		if csv, _ := cmd.Flags().GetBool("csv"); csv {
			format = export.FormatCSV
		} else if yml, _ := cmd.Flags().GetBool("yaml"); yml {
			format = export.FormatYAML
		} else if sqlite, _ := cmd.Flags().GetBool("sqlite"); sqlite {
			format = export.FormatSQLite
		}

		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		colls := args
		if len(colls) == 0 {
			if colls, err = s.adapter.ListCollectionNames(s.ctx); err != nil {
				return err
			}
		}

		exportPath, err := export.PerformExport(s.ctx, s.adapter, s.adapter.DatabaseName(), colls, s.cfg.ExportPath, format)
		if err != nil {
			return err
		}

		out := newPrinter(cmd)
		if exportPath != "" {
			out.Success("✅ Export completed: %s", exportPath)
		} else {
			out.Info("No export created (database is empty)")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolP("json", "j", false, "Export as JSON (default)")
	exportCmd.Flags().BoolP("csv", "c", false, "Export as CSV")
	exportCmd.Flags().BoolP("yaml", "y", false, "Export as YAML")
	exportCmd.Flags().BoolP("sqlite", "s", false, "Export as SQLite")
}
