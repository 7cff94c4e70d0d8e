package cmd

import (
	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [collection...]",
	Short: "Print every document of the given collections",
	Long: `
Print documents as indented extended JSON. Without arguments the primary and
shadow collections are dumped.

Examples:
  docprobe dump
  docprobe dump userdetail --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		colls := args
		if len(colls) == 0 {
			colls = []string{s.cfg.Collections.Primary, s.cfg.Collections.Shadow}
		}
		limit, _ := cmd.Flags().GetInt64("limit")

		out := newPrinter(cmd)
		for _, coll := range colls {
			docs, err := s.adapter.FindDocuments(s.ctx, coll, mongodb.FindOptions{Limit: limit})
			if err != nil {
				return err
			}
			out.Heading("All documents in %s:", coll)
			for _, doc := range docs {
				if err := out.Document(doc); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Int64("limit", 0, "maximum documents per collection (0 = all)")
}
