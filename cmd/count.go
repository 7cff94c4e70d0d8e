package cmd

import (
	"fmt"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count <collection>",
	Short: "Count documents in a collection",
	Long: `
Count documents in a collection, optionally matching an extended JSON filter.

Examples:
  docprobe count userdetail
  docprobe count userdetail --filter '{"type": "user_registration"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("filter")
		filter, err := mongodb.ParseFilter(raw)
		if err != nil {
			return err
		}

		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.adapter.CountDocuments(s.ctx, args[0], filter)
		if err != nil {
			return err
		}
		newPrinter(cmd).Line(fmt.Sprintf("Documents in %s", args[0]), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().String("filter", "", "extended JSON filter")
}
