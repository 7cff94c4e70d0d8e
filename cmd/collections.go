package cmd

import (
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
)

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"ls"},
	Short:   "List collections with document counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out := newPrinter(cmd)
		names, err := s.adapter.ListCollectionNames(s.ctx)
		if err != nil {
			return err
		}

		out.Heading("Database: %s", s.adapter.DatabaseName())
		if len(names) == 0 {
			out.Info("No collections")
			return nil
		}
		for _, name := range names {
			n, err := s.adapter.CountDocuments(s.ctx, name, bson.M{})
			if err != nil {
				return err
			}
			out.Line("  "+name, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}
