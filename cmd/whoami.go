package cmd

import (
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := newPrinter(cmd)
		u, err := filestore.New(cfg.DataDir).LoadCurrentUser()
		if err != nil {
			return err
		}
		if u == nil {
			out.Info("Not logged in")
			return nil
		}
		out.Line("Email", u.Email)
		out.Line("Name", u.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
