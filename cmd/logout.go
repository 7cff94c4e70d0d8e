package cmd

import (
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := filestore.New(cfg.DataDir).ClearCurrentUser(); err != nil {
			return err
		}
		newPrinter(cmd).Success("✅ Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
