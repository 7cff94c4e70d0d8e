package cmd

import (
	"context"

	"github.com/Rana718/docprobe/internal/diagnose"
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check credentials and record the current user",
	Long: `
Look the user up in the primary collection, falling back to the local file
store, and write data_dir/current_user.txt on success. Stored passwords may
be plain text or bcrypt hashes.

Examples:
  docprobe login --email ann@example.com --password secret1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
		defer cancel()

		store, closeStore := reachableStore(ctx, cmd, cfg)
		defer closeStore()

		_, err = diagnose.NewRunner(store, newPrinter(cmd)).Login(ctx, diagnose.LoginOptions{
			Files:      filestore.New(cfg.DataDir),
			Collection: cfg.Collections.Primary,
			Email:      email,
			Password:   password,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().String("email", "", "user email")
	loginCmd.Flags().String("password", "", "user password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}
