package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Rana718/docprobe/internal/diagnose"
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/Rana718/docprobe/internal/logger"
	"github.com/Rana718/docprobe/internal/registration"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a user in MongoDB and the local file store",
	Long: `
Validate and store a user registration. The record goes to the primary
collection when MongoDB answers a TCP probe, and always to the local file
store under data_dir.

Examples:
  docprobe register --email ann@example.com --password secret1 --name Ann
  docprobe register --email ann@example.com --password secret1 --name Ann --hash`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		hash, _ := cmd.Flags().GetBool("hash")

		rec, err := registration.New(email, password, name, time.Now())
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
		defer cancel()

		store, closeStore := reachableStore(ctx, cmd, cfg)
		defer closeStore()

		rep, err := diagnose.NewRunner(store, newPrinter(cmd)).Register(ctx, diagnose.RegisterOptions{
			Files:      filestore.New(cfg.DataDir),
			Collection: cfg.Collections.Primary,
			Record:     rec,
			Hash:       hash,
		})
		if err != nil {
			return err
		}
		logger.L().Info("registered", zap.String("email", rep.Record.Email), zap.Bool("mongo", rep.StoredInMongo()))
		if !rep.StoredInMongo() {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠️  Registration stored locally only")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().String("email", "", "user email")
	registerCmd.Flags().String("password", "", fmt.Sprintf("user password (at least %d characters)", registration.MinPasswordLength))
	registerCmd.Flags().String("name", "", "user name")
	registerCmd.Flags().Bool("hash", false, "store a bcrypt hash instead of the plain password")
}
