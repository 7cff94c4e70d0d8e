package cmd

import (
	"time"

	"github.com/Rana718/docprobe/internal/diagnose"
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/Rana718/docprobe/internal/registration"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check local files, the legacy collection and the primary collection",
	Long: `
Report the state of registration data everywhere it may live: the local
fallback files, the legacy collection and the primary collection. With
--register a verification user is inserted and looked up by email.

Examples:
  docprobe verify
  docprobe verify --register --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		register, _ := cmd.Flags().GetBool("register")
		if register && !confirm(cmd, "This inserts a verification user. Continue?") {
			register = false
		}

		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out := newPrinter(cmd)
		out.Info("Connected to %s", maskDBURL(s.url))
		out.Line("Database", s.adapter.DatabaseName())
		out.Line("Collection", s.cfg.Collections.Primary)

		opts := diagnose.VerifyOptions{
			Files:            filestore.New(s.cfg.DataDir),
			Database:         s.adapter.DatabaseName(),
			Collection:       s.cfg.Collections.Primary,
			LegacyDatabase:   s.cfg.Legacy.Database,
			LegacyCollection: s.cfg.Legacy.Collection,
		}
		if n, _ := cmd.Flags().GetInt64("recent"); n > 0 {
			opts.RecentLimit = n
		}
		if register {
			rec := registration.VerificationRecord(time.Now())
			opts.Register = &rec
		}

		return diagnose.NewRunner(s.adapter, out).Verify(s.ctx, opts).Err()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().Bool("register", false, "insert and look up a verification user")
	verifyCmd.Flags().Int64("recent", diagnose.DefaultRecentLimit, "number of recent registrations to show")
}
