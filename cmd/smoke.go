package cmd

import (
	"fmt"

	"github.com/Rana718/docprobe/internal/diagnose"
	"github.com/Rana718/docprobe/internal/registration"
	"github.com/spf13/cobra"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Insert the test registration and report both collections",
	Long: `
Insert one fixed test registration into the primary collection, then print
collection names, document counts and every document of the primary and
shadow collections. Only the insert may fail without stopping the run.

Examples:
  docprobe smoke
  docprobe smoke --force --assert
  docprobe smoke --dry-run
  docprobe smoke --collection registrations --shadow registration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if !dryRun && !confirm(cmd, "This inserts a test document. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "❌ Smoke run cancelled")
			return nil
		}

		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := diagnose.SmokeOptions{
			Collection: s.cfg.Collections.Primary,
			Shadow:     s.cfg.Collections.Shadow,
			Document:   registration.TestRecord(),
			SkipInsert: dryRun,
		}
		if c, _ := cmd.Flags().GetString("collection"); c != "" {
			opts.Collection = c
		}
		if c, _ := cmd.Flags().GetString("shadow"); c != "" {
			opts.Shadow = c
		}
		opts.Assert, _ = cmd.Flags().GetBool("assert")

		if opts.Collection == opts.Shadow {
			return fmt.Errorf("--collection and --shadow must differ, both are %q", opts.Collection)
		}

		rep, err := diagnose.NewRunner(s.adapter, newPrinter(cmd)).Smoke(s.ctx, opts)
		if err != nil {
			return err
		}
		if opts.Assert && !dryRun && !rep.Landed() {
			return fmt.Errorf("write did not land in %s", opts.Collection)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(smokeCmd)
	smokeCmd.Flags().String("collection", "", "collection to insert into (default collections.primary)")
	smokeCmd.Flags().String("shadow", "", "similarly-named collection to compare (default collections.shadow)")
	smokeCmd.Flags().Bool("dry-run", false, "skip the insert")
	smokeCmd.Flags().Bool("assert", false, "fail unless the write landed in the target collection only")
}
