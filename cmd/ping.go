package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/probe"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Probe every host over TCP, then ping through the driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbURL := databaseURL(cmd, cfg)
		out := newPrinter(cmd)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
		defer cancel()

		out.Info("Probing %s", maskDBURL(dbURL))
		results, err := probe.Check(ctx, dbURL, cfg.Database.ProbeTimeout)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.OK() {
				out.Success("✅ %s reachable (%s)", r.Addr, r.Latency.Round(time.Microsecond))
			} else {
				out.Error("❌ %s unreachable: %v", r.Addr, r.Err)
			}
		}
		if !probe.AnyReachable(results) {
			return fmt.Errorf("no MongoDB host reachable")
		}

		adapter := mongodb.New()
		if err := adapter.Connect(ctx, dbURL, databaseName(cmd, cfg, dbURL)); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		defer adapter.Close(context.Background())

		start := time.Now()
		if err := adapter.Ping(ctx); err != nil {
			return fmt.Errorf("driver ping failed: %w", err)
		}
		out.Success("✅ Driver ping ok in %s (database %s)", time.Since(start).Round(time.Microsecond), adapter.DatabaseName())

		dbs, err := adapter.ListDatabaseNames(ctx)
		if err != nil {
			out.Error("❌ listDatabases failed: %v", err)
		} else {
			out.Line("Databases", dbs)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
