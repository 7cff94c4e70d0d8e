package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/studio"
	"github.com/spf13/cobra"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Serve a read-only JSON view of the database",
	Long: `
Start a local read-only API for browsing collections and documents.

Endpoints:
  GET /api/health
  GET /api/collections
  GET /api/collections/:name/documents?page=1&limit=50
  GET /api/collections/:name/count

Examples:
  docprobe studio
  docprobe studio --port 3000 --browser`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dbURL := databaseURL(cmd, cfg)
		if flagURL, _ := cmd.Flags().GetString("db"); flagURL != "" {
			fmt.Printf("📊 Using database: %s\n", maskDBURL(dbURL))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)
		defer cancel()

		adapter := mongodb.New()
		if err := adapter.Connect(ctx, dbURL, databaseName(cmd, cfg, dbURL)); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer adapter.Close(context.Background())

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Studio.Port
		}
		port = studio.FindAvailablePort(port)
		browser, _ := cmd.Flags().GetBool("browser")

		server := studio.NewServer(adapter, port)
		go func() {
			<-cmd.Context().Done()
			server.Shutdown()
		}()

		fmt.Printf("🚀 docprobe studio on http://localhost:%d (database %s)\n", port, adapter.DatabaseName())
		return server.Start(browser)
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)
	studioCmd.Flags().IntP("port", "p", 0, "Port to run studio on (default studio.port)")
	studioCmd.Flags().BoolP("browser", "b", false, "Open browser automatically")
}
