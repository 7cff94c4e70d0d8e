package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/Rana718/docprobe/internal/config"
	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/diagnose"
	"github.com/Rana718/docprobe/internal/logger"
	"github.com/Rana718/docprobe/internal/printer"
	"github.com/Rana718/docprobe/internal/probe"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// session is a connected adapter plus the config it was built from.
type session struct {
	cfg     *config.Config
	adapter *mongodb.Adapter
	url     string
	ctx     context.Context
	cancel  context.CancelFunc
}

func (s *session) Close() {
	s.adapter.Close(context.Background())
	s.cancel()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// databaseURL prefers the --db flag over the config chain.
func databaseURL(cmd *cobra.Command, cfg *config.Config) string {
	if dbURL, _ := cmd.Flags().GetString("db"); dbURL != "" {
		return dbURL
	}
	return cfg.GetDatabaseURL()
}

// databaseName resolves flag, then an explicit database.name, then the URL
// path, then the default name.
func databaseName(cmd *cobra.Command, cfg *config.Config, dbURL string) string {
	if name, _ := cmd.Flags().GetString("database"); name != "" {
		return name
	}
	if viper.IsSet("database.name") {
		return cfg.Database.Name
	}
	if name := mongodb.DatabaseFromURL(dbURL); name != "" {
		return name
	}
	return cfg.Database.Name
}

// connect loads config and opens a MongoDB session bounded by
// database.timeout. Callers must Close it.
func connect(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dbURL := databaseURL(cmd, cfg)
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.Timeout)

	adapter := mongodb.New()
	if err := adapter.Connect(ctx, dbURL, databaseName(cmd, cfg, dbURL)); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to %s: %w", maskDBURL(dbURL), err)
	}

	return &session{cfg: cfg, adapter: adapter, url: dbURL, ctx: ctx, cancel: cancel}, nil
}

// reachableStore connects only when a TCP probe finds a live host. It
// returns a nil Store when MongoDB is unreachable so callers fall back to
// file storage.
func reachableStore(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (diagnose.Store, func()) {
	dbURL := databaseURL(cmd, cfg)

	results, err := probe.Check(ctx, dbURL, cfg.Database.ProbeTimeout)
	if err != nil {
		logger.L().Warn("probe failed", zap.Error(err))
	}
	if !probe.AnyReachable(results) {
		return nil, func() {}
	}

	adapter := mongodb.New()
	if err := adapter.Connect(ctx, dbURL, databaseName(cmd, cfg, dbURL)); err != nil {
		logger.L().Warn("connect failed, using file storage", zap.Error(err))
		return nil, func() {}
	}
	return adapter, func() { adapter.Close(context.Background()) }
}

func newPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout())
}

// askConfirmation reads a y/yes answer from in; force skips the prompt.
func askConfirmation(in io.Reader, out io.Writer, message string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(out, "%s (y/N): ", message)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func confirm(cmd *cobra.Command, message string) bool {
	force, _ := cmd.Flags().GetBool("force")
	return askConfirmation(os.Stdin, cmd.OutOrStdout(), message, force)
}

// maskDBURL hides the password in a connection URL for display.
func maskDBURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.Host == "" {
		if len(dbURL) < 20 {
			return "***"
		}
		return dbURL[:10] + "***" + dbURL[len(dbURL)-10:]
	}
	return u.Redacted()
}
