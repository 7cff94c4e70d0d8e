package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Rana718/docprobe/internal/config"
	"github.com/Rana718/docprobe/internal/logger"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║   ██████╗  ██████╗  ██████╗██████╗ ██████╗   ║",
		"║   ██╔══██╗██╔═══██╗██╔════╝██╔══██╗██╔══██╗  ║",
		"║   ██║  ██║██║   ██║██║     ██████╔╝██████╔╝  ║",
		"║   ██║  ██║██║   ██║██║     ██╔═══╝ ██╔══██╗  ║",
		"║   ██████╔╝╚██████╔╝╚██████╗██║     ██║  ██║  ║",
		"║   ╚═════╝  ╚═════╝  ╚═════╝╚═╝     ╚═╝  ╚═╝  ║",
		"║                                              ║",
		"║     where did my write go? MongoDB probes    ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("              ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "docprobe",
	Short: "Diagnose where user-registration writes land in MongoDB",
	Long: `
docprobe inserts, counts and dumps documents to show whether registration
writes reach the intended collection (userdetail) or a similarly-named one
(userdetails).

Connection URL: --db flag, then $MONGODB_URL (see database.url_env),
then database.url in docprobe.config.json, then mongodb://localhost:27017.`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if _, err := logger.Init(verbose); err != nil {
			return fmt.Errorf("failed to initialise logger: %w", err)
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("docprobe version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute(ctx context.Context) error {
	defer logger.Sync()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().String("db", "", "MongoDB connection URL (overrides config/env)")
	rootCmd.PersistentFlags().String("database", "", "database name (overrides config and URL path)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.PersistentFlags().Bool("verbose", false, "Debug logging on stderr")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".json"))
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := config.BindEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: failed to read config: %v\n", err)
		}
	}
}
