// Command chatbridge sends a conversation to one of the supported chat
// backends and prints the reply as it streams in.
package main

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/leofalp/chatbridge/internal/config"
	slogobs "github.com/leofalp/chatbridge/providers/observability/slog"
)

var (
	cfgPath      string
	providerFlag string
	logLevelFlag string

	// cfg is loaded once in PersistentPreRunE.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "chatbridge",
	Short:         "Stream chat completions from Gemini or Liaobots",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if providerFlag != "" {
			loaded.DefaultProvider = providerFlag
		}
		if logLevelFlag != "" {
			loaded.LogLevel = logLevelFlag
		}
		cfg = loaded

		level := slogobs.ParseLogLevel(cfg.LogLevel)
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		defaultPath = ""
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "config file path")
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "provider name (overrides default_provider)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: trace, debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
