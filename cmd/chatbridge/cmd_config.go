package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/leofalp/chatbridge/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return errors.New("no config path; pass --config")
		}
		if _, err := os.Stat(cfgPath); err == nil {
			return fmt.Errorf("%s already exists", cfgPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := config.Save(config.Default(), cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (secrets masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		masked := *cfg
		masked.Gemini.APIKey = maskSecret(masked.Gemini.APIKey)
		masked.Liaobots.APIKey = maskSecret(masked.Liaobots.APIKey)
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(masked)
	},
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
