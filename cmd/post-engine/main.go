// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the post-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/post-engine/internal/config"
	"github.com/pdiddy/post-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the post-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "post-engine",
	Short: "Research-grounded social post generation",
	Long: `post-engine turns a topic into a social post draft. It gathers recent news,
extracts talking points, drafts the post, checks it for invented facts,
rewrites it toward the target length and suggests an image prompt.

Credentials come from the environment (OPENROUTER_API_KEY, GEMINI_API_KEY,
NEWS_API_KEY, GNEWS_API_KEY), a .env file, post-engine.yaml, or files in
.secrets/ named after the key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, nil)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", secrets.Names(s))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./post-engine.yaml or ~/.config/post-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().StringSlice("models", nil, "ordered candidate models (provider:model or OpenRouter id)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("gateway.models", rootCmd.PersistentFlags().Lookup("models"))
}

func initConfig() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("post-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "post-engine"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
