// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the evo-predict CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/namesty/evo.predict/internal/logging"
	"github.com/namesty/evo.predict/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// logger is built from the log.* configuration before any command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the evo-predict CLI.
var rootCmd = &cobra.Command{
	Use:   "evo-predict",
	Short: "Research and forecast prediction-market questions",
	Long: `evo-predict evaluates a prediction-market question, researches it on the
web (search, scrape, condense), and asks a language model for a probability
that the market resolves "Yes".

Each pipeline stage is also available on its own: evaluate, research,
search and scrape. Network calls are cached in a local SQLite database;
use the cache subcommand to inspect or clear it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		l, err := logging.New(loadConfig().Log)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./evo-predict.yaml or ~/.config/evo-predict/evo-predict.yaml)")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of API key files")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.Bool("no-cache", false, "bypass the call cache")
	pf.String("cache-path", "", "SQLite file backing the call cache")

	viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("cache.disabled", pf.Lookup("no-cache"))
	viper.BindPFlag("cache.path", pf.Lookup("cache-path"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("evo-predict")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "evo-predict"))
		}
	}

	viper.SetEnvPrefix("EVO_PREDICT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
