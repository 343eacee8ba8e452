// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the quadbench CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quadbench/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the quadbench CLI.
var rootCmd = &cobra.Command{
	Use:   "quadbench",
	Short: "Benchmark numerical quadrature methods",
	Long: `quadbench compares seven numerical integration methods (left, right, and
midpoint rectangles, the trapezoidal rule, Simpson's 1/3 and 3/8 rules, and
Monte Carlo) on integrands with known exact values across a sweep of interval
counts. It records each method's result, absolute error, and execution time
to a CSV table for plotting, and can keep runs in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logging.Init(level, viper.GetString("log.format"), os.Stderr)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./quadbench.yaml or ~/.config/quadbench/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("quadbench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "quadbench"))
		}
	}

	viper.SetEnvPrefix("QUADBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
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
