package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aerayy/fithub-backend/internal/config"
)

var paths = config.DefaultPaths()

var rootCmd = &cobra.Command{
	Use:   "fithub",
	Short: "fithub-backend serves the coaching API",
	Long:  "fithub-backend is the HTTP API for coach discovery, checkout, workout programs, the food catalog and client/coach messaging.",
	// Running without a subcommand starts the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paths.Main, "config", config.DefaultPath, "Path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&paths.Secret, "secret", config.DefaultSecretPath, "Path to config.secret.yaml")
}
