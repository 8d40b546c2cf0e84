package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/aerayy/fithub-backend/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a := fx.New(app.CreateApp(paths))
	if err := a.Err(); err != nil {
		return err
	}
	a.Run()
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
