package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aerayy/fithub-backend/internal/auth"
	"github.com/aerayy/fithub-backend/internal/config"
)

var (
	tokenUser int64
	tokenTTL  time.Duration
)

// tokenCmd mints bearer tokens for local testing; accounts are issued by
// another service in production.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUser <= 0 {
			return fmt.Errorf("--user must be a positive user id")
		}
		cfg, err := config.Load(paths)
		if err != nil {
			return err
		}
		tok, err := auth.New(cfg.Auth.JWTSecret, nil, cfg.Database.QueryTimeout).Sign(tokenUser, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUser, "user", 0, "User id to put in the sub claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTTL, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
