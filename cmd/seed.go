/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/super-gamer/apiserver/config"
	"github.com/super-gamer/apiserver/internal/db"
	"github.com/super-gamer/apiserver/internal/seed"
	"github.com/super-gamer/apiserver/internal/services"
	"github.com/super-gamer/apiserver/internal/store"
)

// seedCmd creates the initial admin account in the Postgres store.
// Run it once after migrations. The local store backend seeds itself
// on first start.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer conn.Close()

		userService := services.NewUserService(store.NewUserRepository(conn))
		if err := seed.Admin(cmd.Context(), userService, cfg.Admin); err != nil {
			return fmt.Errorf("seed admin failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
