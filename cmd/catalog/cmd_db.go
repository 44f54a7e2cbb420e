package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// catalog migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations...")
		_, err := migration.New(database.DB).WithOutput(cmd.OutOrStdout()).Run()
		return err
	},
}

// catalog migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch...")
		_, err := migration.New(database.DB).WithOutput(cmd.OutOrStdout()).Rollback()
		return err
	},
}

// catalog migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		return migration.New(database.DB).WithOutput(cmd.OutOrStdout()).PrintStatus()
	},
}

// catalog seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders...")
		return seeders.RunAll(cmd.Context(), database.DB, cmd.OutOrStdout())
	},
}
