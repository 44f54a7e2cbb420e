// Command catalog runs the product catalog service and its maintenance
// tasks.
//
//	catalog serve                  # start the HTTP server
//	catalog migrate                # run pending migrations
//	catalog migrate:rollback
//	catalog migrate:status
//	catalog seed                   # import the upstream catalog
//	catalog import [--from-disk exports/products.json]
//	catalog export [--disk s3] [--path exports/products.json]
//	catalog route:list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/shashiranjanraj/catalog/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Product catalog service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
