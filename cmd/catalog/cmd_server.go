package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/internal/server"
)

// catalog serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// catalog route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout())
	},
}

func printRoutes(out io.Writer) error {
	// Routes are listed without touching the database.
	products := services.NewProductService(repositories.NewProductRepository(nil), nil)
	k, err := kernel.NewHTTPKernel(products, services.NewHTTPSource())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range k.Routes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
