package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

var (
	importFromDisk string
	importDisk     string
	exportDisk     string
	exportPath     string
)

// catalog import
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import products from the upstream API or from a file on a disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		var src services.Source = services.NewHTTPSource()
		if importFromDisk != "" {
			disk, err := storage.Use(importDisk)
			if err != nil {
				return err
			}
			src = &services.DiskSource{Disk: disk, Path: importFromDisk}
		}

		result, err := rt.Products.Import(cmd.Context(), src)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message())
		return nil
	},
}

// catalog export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every product to a disk in the upstream JSON format",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		disk, err := storage.Use(exportDisk)
		if err != nil {
			return err
		}
		n, err := rt.Products.Export(cmd.Context(), disk, exportPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", n, disk.URL(exportPath))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFromDisk, "from-disk", "", "path of an exported JSON file to import instead of the upstream API")
	importCmd.Flags().StringVar(&importDisk, "disk", "", "disk holding --from-disk (default STORAGE_DISK)")

	exportCmd.Flags().StringVar(&exportDisk, "disk", "", "target disk (default STORAGE_DISK)")
	exportCmd.Flags().StringVar(&exportPath, "path", services.DefaultExportPath, "target path on the disk")
}
