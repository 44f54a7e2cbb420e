// Command server is the plain entry point for container images: it only
// runs the HTTP server. Use cmd/catalog for maintenance commands.
package main

import (
	"os"

	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

func main() {
	if err := server.Start(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
