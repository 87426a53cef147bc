// Package main is the entry point for the lyrictune API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/lyrictune/internal/config"
	"github.com/james-see/lyrictune/internal/logger"
	"github.com/james-see/lyrictune/pkg/api"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "Server port")
	flag.Parse()
	cfg.Port = *port

	flush := logger.Init(cfg, releaseVersion)
	defer flush()

	fmt.Printf("Starting lyrictune API server on port %s...\n", cfg.Port)
	fmt.Printf("Swagger docs available at http://localhost:%s/swagger/index.html\n", cfg.Port)

	if err := api.StartServer(cfg); err != nil {
		logger.Error("Server error", err, nil)
		flush()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
