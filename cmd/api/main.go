package main

import (
	"log"
	"os"

	_ "game-upload-api/docs"
	"game-upload-api/internal/config"
	"game-upload-api/internal/server"
)

// @title Game Upload API
// @version 1.0
// @description Presigned upload sessions for game builds and gameplay videos, with server-side video concatenation.
// @BasePath /
func main() {
	// Set up logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetPrefix("[GameUpload] ")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.PrintConfig()

	// Create server
	srv := server.New(cfg)

	// Initialize server
	if err := srv.Initialize(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	// Start server
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
