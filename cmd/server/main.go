// Package main implements the entry point for the inkforge API server,
// which manages provider accounts and dispatches image-generation tasks
// against external vendors.
package main

import (
	"context"
	"log"
)

// main is the entry point for the inkforge-api server.
// It initializes configuration, logging, the snapshot store, the provider
// registry and the dispatch runner, then serves HTTP until interrupted.
func main() {
	app, err := newApplication(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
