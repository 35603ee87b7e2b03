package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"findit/internal/app"
	"findit/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(config.Load())
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	err = application.Run(ctx)
	if closeErr := application.Close(); closeErr != nil {
		log.Printf("Error during shutdown: %v", closeErr)
	}
	if err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
