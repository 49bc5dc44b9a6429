package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/bumparena/internal/config"
	"github.com/zeusync/bumparena/internal/injector"
)

func main() {
	settings, err := config.Load(os.Getenv("ARENA_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	app, err := injector.InitializeApp(settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing arena:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error running arena:", err)
		os.Exit(1)
	}
}
