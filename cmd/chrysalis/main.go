package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chrysalis-cube/chrysalis/internal/chrisclient"
	"github.com/chrysalis-cube/chrysalis/internal/logging"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

func main() {
	appLogger, err := logging.New(logging.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "cli",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := ports.GenerateCorrelationID()
	ctx := ports.WithCorrelationID(context.Background(), correlationID)

	app := &AppContext{
		Logger:    appLogger,
		Transport: chrisclient.New(30 * time.Second),
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting chrysalis command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if _, reported := err.(errExitNonZero); !reported {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
