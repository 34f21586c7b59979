// Command atl is the ambient entry point around the core: parsing,
// checking, formatting, and running a transformation program against
// source/target resources bound from the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
)

var version = "0.1.0"

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, os.Kill)
	defer stop()

	slog.SetDefault(setupDefaultLogger())

	exitCode := 0
	cli := Setup(ctx, version)
	if err := Execute(ctx, cli, os.Args); err != nil {
		fmt.Printf("Error: %s\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func setupDefaultLogger() *slog.Logger {
	var level slog.LevelVar
	switch strings.ToUpper(os.Getenv("ATL_LOG_LEVEL")) {
	case "DEBUG":
		level.Set(slog.LevelDebug)
	case "WARN":
		level.Set(slog.LevelWarn)
	case "ERROR":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: &level}).WithAttrs([]slog.Attr{
		slog.String("app", "atl"),
		slog.String("version", version),
		slog.String("instance", uuid.NewString()),
	})
	return slog.New(handler)
}
