package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/config"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/logging"
	"github.com/GriffinCanCode/terminus-math/internal/recipe"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.LoadOrDefault()

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		logger:         logger.Logger,
		runner:         recipe.ExecRunner{},
		now:            time.Now,
		defaultRecipe:  cfg.Recipe.Path,
		defaultVersion: cfg.Recipe.Version,
	}
	code := a.run(ctx, os.Args[1:])

	stop()
	_ = logger.Sync()
	os.Exit(code)
}
