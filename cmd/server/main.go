package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/config"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/logging"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/server"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	port := flag.String("port", "", "Server port (overrides PORT)")
	recipePath := flag.String("recipe", "", "Recipe manifest (overrides RECIPE_PATH)")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *recipePath != "" {
		cfg.Recipe.Path = *recipePath
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		_ = srv.Close()
		os.Exit(1)
	}
	_ = srv.Close()
}
