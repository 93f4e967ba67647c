package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wasmkit/calchost/internal/config"
	"github.com/wasmkit/calchost/internal/host"
	"github.com/wasmkit/calchost/pkg/calculator"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	list := flag.Bool("list", false, "List loaded components and exit")
	inspect := flag.String("inspect", "", "Print a component's interface and exit")
	componentName := flag.String("component", calculator.WorldName, "Component to invoke")
	a := flag.Uint("a", 0, "First operand")
	b := flag.Uint("b", 0, "Second operand")
	flag.Parse()

	// Initialize logger
	var logger *zap.Logger
	if *logLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	defer logger.Sync()

	logger.Info("Starting calchost",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
	)

	// Load configuration
	cfg, err := config.LoadHostConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	service, err := host.NewService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create host service", zap.Error(err))
	}
	defer service.Close(context.Background())

	if err := service.LoadComponents(ctx); err != nil {
		logger.Fatal("Failed to load components", zap.Error(err))
	}

	if service.MetricsEnabled() {
		server := service.Metrics().Server(cfg.MetricsPort)
		go func() {
			logger.Info("Serving metrics", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil {
				logger.Warn("Metrics server stopped", zap.Error(err))
			}
		}()
		defer server.Close()
	}

	switch {
	case *list:
		for _, comp := range service.Components() {
			fmt.Printf("%s\t%s\t%s\n", comp.Name(), comp.Version(), comp.World())
		}

	case *inspect != "":
		descriptor, err := service.Describe(*inspect)
		if err != nil {
			logger.Fatal("Failed to describe component", zap.Error(err))
		}
		fmt.Printf("world %s (%s)\n", descriptor.WorldID, descriptor.WorldName)
		for _, fn := range descriptor.Functions {
			fmt.Printf("  export %s\n", fn.Signature())
		}

	default:
		sum, err := invokeAdd(ctx, service, *componentName, uint32(*a), uint32(*b))
		if err != nil {
			logger.Fatal("Call failed",
				zap.String("component", *componentName),
				zap.Error(err),
			)
		}
		fmt.Printf("%d + %d = %d\n", uint32(*a), uint32(*b), sum)
	}

	logger.Info("Shutdown complete")
}

func invokeAdd(ctx context.Context, service *host.Service, name string, a, b uint32) (uint32, error) {
	instance, err := service.Instance(ctx, name)
	if err != nil {
		return 0, err
	}
	return calculator.New(instance).Add(ctx, a, b)
}
