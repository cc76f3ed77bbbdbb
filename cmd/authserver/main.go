package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"authform/internal/auth"
	"authform/internal/config"
	"authform/internal/handlers"
	"authform/internal/k8s"
	"authform/internal/log"
	"authform/internal/metrics"
	"authform/internal/server"

	"github.com/spf13/pflag"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fs := pflag.NewFlagSet("authserver", pflag.ExitOnError)
	cfg := config.BindServer(fs)
	fs.Parse(os.Args[1:])

	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "config", cfg.Fields())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Kubernetes client
	k8sClient, err := k8s.NewClient()
	if err != nil {
		logger.Error("failed to initialize Kubernetes client", err)
		os.Exit(1)
	}
	if err := k8sClient.EnsureNamespace(ctx, cfg.Namespace); err != nil {
		logger.Error("failed to prepare account namespace", err, "namespace", cfg.Namespace)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.SecretKey, cfg.TokenTTL)
	m := metrics.NewAuthMetrics(metrics.DefaultNamespace)

	userHandler := handlers.NewUserHandler(k8sClient, jwtManager, cfg.Namespace, m, logger)
	router := server.NewRouter(jwtManager, userHandler, m, logger)

	if err := server.Run(ctx, server.New(cfg.Addr, router), logger); err != nil {
		logger.Error("server failed", err)
		os.Exit(1)
	}
}
