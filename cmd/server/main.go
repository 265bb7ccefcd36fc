package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/api"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/app"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/events"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/version"
)

var logger = diag.CreateLogger()

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn(ctx, "Failed to load .env file")
	}

	appCfg, err := app.LoadConfig()
	if err != nil {
		logger.WithError(err).Error(ctx, "Failed to load app config")
		os.Exit(1)
	}

	diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
		setup.SetLogLevel(appCfg.Log.Level)
		setup.SetLogMode(appCfg.Log.Mode)
	})

	injector := app.BootstrapServices(appCfg)

	if err := injector(func(handlers *api.Handlers, publisher events.Publisher) error {
		defer publisher.Close()

		server := router.NewServer(appCfg.Server.Port, func(r router.Router) {
			r.Use(diag.NewRequestIDMiddleware())
			r.Use(diag.NewLogRequestsMiddleware())
			handlers.Register(r)
		})

		serverErr := make(chan error, 1)
		go func() {
			logger.WithData(diag.MsgData{
				"version": version.Version,
				"gitHash": version.GitHash,
			}).Info(ctx, "Starting %v on %v", version.AppName, server.Addr)
			serverErr <- server.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-serverErr:
			if err != http.ErrServerClosed {
				return err
			}
			return nil
		case sig := <-stop:
			logger.Info(ctx, "Received %v, shutting down", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}); err != nil {
		logger.WithError(err).Error(ctx, "Server failed")
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped")
}
