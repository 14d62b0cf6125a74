package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"merchfinder/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the merchandise search HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		var cachePing api.Pinger
		if app.redisCache != nil {
			cachePing = app.redisCache
		}
		server := api.NewServer(app.cfg, app.coordinator, app.registry, cachePing, app.logger)

		go func() {
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				app.logger.Fatal("could not start server", zap.Error(err))
			}
		}()

		app.logger.Info("server started", zap.String("port", app.cfg.ServerPort))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		app.logger.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			app.logger.Error("server forced to shutdown", zap.Error(err))
		}

		app.logger.Info("server exiting")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
