package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyerfyer/doc-dashboard/api"
	"github.com/fyerfyer/doc-dashboard/api/handler"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(load configLoader) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			gin.SetMode(cfg.Server.Mode)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := setupApplication(ctx, cfg)
			if err != nil {
				return err
			}

			router := api.SetupRouter(
				handler.NewDocumentHandler(app.service),
				handler.NewPreviewHandler(app.service),
			)
			srv := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.logger.WithField("addr", srv.Addr).Info("Server is running")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				app.logger.Info("Shutting down server...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			serveErr := g.Wait()

			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := app.Close(closeCtx); err != nil {
				app.logger.WithError(err).Error("Failed to close dashboard")
			}

			if serveErr != nil {
				app.logger.WithFields(logrus.Fields{"error": serveErr.Error()}).Error("Server stopped with error")
				return serveErr
			}
			app.logger.Info("Server exited")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port, overrides server.port")
	return cmd
}
