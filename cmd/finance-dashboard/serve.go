package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/internal/server"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				srvCfg.Listen.Address = address
			}

			logger := a.logger
			if srvCfg.Logging != (config.LoggingConfig{}) {
				if logger, err = initializeLogger(srvCfg.Logging, a.logLevel); err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}
			a.logger = logger

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, closeGateway, err := openWorkspace(ctx, a)
			if err != nil {
				return err
			}
			defer closeGateway()

			if err := ws.LoadError(); err != nil {
				logger.Error("serving defaults, edits will not be saved until the model loads",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
			}

			srv := &http.Server{
				Addr:              srvCfg.Listen.Address,
				Handler:           server.NewHandler(logger, ws, int64(srvCfg.Limits.EditBody), version),
				ReadHeaderTimeout: srvCfg.Listen.ReadHeaderTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening",
					zap.String("op", "main.serve"),
					zap.String("address", srvCfg.Listen.Address),
					zap.Stringer("edit_body_limit", srvCfg.Limits.EditBody),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.Limits.ShutdownGrace)
			defer cancel()
			logger.Info("shutting down", zap.String("op", "main.serve"))
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
