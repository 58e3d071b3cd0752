package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/domain"
	"github.com/ponyo877/roomchat/server/repository"
	"github.com/ponyo877/roomchat/server/usecase"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "roomchat",
	Short:         "Multi-room chat server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)
		slog.SetDefault(logger)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	bindFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg domain.Config, logger *slog.Logger) error {
	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	files, err := repository.NewFileStore(cfg.RoomsDir)
	if err != nil {
		return err
	}
	rp := repository.NewRepository(db)
	uc, err := usecase.NewUsecase(cfg, rp, files, logger)
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	listener := adaptor.NewListener(uc, cfg.WriteTimeout, logger)
	errCh := make(chan error, 3)
	go func() {
		errCh <- listener.Serve(ctx, lis)
	}()

	if cfg.AdminAddress != "" {
		alis, err := net.Listen("tcp", cfg.AdminAddress)
		if err != nil {
			return fmt.Errorf("failed to listen for admin: %w", err)
		}
		s, hs := adaptor.NewGRPCServer(adaptor.NewAdaptor(uc, logger), logger)
		go func() {
			logger.Info("admin server listening", "address", alis.Addr().String())
			errCh <- s.Serve(alis)
		}()
		defer func() {
			hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			s.GracefulStop()
		}()
	}

	if cfg.WebSocketAddress != "" {
		wsHandler := adaptor.NewWebSocketHandler(ctx, uc, cfg.AllowedOrigins, cfg.WriteTimeout, logger)
		hsrv := adaptor.NewHTTPServer(cfg.WebSocketAddress, wsHandler)
		go func() {
			logger.Info("websocket server listening", "address", cfg.WebSocketAddress)
			if err := hsrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			hsrv.Shutdown(shutdownCtx)
			wsHandler.Wait()
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}
	uc.Shutdown("")
	lis.Close()
	listener.Wait()
	return err
}
