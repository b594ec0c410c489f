package main

import (
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fraperfra/TELEMARKETING/internal/config"
	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduling gRPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := model.AutoMigrate(a.db); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
		}

		shutdownTimeout, err := config.DurationOrDefault(cfg.Server.ShutdownTimeout, config.DefaultServerShutdownTimeout)
		if err != nil {
			return fmt.Errorf("server.shutdown_timeout: %w", err)
		}

		log := slog.Default()
		grpcServer, health := service.NewGRPCServer(service.NewSchedulingService(a.scheduler, log), log)

		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddr, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			slog.Info("Scheduling gRPC server listening", "addr", lis.Addr().String(), "timezone", a.scheduler.Location().String())
			serveErr <- grpcServer.Serve(lis)
		}()

		select {
		case err := <-serveErr:
			return fmt.Errorf("grpc serve: %w", err)
		case <-ctx.Done():
		}

		slog.Info("Shutting down gRPC server")
		health.Shutdown()

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(shutdownTimeout):
			slog.Warn("Graceful stop timed out, closing connections", "timeout", shutdownTimeout)
			grpcServer.Stop()
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply migrations before serving")
	serveCmd.Flags().String("server.grpc_addr", config.DefaultServerGRPCAddr, "gRPC listen address")
	rootCmd.AddCommand(serveCmd)
}

