package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syntra-bizops/config"
	"syntra-bizops/internal/app"
	"syntra-bizops/internal/rpc"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfg := config.LoadConfig()
	log := config.NewLogger(cfg.Log)

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	application, err := app.New(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer application.Close()

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	ops := rpc.NewOperationsServer(application.Attendance, application.POS, application.HR)
	s, hs := rpc.NewServer(ops, []byte(cfg.Auth.JWTSecret), log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down operations service")
		hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		s.GracefulStop()
	}()

	log.Infof("Operations service listening on :%s", cfg.Server.GRPCPort)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
