package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syntra-bizops/config"
	"syntra-bizops/internal/app"
	"syntra-bizops/internal/gateway"
	"syntra-bizops/internal/gateway/handlers"
	"syntra-bizops/internal/gateway/middleware"
	"syntra-bizops/internal/rpc"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
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

	var ops *rpc.Client
	if cfg.Server.OpsAddr != "" {
		ops, err = rpc.Dial(cfg.Server.OpsAddr)
		if err != nil {
			log.Warnf("Operations service unavailable: %v", err)
		} else {
			defer ops.Close()
		}
	}

	rateLimit, err := middleware.RateLimit(cfg.Server.RateLimit)
	if err != nil {
		log.Fatalf("Failed to configure rate limit: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(rateLimit)

	gateway.RegisterRoutes(r, []byte(cfg.Auth.JWTSecret), gateway.Handlers{
		User:       handlers.NewUserHTTPHandler(application.Users),
		Attendance: handlers.NewAttendanceHTTPHandler(application.Attendance),
		Inventory:  handlers.NewInventoryHTTPHandler(application.Inventory),
		POS:        handlers.NewPOSHTTPHandler(application.POS),
		HR:         handlers.NewHRHTTPHandler(application.HR),
		Analytics:  handlers.NewAnalyticsHTTPHandler(application.Analytics),
		Messages:   handlers.NewMessageHTTPHandler(application.Messages),
	})

	r.GET("/health", healthCheckHandler(application))
	r.GET("/health/detailed", detailedHealthCheckHandler(application, ops, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
}

func healthCheckHandler(application *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := application.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Unix(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	}
}

func detailedHealthCheckHandler(application *app.App, ops *rpc.Client, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		services := gin.H{}

		if err := application.Ping(ctx); err != nil {
			log.WithError(err).Warn("database health check failed")
			services["database"] = "unavailable"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			services["database"] = "available"
		}

		if ops != nil {
			if ok, err := ops.Serving(ctx); err != nil || !ok {
				services["operations"] = "unavailable"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				services["operations"] = "available"
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"services":  services,
			"timestamp": time.Now().Unix(),
		})
	}
}
