package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salleYaFloor/internal/config"
	authtransport "salleYaFloor/internal/modules/auth/interface"
	notifinfra "salleYaFloor/internal/modules/notifications/infrastructure"
	"salleYaFloor/internal/modules/realtime/application/handler"
	rtusecase "salleYaFloor/internal/modules/realtime/application/usecase"
	rtinfra "salleYaFloor/internal/modules/realtime/infrastructure"
	rttransport "salleYaFloor/internal/modules/realtime/interface"
	"salleYaFloor/internal/modules/reservations/application/usecase"
	resinfra "salleYaFloor/internal/modules/reservations/infrastructure"
	restransport "salleYaFloor/internal/modules/reservations/interface"
	tabletransport "salleYaFloor/internal/modules/tables/interface"
	"salleYaFloor/internal/platform/broker"
	"salleYaFloor/internal/platform/metrics"
	"salleYaFloor/internal/shared/auth"
	"salleYaFloor/internal/shared/logging"
)

func main() {
	// Load .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logCloser, logger, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("store config resolved", slog.String("baseUrl", cfg.Store.BaseURL))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fan-out plumbing.
	hub := rtinfra.NewHub()
	broadcastUC := rtusecase.NewBroadcastUseCase(hub)

	// Store gateway and the shared floor cache it feeds.
	store := resinfra.NewStoreHTTPClient(cfg.Store.BaseURL, cfg.Store.APIKey, cfg.Store.Timeout, nil)
	cache := rtinfra.NewFloorCache()
	listener := rtinfra.NewListener(store, cache, broadcastUC, cfg.Poll.Interval, logger)

	// Customer notifications.
	var email *notifinfra.EmailHTTPSender
	var sms *notifinfra.SMSHTTPSender
	if cfg.Notify.BaseURL != "" {
		email = notifinfra.NewEmailHTTPSender(cfg.Notify.BaseURL, cfg.Notify.APIKey, cfg.Notify.EmailFrom, cfg.Notify.Timeout, nil)
		sms = notifinfra.NewSMSHTTPSender(cfg.Notify.BaseURL, cfg.Notify.APIKey, cfg.Notify.SMSSender, cfg.Notify.Timeout, nil)
	} else {
		slog.Warn("no notification base url configured, confirmations and cancellations will not be sent")
	}
	notifier := notifinfra.NewCustomerNotifier(email, sms)

	// Use cases.
	lifecycleUC := usecase.NewLifecycleUseCase(store, notifier, cache, listener)
	assignUC := usecase.NewAssignUseCase(store, cache, listener)

	// Broker consumers funnel change events into the refresh path.
	registry := rtinfra.NewHandlerRegistry()
	for _, topic := range handler.StreamTopics() {
		registry.Register(handler.NewReservationStreamHandler(topic, listener, broadcastUC))
	}
	broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics())

	go listener.Run(ctx)

	// Auth.
	validator := auth.NewJWTValidator(cfg.Security.JWTSecret)
	issuer := auth.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.StaffPassword, cfg.Security.TokenTTL)

	// HTTP surface.
	e := echo.New()
	e.HideBanner = true
	e.Use(metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok", "clients": hub.ClientCount()})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/api/v1/auth/login", authtransport.NewLoginHandler(issuer))

	api := e.Group("/api/v1", authtransport.RequireStaff(validator))
	restransport.NewReservationHandler(lifecycleUC, assignUC, store).Register(api)
	tabletransport.NewFloorHandler(cache).Register(api)

	wsHandler := rttransport.NewFloorStreamHandler(hub, validator, cache, cfg.Websocket.SendBuffer)
	e.GET("/ws/floor/:token", wsHandler)
	e.GET("/ws/floor", wsHandler)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
}
