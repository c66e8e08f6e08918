// File: agendapro/main.go
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agendapro/config"
	recordsRepo "agendapro/database/repository/records"
	"agendapro/handlers"
	"agendapro/middleware"
	"agendapro/routes"
	"agendapro/services/booking"
	"agendapro/services/feed"
	ai "agendapro/services/intelligence"
	"agendapro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stopMonitors := context.WithCancel(context.Background())
	defer stopMonitors()

	// record store and startup state
	store, err := recordsRepo.Open(rootCtx, config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open %s record store: %v", config.AppConfig.StoreDriver, err)
	}
	state, err := recordsRepo.LoadState(rootCtx, store)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load records: %v", err)
	}
	utils.StartHealthMonitor(rootCtx, store, 30*time.Second)

	// services.
	flusher := recordsRepo.NewFlusher(store)
	broadcaster := feed.NewBroadcaster()
	engine := booking.NewEngine(state, flusher, broadcaster)

	provider, closeProvider := newProvider(rootCtx, logger)
	defer closeProvider()
	assistant := ai.NewAssistant(provider, engine, ai.NewContextStore(), ai.Config{
		BasePrompt:  config.AppConfig.AssistantSystemPrompt,
		TurnTimeout: config.AppConfig.AssistantTurnTimeout,
	})

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewScheduleHandler(engine),
		handlers.NewFeedHandler(broadcaster),
		handlers.NewAssistantHandler(assistant),
		handlers.NewRevenueHandler(engine, time.Now),
	)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestContext())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(rootCtx))

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3001"
	}
	srv := newServer(rootCtx, "0.0.0.0:"+port, router)

	logger.Sugar().Infof("Starting server on %s (store=%s, assistant=%t)...",
		srv.Addr, config.AppConfig.StoreDriver, assistant.HasProvider())
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopMonitors()

	shutdown(logger, 10*time.Second,
		shutdownStep{"server", srv.Shutdown},
		shutdownStep{"pending writes", flusher.Close},
		shutdownStep{"record store", store.Close},
	)

	logger.Sugar().Info("main: server stopped gracefully")
}

// newServer serves handler with request contexts derived from ctx, so
// cancelling ctx ends long-lived streams before Shutdown waits on them.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}

type shutdownStep struct {
	name string
	run  func(context.Context) error
}

// shutdown runs each step in order under its own timeout.
func shutdown(logger *zap.Logger, timeout time.Duration, steps ...shutdownStep) {
	for _, step := range steps {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := step.run(ctx); err != nil {
			logger.Error("main: shutdown step failed", zap.String("step", step.name), zap.Error(err))
		}
		cancel()
	}
}

// newProvider builds the configured completion provider. A missing key leaves the
// assistant without one; chat endpoints then report missing_api_key.
func newProvider(ctx context.Context, logger *zap.Logger) (ai.Provider, func()) {
	noop := func() {}
	key := config.AssistantAPIKey()
	if key == "" {
		logger.Warn("No assistant API key configured", zap.String("provider", config.AppConfig.AssistantProvider))
		return nil, noop
	}

	switch config.AppConfig.AssistantProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(ctx, key, config.AppConfig.AssistantModel)
		if err != nil {
			logger.Error("Failed to create Gemini client", zap.Error(err))
			return nil, noop
		}
		return client, func() { _ = client.Close() }
	default:
		client, err := ai.NewOpenAIClient(key, config.AppConfig.AssistantModel,
			ai.WithBaseURL(config.AppConfig.OpenAIBaseURL),
			ai.WithProject(config.AppConfig.OpenAIProject),
		)
		if err != nil {
			logger.Error("Failed to create OpenAI client", zap.Error(err))
			return nil, noop
		}
		return client, noop
	}
}
