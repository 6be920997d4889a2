package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"solace/config"
	"solace/controllers"
	"solace/internal/logger"
	"solace/internal/ratelimit"
	"solace/middlewares"
	"solace/routes"
	"solace/services"
	"solace/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "path to the YAML config file")
	flag.Parse()

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	classifier, err := services.NewClassifierFromConfig(cfg, zapLog)
	if err != nil {
		zapLog.Fatal("failed to build classifier", zap.Error(err))
	}
	supportService := services.NewSupportService(classifier, zapLog)

	// Redis is optional. Without it the service runs with rate limiting
	// disabled rather than refusing to start.
	if cfg.Redis.Addr != "" {
		if err := ratelimit.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			zapLog.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		}
	}
	limiter := ratelimit.NewLimiter(ratelimit.GetRedisClient(), ratelimit.Config{
		MaxMessages: cfg.RateLimit.MaxMessages,
		Window:      time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	})

	controllers.InitChatController(supportService, cfg)
	websocket.Init(supportService, limiter, zapLog)

	router := setupRouter(cfg, limiter)
	port := strconv.Itoa(cfg.Server.Port)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		zapLog.Info("server starting", zap.String("port", port),
			zap.String("provider", cfg.Classifier.Provider))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, closing chat sessions")
	websocket.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped gracefully")
}

func setupRouter(cfg *config.Config, limiter *ratelimit.Limiter) *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.Use(middlewares.SessionMiddleware())

	// The chat page and its assets
	router.StaticFile("/", "./static/index.html")
	router.Static("/static", "./static")

	api := router.Group("/api")
	{
		routes.SetupChatRoutes(api, limiter)
	}

	// WebSocket chat endpoint
	router.GET("/ws/chat", websocket.ChatHandler)

	router.GET("/healthz", controllers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
