package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bayou-blog/internal/cache"
	"bayou-blog/internal/config"
	"bayou-blog/internal/database"
	"bayou-blog/internal/handlers"
	"bayou-blog/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	store, err := database.NewSQLStore(cfg.Database.Driver, cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.InitializeTables(ctx); err != nil {
		log.WithError(err).Fatal("Failed to initialize tables")
	}

	var pageCache cache.PageCache
	if cfg.Cache.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		pageCache = cache.NewRedisCache(rc, "bayou-blog")
		log.WithField("addr", cfg.Cache.RedisAddr).Info("Using Redis page cache")
	} else {
		pageCache = cache.NewMemoryCache()
		log.Info("Using in-process page cache")
	}

	auth := middleware.NewAuth(cfg.JWTSecret)
	server := handlers.NewServer(store, pageCache, auth, log, cfg.PageSize, cfg.Cache.TTL)

	cors := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: cors(server.Routes()),
	}

	go func() {
		log.WithField("addr", httpServer.Addr).Info("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
