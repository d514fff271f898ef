package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"jikanproxy/internal/anime"
	"jikanproxy/internal/cache"
	"jikanproxy/internal/httpx"
	"jikanproxy/internal/platform/jikan"
)

func main() {
	started := time.Now()
	cfg := loadConfig()

	if cfg.LogFile != "" {
		logFile := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	}

	responseCache := cache.New[any](cfg.CacheTTL, cfg.CacheSweepInterval)
	defer responseCache.Close()

	jikanClient := jikan.NewClient(cfg.Jikan)
	animeService := anime.NewService(jikanClient, responseCache)

	var rateLimit *httpx.RateLimitMiddleware
	if cfg.RateLimitRPS > 0 {
		rateLimit = httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
		defer rateLimit.Close()
	}

	router := newRouter(animeService, cfg, rateLimit, started)
	httpServer := newServer(cfg.Addr, router, jikanClient.MaxCallDuration())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s upstream=%s", cfg.Addr, cfg.Jikan.BaseURL)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}
	log.Printf("server stopped")
}
