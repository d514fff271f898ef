package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jikanproxy/internal/cache"
	"jikanproxy/internal/platform/jikan"
)

type config struct {
	Addr               string
	Jikan              jikan.Config
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
	LogFile            string
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func loadConfig() config {
	loadEnvFiles()

	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return config{
		Addr: getEnv("APP_ADDR", addr),
		Jikan: jikan.Config{
			BaseURL:    getEnv("JIKAN_BASE_URL", jikan.DefaultBaseURL),
			UserAgent:  getEnv("JIKAN_USER_AGENT", jikan.DefaultUserAgent),
			Timeout:    getDuration("JIKAN_TIMEOUT", jikan.DefaultTimeout),
			MaxRetries: getInt("JIKAN_MAX_RETRIES", 0),
		},
		CacheTTL:           getDuration("CACHE_TTL", cache.DefaultTTL),
		CacheSweepInterval: getDuration("CACHE_SWEEP_INTERVAL", cache.DefaultSweepInterval),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LogFile:            os.Getenv("LOG_FILE"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("config: invalid %s=%q, using %g", key, v, def)
		return def
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
