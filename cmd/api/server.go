package main

import (
	"math"
	"net/http"
	"time"

	"jikanproxy/internal/anime"
	"jikanproxy/internal/httpx"
)

// upstreamCallsPerRequest is the most upstream calls one request makes: the
// base record, its relations and every episode page.
const upstreamCallsPerRequest = 2 + anime.MaxEpisodePages

const writeTimeoutMargin = 5 * time.Second

// newServer sizes WriteTimeout so that a /details request whose upstream calls
// all run up to maxCall still gets its response written.
func newServer(addr string, handler http.Handler, maxCall time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: upstreamCallsPerRequest*maxCall + writeTimeoutMargin,
		IdleTimeout:  60 * time.Second,
	}
}

// newRouter wires the anime routes, the health check and the JSON 404 onto a
// ServeMux and wraps it in the middleware chain. rateLimit may be nil.
func newRouter(svc *anime.Service, cfg config, rateLimit *httpx.RateLimitMiddleware, started time.Time) http.Handler {
	router := http.NewServeMux()

	anime.NewHTTPHandler(svc).Routes(router)

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(started).Seconds()
		httpx.JSONSuccess(w, r, map[string]interface{}{
			"ok":     true,
			"uptime": math.Round(uptime*1000) / 1000,
		}, nil)
	})

	router.Handle("/", httpx.NotFoundHandler())

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
	}
	if rateLimit != nil {
		middlewares = append(middlewares, rateLimit.Middleware)
	}

	return httpx.Chain(router, middlewares...)
}
