package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/username/opodatkuvayco/backend/src/config"
	"github.com/username/opodatkuvayco/backend/src/handlers"
	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/observability"
	"github.com/username/opodatkuvayco/backend/src/parsers"
	"github.com/username/opodatkuvayco/backend/src/processors"
	"github.com/username/opodatkuvayco/backend/src/security"
	"github.com/username/opodatkuvayco/backend/src/services"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				utils.SendJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				logger.L.Warn("Rate limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"remoteAddr", r.RemoteAddr)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, X-Request-ID")
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func main() {
	if err := config.LoadConfig(); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Tax report backend server starting...")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	logger.L.Info("Initializing exchange rate source...")
	converter, closeRates, err := services.NewConverter(config.Cfg, metrics)
	if err != nil {
		logger.L.Error("Failed to initialize exchange rate source", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeRates(); err != nil {
			logger.L.Error("Failed to close rate store", "error", err)
		}
	}()

	logger.L.Info("Initializing services and handlers...")
	parser, err := parsers.GetParser(parsers.DefaultSource)
	if err != nil {
		logger.L.Error("Failed to initialize report parser", "error", err)
		os.Exit(1)
	}
	reportService := services.NewReportService(
		parser,
		processors.NewStockProcessor(converter),
		processors.NewDividendProcessor(converter),
		metrics,
	)
	reportHandler := handlers.NewReportHandler(reportService, config.Cfg.MaxUploadSizeBytes)
	dividendHandler := handlers.NewDividendHandler(reportService, config.Cfg.MaxUploadSizeBytes)

	protect := func(h http.HandlerFunc) http.Handler { return h }
	if config.Cfg.JWTSecret != "" {
		authMiddleware := handlers.AuthMiddleware(security.NewAuthService(config.Cfg.JWTSecret))
		protect = func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }
		logger.L.Info("Bearer token authentication enabled for report routes")
	}

	logger.L.Info("Configuring routes...")
	mux := http.NewServeMux()
	mux.Handle("POST /api/report", protect(reportHandler.HandleShortReport))
	mux.Handle("POST /api/report/extended", protect(reportHandler.HandleExtendedReport))
	mux.Handle("POST /api/report/previous", protect(reportHandler.HandlePreviousDeals))
	mux.Handle("POST /api/dividends", protect(dividendHandler.HandleDividends))
	mux.HandleFunc("GET /api/health", handlers.HandleHealth)
	mux.Handle("GET /metrics", observability.Handler(registry))

	logger.L.Info("Applying global middleware...")
	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RequestRateLimit), config.Cfg.RequestBurst)
	finalHandler := enableCORS(config.Cfg.CORSOrigin)(
		rateLimitMiddleware(limiter)(
			handlers.RequestIDMiddleware(
				handlers.MetricsMiddleware(metrics)(mux))))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  config.Cfg.ReadTimeout,
		WriteTimeout: config.Cfg.WriteTimeout,
		IdleTimeout:  config.Cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.L.Info("Shutdown signal received, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Graceful shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	<-shutdownDone
	logger.L.Info("Server stopped gracefully.")
}
