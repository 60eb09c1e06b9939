package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/specplot/internal/api"
	"github.com/RMahshie/specplot/internal/config"
	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/internal/repository/memory"
	"github.com/RMahshie/specplot/internal/storage"
	"github.com/RMahshie/specplot/internal/web"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	level, _ := config.ParseLevel(cfg.Server.LogLevel)
	zerolog.SetGlobalLevel(level)

	format, err := render.ParseFormat(cfg.Chart.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid CHART_FORMAT")
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize artifact store")
	}

	svc := processing.NewService(memory.NewSessionRepository(), store, processing.Options{
		SmoothWindow: cfg.Analysis.SmoothWindow,
		SmoothOrder:  cfg.Analysis.SmoothOrder,
		Render: render.Options{
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
			Format: format,
		},
		SessionKeys: cfg.Storage.Backend != config.BackendLocal,
	})

	dashboard, err := web.NewApp(web.Config{
		SmoothWindow: cfg.Analysis.SmoothWindow,
		SmoothOrder:  cfg.Analysis.SmoothOrder,
		MaxUpload:    cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dashboard")
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("specplot API", api.Version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	api.RegisterRoutes(humaAPI, svc, cfg.Server.MaxUploadBytes)
	dashboard.Routes(router)

	// Locally published charts are served back from the output directory
	if local, ok := store.(*storage.LocalStore); ok {
		fileServer := http.FileServer(http.Dir(local.Root()))
		router.Handle("/artifacts/*", http.StripPrefix("/artifacts/", fileServer))
	}

	// Serve OpenAPI spec at /api/openapi.json
	router.Get("/api/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		spec, err := humaAPI.OpenAPI().MarshalJSON()
		if err != nil {
			http.Error(w, "Failed to generate OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Write(spec)
	})

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           http.MaxBytesHandler(router, cfg.Server.MaxUploadBytes+1<<20),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Server.Env).
			Str("storage", cfg.Storage.Backend).
			Msg("Starting specplot server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
