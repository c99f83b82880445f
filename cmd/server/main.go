package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/interview-prep/backend/internal/catalog"
	"github.com/interview-prep/backend/internal/config"
	"github.com/interview-prep/backend/internal/evaluator"
	"github.com/interview-prep/backend/internal/logging"
	"github.com/interview-prep/backend/internal/quiz"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const (
	sessionIdleTimeout = 2 * time.Hour
	sweepInterval      = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize question source
	var source catalog.Source
	switch cfg.Source.Driver {
	case config.SourcePostgres:
		db, err := catalog.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		source = catalog.NewSQLSource(db)
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("Question source: postgres (read-only)")
	default:
		source = catalog.NewAPIClient(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout})
		log.Info().Str("base_url", cfg.Backend.BaseURL).Msg("Question source: backend API")
	}

	eval, err := evaluator.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize evaluator")
	}

	// Initialize handlers
	registry := quiz.NewRegistry(source, eval, quiz.WithEvaluationTimeout(cfg.Evaluator.Timeout))
	quizHandler := quiz.NewHandler(registry)
	catalogHandler := catalog.NewHandler(source)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	quizHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepSessions(ctx, registry)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

func sweepSessions(ctx context.Context, registry *quiz.Registry) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(sessionIdleTimeout); n > 0 {
				log.Info().Int("removed", n).Int("active", registry.Len()).Msg("Swept idle quiz sessions")
			}
		}
	}
}
