package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/api/routes"
	"github.com/huydotcode/handbook-server-sub001/internal/config"
	"github.com/huydotcode/handbook-server-sub001/internal/core/feeds"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	"github.com/huydotcode/handbook-server-sub001/internal/core/posts"
	"github.com/huydotcode/handbook-server-sub001/internal/core/socialgraph"
	"github.com/huydotcode/handbook-server-sub001/internal/db/memory"
	"github.com/huydotcode/handbook-server-sub001/internal/db/migrations"
	postgresRepo "github.com/huydotcode/handbook-server-sub001/internal/db/postgres"
)

// repositories is the storage wiring shared by both backends
type repositories struct {
	posts        posts.Repository
	interactions interactions.Repository
	graph        socialgraph.Provider
	close        func() error
}

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize storage", slog.String("backend", cfg.StorageBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := repos.close(); err != nil {
			slog.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	feedCfg := feeds.Config{DefaultPageSize: cfg.DefaultPageSize, MaxPageSize: cfg.MaxPageSize}
	interactionService := interactions.NewInteractionService(repos.interactions)
	services := routes.Services{
		Feeds:        feeds.NewFeedService(repos.posts, repos.graph, interactionService, feedCfg),
		Posts:        posts.NewPostService(repos.posts, repos.graph),
		Interactions: interactionService,
		FeedConfig:   feedCfg,
	}

	if cfg.AuthSkipVerify {
		slog.Warn("AUTH_SKIP_VERIFY is enabled, token signatures are not checked")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret, cfg.AuthSkipVerify)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(routes.CORS(cfg.CORSAllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	r.Use(rateLimiter.Middleware)

	r.Mount("/api/v1", routes.APIRoutes(services, authMiddleware))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Warn("failed to write health response", slog.String("error", err.Error()))
		}
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", slog.String("error", err.Error()))
		}
	}()

	slog.Info("handbook server starting",
		slog.String("port", cfg.Port),
		slog.String("backend", cfg.StorageBackend),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("handbook server stopped")
}

func openRepositories(ctx context.Context, cfg config.Config) (*repositories, error) {
	if cfg.StorageBackend == config.BackendMemory {
		store := memory.NewStore()
		if cfg.SeedDemoData {
			if err := memory.Seed(ctx, store); err != nil {
				return nil, err
			}
			slog.Info("seeded demo data",
				slog.String("alice", memory.SeedAliceID.String()),
				slog.String("bob", memory.SeedBobID.String()),
				slog.String("carol", memory.SeedCarolID.String()),
			)
		}
		return &repositories{
			posts:        memory.NewPostRepository(store),
			interactions: memory.NewInteractionRepository(store),
			graph:        memory.NewSocialGraphRepository(store),
			close:        func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("connected to database")

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("migrations completed successfully")

	return &repositories{
		posts:        postgresRepo.NewPostRepository(db),
		interactions: postgresRepo.NewInteractionRepository(db),
		graph:        postgresRepo.NewSocialGraphRepository(db),
		close:        db.Close,
	}, nil
}
