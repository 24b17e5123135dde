package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/openlearn/coursecraft/internal/catalog"
	"github.com/openlearn/coursecraft/internal/courseapi"
	"github.com/openlearn/coursecraft/internal/platform/cache"
	"github.com/openlearn/coursecraft/internal/platform/config"
	"github.com/openlearn/coursecraft/internal/platform/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var db *database.DB
	if cfg.Database.URL != "" {
		db, err = database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	var cch *cache.Cache
	if cfg.Cache.URL != "" {
		cch, err = cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Warn("cache unavailable, serving without it", "error", err)
		} else {
			defer cch.Close()
		}
	}

	cat, err := newCatalog(cfg, cch)
	if err != nil {
		slog.Error("failed to build catalog", "error", err)
		os.Exit(1)
	}

	mux := newMux(cat, db, cch)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// newCatalog builds the course catalog: seed-file demo mode when a seed
// path is configured, otherwise the backend client with the cache in front.
func newCatalog(cfg *config.Config, cch *cache.Cache) (*catalog.Catalog, error) {
	if cfg.SeedPath != "" {
		seed, err := catalog.LoadSeed(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		cat := catalog.New(nil, nil)
		cat.SetSeed(seed)
		slog.Info("catalog seeded from file", "path", cfg.SeedPath, "courses", len(seed))
		return cat, nil
	}

	api, err := courseapi.NewClient(cfg.API.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	return catalog.New(api, cch), nil
}

// newMux creates the HTTP router.
func newMux(cat *catalog.Catalog, db *database.DB, cch *cache.Cache) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz(db, cch))
	mux.HandleFunc("GET /courses", handleCourses(cat))
	mux.HandleFunc("GET /courses/{id}", handleCourse(cat))
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(db *database.DB, cch *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.HealthCheck(r.Context()); err != nil {
				slog.Error("database not ready", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"database unavailable"}`))
				return
			}
		}
		if cch != nil {
			if err := cch.HealthCheck(r.Context()); err != nil {
				slog.Error("cache not ready", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"cache unavailable"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}

func handleCourses(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := cat.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			slog.Error("course listing failed", "error", err)
			writeJSONError(w, http.StatusBadGateway, "failed to load courses")
			return
		}
		writeJSON(w, http.StatusOK, courses)
	}
}

func handleCourse(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, err := cat.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			slog.Warn("course lookup failed", "id", r.PathValue("id"), "error", err)
			writeJSONError(w, http.StatusNotFound, "course not found")
			return
		}
		writeJSON(w, http.StatusOK, course)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
