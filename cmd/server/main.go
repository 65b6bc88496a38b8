package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pathwise/degree-audit/internal/audit"
	"github.com/pathwise/degree-audit/internal/catalog"
	"github.com/pathwise/degree-audit/internal/degree"
	"github.com/pathwise/degree-audit/internal/mapping"
	"github.com/pathwise/degree-audit/internal/platform/cache"
	"github.com/pathwise/degree-audit/internal/platform/config"
	"github.com/pathwise/degree-audit/internal/platform/database"
	"github.com/pathwise/degree-audit/internal/recommend"
	"github.com/pathwise/degree-audit/internal/records"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	deps, err := buildService(ctx, cfg)
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}
	defer deps.close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newMux(deps.pool, deps.redis),
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

// deps bundles the wired service and its closable connections.
type deps struct {
	service *audit.Service
	pool    *pgxpool.Pool
	redis   *redis.Client
}

func (d *deps) close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}

func buildService(ctx context.Context, cfg *config.Config) (*deps, error) {
	cat, err := catalog.Load(cfg.Data.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	programs, err := degree.NewLoader(cfg.Data.ProgramsPath)
	if err != nil {
		return nil, fmt.Errorf("loading programs: %w", err)
	}

	tables := recommend.DefaultTables()
	if cfg.Data.TablesPath != "" {
		tables, err = recommend.LoadTables(cfg.Data.TablesPath)
		if err != nil {
			return nil, fmt.Errorf("loading heuristic tables: %w", err)
		}
	}

	d := &deps{}
	serviceCfg := audit.Config{
		Catalog:     cat,
		Programs:    programs,
		Tables:      tables,
		SnapshotTTL: time.Duration(cfg.Cache.SnapshotTTL) * time.Second,
	}

	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, err
		}
		d.pool = pool

		recordStore, err := records.NewPostgresStore(pool)
		if err != nil {
			return nil, err
		}
		if err := recordStore.Migrate(ctx); err != nil {
			return nil, err
		}
		mappingStore, err := mapping.NewPostgresStore(pool)
		if err != nil {
			return nil, err
		}
		if err := mappingStore.Migrate(ctx); err != nil {
			return nil, err
		}
		serviceCfg.Records = recordStore
		serviceCfg.Mappings = mappingStore
	} else {
		slog.Info("no database configured, using in-memory stores")
	}

	if cfg.Cache.URL != "" {
		client, err := cache.Connect(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, err
		}
		d.redis = client
		serviceCfg.Cache = client
	}

	d.service = audit.New(serviceCfg)
	slog.Info("audit service ready", "courses", cat.Len())
	return d, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newMux creates the HTTP router with health check endpoints. Liveness is
// unconditional; readiness pings the database and cache when configured.
func newMux(pool *pgxpool.Pool, client *redis.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz(pool, client))
	return mux
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(pool *pgxpool.Pool, client *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"database unavailable"}`))
				return
			}
		}
		if client != nil {
			if err := client.Ping(ctx).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"cache unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
