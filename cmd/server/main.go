package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"lab-dispatch-service/internal/adapters/proximity"
	"lab-dispatch-service/internal/adapters/repositories"
	"lab-dispatch-service/internal/api"
	"lab-dispatch-service/internal/config"
	"lab-dispatch-service/internal/domain"
	pgdb "lab-dispatch-service/internal/platform/db"
	"lab-dispatch-service/internal/ports"
	"lab-dispatch-service/internal/queue"
)

const purgeInterval = time.Hour

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(config.Get("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}

	dbPath := config.Get("DB_PATH", "data/dispatch.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/dispatch.json")
	port := config.Get("PORT", "8080")
	syncInterval, err := time.ParseDuration(config.Get("SYNC_INTERVAL", "30s"))
	if err != nil {
		log.WithError(err).Fatal("invalid SYNC_INTERVAL")
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	clinics := repositories.NewSqliteClinicRepository(db)
	pickups := repositories.NewSqlitePickupRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Action queue storage: device-local SQLite by default, the shared
	// Postgres store when several dispatch nodes sync against one database.
	var actions ports.ActionStore = repositories.NewSqliteActionStore(db)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := pgdb.Open(dbURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitSQLSchema(ctx, pg); err != nil {
			log.Fatal(err)
		}
		actions = repositories.NewSQLActionStore(pg)
		log.Info("action queue backed by postgres")
	}

	// The proximity index is optional; without Redis the nearby endpoint
	// reports unavailable and everything else runs as usual.
	var index ports.ProximityIndex
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis ping failed")
		}
		idx := proximity.NewRedisProximityIndex(client)
		if err := registerClinics(ctx, idx, clinics); err != nil {
			log.Fatal(err)
		}
		index = idx
	} else {
		log.Info("REDIS_ADDR not set; proximity index disabled")
	}

	q := queue.New(actions)
	handlers := syncHandlers(pickups)

	router := api.NewRouter(api.Deps{
		Clinics:  clinics,
		Index:    index,
		Queue:    q,
		Handlers: handlers,
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	runner := queue.NewRunner(q, handlers, syncInterval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := runner.Run(gctx); err != nil && err != context.Canceled {
			return fmt.Errorf("sync runner: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return purgeLoop(gctx, q)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
	log.Info("server stopped")
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

func registerClinics(ctx context.Context, index ports.ProximityIndex, clinics ports.ClinicRepository) error {
	all, err := clinics.ListClinics(ctx)
	if err != nil {
		return fmt.Errorf("register clinics: %w", err)
	}

	for _, c := range all {
		if err := index.Register(ctx, c.ID, c.Coordinates); err != nil {
			return fmt.Errorf("register clinics: clinic %s: %w", c.ID, err)
		}
	}

	log.WithField("count", len(all)).Info("proximity index loaded")
	return nil
}

// syncHandlers maps queued action types to their server-side effects.
func syncHandlers(pickups ports.PickupRepository) map[string]queue.Handler {
	return map[string]queue.Handler{
		"UPDATE_PICKUP_STATUS": func(ctx context.Context, payload json.RawMessage) error {
			var body struct {
				PickupID string `json:"pickup_id"`
				Status   string `json:"status"`
			}
			if err := json.Unmarshal(payload, &body); err != nil {
				return fmt.Errorf("update pickup status: decode payload: %w", err)
			}
			if body.PickupID == "" || body.Status == "" {
				return fmt.Errorf("update pickup status: pickup_id and status are required")
			}
			return pickups.UpdateStatus(ctx, body.PickupID, domain.Status(body.Status))
		},
	}
}

func purgeLoop(ctx context.Context, q *queue.Queue) error {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := q.PurgeExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("purge pass failed")
				continue
			}
			if n > 0 {
				log.WithField("purged", n).Info("expired actions removed")
			}
		}
	}
}
