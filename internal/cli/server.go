package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"qlo-rating-service/internal/achievement"
	"qlo-rating-service/internal/app"
	"qlo-rating-service/internal/config"
	"qlo-rating-service/internal/infra/memory"
	"qlo-rating-service/internal/infra/postgres"
	rediscache "qlo-rating-service/internal/infra/redis"
	transport "qlo-rating-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the rating server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	leaderboardTTL := config.TTLDuration(cfg.Leaderboard.TTL, 5*time.Minute)

	var deps app.Deps
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		achievements := postgres.NewAchievementRepository(db)
		if err := achievements.SeedDefinitions(ctx, achievement.DefaultCatalog()); err != nil {
			return err
		}

		deps = app.Deps{
			Ratings:      postgres.NewRatingRepository(db),
			History:      postgres.NewHistoryRepository(db),
			Records:      postgres.NewRecordRepository(db),
			Achievements: achievements,
			Resources:    app.NoopResourceCounter{},
			Population:   postgres.NewPopulationReader(pool),
		}
	} else {
		ratings := memory.NewRatingStore()
		deps = app.Deps{
			Ratings:      ratings,
			History:      memory.NewHistoryStore(),
			Records:      memory.NewRecordStore(),
			Achievements: memory.NewAchievementStore(achievement.DefaultCatalog()),
			Resources:    memory.NewStaticResourceCounter(),
			Population:   ratings,
		}
	}

	if redisClient != nil {
		deps.Population = rediscache.NewLeaderboardCache(redisClient, deps.Population, leaderboardTTL)
	}

	var opts []app.Option
	if cfg.Streak.WindowDays > 0 {
		opts = append(opts, app.WithStreakWindow(cfg.Streak.WindowDays))
	}
	service := app.NewProgressService(deps, opts...)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewHandler(service, cfg.Server.AuthToken).Register(mux)
	mux.HandleFunc("/ws/leaderboard", transport.NewWSHandler(service).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting rating service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
