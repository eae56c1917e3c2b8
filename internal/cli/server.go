package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/config"
	redisnotify "quiz-service/internal/infra/redis"
	transport "quiz-service/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seed(ctx, store, cfg); err != nil {
		return err
	}

	broadcaster := app.NewBroadcaster()
	var notifier app.Notifier = broadcaster
	var updates transport.UpdateClock

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		redisNotifier := redisnotify.NewNotifier(client, cfg.Redis.Channel, config.TTLDuration(cfg.Redis.TTL, 24*time.Hour))
		notifier = redisNotifier
		updates = redisNotifier

		ready := make(chan struct{})
		g.Go(func() error {
			return redisNotifier.Relay(gctx, broadcaster, ready)
		})
		select {
		case <-ready:
		case <-gctx.Done():
			return g.Wait()
		}
	}

	leaderboard := app.NewLeaderboardService(store)
	auth := app.NewAuthService(store, cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	router := transport.NewRouter(transport.Services{
		Quiz:        app.NewQuizService(store, leaderboard, notifier),
		Leaderboard: leaderboard,
		Auth:        auth,
		Admin:       app.NewAdminService(store, auth, leaderboard, notifier),
		Broadcaster: broadcaster,
		Updates:     updates,
	}, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g.Go(func() error {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
