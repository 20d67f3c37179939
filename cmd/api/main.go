package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/devconnector/devconnector-go/internal/cache"
	"github.com/devconnector/devconnector-go/internal/config"
	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/github"
	"github.com/devconnector/devconnector-go/internal/handler"
	"github.com/devconnector/devconnector-go/internal/middleware"
	"github.com/devconnector/devconnector-go/internal/repository"
	"github.com/devconnector/devconnector-go/internal/service"
)

type stores struct {
	users    service.UserStore
	profiles service.ProfileStore
	posts    service.PostStore
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.Storage == "memory" {
		mem := repository.NewMemory()
		slog.Warn("using in-memory storage, data is lost on restart")
		return stores{
			users:    mem.Users(),
			profiles: mem.Profiles(),
			posts:    mem.Posts(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}
	return stores{
		users:    repository.NewUserRepository(db),
		profiles: repository.NewProfileRepository(db),
		posts:    repository.NewPostRepository(db),
		close:    db.Close,
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(middleware.NewLogger(os.Stdout, cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := openStores(startupCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("storage unavailable", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer st.close()

	redisCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	c, err := cache.Connect(redisCtx, cfg.RedisURL)
	cancel()
	if err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		c = cache.New(nil)
	}
	defer c.Close()

	tokens := crypto.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	hasher := crypto.NewArgon2Hasher(crypto.DefaultHashParams())
	repos := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken, c)

	router := handler.NewRouter(ctx, handler.RouterConfig{
		Auth:          service.NewAuthService(st.users, hasher, tokens),
		Profiles:      service.NewProfileService(st.profiles, st.users, repos),
		Posts:         service.NewPostService(st.posts, st.users),
		Tokens:        tokens,
		AuthRateRPS:   cfg.AuthRateRPS,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage, "cache", c.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
