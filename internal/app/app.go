package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"example.com/ciphermind/internal/auth"
	"example.com/ciphermind/internal/config"
	"example.com/ciphermind/internal/game"
	"example.com/ciphermind/internal/httpapi"
	"example.com/ciphermind/internal/session"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	rdb *redis.Client // nil when sessions are kept in memory

	sessions   *session.Service
	sweepEvery time.Duration

	srv *http.Server
}

const maxSweepInterval = time.Minute

// NewLogger builds the process logger from the log settings.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Log.Level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	// --- Session persistence ---
	var (
		rdb     *redis.Client
		persist session.Persistence
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})

		// Quick connectivity check (fail fast).
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
		}
		persist = session.NewRedisStore(rdb, cfg.Redis.SessionTTL)
		log.Info("sessions stored in redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.SessionTTL)
	} else {
		persist = session.NewMemoryStore(cfg.Redis.SessionTTL)
		log.Info("sessions stored in memory")
	}

	// --- Auth service ---
	authSvc := auth.NewService([]byte(cfg.Auth.Secret))

	// --- Game ---
	sessions := session.NewService(game.DefaultRules(), game.DefaultSource, persist, cfg.Redis.SessionTTL, log)
	games := &httpapi.GameHandler{
		Sessions: sessions,
		Tokens:   authSvc,
		Auth:     authSvc,
		TokenTTL: cfg.Auth.TokenTTL,
		Log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	games.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		log:        log,
		rdb:        rdb,
		sessions:   sessions,
		sweepEvery: min(cfg.Redis.SessionTTL, maxSweepInterval),
		srv:        srv,
	}, nil
}

// Handler exposes the routed handler, mainly for tests.
func (a *App) Handler() http.Handler { return a.srv.Handler }

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		if a.sweepEvery <= 0 {
			return nil
		}
		t := time.NewTicker(a.sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-t.C:
				if n := a.sessions.Sweep(now); n > 0 {
					a.log.Debug("idle sessions evicted", "count", n, "cached", a.sessions.Len())
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close()
	return err
}

func (a *App) Close() error {
	if a.rdb != nil {
		return a.rdb.Close()
	}
	return nil
}
