package main

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mansurxan1/hadiya/internal/api"
	"github.com/Mansurxan1/hadiya/internal/clients/click"
	"github.com/Mansurxan1/hadiya/internal/clients/mailer"
	"github.com/Mansurxan1/hadiya/internal/clients/telegram"
	"github.com/Mansurxan1/hadiya/internal/notifier"
	"github.com/Mansurxan1/hadiya/internal/repository"
	"github.com/Mansurxan1/hadiya/internal/service"
	"github.com/Mansurxan1/hadiya/pkg/broker"
	"github.com/Mansurxan1/hadiya/pkg/config"
	"github.com/Mansurxan1/hadiya/pkg/job"
	"github.com/Mansurxan1/hadiya/pkg/logger"
	"github.com/Mansurxan1/hadiya/pkg/postgres"
	"github.com/Mansurxan1/hadiya/pkg/security"
)

const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 30 * time.Second
	ShutdownTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	panicOnErr("create logger", err)

	repo, closeRepo := newRepository(ctx, cfg)
	defer closeRepo()

	if missing := cfg.Click.Missing(); len(missing) != 0 {
		slog.WarnContext(ctx, "click is not configured, payments will be rejected", "missing", missing)
	}

	notifiers := notifier.Multi{}

	var opts []service.Option

	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewClient(cfg.Telegram)
		opts = append(opts, service.WithTelegram(bot))

		if cfg.Telegram.Enabled() {
			notifiers = append(notifiers, notifier.NewTelegram(bot))
		}
	}

	if cfg.Mailer.Enabled() {
		notifiers = append(notifiers, notifier.NewMail(mailer.New(cfg.Mailer)))
	}

	if len(cfg.Kafka.Brokers) != 0 {
		producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.OrderEventsTopic)
		defer producer.Close()

		notifiers = append(notifiers, producer)
	}

	s := service.New(repo, click.NewClient(cfg.Click), notifiers, cfg.Click, opts...)
	defer s.Wait()

	jobs := job.NewScheduler().
		TryRegister(cfg.Jobs.Enabled, job.Job{
			Name:     "cancel stale orders",
			Interval: cfg.Jobs.Interval,
			Run: func(ctx context.Context) error {
				return s.CancelStaleOrders(ctx, cfg.Jobs.OrderTTL)
			},
		}).
		TryRegister(cfg.Jobs.Enabled, job.Job{
			Name:     "report unfiscalized orders",
			Interval: cfg.Jobs.Interval,
			Run: func(ctx context.Context) error {
				return s.ReportUnfiscalized(ctx, cfg.Jobs.FiscalGrace)
			},
		}).
		Start(ctx)
	defer jobs.Stop()

	handler := api.NewHandler(s)
	mw := api.NewMiddleware(adminKey(cfg.Admin), cfg.Click.CallbackIPWL, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port, "store", cfg.Store.Kind)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}
	}()

	wg.Wait()
}

func newRepository(ctx context.Context, cfg config.Config) (service.Repository, func()) {
	switch cfg.Store.Kind {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres)
		panicOnErr("connect to postgres", err)

		err = postgres.UpMigrations(ctx, cfg.Postgres.DSN)
		panicOnErr("up migrations", err)

		return repository.NewPostgres(pool), pool.Close

	case config.StoreRedis:
		client, err := repository.ConnectRedis(ctx, cfg.Redis.URL)
		panicOnErr("connect to redis", err)

		return repository.NewRedis(client), func() { _ = client.Close() }

	case config.StoreMemory:
		slog.WarnContext(ctx, "orders are kept in memory and will be lost on restart")

		return repository.NewMemory(), func() {}

	default:
		log.Panicf("unknown order store %q", cfg.Store.Kind)
		return nil, nil
	}
}

// adminKey returns nil when no key is configured, which closes the admin routes.
func adminKey(cfg config.Admin) *rsa.PublicKey {
	if cfg.JWTPublicKey == "" {
		return nil
	}

	key, err := security.DecodePublicKey(cfg.JWTPublicKey)
	panicOnErr("decode admin jwt public key", err)

	return key
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
