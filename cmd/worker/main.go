// Command worker drains the redis notification queue when the API runs with
// QUEUE_EMBEDDED_WORKERS=false.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/email"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/queue"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sms"
	notificationService "github.com/cmlabs-hris/timekeeper-go/internal/service/notification"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "worker")))

	if cfg.Queue.Backend != "redis" {
		log.Fatal("The standalone worker needs QUEUE_BACKEND=redis")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := database.NewRedis(cfg.Redis)
	defer rdb.Close()
	if !rdb.Healthy(ctx) {
		log.Fatal("Redis is not reachable at ", cfg.Redis.Addr)
	}

	mailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	m := metrics.New()
	dispatcher := notificationService.NewDispatcher(
		queue.NewRedisQueue(rdb.Client, cfg.Queue.Key),
		map[notification.Channel]notification.Sender{
			notification.ChannelEmail: mailer,
			notification.ChannelSMS:   sms.NewSender(cfg.SMS),
		},
		m,
		notificationService.Config{
			WorkerCount: cfg.Queue.WorkerCount,
			MaxAttempts: cfg.Queue.MaxAttempts,
		},
	)

	// Metrics only; the worker serves no API.
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port+1),
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Worker stopped")
}
