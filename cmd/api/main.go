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
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	appHTTP "github.com/cmlabs-hris/timekeeper-go/internal/handler/http"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/email"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/queue"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sms"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/postgresql"
	accountService "github.com/cmlabs-hris/timekeeper-go/internal/service/account"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	serviceAuth "github.com/cmlabs-hris/timekeeper-go/internal/service/auth"
	correctionService "github.com/cmlabs-hris/timekeeper-go/internal/service/correction"
	employeeService "github.com/cmlabs-hris/timekeeper-go/internal/service/employee"
	"github.com/cmlabs-hris/timekeeper-go/internal/service/file"
	handoverService "github.com/cmlabs-hris/timekeeper-go/internal/service/handover"
	leaveService "github.com/cmlabs-hris/timekeeper-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/timekeeper-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/timekeeper-go/internal/service/report"
	rosterService "github.com/cmlabs-hris/timekeeper-go/internal/service/roster"
	settingsService "github.com/cmlabs-hris/timekeeper-go/internal/service/settings"
	timeEntryService "github.com/cmlabs-hris/timekeeper-go/internal/service/timeentry"
	timesheetService "github.com/cmlabs-hris/timekeeper-go/internal/service/timesheet"
	weeklockService "github.com/cmlabs-hris/timekeeper-go/internal/service/weeklock"
	"golang.org/x/sync/errgroup"
)

// repositories is the storage backend picked by DB_DRIVER.
type repositories struct {
	tx          database.Transactor
	users       user.UserRepository
	entries     timeentry.TimeEntryRepository
	rosters     roster.RosterRepository
	corrections correction.CorrectionRepository
	leaves      leave.LeaveRequestRepository
	weeks       weeklock.WeekApprovalRepository
	settings    settings.SettingsRepository
	logs        audit.ActivityLogRepository
	handovers   handover.MessageRepository
	tokens      passwordreset.TokenRepository
	ping        appHTTP.HealthCheck
	close       func()
}

func openRepositories(ctx context.Context, cfg *config.Config, loc *time.Location) (*repositories, error) {
	if cfg.Database.Driver == "memory" {
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:          store.Transactor(),
			users:       store.Users(),
			entries:     store.TimeEntries(),
			rosters:     store.Rosters(),
			corrections: store.Corrections(),
			leaves:      store.LeaveRequests(),
			weeks:       store.WeekApprovals(),
			settings:    store.Settings(),
			logs:        store.ActivityLogs(),
			handovers:   store.Handovers(),
			tokens:      store.ResetTokens(),
			ping:        func(ctx context.Context) bool { return true },
			close:       func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &repositories{
		tx:          postgresql.NewTransactor(db),
		users:       postgresql.NewUserRepository(db),
		entries:     postgresql.NewTimeEntryRepository(db, loc),
		rosters:     postgresql.NewRosterRepository(db, loc),
		corrections: postgresql.NewCorrectionRepository(db, loc),
		leaves:      postgresql.NewLeaveRequestRepository(db, loc),
		weeks:       postgresql.NewWeekApprovalRepository(db, loc),
		settings:    postgresql.NewSettingsRepository(db),
		logs:        postgresql.NewActivityLogRepository(db),
		handovers:   postgresql.NewHandoverRepository(db, loc),
		tokens:      postgresql.NewResetTokenRepository(db),
		ping:        func(ctx context.Context) bool { return db.Ping(ctx) == nil },
		close:       db.Close,
	}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.App.LogLevel))
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, loc)
	if err != nil {
		log.Fatal(err)
	}
	defer repos.close()

	m := metrics.New()
	checks := map[string]appHTTP.HealthCheck{"database": repos.ping}

	// Notification queue
	var q queue.Queue
	switch cfg.Queue.Backend {
	case "redis":
		rdb := database.NewRedis(cfg.Redis)
		defer rdb.Close()
		q = queue.NewRedisQueue(rdb.Client, cfg.Queue.Key)
		checks["redis"] = rdb.Healthy
	default:
		q = queue.NewInMemory(cfg.Queue.Size)
	}

	mailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	dispatcher := notificationService.NewDispatcher(q, map[notification.Channel]notification.Sender{
		notification.ChannelEmail: mailer,
		notification.ChannelSMS:   sms.NewSender(cfg.SMS),
	}, m, notificationService.Config{
		WorkerCount: cfg.Queue.WorkerCount,
		MaxAttempts: cfg.Queue.MaxAttempts,
	})

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service:", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileService := file.NewFileService(fileStorage)

	// Services
	auditSvc := auditService.NewAuditService(repos.logs)
	settingsSvc := settingsService.NewSettingsService(repos.settings, cfg.Settings, auditSvc)
	ledger := weeklockService.NewLedger(repos.weeks)

	authSvc := serviceAuth.NewAuthService(repos.tx, repos.users, repos.tokens, repos.rosters,
		JWTService, settingsSvc, dispatcher, auditSvc, cfg.Auth, cfg.App.PublicURL)
	accountSvc := accountService.NewAccountService(repos.users, fileService, auditSvc)
	employeeSvc := employeeService.NewEmployeeService(repos.tx, repos.users, auditSvc,
		repos.entries, repos.rosters, repos.corrections, repos.leaves, repos.weeks, repos.handovers, repos.tokens)
	timeEntrySvc := timeEntryService.NewTimeEntryService(repos.tx, repos.entries, repos.users, settingsSvc, ledger, auditSvc, dispatcher, m, loc)
	timesheetSvc := timesheetService.NewTimesheetService(repos.tx, repos.entries, settingsSvc, ledger, auditSvc, m, loc)
	correctionSvc := correctionService.NewCorrectionService(repos.tx, repos.corrections, repos.entries, ledger, auditSvc, m, loc)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, auditSvc, m)
	rosterSvc := rosterService.NewRosterService(repos.tx, repos.rosters, repos.users, auditSvc, loc)
	reportSvc := reportService.NewReportService(repos.entries, repos.users, settingsSvc, ledger, auditSvc, loc)
	handoverSvc := handoverService.NewHandoverService(repos.handovers, sse.NewHub(), loc)

	router := appHTTP.NewRouter(cfg.App, cfg.Storage.BasePath, JWTService, repos.users, m, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Account:    appHTTP.NewAccountHandler(accountSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		TimeEntry:  appHTTP.NewTimeEntryHandler(timeEntrySvc, loc),
		Dashboard:  appHTTP.NewDashboardHandler(timeEntrySvc, rosterSvc, settingsSvc),
		Timesheet:  appHTTP.NewTimesheetHandler(timesheetSvc),
		Correction: appHTTP.NewCorrectionHandler(correctionSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Roster:     appHTTP.NewRosterHandler(rosterSvc, loc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
		Report:     appHTTP.NewReportHandler(reportSvc, loc),
		Audit:      appHTTP.NewAuditHandler(auditSvc),
		Handover:   appHTTP.NewHandoverHandler(handoverSvc),
		Health:     appHTTP.NewHealthHandler(checks),
	})

	scheduler := cron.NewScheduler()
	cron.NewCleanupJobs(authSvc, JWTService).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	if cfg.Queue.Embedded {
		g.Go(func() error {
			return dispatcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
