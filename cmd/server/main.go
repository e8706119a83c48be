package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/lib/pq"

	"conferencescheduler/config"
	_ "conferencescheduler/docs"
	"conferencescheduler/internal/adapters/auth"
	"conferencescheduler/internal/adapters/email"
	"conferencescheduler/internal/adapters/metrics"
	"conferencescheduler/internal/adapters/sessionize"
	deliveryhttp "conferencescheduler/internal/delivery/http"
	"conferencescheduler/internal/delivery/http/controllers"
	"conferencescheduler/internal/domain"
	"conferencescheduler/internal/repository/memory"
	"conferencescheduler/internal/repository/postgres"
	"conferencescheduler/internal/services"
)

// @title Conference Scheduler API
// @version 1.0
// @description Rooms, speakers and attendees booked together, or not at all.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var registryOpts []memory.RegistryOption
	if cfg.EventAttendeeLimit > 0 {
		registryOpts = append(registryOpts, memory.WithAttendeeLimit(cfg.EventAttendeeLimit))
	}
	accounts := memory.NewAccountStore()
	rooms := memory.NewRoomStore()
	events := memory.NewEventRegistry(registryOpts...)

	m := metrics.New()
	for _, g := range []struct {
		name, help string
		fn         func() float64
	}{
		{"events", "Scheduled events", func() float64 { return float64(len(events.All())) }},
		{"rooms", "Registered rooms", func() float64 { return float64(len(rooms.List())) }},
		{"accounts", "Registered accounts", func() float64 { return float64(accounts.Count()) }},
	} {
		if err := m.Gauge(g.name, g.help, g.fn); err != nil {
			return fmt.Errorf("register %s gauge: %w", g.name, err)
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.AWSInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("parse email templates: %w", err)
	}
	notifier := services.NewEmailNotifier(mailer, renderer, logger)

	jwt := auth.NewJWT(cfg.JWTSecret)
	accountSvc := services.NewAccountService(accounts, auth.NewBcryptHasher(cfg.BcryptCost), jwt, cfg.JWTExpiry, logger)
	scheduler := services.NewSchedulingService(accounts, rooms, events, notifier, m, logger)
	queries := services.NewScheduleQueryService(events, accounts)
	importer := services.NewManageScheduleService(
		sessionize.NewHTTPFetcher(&http.Client{Timeout: cfg.RequestTimeout}, cfg.SessionizeBaseURL),
		scheduler, rooms, accounts,
		domain.ImportDefaults{
			RoomCapacity:  cfg.DefaultRoomCapacity,
			RoomHours:     cfg.DefaultRoomHours,
			EventCapacity: cfg.DefaultEventCapacity,
			Location:      cfg.Location,
		},
		logger, cfg.RequestTimeout,
	)

	repo, closeRepo, err := openSnapshots(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()
	sessions := services.NewSessionService(repo, accounts, rooms, events, scheduler, logger, cfg.RequestTimeout)
	if _, err := sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore schedule: %w", err)
	}
	if err := accountSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:     controllers.NewAuthController(logger, accountSvc),
		Rooms:    controllers.NewRoomController(logger, services.NewRoomService(rooms, accounts, logger), queries),
		Events:   controllers.NewEventController(logger, scheduler, cfg.Location),
		Schedule: controllers.NewScheduleController(logger, queries, cfg.Location),
		Session:  controllers.NewSessionController(logger, sessions, importer),
	}, deliveryhttp.RouterDeps{
		Logger:   logger,
		Verifier: jwt,
		Accounts: accountSvc,
		Metrics:  m.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.Wrap(mux, logger, m, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment, "persistence", cfg.DBUrl != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	if cfg.PersistOnShutdown {
		if _, err := sessions.Save(shutdownCtx); err != nil {
			return fmt.Errorf("save on shutdown: %w", err)
		}
	}
	return nil
}

// openSnapshots picks Postgres when DATABASE_URL is set and an in-process store otherwise.
func openSnapshots(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.SnapshotRepository, func(), error) {
	if cfg.DBUrl == "" {
		logger.Warn("DATABASE_URL not set, snapshots are kept in memory only")
		return memory.NewSnapshotStore(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	repo := postgres.NewSnapshotRepository(db, cfg.Location)
	if err := repo.EnsureSchema(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, func() { _ = db.Close() }, nil
}
