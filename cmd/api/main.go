package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/activities"
	"crm_backend/internal/adapters"
	"crm_backend/internal/comments"
	"crm_backend/internal/companies"
	"crm_backend/internal/contacts"
	"crm_backend/internal/deals"
	"crm_backend/internal/email"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/http/router"
	"crm_backend/internal/leads"
	leadrepo "crm_backend/internal/leads/repository"
	"crm_backend/internal/metrics"
	"crm_backend/internal/notification"
	"crm_backend/internal/reports"
	"crm_backend/internal/scheduler"
	"crm_backend/internal/team"
	"crm_backend/platform/broker"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, cfg.GetMigrationsDir())
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	go metrics.ObservePool(ctx, pool, 15*time.Second)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	metrics.NewRecorder().RegisterHandlers(eventBus)

	if closeRelay := initEventRelay(cfg, eventBus, log); closeRelay != nil {
		defer closeRelay()
	}

	if closeScheduler := initFollowUpScheduler(cfg, eventBus, log); closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	companiesModule := companies.NewModule(pool, val, log)

	dealsModule, err := deals.NewModule(pool, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize deals module", "error", err)
		panic("failed to initialize deals module: " + err.Error())
	}

	teamModule := team.NewModule(pool, leadrepo.New(pool), val, log)
	teamDirectory := adapters.NewTeamDirectory(teamModule.Repository())

	leadsModule, err := leads.NewModule(pool, eventBus, val, leads.Dependencies{
		Team:      teamDirectory,
		Deals:     adapters.NewDealCreator(dealsModule.Service()),
		Companies: adapters.NewCompanyCreator(companiesModule.Service()),
	}, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	contactsModule := contacts.NewModule(pool, adapters.NewCompanyNames(companiesModule.Repository()), val, log)
	activitiesModule := activities.NewModule(pool, eventBus, val, log)
	commentsModule := comments.NewModule(pool, adapters.NewLeadDirectory(leadsModule.Repository()), teamDirectory, eventBus, val, log)
	reportsModule := reports.NewModule(pool, log)

	notificationModule := notification.New(pool, email.NewSender(cfg), teamDirectory, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			teamModule,
			leadsModule,
			dealsModule,
			companiesModule,
			contactsModule,
			activitiesModule,
			commentsModule,
			notificationModule,
			reportsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		notificationModule.SSE().Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initEventRelay mirrors domain events to RabbitMQ when a broker is configured.
func initEventRelay(cfg config.BrokerConfig, bus *events.InMemoryBus, log *logger.Logger) func() {
	if !cfg.IsBrokerEnabled() {
		log.Info("RABBITMQ_URL not configured; event relay disabled")
		return nil
	}

	mq, err := broker.NewRabbitMQ(cfg)
	if err != nil {
		log.Error("failed to connect event relay", "error", err)
		return nil
	}

	events.NewRelay(mq, log).Register(bus)
	return func() {
		_ = mq.Close()
	}
}

func initFollowUpScheduler(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) func() {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil
	}

	scheduler.NewFollowUpSubscriber(client, log).RegisterHandlers(bus)
	return func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
