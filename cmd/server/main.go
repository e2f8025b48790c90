// Package main - точка входа сервиса подачи и обработки заявлений (propositions).
//
// Один процесс поднимает:
// - REST API (chi) для кандидатов и гестионнеров FAC/SIC
// - Шину событий, историю действий и уведомления кандидатов
// - Планировщик фоновых задач (проверка оплат, пересчёт документов)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alem-hub/admission-workflow/config"
	"github.com/alem-hub/admission-workflow/internal/application/command"
	"github.com/alem-hub/admission-workflow/internal/application/eventhandler"
	"github.com/alem-hub/admission-workflow/internal/application/query"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/external/paiement"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/messaging"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/metrics"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/scheduler"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/scheduler/jobs"
	httpapi "github.com/alem-hub/admission-workflow/internal/interface/http"
	"github.com/alem-hub/admission-workflow/internal/interface/http/handlers"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Level:     cfg.Observability.LogLevel,
		JSON:      cfg.Observability.LogFormat == "json",
		AddSource: cfg.IsDevelopment(),
	}).With(slog.String("service", cfg.App.Name), slog.String("version", cfg.App.Version))
	slog.SetDefault(log)

	log.Info("starting admission workflow",
		"env", cfg.App.Environment,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. МЕТРИКИ
	// ─────────────────────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	metricsOn := cfg.Observability.MetricsEnabled && cfg.Features.IsEnabled(config.FeatureMetrics, nil)

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ХРАНИЛИЩЕ (PostgreSQL или память)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		propositions proposition.Repository
		documents    document.Repository
		historique   proposition.HistoriqueService
	)

	if cfg.Database.URL != "" {
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnection(ctx, postgres.Config{
			URL:               cfg.Database.URL,
			MaxConns:          cfg.Database.MaxConns,
			MinConns:          cfg.Database.MinConns,
			MaxConnLifetime:   cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime:   cfg.Database.ConnMaxIdleTime,
			HealthCheckPeriod: postgres.DefaultConfig().HealthCheckPeriod,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if cfg.Database.AutoMigrate {
			log.Info("applying database migrations...")
			if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		propositions = postgres.NewPropositionRepository(dbConn)
		documents = postgres.NewDocumentRepository(dbConn)
		historique = postgres.NewHistoriqueRepository(dbConn)
		health.AddCheck("postgres", handlers.NewPingCheck(dbConn))
		log.Info("database connection established")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory repositories")
		propositions = memory.NewPropositionRepository()
		documents = memory.NewDocumentRepository()
		historique = memory.NewHistoriqueService()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (кеш заявлений и блокировки задач)
	// ─────────────────────────────────────────────────────────────────────────
	var verrou jobs.Verrou
	if !cfg.Redis.Disabled {
		cache, err := redis.NewCache(redis.Config{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   redis.DefaultConfig().MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			// Redis is optional: the service still works without cache and locks.
			log.Warn("redis unavailable, continuing without cache", logger.Err(err))
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					log.Error("failed to close redis", logger.Err(err))
				}
			}()
			if cfg.Features.IsEnabled(config.FeatureCachePropositions, nil) {
				propositions = redis.NewCachedPropositionRepository(propositions, cache, cfg.Redis.CacheTTL, log)
			}
			verrou = redis.NewLocker(cache, cfg.Redis.LockTTL)
			health.AddOptionalCheck("redis", handlers.NewPingCheck(cache))
			log.Info("redis connection established", "addr", cfg.Redis.Addr())
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ВНЕШНИЕ СЕРВИСЫ
	// ─────────────────────────────────────────────────────────────────────────
	var paiements proposition.PaiementService
	if cfg.Paiement.BaseURL != "" {
		clientCfg := paiement.DefaultClientConfig(cfg.Paiement.BaseURL)
		clientCfg.APIKey = cfg.Paiement.APIKey
		clientCfg.Timeout = cfg.Paiement.Timeout
		clientCfg.RequestsPerSecond = cfg.Paiement.RequestsPerSecond
		clientCfg.Burst = cfg.Paiement.Burst
		clientCfg.Logger = log
		client := paiement.NewClient(clientCfg)
		paiements = client
		health.AddOptionalCheck("paiement", handlers.NewBreakerCheck(client.IsHealthy))
	} else {
		log.Warn("PAIEMENT_BASE_URL not set, using in-memory payment provider")
		paiements = memory.NewPaiementService()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ШИНА СОБЫТИЙ И ОБРАБОТЧИКИ
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	busCfg.Observer = m
	bus := messaging.NewInMemoryEventBus(busCfg)
	defer func() {
		if err := bus.Close(); err != nil {
			log.Error("failed to close event bus", logger.Err(err))
		}
	}()

	if cfg.Features.IsEnabled(config.FeatureHistorique, nil) {
		if err := eventhandler.NewHistoriqueHandler(historique, log).Register(bus); err != nil {
			return fmt.Errorf("failed to register history handler: %w", err)
		}
	}

	notifications := memory.NewNotificationService()
	notifier := eventhandler.NewNotificationHandler(propositions, notifications, log).
		WithGate(func(p *proposition.Proposition) bool {
			return cfg.Features.NotificationsFor(p.MatriculeCandidat)
		})
	if err := notifier.Register(bus); err != nil {
		return fmt.Errorf("failed to register notification handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. КОМАНДЫ И ЗАПРОСЫ
	// ─────────────────────────────────────────────────────────────────────────
	profils := memory.NewProfilTranslator()
	questions := memory.NewQuestionsSpecifiquesRepository()
	annees := memory.NewAcademicYearRepository()

	cmdDeps := command.Dependencies{
		Propositions: propositions,
		Documents:    documents,
		Profils:      profils,
		Questions:    questions,
		Annees:       annees,
		Paiements:    paiements,
		Pdf:          memory.NewPdfGenerationService(),
		Publisher:    bus,
		Observer:     m,
		Logger:       log,
	}
	qryDeps := query.Dependencies{
		Propositions: propositions,
		Documents:    documents,
		Profils:      profils,
		Questions:    questions,
		Annees:       annees,
		Historique:   historique,
		Logger:       log,
	}

	checklistHandler := command.NewChecklistHandler(cmdDeps)
	donnees := command.NewDecisionDonneesHandler(cmdDeps)
	emplacements := command.NewEmplacementsHandler(cmdDeps)
	payer := command.NewPayerFraisDossierHandler(cmdDeps)
	recalculer := command.NewRecalculerDocumentsHandler(cmdDeps)

	commands := httpapi.Commands{
		Soumettre: command.NewSoumettrePropositionHandler(cmdDeps, command.SoumettrePropositionConfig{
			MaximumPropositions: cfg.Admission.MaximumPropositions,
		}),
		ApprouverParFac:          command.NewApprouverParFacHandler(cmdDeps),
		RefuserParFac:            command.NewRefuserParFacHandler(cmdDeps),
		ApprouverParSic:          command.NewApprouverParSicHandler(cmdDeps),
		RefuserParSic:            command.NewRefuserParSicHandler(cmdDeps),
		ReclamerDocuments:        command.NewReclamerDocumentsHandler(cmdDeps),
		CompleterDocuments:       command.NewCompleterDocumentsHandler(cmdDeps),
		PayerFraisDossier:        payer,
		ModifierStatutExperience: httpapi.HandlerFunc[command.ModifierStatutExperienceCommand, *command.ChecklistResult](checklistHandler.ModifierStatutExperience),
		AuthentifierExperience:   httpapi.HandlerFunc[command.ModifierAuthentificationExperienceCommand, *command.ChecklistResult](checklistHandler.ModifierAuthentificationExperience),

		ChangerStatut:                    command.NewChangerStatutHandler(cmdDeps),
		SpecifierPaiementPlusNecessaire:  command.NewSpecifierPaiementPlusNecessaireHandler(cmdDeps),
		SpecifierConditionAcces:          httpapi.HandlerFunc[command.SpecifierConditionAccesCommand, *proposition.Proposition](donnees.SpecifierConditionAcces),
		SpecifierInformationsAcceptation: httpapi.HandlerFunc[command.SpecifierInformationsAcceptationCommand, *proposition.Proposition](donnees.SpecifierInformationsAcceptation),
		CreerEmplacement:                 httpapi.HandlerFunc[command.CreerEmplacementLibreCommand, *command.CreerEmplacementLibreResult](emplacements.Creer),
		ModifierReclamationEmplacement:   httpapi.HandlerFunc[command.ModifierReclamationEmplacementCommand, []document.EmplacementDocument](emplacements.ModifierReclamation),
		AnnulerReclamationEmplacement:    httpapi.HandlerFunc[command.AnnulerReclamationEmplacementCommand, []document.EmplacementDocument](emplacements.AnnulerReclamation),
		ModifierStatutChecklist:          httpapi.HandlerFunc[command.ModifierStatutChecklistCommand, *command.ChecklistResult](checklistHandler.ModifierStatut),
		ModifierStatutParcoursAnterieur:  httpapi.HandlerFunc[command.ModifierStatutParcoursAnterieurCommand, *command.ChecklistResult](checklistHandler.ModifierStatutParcoursAnterieur),
	}
	queries := httpapi.Queries{
		Verifier: query.NewVerifierPropositionHandler(qryDeps, query.VerifierPropositionConfig{
			MaximumPropositions: cfg.Admission.MaximumPropositions,
		}),
		VerifierCurriculum: query.NewVerifierCurriculumHandler(qryDeps),
		ListerDocuments:    query.NewListerDocumentsHandler(qryDeps),
		Rechercher:         query.NewRechercherPropositionsHandler(qryDeps),
		Historique:         query.NewHistoriqueHandler(qryDeps),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ПЛАНИРОВЩИК
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:         log,
			Timezone:       cfg.App.Location,
			TickInterval:   cfg.Scheduler.TickInterval,
			MaxHistorySize: cfg.Scheduler.MaxHistorySize,
			Observer:       m,
		})
		if err := registerJobs(sched, cfg, propositions, payer, recalculer, verrou, log); err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error("failed to stop scheduler", logger.Err(err))
			}
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.RequestTimeout = cfg.HTTP.RequestTimeout
	httpCfg.MaxBodyBytes = cfg.HTTP.MaxBodyBytes
	httpCfg.EnableMetrics = metricsOn
	httpCfg.APIKeyHeader = cfg.HTTP.APIKeyHeader
	httpCfg.APIKeyHashes = cfg.HTTP.APIKeyHashes

	deps := httpapi.Dependencies{
		Commands:      commands,
		Queries:       queries,
		Features:      cfg.Features,
		HealthChecker: health,
		Gatherer:      registry,
		Version:       cfg.App.Version,
		Logger:        log,
	}
	if metricsOn {
		deps.Observer = m
	}
	if sched != nil {
		deps.Jobs = sched
	}
	server := httpapi.NewServer(httpCfg, deps)
	errCh := server.StartAsync()

	log.Info("admission workflow is running", "addr", httpCfg.Address())

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("http server shutdown failed", logger.Err(err))
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// registerJobs регистрирует фоновые задачи, включённые флагами.
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	propositions proposition.Repository,
	payer jobs.PayeurFraisDossier,
	recalculer jobs.RecalculateurDocuments,
	verrou jobs.Verrou,
	log *slog.Logger,
) error {
	if cfg.Features.IsEnabled(config.FeatureJobVerifierPaiements, nil) {
		schedule, err := scheduler.ParseSchedule(cfg.Scheduler.VerifierPaiementsSchedule)
		if err != nil {
			return fmt.Errorf("invalid payment schedule: %w", err)
		}
		jobCfg := jobs.DefaultVerifierPaiementsConfig()
		jobCfg.Timeout = minDuration(jobCfg.Timeout, cfg.Scheduler.JobTimeout)
		job := jobs.NewVerifierPaiementsJob(propositions, payer, log, jobCfg)
		if err := sched.Register(job, schedule); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}

	if cfg.Features.IsEnabled(config.FeatureJobRecalculerDocuments, nil) {
		schedule, err := scheduler.ParseSchedule(cfg.Scheduler.RecalculerDocumentsSchedule)
		if err != nil {
			return fmt.Errorf("invalid documents schedule: %w", err)
		}
		jobCfg := jobs.RecalculerDocumentsConfig{
			Concurrency: cfg.Scheduler.RecalculConcurrency,
			Timeout:     cfg.Scheduler.JobTimeout,
		}
		job := jobs.NewRecalculerDocumentsJob(propositions, recalculer, verrou, log, jobCfg)
		if err := sched.Register(job, schedule); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}
	return nil
}

func minDuration(a, b time.Duration) time.Duration {
	if b > 0 && b < a {
		return b
	}
	return a
}
